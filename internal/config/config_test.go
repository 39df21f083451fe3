package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mkarpin/dcabot/internal/apperrors"
)

const validYAML = `
chain:
  name: polygon
  id: 137
  rpc_url: https://polygon-rpc.com
paraswap_url: https://apiv5.paraswap.io
spender: "0x216B4B4Ba9F3e719726886d34a177484278Bfcae"
vault_address: "0xA013Fbd4b711f9ded6fB09C1c0d358E2FbC2EAA0"
source_asset:
  address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
  decimals: 6
  symbol: USDC
amount: "100"
allocations:
  - asset:
      address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"
      decimals: 6
      symbol: USDT
    percentage: "60"
  - asset:
      address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"
      decimals: 18
      symbol: DAI
    percentage: "40"
thresholds:
  price_impact: "0.02"
  slippage_bps: 75
native_usd_price: "0.45"
withdraw_mode: shortfall
fee_mode: legacy
schedule: "@daily"
run_timeout: 5m
log:
  level: debug
  pretty: true
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses full config", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(writeConfig(t, validYAML))
		require.NoError(t, err)

		require.Equal(t, int64(137), cfg.Chain.ID)
		require.Equal(t, common.HexToAddress("0x216B4B4Ba9F3e719726886d34a177484278Bfcae"), cfg.Spender)
		require.Equal(t, "USDC", cfg.SourceAsset.Symbol)
		require.Equal(t, int32(6), cfg.SourceAsset.Decimals)
		require.True(t, cfg.Amount.Equal(decimal.NewFromInt(100)))

		require.Len(t, cfg.Weights, 2)
		require.Equal(t, "USDT", cfg.Weights[0].Asset.Symbol)
		require.True(t, cfg.Weights[0].Percentage.Equal(decimal.NewFromInt(60)))

		require.Equal(t, 75, cfg.SlippageBps)
		require.Equal(t, WithdrawModeShortfall, cfg.WithdrawMode)
		require.Equal(t, FeeModeLegacy, cfg.FeeMode)
		require.Equal(t, "@daily", cfg.Schedule)
		require.Equal(t, 5*time.Minute, cfg.RunTimeout)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		minimal := `
chain:
  id: 137
  rpc_url: https://polygon-rpc.com
spender: "0x216B4B4Ba9F3e719726886d34a177484278Bfcae"
source_asset:
  address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
  decimals: 6
  symbol: USDC
amount: "25"
allocations:
  - asset:
      address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"
      decimals: 6
      symbol: USDT
    percentage: "100"
`
		cfg, err := Load(writeConfig(t, minimal))
		require.NoError(t, err)

		require.Equal(t, WithdrawModeFull, cfg.WithdrawMode)
		require.Equal(t, FeeModeDynamic, cfg.FeeMode)
		require.Equal(t, 50, cfg.SlippageBps)
		require.True(t, cfg.PriceImpact.Equal(decimal.RequireFromString("0.02")))
		require.True(t, cfg.MinGasUSD.Equal(decimal.RequireFromString("0.10")))
		require.True(t, cfg.ApprovalMultiplier.Equal(decimal.NewFromInt(10)))
		require.Equal(t, 10*time.Minute, cfg.RunTimeout)
		require.Equal(t, 3*time.Second, cfg.ReceiptPollInterval)
		require.Equal(t, 15*time.Second, cfg.RequestTimeout)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, common.Address{}, cfg.VaultAddress)
	})

	t.Run("collects validation errors", func(t *testing.T) {
		t.Parallel()

		broken := `
chain:
  id: 0
spender: "not-an-address"
source_asset:
  address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
  decimals: 6
  symbol: USDC
amount: "-5"
allocations:
  - asset:
      address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"
      decimals: 6
      symbol: USDT
    percentage: "oops"
withdraw_mode: sometimes
`
		_, err := Load(writeConfig(t, broken))
		require.ErrorIs(t, err, apperrors.ErrConfiguration)
		require.ErrorContains(t, err, "chain.rpc_url")
		require.ErrorContains(t, err, "chain.id")
		require.ErrorContains(t, err, "spender")
		require.ErrorContains(t, err, "amount must be positive")
		require.ErrorContains(t, err, "allocation percentage")
		require.ErrorContains(t, err, "withdraw_mode")
	})

	t.Run("requires native price with vault", func(t *testing.T) {
		t.Parallel()

		noPrice := `
chain:
  id: 137
  rpc_url: https://polygon-rpc.com
spender: "0x216B4B4Ba9F3e719726886d34a177484278Bfcae"
vault_address: "0xA013Fbd4b711f9ded6fB09C1c0d358E2FbC2EAA0"
source_asset:
  address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
  decimals: 6
  symbol: USDC
amount: "25"
allocations:
  - asset:
      address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"
      decimals: 6
      symbol: USDT
    percentage: "100"
`
		_, err := Load(writeConfig(t, noPrice))
		require.ErrorIs(t, err, apperrors.ErrConfiguration)
		require.ErrorContains(t, err, "native_usd_price")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
