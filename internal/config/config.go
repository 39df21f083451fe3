// Package config loads the run configuration from a YAML file. Secrets never
// live here; the signing key comes from the environment.
package config

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/mkarpin/dcabot/internal/allocation"
	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/token"
)

// Withdraw modes.
const (
	WithdrawModeFull      = "full"
	WithdrawModeShortfall = "shortfall"
)

// Fee envelope modes.
const (
	FeeModeDynamic = "dynamic"
	FeeModeLegacy  = "legacy"
)

// Chain identifies the target chain and its RPC endpoint.
type Chain struct {
	Name   string
	ID     int64
	RPCURL string
}

// Log controls logger construction.
type Log struct {
	Level  string
	Pretty bool
}

// Config is the fully parsed and validated run configuration.
type Config struct {
	Chain       Chain
	ParaswapURL string
	Spender     common.Address
	// VaultAddress is zero when no vault is configured; the run then fails
	// on a balance shortfall instead of withdrawing.
	VaultAddress common.Address

	SourceAsset token.Asset
	Amount      decimal.Decimal
	Weights     []allocation.Weight

	PriceImpact        decimal.Decimal
	MinGasUSD          decimal.Decimal
	SlippageBps        int
	ApprovalMultiplier decimal.Decimal
	NativeUSDPrice     decimal.Decimal

	WithdrawMode string
	FeeMode      string
	Schedule     string

	RunTimeout          time.Duration
	ReceiptPollInterval time.Duration
	RequestTimeout      time.Duration

	Log Log
}

type rawAsset struct {
	Address  string `yaml:"address"`
	Decimals int32  `yaml:"decimals"`
	Symbol   string `yaml:"symbol"`
}

type rawConfig struct {
	Chain struct {
		Name   string `yaml:"name"`
		ID     int64  `yaml:"id"`
		RPCURL string `yaml:"rpc_url"`
	} `yaml:"chain"`
	ParaswapURL  string   `yaml:"paraswap_url"`
	Spender      string   `yaml:"spender"`
	VaultAddress string   `yaml:"vault_address"`
	SourceAsset  rawAsset `yaml:"source_asset"`
	Amount       string   `yaml:"amount"`
	Allocations  []struct {
		Asset      rawAsset `yaml:"asset"`
		Percentage string   `yaml:"percentage"`
	} `yaml:"allocations"`
	Thresholds struct {
		PriceImpact        string `yaml:"price_impact"`
		MinGasUSD          string `yaml:"min_gas_usd"`
		SlippageBps        int    `yaml:"slippage_bps"`
		ApprovalMultiplier string `yaml:"approval_multiplier"`
	} `yaml:"thresholds"`
	NativeUSDPrice      string `yaml:"native_usd_price"`
	WithdrawMode        string `yaml:"withdraw_mode"`
	FeeMode             string `yaml:"fee_mode"`
	Schedule            string `yaml:"schedule"`
	RunTimeout          string `yaml:"run_timeout"`
	ReceiptPollInterval string `yaml:"receipt_poll_interval"`
	RequestTimeout      string `yaml:"request_timeout"`
	Log                 struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads, defaults and validates the config at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.Open")
	}
	defer func() {
		_ = f.Close()
	}()

	var raw rawConfig
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, errors.Wrapf(apperrors.ErrConfiguration, "yaml decode: %v", err)
	}

	cfg, err := parse(raw)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrConfiguration, err.Error())
	}
	return cfg, nil
}

func parse(raw rawConfig) (*Config, error) {
	var errs error

	cfg := &Config{
		Chain: Chain{
			Name:   raw.Chain.Name,
			ID:     raw.Chain.ID,
			RPCURL: raw.Chain.RPCURL,
		},
		ParaswapURL:  raw.ParaswapURL,
		WithdrawMode: raw.WithdrawMode,
		FeeMode:      raw.FeeMode,
		Schedule:     raw.Schedule,
		Log:          Log{Level: raw.Log.Level, Pretty: raw.Log.Pretty},
	}

	if cfg.Chain.RPCURL == "" {
		errs = multierr.Append(errs, errors.New("chain.rpc_url is required"))
	}
	if cfg.Chain.ID == 0 {
		errs = multierr.Append(errs, errors.New("chain.id is required"))
	}
	if cfg.ParaswapURL == "" {
		cfg.ParaswapURL = "https://apiv5.paraswap.io"
	}

	cfg.Spender = parseAddress(raw.Spender, "spender", true, &errs)
	cfg.VaultAddress = parseAddress(raw.VaultAddress, "vault_address", false, &errs)

	cfg.SourceAsset = parseAsset(raw.SourceAsset, "source_asset", &errs)

	cfg.Amount = parseDecimal(raw.Amount, "amount", "", &errs)
	if cfg.Amount.Sign() <= 0 {
		errs = multierr.Append(errs, errors.Errorf("amount must be positive, got %q", raw.Amount))
	}

	if len(raw.Allocations) == 0 {
		errs = multierr.Append(errs, errors.New("at least one allocation is required"))
	}
	for _, a := range raw.Allocations {
		cfg.Weights = append(cfg.Weights, allocation.Weight{
			Asset:      parseAsset(a.Asset, "allocation asset", &errs),
			Percentage: parseDecimal(a.Percentage, "allocation percentage", "", &errs),
		})
	}

	cfg.PriceImpact = parseDecimal(raw.Thresholds.PriceImpact, "thresholds.price_impact", "0.02", &errs)
	cfg.MinGasUSD = parseDecimal(raw.Thresholds.MinGasUSD, "thresholds.min_gas_usd", "0.10", &errs)
	cfg.ApprovalMultiplier = parseDecimal(raw.Thresholds.ApprovalMultiplier, "thresholds.approval_multiplier", "10", &errs)
	cfg.SlippageBps = raw.Thresholds.SlippageBps
	if cfg.SlippageBps == 0 {
		cfg.SlippageBps = 50
	}

	cfg.NativeUSDPrice = parseDecimal(raw.NativeUSDPrice, "native_usd_price", "0", &errs)
	if cfg.VaultAddress != (common.Address{}) && cfg.NativeUSDPrice.Sign() <= 0 {
		errs = multierr.Append(errs, errors.New("native_usd_price is required when vault_address is set"))
	}

	switch cfg.WithdrawMode {
	case "":
		cfg.WithdrawMode = WithdrawModeFull
	case WithdrawModeFull, WithdrawModeShortfall:
	default:
		errs = multierr.Append(errs, errors.Errorf("withdraw_mode must be %q or %q, got %q", WithdrawModeFull, WithdrawModeShortfall, cfg.WithdrawMode))
	}

	switch cfg.FeeMode {
	case "":
		cfg.FeeMode = FeeModeDynamic
	case FeeModeDynamic, FeeModeLegacy:
	default:
		errs = multierr.Append(errs, errors.Errorf("fee_mode must be %q or %q, got %q", FeeModeDynamic, FeeModeLegacy, cfg.FeeMode))
	}

	cfg.RunTimeout = parseDuration(raw.RunTimeout, "run_timeout", 10*time.Minute, &errs)
	cfg.ReceiptPollInterval = parseDuration(raw.ReceiptPollInterval, "receipt_poll_interval", 3*time.Second, &errs)
	cfg.RequestTimeout = parseDuration(raw.RequestTimeout, "request_timeout", 15*time.Second, &errs)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

func parseAddress(s, field string, required bool, errs *error) common.Address {
	if s == "" {
		if required {
			*errs = multierr.Append(*errs, errors.Errorf("%s is required", field))
		}
		return common.Address{}
	}
	if !common.IsHexAddress(s) {
		*errs = multierr.Append(*errs, errors.Errorf("%s is not a hex address: %q", field, s))
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func parseAsset(raw rawAsset, field string, errs *error) token.Asset {
	asset := token.Asset{
		Address:  parseAddress(raw.Address, field+".address", true, errs),
		Decimals: raw.Decimals,
		Symbol:   raw.Symbol,
	}
	if raw.Decimals <= 0 {
		*errs = multierr.Append(*errs, errors.Errorf("%s.decimals must be positive, got %d", field, raw.Decimals))
	}
	if raw.Symbol == "" {
		*errs = multierr.Append(*errs, errors.Errorf("%s.symbol is required", field))
	}
	return asset
}

func parseDecimal(s, field, fallback string, errs *error) decimal.Decimal {
	if s == "" {
		s = fallback
	}
	if s == "" {
		*errs = multierr.Append(*errs, errors.Errorf("%s is required", field))
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*errs = multierr.Append(*errs, errors.Errorf("%s is not a decimal: %q", field, s))
		return decimal.Zero
	}
	return d
}

func parseDuration(s, field string, fallback time.Duration, errs *error) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		*errs = multierr.Append(*errs, errors.Errorf("%s is not a duration: %q", field, s))
		return fallback
	}
	return d
}
