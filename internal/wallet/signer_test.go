package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// Well-known test vector key, never funded.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewSigner(t *testing.T) {
	t.Parallel()

	t.Run("derives address", func(t *testing.T) {
		s, err := NewSigner(testKey, big.NewInt(42161))
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), s.Address())
	})

	t.Run("accepts 0x prefix", func(t *testing.T) {
		s, err := NewSigner("0x"+testKey, big.NewInt(42161))
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), s.Address())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewSigner("not-a-key", big.NewInt(42161))
		require.Error(t, err)
	})
}

func TestSignTx(t *testing.T) {
	t.Parallel()

	chainID := big.NewInt(42161)
	s, err := NewSigner(testKey, chainID)
	require.NoError(t, err)

	to := common.HexToAddress("0x216b4b4ba9f3e719726886d34a177484278bfcae")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     7,
		To:        &to,
		Value:     big.NewInt(0),
		Gas:       350000,
		GasFeeCap: big.NewInt(200),
		GasTipCap: big.NewInt(5),
	})

	signed, err := s.SignTx(tx)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	require.Equal(t, s.Address(), sender)
}
