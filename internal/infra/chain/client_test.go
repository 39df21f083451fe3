package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	callContract       func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	balanceAt          func(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	pendingNonceAt     func(ctx context.Context, account common.Address) (uint64, error)
	headerByNumber     func(ctx context.Context, number *big.Int) (*types.Header, error)
	suggestGasPrice    func(ctx context.Context) (*big.Int, error)
	suggestGasTipCap   func(ctx context.Context) (*big.Int, error)
	estimateGas        func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	sendTransaction    func(ctx context.Context, tx *types.Transaction) error
	transactionReceipt func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

func (s *stubBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return s.callContract(ctx, msg, blockNumber)
}

func (s *stubBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return s.balanceAt(ctx, account, blockNumber)
}

func (s *stubBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return s.pendingNonceAt(ctx, account)
}

func (s *stubBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return s.headerByNumber(ctx, number)
}

func (s *stubBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return s.suggestGasPrice(ctx)
}

func (s *stubBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return s.suggestGasTipCap(ctx)
}

func (s *stubBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return s.estimateGas(ctx, msg)
}

func (s *stubBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return s.sendTransaction(ctx, tx)
}

func (s *stubBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return s.transactionReceipt(ctx, txHash)
}

func uint256Word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func TestTokenBalance(t *testing.T) {
	t.Parallel()

	tokenAddr := common.HexToAddress("0xaf88d065e77c8cc2239327c5edb3a432268e5831")
	owner := common.HexToAddress("0x000000000000000000000000000000000000dead")

	backend := &stubBackend{
		callContract: func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.Equal(t, tokenAddr, *msg.To)
			return uint256Word(big.NewInt(1500000)), nil
		},
	}

	c := NewClientWithBackend(backend, big.NewInt(42161))
	bal, err := c.TokenBalance(context.Background(), tokenAddr, owner)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1500000), bal)
}

func TestAllowance(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		callContract: func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			return uint256Word(big.NewInt(777)), nil
		},
	}

	c := NewClientWithBackend(backend, big.NewInt(42161))
	allowance, err := c.Allowance(
		context.Background(),
		common.HexToAddress("0x1"),
		common.HexToAddress("0x2"),
		common.HexToAddress("0x3"),
	)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(777), allowance)
}

func TestFeeData(t *testing.T) {
	t.Parallel()

	t.Run("dynamic fee chain", func(t *testing.T) {
		backend := &stubBackend{
			suggestGasPrice:  func(context.Context) (*big.Int, error) { return big.NewInt(120), nil },
			suggestGasTipCap: func(context.Context) (*big.Int, error) { return big.NewInt(5), nil },
			headerByNumber: func(context.Context, *big.Int) (*types.Header, error) {
				return &types.Header{BaseFee: big.NewInt(100)}, nil
			},
		}

		c := NewClientWithBackend(backend, big.NewInt(42161))
		fd, err := c.FeeData(context.Background())
		require.NoError(t, err)
		require.Equal(t, big.NewInt(205), fd.MaxFeePerGas) // 2*100 + 5
		require.Equal(t, big.NewInt(5), fd.MaxPriorityFeePerGas)
		require.Equal(t, big.NewInt(120), fd.GasPrice)
	})

	t.Run("legacy chain falls back to gas price", func(t *testing.T) {
		backend := &stubBackend{
			suggestGasPrice:  func(context.Context) (*big.Int, error) { return big.NewInt(120), nil },
			suggestGasTipCap: func(context.Context) (*big.Int, error) { return big.NewInt(0), nil },
			headerByNumber: func(context.Context, *big.Int) (*types.Header, error) {
				return &types.Header{}, nil
			},
		}

		c := NewClientWithBackend(backend, big.NewInt(42161))
		fd, err := c.FeeData(context.Background())
		require.NoError(t, err)
		require.Equal(t, big.NewInt(120), fd.MaxFeePerGas)
	})

	t.Run("both lookups failing are merged", func(t *testing.T) {
		backend := &stubBackend{
			suggestGasPrice:  func(context.Context) (*big.Int, error) { return nil, errors.New("price rpc down") },
			suggestGasTipCap: func(context.Context) (*big.Int, error) { return nil, errors.New("tip rpc down") },
		}

		c := NewClientWithBackend(backend, big.NewInt(42161))
		_, err := c.FeeData(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "price rpc down")
		require.Contains(t, err.Error(), "tip rpc down")
	})
}

func TestApproveCallData(t *testing.T) {
	t.Parallel()

	data, err := ApproveCallData(common.HexToAddress("0x216b4b4ba9f3e719726886d34a177484278bfcae"), big.NewInt(1000))
	require.NoError(t, err)
	// 4-byte selector + two 32-byte words.
	require.Len(t, data, 68)
	require.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, data[:4])
}
