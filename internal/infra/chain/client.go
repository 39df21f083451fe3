// Package chain wraps the EVM RPC surface the pipeline needs: ERC-20 reads,
// native balance, fee-market data, nonce, broadcast and receipts.
package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// FeeData is a snapshot of current fee-market parameters. With a base fee
// available MaxFeePerGas is 2*baseFee + tip, mirroring ethers' getFeeData;
// GasPrice is kept for legacy-envelope chains.
type FeeData struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	GasPrice             *big.Int
}

// Client defines the chain operations used by the pipeline. Balances,
// allowances and fees are always read fresh; nothing here caches.
type Client interface {
	ChainID() *big.Int

	// TokenBalance returns the ERC-20 balance of owner.
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	// NativeBalance returns the native-gas balance of account.
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	// Allowance returns the ERC-20 spending allowance owner has granted spender.
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)

	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	// HeadBaseFee returns the base fee of the latest block, nil on
	// pre-EIP-1559 chains.
	HeadBaseFee(ctx context.Context) (*big.Int, error)
	FeeData(ctx context.Context) (*FeeData, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Backend is the subset of ethclient.Client the implementation relies on.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type client struct {
	backend Backend
	chainID *big.Int
}

// NewClient dials the RPC endpoint and verifies the chain id matches the
// configured one.
func NewClient(ctx context.Context, rpcURL string, chainID int64) (Client, error) {
	backend, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.DialContext")
	}
	remote, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "backend.ChainID")
	}
	if remote.Int64() != chainID {
		return nil, errors.Errorf("rpc endpoint serves chain %s, config expects %d", remote, chainID)
	}
	return NewClientWithBackend(backend, remote), nil
}

// NewClientWithBackend wraps an existing backend; used by tests.
func NewClientWithBackend(backend Backend, chainID *big.Int) Client {
	return &client{backend: backend, chainID: chainID}
}

func (c *client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *client) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erc20ABI.Pack")
	}

	res, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.backend.CallContract")
	}

	out, err := erc20ABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "erc20ABI.Unpack")
	}
	return out, nil
}

func (c *client) callUint(ctx context.Context, to common.Address, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.call(ctx, to, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no outputs from %s call", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast %s result to *big.Int", method)
	}
	return v, nil
}

// TokenBalance returns the ERC-20 balance of owner.
func (c *client) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	bal, err := c.callUint(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "balanceOf")
	}
	return bal, nil
}

// NativeBalance returns the native-gas balance of account.
func (c *client) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	bal, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.backend.BalanceAt")
	}
	return bal, nil
}

// Allowance returns the ERC-20 spending allowance owner has granted spender.
func (c *client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	allowance, err := c.callUint(ctx, token, "allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "allowance")
	}
	return allowance, nil
}

func (c *client) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, errors.Wrap(err, "c.backend.PendingNonceAt")
	}
	return nonce, nil
}

// HeadBaseFee returns the base fee of the latest block.
func (c *client) HeadBaseFee(ctx context.Context) (*big.Int, error) {
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.backend.HeaderByNumber")
	}
	return head.BaseFee, nil
}

// FeeData assembles a fee snapshot. Gas price and tip are independent RPC
// lookups, so they run in parallel and failures are merged.
func (c *client) FeeData(ctx context.Context) (*FeeData, error) {
	var (
		wg       sync.WaitGroup
		gasPrice *big.Int
		tip      *big.Int
		mu       sync.Mutex
		combined error
	)

	fetch := func(name string, f func(context.Context) (*big.Int, error), dst **big.Int) {
		defer wg.Done()
		v, err := f(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			combined = multierr.Append(combined, errors.Wrapf(err, "failed to fetch %s", name))
			return
		}
		*dst = v
	}

	wg.Add(2)
	go fetch("gas price", c.backend.SuggestGasPrice, &gasPrice)
	go fetch("gas tip cap", c.backend.SuggestGasTipCap, &tip)
	wg.Wait()

	if combined != nil {
		return nil, errors.Wrap(combined, "failed to get fee data")
	}

	fd := &FeeData{GasPrice: gasPrice, MaxPriorityFeePerGas: tip}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.backend.HeaderByNumber")
	}
	if head.BaseFee != nil {
		fd.MaxFeePerGas = new(big.Int).Add(
			new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
			tip,
		)
	} else {
		fd.MaxFeePerGas = gasPrice
	}
	return fd, nil
}

func (c *client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "c.backend.EstimateGas")
	}
	return gas, nil
}

func (c *client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "c.backend.SendTransaction")
	}
	return nil
}

func (c *client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, errors.Wrap(err, "c.backend.TransactionReceipt")
	}
	return receipt, nil
}
