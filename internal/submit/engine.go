// Package submit signs, broadcasts and confirms transactions, classifying
// failures into broadcast errors versus on-chain reverts. The two carry
// different operational meaning: a broadcast failure left no chain record and
// may be retried with a fresh nonce, a revert consumed gas and nonce and must
// never be blindly repeated.
package submit

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/chain"
)

// Envelope is an unsigned, fee-priced transaction ready for signing. Built
// once per slice from a fresh quote; never reused.
type Envelope struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64

	// Dynamic fee fields, used unless Legacy is set.
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int

	// Legacy selects a gasPrice envelope for pre-EIP-1559 chains.
	Legacy   bool
	GasPrice *big.Int
}

// Receipt is the terminal, immutable record of a submitted transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	Status      uint64
}

// TxSigner abstracts the signing identity.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction) (*types.Transaction, error)
}

// Submitter broadcasts an envelope and blocks until it is mined.
type Submitter interface {
	Submit(ctx context.Context, env *Envelope) (*Receipt, error)
}

// Engine implements Submitter against a chain client. No automatic retry
// lives here; retry policy is the caller's decision.
type Engine struct {
	chain        chain.Client
	signer       TxSigner
	pollInterval time.Duration
	log          zerolog.Logger
}

// NewEngine creates a submission engine polling receipts at pollInterval.
func NewEngine(chainClient chain.Client, signer TxSigner, pollInterval time.Duration, log zerolog.Logger) *Engine {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Engine{
		chain:        chainClient,
		signer:       signer,
		pollInterval: pollInterval,
		log:          log.With().Str("component", "submit").Logger(),
	}
}

// Submit signs the envelope with the next pending nonce, broadcasts it and
// blocks until the transaction is mined or ctx expires. Confirmation can
// stall indefinitely if fee pricing is too low, so the caller must bound ctx.
func (e *Engine) Submit(ctx context.Context, env *Envelope) (*Receipt, error) {
	nonce, err := e.chain.PendingNonce(ctx, e.signer.Address())
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrSubmissionFailed, err.Error())
	}

	value := env.Value
	if value == nil {
		value = big.NewInt(0)
	}

	var tx *types.Transaction
	if env.Legacy {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &env.To,
			Value:    value,
			Gas:      env.GasLimit,
			GasPrice: env.GasPrice,
			Data:     env.Data,
		})
	} else {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   e.chain.ChainID(),
			Nonce:     nonce,
			To:        &env.To,
			Value:     value,
			Gas:       env.GasLimit,
			GasFeeCap: env.MaxFeePerGas,
			GasTipCap: env.MaxPriorityFeePerGas,
			Data:      env.Data,
		})
	}

	signed, err := e.signer.SignTx(tx)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrSubmissionFailed, err.Error())
	}

	if err := e.chain.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrap(apperrors.ErrSubmissionFailed, err.Error())
	}

	hash := signed.Hash()
	e.log.Info().
		Str("tx", hash.Hex()).
		Uint64("nonce", nonce).
		Str("to", env.To.Hex()).
		Msg("transaction broadcast")

	receipt, err := e.waitMined(ctx, hash)
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(apperrors.ErrOnChainRevert, "tx %s reverted in block %d", hash.Hex(), receipt.BlockNumber)
	}

	e.log.Info().
		Str("tx", hash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Msg("transaction confirmed")
	return receipt, nil
}

func (e *Engine) waitMined(ctx context.Context, hash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.chain.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return &Receipt{
				TxHash:      hash,
				BlockNumber: receipt.BlockNumber.Uint64(),
				Status:      receipt.Status,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(apperrors.ErrSubmissionFailed,
				"confirmation wait for %s aborted: %v", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
