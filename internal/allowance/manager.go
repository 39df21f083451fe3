// Package allowance keeps the spender's ERC-20 allowance at or above what a
// swap needs, approving more only when the current allowance falls short.
package allowance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/chain"
	"github.com/mkarpin/dcabot/internal/submit"
	"github.com/mkarpin/dcabot/internal/token"
)

// Manager ensures on-chain spending allowances. Not safe for concurrent use
// against the same (owner, spender, asset) tuple: two racing approvals would
// fight over the nonce and the standing allowance.
type Manager struct {
	chain     chain.Client
	submitter submit.Submitter
	// multiplier scales the required amount into the approval amount.
	// 10 keeps approvals rare; 1 is the strict exact-amount policy.
	multiplier decimal.Decimal
	// legacy selects gas-priced approval envelopes over EIP-1559 ones.
	legacy bool
	log    zerolog.Logger
}

// NewManager creates an allowance manager with the given approval multiplier.
// A non-positive multiplier falls back to the default x10 buffer.
func NewManager(chainClient chain.Client, submitter submit.Submitter, multiplier decimal.Decimal, legacy bool, log zerolog.Logger) *Manager {
	if multiplier.Sign() <= 0 {
		multiplier = decimal.NewFromInt(10)
	}
	return &Manager{
		chain:      chainClient,
		submitter:  submitter,
		multiplier: multiplier,
		legacy:     legacy,
		log:        log.With().Str("component", "allowance").Logger(),
	}
}

// Ensure makes sure spender may move at least required base units of asset
// from owner. Reads the allowance fresh each call; when it already covers the
// requirement this is a no-op. Otherwise it submits an approval and blocks
// until that transaction is confirmed.
func (m *Manager) Ensure(ctx context.Context, owner, spender common.Address, asset token.Asset, required *big.Int) error {
	current, err := m.chain.Allowance(ctx, asset.Address, owner, spender)
	if err != nil {
		return errors.Wrap(apperrors.ErrAllowanceTxFailed, errors.Wrap(err, "allowance read").Error())
	}

	if current.Cmp(required) >= 0 {
		m.log.Debug().
			Str("asset", asset.Symbol).
			Str("current", current.String()).
			Str("required", required.String()).
			Msg("allowance sufficient")
		return nil
	}

	approval := m.approvalAmount(required)
	m.log.Info().
		Str("asset", asset.Symbol).
		Str("current", current.String()).
		Str("required", required.String()).
		Str("approving", approval.String()).
		Msg("allowance too low, approving")

	data, err := chain.ApproveCallData(spender, approval)
	if err != nil {
		return errors.Wrap(apperrors.ErrAllowanceTxFailed, err.Error())
	}

	gas, err := m.chain.EstimateGas(ctx, ethereum.CallMsg{
		From: owner,
		To:   &asset.Address,
		Data: data,
	})
	if err != nil {
		return errors.Wrap(apperrors.ErrAllowanceTxFailed, errors.Wrap(err, "gas estimate").Error())
	}

	fees, err := m.chain.FeeData(ctx)
	if err != nil {
		return errors.Wrap(apperrors.ErrAllowanceTxFailed, err.Error())
	}

	receipt, err := m.submitter.Submit(ctx, &submit.Envelope{
		To:                   asset.Address,
		Data:                 data,
		Value:                big.NewInt(0),
		GasLimit:             gas,
		MaxFeePerGas:         fees.MaxFeePerGas,
		MaxPriorityFeePerGas: fees.MaxPriorityFeePerGas,
		Legacy:               m.legacy,
		GasPrice:             fees.GasPrice,
	})
	if err != nil {
		return errors.Wrap(apperrors.ErrAllowanceTxFailed, err.Error())
	}

	m.log.Info().
		Str("asset", asset.Symbol).
		Str("tx", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Msg("approval confirmed")
	return nil
}

func (m *Manager) approvalAmount(required *big.Int) *big.Int {
	scaled := decimal.NewFromBigInt(required, 0).Mul(m.multiplier)
	return scaled.Ceil().BigInt()
}
