// Package orchestrator sequences the withdraw-then-swap pipeline: balance
// check, optional vault withdrawal, allocation planning, then one strictly
// sequential quote/guard/allowance/build/submit pass per slice.
package orchestrator

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/allocation"
	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/paraswap"
	"github.com/mkarpin/dcabot/internal/priceguard"
	"github.com/mkarpin/dcabot/internal/submit"
	"github.com/mkarpin/dcabot/internal/token"
)

// State names one phase of a run.
type State string

const (
	StateIdle            State = "idle"
	StateCheckingBalance State = "checking_balance"
	StateWithdrawing     State = "withdrawing"
	StatePlanning        State = "planning"
	StateProcessingSlice State = "processing_slice"
	StateDone            State = "done"
	StateAborted         State = "aborted"
)

// BalanceReader reads the source-asset balance, fresh each call.
type BalanceReader interface {
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

// LiquiditySource withdraws funds from the yield vault.
type LiquiditySource interface {
	Withdraw(ctx context.Context, amount *big.Int) (*submit.Receipt, error)
	ShareBalance(ctx context.Context) (*big.Int, error)
}

// Quoter fetches a fresh SELL-side quote for one slice.
type Quoter interface {
	FetchPrice(ctx context.Context, req paraswap.PriceRequest) (*paraswap.PriceRoute, error)
}

// AllowanceEnsurer raises the spending allowance when it falls short.
type AllowanceEnsurer interface {
	Ensure(ctx context.Context, owner, spender common.Address, asset token.Asset, required *big.Int) error
}

// EnvelopeBuilder turns an accepted route into a fee-priced envelope.
type EnvelopeBuilder interface {
	Build(ctx context.Context, route *paraswap.PriceRoute, slice allocation.Slice) (*submit.Envelope, error)
}

// Config is the explicit input of one run; there is no ambient state.
type Config struct {
	SourceAsset token.Asset
	// Amount to distribute, denominated in the source asset.
	Amount  decimal.Decimal
	Weights []allocation.Weight

	Owner   common.Address
	Spender common.Address
	Network int64

	// PriceImpact is the per-quote loss ceiling, a fraction (0.02 = 2%).
	PriceImpact decimal.Decimal
	// WithdrawShortfallOnly withdraws just the missing amount instead of the
	// full required total.
	WithdrawShortfallOnly bool
}

// SliceOutcome records one confirmed swap.
type SliceOutcome struct {
	Slice       allocation.Slice
	TxHash      common.Hash
	BlockNumber uint64
}

// Result is the terminal report of a run. Settled slices stand permanently;
// there is no rollback for on-chain state. FailedSlice is 1-based, 0 when the
// failure happened before slice processing (or there was none).
type Result struct {
	RunID       uuid.UUID
	State       State
	Settled     []SliceOutcome
	FailedSlice int
	Err         error
}

// Orchestrator owns abort/continue decisions for the pipeline. One run is one
// strictly sequential control flow; concurrent runs for the same signing
// address must be serialized externally.
type Orchestrator struct {
	cfg       Config
	balances  BalanceReader
	vault     LiquiditySource // may be nil when no vault is configured
	quoter    Quoter
	allowance AllowanceEnsurer
	builder   EnvelopeBuilder
	submitter submit.Submitter
	log       zerolog.Logger
}

// New wires an orchestrator from its collaborators.
func New(
	cfg Config,
	balances BalanceReader,
	vault LiquiditySource,
	quoter Quoter,
	allowance AllowanceEnsurer,
	builder EnvelopeBuilder,
	submitter submit.Submitter,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		balances:  balances,
		vault:     vault,
		quoter:    quoter,
		allowance: allowance,
		builder:   builder,
		submitter: submitter,
		log:       log.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes the pipeline once. The result is returned even on failure so
// the caller learns which slices already settled; err mirrors result.Err.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.New(), State: StateIdle}
	log := o.log.With().Str("run", result.RunID.String()).Logger()

	required := token.ToBaseUnits(o.cfg.Amount, o.cfg.SourceAsset.Decimals)

	result.State = StateCheckingBalance
	if o.vault != nil {
		// Position display only; a failed read must not kill the run.
		if shares, err := o.vault.ShareBalance(ctx); err != nil {
			log.Warn().Err(err).Msg("vault position read failed")
		} else {
			log.Info().Str("shares", shares.String()).Msg("current vault position")
		}
	}

	balance, err := o.balances.TokenBalance(ctx, o.cfg.SourceAsset.Address, o.cfg.Owner)
	if err != nil {
		return o.abort(result, log, 0, errors.Wrap(err, "balance read"))
	}
	log.Info().
		Str("balance", token.FormatBaseUnits(balance, o.cfg.SourceAsset.Decimals)).
		Str("required", token.FormatBaseUnits(required, o.cfg.SourceAsset.Decimals)).
		Str("asset", o.cfg.SourceAsset.Symbol).
		Msg("checked source balance")

	if balance.Cmp(required) < 0 {
		if o.vault == nil {
			return o.abort(result, log, 0, errors.Wrap(apperrors.ErrInsufficientBalance, "no vault configured to cover the shortfall"))
		}

		result.State = StateWithdrawing
		withdrawAmount := required
		if o.cfg.WithdrawShortfallOnly {
			withdrawAmount = new(big.Int).Sub(required, balance)
		}
		log.Info().
			Str("amount", token.FormatBaseUnits(withdrawAmount, o.cfg.SourceAsset.Decimals)).
			Msg("balance short, withdrawing from vault")

		if _, err := o.vault.Withdraw(ctx, withdrawAmount); err != nil {
			return o.abort(result, log, 0, err)
		}

		balance, err = o.balances.TokenBalance(ctx, o.cfg.SourceAsset.Address, o.cfg.Owner)
		if err != nil {
			return o.abort(result, log, 0, errors.Wrap(err, "balance re-read"))
		}
		if balance.Cmp(required) < 0 {
			return o.abort(result, log, 0, errors.Wrapf(apperrors.ErrInsufficientBalance,
				"balance %s still below required %s after withdrawal",
				token.FormatBaseUnits(balance, o.cfg.SourceAsset.Decimals),
				token.FormatBaseUnits(required, o.cfg.SourceAsset.Decimals)))
		}
	}

	result.State = StatePlanning
	slices, err := allocation.Split(o.cfg.Amount, o.cfg.SourceAsset.Decimals, o.cfg.Weights)
	if err != nil {
		return o.abort(result, log, 0, err)
	}

	for i, slice := range slices {
		result.State = StateProcessingSlice
		index := i + 1
		sliceLog := log.With().Int("slice", index).Str("dest", slice.Asset.Symbol).Logger()
		sliceLog.Info().Str("amount", slice.Amount.String()).Msg("processing slice")

		outcome, err := o.processSlice(ctx, slice)
		if err != nil {
			return o.abort(result, log, index, err)
		}

		result.Settled = append(result.Settled, *outcome)
		sliceLog.Info().
			Str("tx", outcome.TxHash.Hex()).
			Uint64("block", outcome.BlockNumber).
			Msg("slice settled")
	}

	result.State = StateDone
	log.Info().Int("slices", len(result.Settled)).Msg("run complete")
	return result, nil
}

func (o *Orchestrator) processSlice(ctx context.Context, slice allocation.Slice) (*SliceOutcome, error) {
	amount := token.ToBaseUnits(slice.Amount, o.cfg.SourceAsset.Decimals)

	// Quotes are seconds-scale fresh; fetched per slice, never reused.
	route, err := o.quoter.FetchPrice(ctx, paraswap.PriceRequest{
		SrcToken:  o.cfg.SourceAsset,
		DestToken: slice.Asset,
		Amount:    amount,
		Network:   o.cfg.Network,
	})
	if err != nil {
		return nil, err
	}

	if err := priceguard.Check(route.SrcUSD, route.DestUSD, o.cfg.PriceImpact); err != nil {
		return nil, err
	}

	if err := o.allowance.Ensure(ctx, o.cfg.Owner, o.cfg.Spender, o.cfg.SourceAsset, amount); err != nil {
		return nil, err
	}

	env, err := o.builder.Build(ctx, route, slice)
	if err != nil {
		return nil, err
	}

	receipt, err := o.submitter.Submit(ctx, env)
	if err != nil {
		return nil, err
	}

	return &SliceOutcome{
		Slice:       slice,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
	}, nil
}

func (o *Orchestrator) abort(result *Result, log zerolog.Logger, failedSlice int, err error) (*Result, error) {
	result.State = StateAborted
	result.FailedSlice = failedSlice
	result.Err = err
	log.Error().
		Err(err).
		Int("failed_slice", failedSlice).
		Int("settled", len(result.Settled)).
		Msg("run aborted; settled slices stand permanently")
	return result, err
}
