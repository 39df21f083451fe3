// Package swap turns an accepted quote into a fee-priced transaction
// envelope via the aggregator's build endpoint.
package swap

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mkarpin/dcabot/internal/allocation"
	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/chain"
	"github.com/mkarpin/dcabot/internal/infra/paraswap"
	"github.com/mkarpin/dcabot/internal/submit"
	"github.com/mkarpin/dcabot/internal/token"
)

// Builder assembles unsigned swap envelopes. One envelope per slice, always
// from a fresh route and a fresh fee snapshot; a rejected build means the
// route went stale and the caller must fetch a new quote, never resubmit.
type Builder struct {
	aggregator  paraswap.Client
	chain       chain.Client
	source      token.Asset
	user        common.Address
	slippageBps int
	legacy      bool
	log         zerolog.Logger
}

// NewBuilder creates a swap builder for one source asset and user.
func NewBuilder(
	aggregator paraswap.Client,
	chainClient chain.Client,
	source token.Asset,
	user common.Address,
	slippageBps int,
	legacy bool,
	log zerolog.Logger,
) *Builder {
	if slippageBps <= 0 {
		slippageBps = 50 // 0.5%
	}
	return &Builder{
		aggregator:  aggregator,
		chain:       chainClient,
		source:      source,
		user:        user,
		slippageBps: slippageBps,
		legacy:      legacy,
		log:         log.With().Str("component", "swap").Logger(),
	}
}

// Build prices the route at the current base fee, asks the aggregator for the
// swap call and wraps it with a fresh fee snapshot.
func (b *Builder) Build(ctx context.Context, route *paraswap.PriceRoute, slice allocation.Slice) (*submit.Envelope, error) {
	baseFee, err := b.chain.HeadBaseFee(ctx)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, errors.Wrap(err, "base fee read").Error())
	}

	swapTx, err := b.aggregator.BuildSwap(ctx, paraswap.BuildRequest{
		SrcToken:    b.source,
		DestToken:   slice.Asset,
		SrcAmount:   route.SrcAmount,
		PriceRoute:  route.Raw,
		SlippageBps: b.slippageBps,
		UserAddress: b.user,
		GasPrice:    baseFee,
	})
	if err != nil {
		return nil, err
	}

	fees, err := b.chain.FeeData(ctx)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, err.Error())
	}

	b.log.Debug().
		Str("dest", slice.Asset.Symbol).
		Str("to", swapTx.To.Hex()).
		Uint64("gas", swapTx.Gas).
		Msg("swap envelope built")

	return &submit.Envelope{
		To:                   swapTx.To,
		Data:                 swapTx.Data,
		Value:                swapTx.Value,
		GasLimit:             swapTx.Gas,
		MaxFeePerGas:         fees.MaxFeePerGas,
		MaxPriorityFeePerGas: fees.MaxPriorityFeePerGas,
		Legacy:               b.legacy,
		GasPrice:             fees.GasPrice,
	}, nil
}
