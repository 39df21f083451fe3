// Package priceguard evaluates swap quotes against a price-impact ceiling.
// It is pure arithmetic; no I/O, no hidden defaults.
package priceguard

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/apperrors"
)

// Check accepts or rejects a quote's USD valuations against the given
// price-impact threshold (a positive fraction, e.g. 0.02 for 2%).
//
// The relative difference (destUSD - srcUSD) / srcUSD is negative when the
// quote loses value; the quote is rejected when it loses more than the
// threshold allows. Both valuations must come from the same quote so they
// share a USD basis.
func Check(srcUSD, destUSD, threshold decimal.Decimal) error {
	if threshold.Sign() <= 0 {
		return errors.Wrapf(apperrors.ErrConfiguration, "price impact threshold must be positive, got %s", threshold)
	}
	if srcUSD.Sign() <= 0 {
		return errors.Wrapf(apperrors.ErrQuoteUnavailable, "quote has no usable source valuation (srcUSD=%s)", srcUSD)
	}

	diff := destUSD.Sub(srcUSD).Div(srcUSD)
	if diff.LessThan(threshold.Neg()) {
		return errors.Wrapf(apperrors.ErrPriceImpactExceeded,
			"src %s USD -> dest %s USD, impact %s%% below -%s%%",
			srcUSD, destUSD, diff.Mul(decimal.NewFromInt(100)).StringFixed(4), threshold.Mul(decimal.NewFromInt(100)))
	}
	return nil
}
