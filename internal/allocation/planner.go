package allocation

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/token"
)

// Weight assigns a share of the total transfer to one destination asset.
type Weight struct {
	Asset      token.Asset
	Percentage decimal.Decimal // 0-100
}

// Slice is one destination asset with its derived amount, denominated in the
// source asset.
type Slice struct {
	Asset  token.Asset
	Amount decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)

	// Weight sums are user input; allow a hair of decimal noise above 100.
	sumEpsilon = decimal.RequireFromString("0.000000001")
)

// Split divides totalAmount across the weights, preserving input order.
// Order matters downstream: it fixes submission order and nonce sequencing.
//
// Each slice amount is totalAmount * percentage / 100 truncated to
// sourceDecimals, the precision the amounts are denominated in, so the sum
// of slices never exceeds totalAmount; it may fall short of it by at most
// one source base unit per slice.
func Split(totalAmount decimal.Decimal, sourceDecimals int32, weights []Weight) ([]Slice, error) {
	if err := validate(totalAmount, weights); err != nil {
		return nil, errors.Wrap(apperrors.ErrConfiguration, err.Error())
	}

	slices := make([]Slice, 0, len(weights))
	for _, w := range weights {
		amount := totalAmount.Mul(w.Percentage).Div(hundred).Truncate(sourceDecimals)
		slices = append(slices, Slice{Asset: w.Asset, Amount: amount})
	}
	return slices, nil
}

func validate(totalAmount decimal.Decimal, weights []Weight) error {
	var err error

	if totalAmount.Sign() <= 0 {
		err = multierr.Append(err, errors.Errorf("total amount must be positive, got %s", totalAmount))
	}
	if len(weights) == 0 {
		err = multierr.Append(err, errors.New("at least one allocation weight is required"))
	}

	sum := decimal.Zero
	for _, w := range weights {
		if w.Percentage.Sign() <= 0 || w.Percentage.GreaterThan(hundred) {
			err = multierr.Append(err, errors.Errorf("percentage for %s must be in (0, 100], got %s", w.Asset.Symbol, w.Percentage))
		}
		sum = sum.Add(w.Percentage)
	}
	if sum.GreaterThan(hundred.Add(sumEpsilon)) {
		err = multierr.Append(err, errors.Errorf("allocation percentages sum to %s, must not exceed 100", sum))
	}

	return err
}
