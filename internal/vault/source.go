// Package vault withdraws idle funds from the yield-bearing vault position.
package vault

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/chain"
	"github.com/mkarpin/dcabot/internal/submit"
	"github.com/mkarpin/dcabot/internal/token"
)

const nativeDecimals = 18

// ERC-4626 withdrawal entry point of the vault.
const vaultABIJSON = `[
	{"inputs":[{"internalType":"uint256","name":"assets","type":"uint256"},{"internalType":"address","name":"receiver","type":"address"},{"internalType":"address","name":"owner","type":"address"}],"name":"withdraw","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}
]`

var vaultABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(vaultABIJSON))
	if err != nil {
		panic(err)
	}
	return a
}()

// Source withdraws the source asset from one vault contract for one owner.
type Source struct {
	chain     chain.Client
	submitter submit.Submitter
	vault     common.Address
	owner     common.Address

	// minGasUSD is the gas floor; below it no withdrawal is even attempted.
	minGasUSD decimal.Decimal
	// nativeUSDPrice is a configured estimate of the native asset's USD
	// price, good enough to enforce a sub-dollar floor.
	nativeUSDPrice decimal.Decimal
	// legacy selects gas-priced withdrawal envelopes over EIP-1559 ones.
	legacy bool

	log zerolog.Logger
}

// NewSource creates a liquidity source for the given vault and owner.
func NewSource(
	chainClient chain.Client,
	submitter submit.Submitter,
	vault, owner common.Address,
	minGasUSD, nativeUSDPrice decimal.Decimal,
	legacy bool,
	log zerolog.Logger,
) *Source {
	if minGasUSD.Sign() <= 0 {
		minGasUSD = decimal.RequireFromString("0.10")
	}
	return &Source{
		chain:          chainClient,
		submitter:      submitter,
		vault:          vault,
		owner:          owner,
		minGasUSD:      minGasUSD,
		nativeUSDPrice: nativeUSDPrice,
		legacy:         legacy,
		log:            log.With().Str("component", "vault").Logger(),
	}
}

// ShareBalance reads the owner's vault share balance. Careful: shares are
// priced in the yield token, not in USD.
func (s *Source) ShareBalance(ctx context.Context) (*big.Int, error) {
	bal, err := s.chain.TokenBalance(ctx, s.vault, s.owner)
	if err != nil {
		return nil, errors.Wrap(err, "vault share balance")
	}
	return bal, nil
}

// Withdraw pulls amount base units of the underlying asset out of the vault
// and blocks until the withdrawal is confirmed.
//
// The gas precondition runs strictly first: if the signer's native balance is
// worth less than the floor, no calldata is built and nothing is submitted —
// the transaction would be doomed and would only waste the attempt.
func (s *Source) Withdraw(ctx context.Context, amount *big.Int) (*submit.Receipt, error) {
	native, err := s.chain.NativeBalance(ctx, s.owner)
	if err != nil {
		return nil, errors.Wrap(err, "native balance read")
	}

	gasUSD := token.FromBaseUnits(native, nativeDecimals).Mul(s.nativeUSDPrice)
	if gasUSD.LessThan(s.minGasUSD) {
		return nil, errors.Wrapf(apperrors.ErrInsufficientGas,
			"only %s USD of native balance available, floor is %s", gasUSD.StringFixed(2), s.minGasUSD)
	}
	s.log.Debug().Str("gas_usd", gasUSD.StringFixed(2)).Msg("gas precondition passed")

	data, err := vaultABI.Pack("withdraw", amount, s.owner, s.owner)
	if err != nil {
		return nil, errors.Wrap(err, "vaultABI.Pack")
	}

	gas, err := s.chain.EstimateGas(ctx, ethereum.CallMsg{
		From: s.owner,
		To:   &s.vault,
		Data: data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gas estimate")
	}

	fees, err := s.chain.FeeData(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("amount", amount.String()).
		Str("vault", s.vault.Hex()).
		Msg("sending withdraw transaction")

	receipt, err := s.submitter.Submit(ctx, &submit.Envelope{
		To:                   s.vault,
		Data:                 data,
		Value:                big.NewInt(0),
		GasLimit:             gas,
		MaxFeePerGas:         fees.MaxFeePerGas,
		MaxPriorityFeePerGas: fees.MaxPriorityFeePerGas,
		Legacy:               s.legacy,
		GasPrice:             fees.GasPrice,
	})
	if err != nil {
		return nil, errors.Wrap(err, "withdraw submission")
	}

	s.log.Info().
		Str("tx", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber).
		Msg("withdrawal confirmed")
	return receipt, nil
}
