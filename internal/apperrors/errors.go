package apperrors

import "github.com/pkg/errors"

var (
	// ErrConfiguration is returned when the run configuration is invalid,
	// e.g. allocation weights summing to more than 100.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInsufficientBalance is returned when the source-asset balance does
	// not cover the required total even after a vault withdrawal.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientGas is returned when the native balance of the signer
	// is worth less than the minimum gas floor. It pre-empts any transaction
	// attempt.
	ErrInsufficientGas = errors.New("insufficient gas")

	// ErrQuoteUnavailable is returned when the aggregator cannot produce a
	// usable route for the requested pair and amount. Safe to retry.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrPriceImpactExceeded is returned when a quote loses more USD value
	// than the configured ceiling allows.
	ErrPriceImpactExceeded = errors.New("price impact exceeded")

	// ErrAllowanceTxFailed is returned when an approval transaction reverts
	// or cannot be submitted. Must not be blindly retried.
	ErrAllowanceTxFailed = errors.New("allowance transaction failed")

	// ErrRouteBuild is returned when the aggregator rejects the transaction
	// build, typically because the quote went stale. Requires a fresh quote,
	// never a resubmission.
	ErrRouteBuild = errors.New("route build rejected")

	// ErrSubmissionFailed is returned when a transaction could not be
	// broadcast and left no chain record. May be retried with a fresh nonce.
	ErrSubmissionFailed = errors.New("transaction submission failed")

	// ErrOnChainRevert is returned when a transaction was mined with a
	// failure status. Gas and nonce are consumed; never repeat blindly.
	ErrOnChainRevert = errors.New("transaction reverted on chain")
)
