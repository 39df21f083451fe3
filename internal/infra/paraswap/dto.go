package paraswap

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/token"
)

// PriceRequest describes one SELL-side price lookup.
type PriceRequest struct {
	SrcToken  token.Asset
	DestToken token.Asset
	// Amount of SrcToken to sell, in base units.
	Amount  *big.Int
	Network int64
}

// PriceRoute is the usable part of an aggregator quote. Raw holds the full
// priceRoute body and is passed through byte-identical to the build call;
// the typed fields are read-only views into it.
//
// A route is valid for seconds; never cache or reuse one across slices.
type PriceRoute struct {
	SrcAmount    *big.Int
	DestAmount   *big.Int
	DestDecimals int32
	SrcUSD       decimal.Decimal
	DestUSD      decimal.Decimal
	GasCostUSD   decimal.Decimal
	Raw          json.RawMessage
}

// BuildRequest describes one transaction-build call for an accepted quote.
type BuildRequest struct {
	SrcToken    token.Asset
	DestToken   token.Asset
	SrcAmount   *big.Int
	PriceRoute  json.RawMessage
	SlippageBps int
	UserAddress common.Address
	// GasPrice prices the build server-side; callers pass the latest
	// base fee here.
	GasPrice *big.Int
}

// SwapTx is the unsigned swap call returned by the build endpoint.
type SwapTx struct {
	To    common.Address
	Data  []byte
	Value *big.Int
	Gas   uint64
}

// Wire shapes.

type priceResponse struct {
	PriceRoute json.RawMessage `json:"priceRoute"`
	Error      string          `json:"error"`
}

type priceRouteBody struct {
	SrcAmount    string `json:"srcAmount"`
	DestAmount   string `json:"destAmount"`
	DestDecimals int32  `json:"destDecimals"`
	SrcUSD       string `json:"srcUSD"`
	DestUSD      string `json:"destUSD"`
	GasCostUSD   string `json:"gasCostUSD"`
}

type buildRequestBody struct {
	SrcToken     string          `json:"srcToken"`
	SrcDecimals  int32           `json:"srcDecimals"`
	DestToken    string          `json:"destToken"`
	DestDecimals int32           `json:"destDecimals"`
	SrcAmount    string          `json:"srcAmount"`
	PriceRoute   json.RawMessage `json:"priceRoute"`
	Slippage     int             `json:"slippage"`
	UserAddress  string          `json:"userAddress"`
}

type buildResponseBody struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
	Gas   uint64 `json:"gas"`
	Error string `json:"error"`
}
