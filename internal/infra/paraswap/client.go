// Package paraswap is the client for the external swap-routing aggregator.
// It exposes the two endpoints the pipeline needs: SELL-side price lookup
// and transaction build for an accepted route.
package paraswap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mkarpin/dcabot/internal/apperrors"
)

// Client defines the aggregator operations used by the pipeline.
type Client interface {
	// FetchPrice requests a SELL-side quote. Read-only and side-effect free,
	// so safe to retry externally.
	FetchPrice(ctx context.Context, req PriceRequest) (*PriceRoute, error)

	// BuildSwap turns a fresh price route into an unsigned swap call. Never
	// retried internally: a rejected build means the route went stale and
	// needs a fresh FetchPrice.
	BuildSwap(ctx context.Context, req BuildRequest) (*SwapTx, error)
}

type httpClient struct {
	http    *http.Client
	baseURL string
	chainID int64
}

// NewClient creates an aggregator client against baseURL, e.g.
// "https://apiv5.paraswap.io".
func NewClient(baseURL string, chainID int64, httpc *http.Client) Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &httpClient{
		http:    httpc,
		baseURL: baseURL,
		chainID: chainID,
	}
}

// FetchPrice requests a SELL-side quote from the /prices endpoint.
func (c *httpClient) FetchPrice(ctx context.Context, req PriceRequest) (*PriceRoute, error) {
	q := url.Values{}
	q.Set("srcToken", req.SrcToken.Address.Hex())
	q.Set("srcDecimals", strconv.FormatInt(int64(req.SrcToken.Decimals), 10))
	q.Set("destToken", req.DestToken.Address.Hex())
	q.Set("destDecimals", strconv.FormatInt(int64(req.DestToken.Decimals), 10))
	q.Set("amount", req.Amount.String())
	q.Set("side", "SELL")
	q.Set("network", strconv.FormatInt(req.Network, 10))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prices?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext")
	}

	body, err := c.do(httpReq)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrQuoteUnavailable, err.Error())
	}

	var resp priceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(apperrors.ErrQuoteUnavailable, errors.Wrap(err, "json.Unmarshal").Error())
	}
	if len(resp.PriceRoute) == 0 {
		msg := resp.Error
		if msg == "" {
			msg = "response carries no priceRoute"
		}
		return nil, errors.Wrap(apperrors.ErrQuoteUnavailable, msg)
	}

	return parsePriceRoute(resp.PriceRoute)
}

// BuildSwap posts the route to the /transactions/{chain} endpoint.
func (c *httpClient) BuildSwap(ctx context.Context, req BuildRequest) (*SwapTx, error) {
	payload, err := json.Marshal(buildRequestBody{
		SrcToken:     req.SrcToken.Address.Hex(),
		SrcDecimals:  req.SrcToken.Decimals,
		DestToken:    req.DestToken.Address.Hex(),
		DestDecimals: req.DestToken.Decimals,
		SrcAmount:    req.SrcAmount.String(),
		PriceRoute:   req.PriceRoute,
		Slippage:     req.SlippageBps,
		UserAddress:  req.UserAddress.Hex(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "json.Marshal")
	}

	u := c.baseURL + "/transactions/" + strconv.FormatInt(c.chainID, 10)
	if req.GasPrice != nil {
		u += "?gasPrice=" + req.GasPrice.String()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, err.Error())
	}

	var resp buildResponseBody
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, errors.Wrap(err, "json.Unmarshal").Error())
	}
	if resp.Error != "" {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, resp.Error)
	}
	if !common.IsHexAddress(resp.To) || resp.Data == "" {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, "response carries no transaction params")
	}

	data, err := hexutil.Decode(resp.Data)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRouteBuild, errors.Wrap(err, "hexutil.Decode").Error())
	}

	value := big.NewInt(0)
	if resp.Value != "" {
		v, ok := new(big.Int).SetString(resp.Value, 10)
		if !ok {
			return nil, errors.Wrapf(apperrors.ErrRouteBuild, "bad value %q", resp.Value)
		}
		value = v
	}

	return &SwapTx{
		To:    common.HexToAddress(resp.To),
		Data:  data,
		Value: value,
		Gas:   resp.Gas,
	}, nil
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "c.http.Do")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			_ = err // nothing useful to do with a close failure here
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("status %d: %s", resp.StatusCode, truncate(body))
	}
	return body, nil
}

func parsePriceRoute(raw json.RawMessage) (*PriceRoute, error) {
	var body priceRouteBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrap(apperrors.ErrQuoteUnavailable, errors.Wrap(err, "json.Unmarshal").Error())
	}

	srcAmount, ok := new(big.Int).SetString(body.SrcAmount, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "bad srcAmount %q", body.SrcAmount)
	}
	destAmount, ok := new(big.Int).SetString(body.DestAmount, 10)
	if !ok || destAmount.Sign() <= 0 {
		return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "bad destAmount %q", body.DestAmount)
	}

	srcUSD, err := decimal.NewFromString(body.SrcUSD)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "bad srcUSD %q", body.SrcUSD)
	}
	destUSD, err := decimal.NewFromString(body.DestUSD)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "bad destUSD %q", body.DestUSD)
	}
	gasCostUSD := decimal.Zero
	if body.GasCostUSD != "" {
		gasCostUSD, err = decimal.NewFromString(body.GasCostUSD)
		if err != nil {
			return nil, errors.Wrapf(apperrors.ErrQuoteUnavailable, "bad gasCostUSD %q", body.GasCostUSD)
		}
	}

	return &PriceRoute{
		SrcAmount:    srcAmount,
		DestAmount:   destAmount,
		DestDecimals: body.DestDecimals,
		SrcUSD:       srcUSD,
		DestUSD:      destUSD,
		GasCostUSD:   gasCostUSD,
		Raw:          raw,
	}, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
