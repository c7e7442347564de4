package quote

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/youke3399/youke-uniswap/tokens"
)

// Defaults are the service-side routing knobs sent with every request.
type Defaults struct {
	Protocols string
	MinSplits int
	Slippage  int // basis points
}

type Client struct {
	endpoint   string
	defaults   Defaults
	httpClient *http.Client
}

// NewClient creates a quote client. A nil httpClient gets a 30s-timeout
// default.
func NewClient(endpoint string, defaults Defaults, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint:   endpoint,
		defaults:   defaults,
		httpClient: httpClient,
	}
}

type wireToken struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address,omitempty"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	IsNative bool   `json:"isNative"`
}

func toWireToken(t tokens.Token) wireToken {
	w := wireToken{
		ChainID:  t.ChainID,
		Decimals: t.Decimals,
		Symbol:   t.Symbol,
		Name:     t.Name,
		IsNative: t.IsNative(),
	}
	if !t.IsNative() {
		w.Address = t.Address.Hex()
	}
	return w
}

type wireRequest struct {
	TokenIn   wireToken `json:"tokenIn"`
	TokenOut  wireToken `json:"tokenOut"`
	Amount    string    `json:"amount"`
	TradeType TradeType `json:"tradeType"`
	Recipient string    `json:"recipient"`
	Protocols string    `json:"protocols,omitempty"`
	MinSplits int       `json:"minSplits,omitempty"`
	Slippage  int       `json:"slippage"`
}

type wirePool struct {
	Token0 struct {
		Symbol string `json:"symbol"`
	} `json:"token0"`
	Token1 struct {
		Symbol string `json:"symbol"`
	} `json:"token1"`
	Fee int64 `json:"fee"`
}

type wireRoute struct {
	Protocol string     `json:"protocol"`
	Percent  float64    `json:"percent"`
	Pools    []wirePool `json:"pools"`
}

type wireResponse struct {
	Quote       string      `json:"quote"`
	Route       []wireRoute `json:"route"`
	GasUSD      json.Number `json:"gasUsd"`
	PriceImpact json.Number `json:"priceImpact"`
	Calldata    string      `json:"calldata"`
	Value       string      `json:"value"`
	Message     string      `json:"message"`
}

// FetchQuote issues one pricing request. The request must already satisfy
// Validate; callers debounce and sequence requests themselves.
func (c *Client) FetchQuote(ctx context.Context, r Request) (*Quote, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(wireRequest{
		TokenIn:   toWireToken(r.TokenIn),
		TokenOut:  toWireToken(r.TokenOut),
		Amount:    r.Amount,
		TradeType: r.TradeType,
		Recipient: r.Recipient,
		Protocols: c.defaults.Protocols,
		MinSplits: c.defaults.MinSplits,
		Slippage:  c.defaults.Slippage,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting quote: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var wire wireResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// error bodies may carry a message field
		_ = json.Unmarshal(respBody, &wire)
		return nil, &Error{Status: resp.StatusCode, Message: wire.Message}
	}

	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: fmt.Sprintf("malformed quote response: %v", err)}
	}

	return normalize(wire)
}

func normalize(wire wireResponse) (*Quote, error) {
	q := &Quote{
		Amount:      wire.Quote,
		GasUSD:      wire.GasUSD.String(),
		PriceImpact: wire.PriceImpact.String(),
	}

	for _, r := range wire.Route {
		route := Route{Protocol: r.Protocol, Percent: r.Percent}
		for _, p := range r.Pools {
			route.Pools = append(route.Pools, Pool{
				Token0: p.Token0.Symbol,
				Token1: p.Token1.Symbol,
				Fee:    p.Fee,
			})
		}
		q.Routes = append(q.Routes, route)
	}

	if wire.Calldata != "" {
		data, err := hex.DecodeString(strings.TrimPrefix(wire.Calldata, "0x"))
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("malformed calldata: %v", err)}
		}
		q.Calldata = data
	}

	if wire.Value != "" {
		v, ok := new(big.Int).SetString(wire.Value, 10)
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("malformed value %q", wire.Value)}
		}
		q.Value = v
	}

	return q, nil
}
