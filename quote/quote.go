// Package quote talks to the external pricing service and normalizes its
// responses into swap-ready quotes.
package quote

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/youke3399/youke-uniswap/tokens"
)

// TradeType is the trade direction: which side of the swap the user fixed.
type TradeType string

const (
	ExactInput  TradeType = "EXACT_INPUT"
	ExactOutput TradeType = "EXACT_OUTPUT"
)

// Request is one pricing request: the current swap intent plus the recipient
// of the bought tokens.
type Request struct {
	TokenIn   tokens.Token
	TokenOut  tokens.Token
	Amount    string // unparsed decimal, as typed
	TradeType TradeType
	Recipient string
}

// Validate reports whether the request is complete enough to price: both
// tokens set, a positive numeric amount, and a recipient.
func (r Request) Validate() error {
	if r.TokenIn.IsZero() || r.TokenOut.IsZero() {
		return fmt.Errorf("both tokens must be selected")
	}
	if r.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Amount), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("amount must be a positive number")
	}
	return nil
}

// Pool is one liquidity venue inside a route leg.
type Pool struct {
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
	Fee    int64  `json:"fee"` // hundredths of a basis point
}

// Route is one execution leg of a quote.
type Route struct {
	Protocol string  `json:"protocol"`
	Percent  float64 `json:"percent"`
	Pools    []Pool  `json:"pools"`
}

// Quote is a normalized pricing response. Replaced wholesale on every
// request; never mutated.
type Quote struct {
	Amount      string   // counter-amount, decimal string
	GasUSD      string
	PriceImpact string
	Routes      []Route
	Calldata    []byte   // router call payload
	Value       *big.Int // native value to attach
}

// Error is a failure reported by the pricing service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("quote API returned %d", e.Status)
}
