package swap

import (
	"math/big"

	"github.com/youke3399/youke-uniswap/quote"
	"github.com/youke3399/youke-uniswap/tokens"
)

// QuoteInfo is the presentation view of the current quote. The call payload
// stays internal.
type QuoteInfo struct {
	Amount      string        `json:"amount"`
	GasUSD      string        `json:"gasUsd"`
	PriceImpact string        `json:"priceImpact"`
	Routes      []quote.Route `json:"routes"`
}

// State is a read-only snapshot of the session for the presentation layer.
type State struct {
	ChainID       uint64          `json:"chainId"`
	FromToken     string          `json:"fromToken"`
	ToToken       string          `json:"toToken"`
	FromAmount    string          `json:"fromAmount"`
	ToAmount      string          `json:"toAmount"`
	TradeType     quote.TradeType `json:"tradeType"`
	ApproveStatus Status          `json:"approveStatus"`
	SwapStatus    Status          `json:"swapStatus"`
	SwapError     string          `json:"swapError,omitempty"`
	QuoteError    string          `json:"quoteError,omitempty"`
	Quote         *QuoteInfo      `json:"quote,omitempty"`
	FromBalance   string          `json:"fromBalance"`
	ToBalance     string          `json:"toBalance"`
	GasPriceWei   string          `json:"gasPriceWei,omitempty"`
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		ChainID:       s.chainID,
		FromToken:     s.fromToken.Symbol,
		ToToken:       s.toToken.Symbol,
		FromAmount:    s.fromAmount,
		ToAmount:      s.toAmount,
		TradeType:     s.tradeType,
		ApproveStatus: s.approveStatus,
		SwapStatus:    s.swapStatus,
		SwapError:     s.swapError,
		QuoteError:    s.quoteError,
		FromBalance:   formatBalance(s.fromBalance, s.fromToken),
		ToBalance:     formatBalance(s.toBalance, s.toToken),
	}
	if s.quote != nil {
		state.Quote = &QuoteInfo{
			Amount:      s.quote.Amount,
			GasUSD:      s.quote.GasUSD,
			PriceImpact: s.quote.PriceImpact,
			Routes:      s.quote.Routes,
		}
	}
	if s.gasPrice != nil {
		state.GasPriceWei = s.gasPrice.String()
	}
	return state
}

func formatBalance(v *big.Int, t tokens.Token) string {
	if v == nil || t.IsZero() {
		return "0"
	}
	return tokens.FormatUnits(v, t.Decimals)
}
