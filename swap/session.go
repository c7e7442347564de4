// Package swap owns the live swap intent and drives the approve→swap flow
// against the allowance manager, quote client, and chain backend.
package swap

import (
	"math/big"
	"sync"

	"github.com/youke3399/youke-uniswap/quote"
	"github.com/youke3399/youke-uniswap/tokens"
)

// Status tracks one phase of the two-phase flow.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Session is the single shared swap state: the user's current intent, the
// approval/swap phase statuses, the latest quote, and balances. The
// orchestrator is the only writer; readers take snapshots.
type Session struct {
	mu sync.RWMutex

	chainID   uint64
	available []tokens.Token

	fromToken  tokens.Token
	toToken    tokens.Token
	fromAmount string
	toAmount   string
	tradeType  quote.TradeType

	approveStatus Status
	swapStatus    Status
	swapError     string
	quoteError    string

	quote    *quote.Quote
	quoteSeq uint64 // sequence of the most recently issued quote request

	fromBalance *big.Int
	toBalance   *big.Int
	gasPrice    *big.Int // wei
}

// NewSession starts a session on a chain with the registry's first two
// tokens pre-selected.
func NewSession(chainID uint64) *Session {
	s := &Session{
		tradeType:     quote.ExactInput,
		approveStatus: StatusIdle,
		swapStatus:    StatusIdle,
	}
	s.loadChain(chainID)
	return s
}

func (s *Session) loadChain(chainID uint64) {
	s.chainID = chainID
	s.available = tokens.ForChain(chainID)
	s.fromToken = tokens.Token{}
	s.toToken = tokens.Token{}
	if len(s.available) > 0 {
		s.fromToken = s.available[0]
	}
	if len(s.available) > 1 {
		s.toToken = s.available[1]
	}
}

// SetChain switches the session to another chain and resets the intent.
func (s *Session) SetChain(chainID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadChain(chainID)
	s.resetIntentLocked()
}

// SelectFrom sets the input token. Picking the token already in the output
// slot swaps the slots, so input and output can never be the same asset.
func (s *Session) SelectFrom(t tokens.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens.SameAsset(t, s.fromToken) {
		return
	}
	if tokens.SameAsset(t, s.toToken) {
		s.toToken = s.fromToken
	}
	s.fromToken = t
	s.resetIntentLocked()
}

// SelectTo sets the output token, with the same slot-swap rule.
func (s *Session) SelectTo(t tokens.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens.SameAsset(t, s.toToken) {
		return
	}
	if tokens.SameAsset(t, s.fromToken) {
		s.fromToken = s.toToken
	}
	s.toToken = t
	s.resetIntentLocked()
}

// SetFromAmount records a sell-side edit and flips the trade direction to
// exact-input.
func (s *Session) SetFromAmount(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromAmount = v
	s.tradeType = quote.ExactInput
	s.approveStatus = StatusIdle
}

// SetToAmount records a buy-side edit and flips the trade direction to
// exact-output.
func (s *Session) SetToAmount(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toAmount = v
	s.tradeType = quote.ExactOutput
	s.approveStatus = StatusIdle
}

// resetIntentLocked invalidates everything derived from the intent: the
// approval phase, the published quote, and any in-flight quote request.
func (s *Session) resetIntentLocked() {
	s.approveStatus = StatusIdle
	s.quote = nil
	s.quoteError = ""
	s.quoteSeq++
}

// quoteRequest builds the pricing request for the current intent and issues
// a new sequence number, superseding any in-flight request.
func (s *Session) quoteRequest(recipient string) (quote.Request, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount := s.fromAmount
	if s.tradeType == quote.ExactOutput {
		amount = s.toAmount
	}

	s.quoteSeq++
	return quote.Request{
		TokenIn:   s.fromToken,
		TokenOut:  s.toToken,
		Amount:    amount,
		TradeType: s.tradeType,
		Recipient: recipient,
	}, s.quoteSeq
}

// publishQuote installs a resolved quote and auto-fills the counter-amount.
// Responses from superseded requests are dropped.
func (s *Session) publishQuote(seq uint64, q *quote.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.quoteSeq {
		return false
	}
	s.quote = q
	s.quoteError = ""
	if s.tradeType == quote.ExactInput {
		s.toAmount = q.Amount
	} else {
		s.fromAmount = q.Amount
	}
	return true
}

func (s *Session) setQuoteError(seq uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.quoteSeq {
		return
	}
	s.quote = nil
	s.quoteError = msg
}

// clearQuote drops the published quote and any quote error, and supersedes
// in-flight requests.
func (s *Session) clearQuote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quote = nil
	s.quoteError = ""
	s.quoteSeq++
}

func (s *Session) currentQuote() *quote.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quote
}

func (s *Session) setApproveStatus(v Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approveStatus = v
}

func (s *Session) setSwapStatus(v Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapStatus = v
}

func (s *Session) setSwapError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapError = msg
}

// failApproval surfaces an approval failure; the user must re-trigger.
func (s *Session) failApproval(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapError = msg
	s.approveStatus = StatusIdle
}

// failSwap surfaces a swap failure. Both statuses go back to idle so a retry
// re-checks the allowance from scratch.
func (s *Session) failSwap(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapError = msg
	s.approveStatus = StatusIdle
	s.swapStatus = StatusIdle
}

// settle folds a confirmed swap back to a fresh intent.
func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromAmount = ""
	s.toAmount = ""
	s.tradeType = quote.ExactInput
	s.approveStatus = StatusIdle
	s.swapStatus = StatusIdle
	s.swapError = ""
	s.quoteError = ""
	s.quote = nil
	s.quoteSeq++
}

// SetBalances updates the cached from/to token balances (smallest unit).
func (s *Session) SetBalances(from, to *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromBalance = from
	s.toBalance = to
}

// SetGasPrice updates the cached network gas price in wei.
func (s *Session) SetGasPrice(p *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gasPrice = p
}

// Tokens returns the from/to tokens currently selected.
func (s *Session) Tokens() (from, to tokens.Token) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fromToken, s.toToken
}

// ChainID returns the chain the session operates on.
func (s *Session) ChainID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainID
}

// Available returns the swappable tokens on the session's chain.
func (s *Session) Available() []tokens.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tokens.Token, len(s.available))
	copy(out, s.available)
	return out
}
