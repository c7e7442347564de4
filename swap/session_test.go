package swap

import (
	"testing"

	"github.com/youke3399/youke-uniswap/quote"
	"github.com/youke3399/youke-uniswap/tokens"
)

func TestSessionDefaults(t *testing.T) {
	s := NewSession(1)
	from, to := s.Tokens()
	if from.Symbol != "ETH" || to.Symbol != "RPL" {
		t.Errorf("default tokens = %s/%s, want ETH/RPL", from.Symbol, to.Symbol)
	}
	snap := s.Snapshot()
	if snap.TradeType != quote.ExactInput {
		t.Errorf("default trade type = %s", snap.TradeType)
	}
	if snap.ApproveStatus != StatusIdle || snap.SwapStatus != StatusIdle {
		t.Errorf("default statuses = %s/%s", snap.ApproveStatus, snap.SwapStatus)
	}
}

func TestSelectSwapsSlots(t *testing.T) {
	s := NewSession(1)
	usdt, _ := tokens.Find(1, "USDT")
	usdc, _ := tokens.Find(1, "USDC")

	s.SelectFrom(usdt)
	s.SelectTo(usdc)

	// picking the output token as input swaps the slots
	s.SelectFrom(usdc)
	from, to := s.Tokens()
	if from.Symbol != "USDC" || to.Symbol != "USDT" {
		t.Errorf("after SelectFrom(USDC): %s/%s, want USDC/USDT", from.Symbol, to.Symbol)
	}

	// and the same the other way around
	s.SelectTo(usdc)
	from, to = s.Tokens()
	if from.Symbol != "USDT" || to.Symbol != "USDC" {
		t.Errorf("after SelectTo(USDC): %s/%s, want USDT/USDC", from.Symbol, to.Symbol)
	}

	if tokens.SameAsset(from, to) {
		t.Error("input and output must never be the same asset")
	}
}

func TestSelectResetsApproval(t *testing.T) {
	s := NewSession(1)
	usdt, _ := tokens.Find(1, "USDT")
	s.setApproveStatus(StatusDone)

	s.SelectFrom(usdt)
	if s.Snapshot().ApproveStatus != StatusIdle {
		t.Error("changing the input token must reset the approval status")
	}

	s.setApproveStatus(StatusDone)
	s.SetFromAmount("5")
	if s.Snapshot().ApproveStatus != StatusIdle {
		t.Error("changing the amount must reset the approval status")
	}
}

func TestAmountEditsSetTradeType(t *testing.T) {
	s := NewSession(1)

	s.SetFromAmount("1")
	if s.Snapshot().TradeType != quote.ExactInput {
		t.Error("sell-side edit should set exact-input")
	}

	s.SetToAmount("100")
	if s.Snapshot().TradeType != quote.ExactOutput {
		t.Error("buy-side edit should set exact-output")
	}
}

func TestPublishQuoteSequencing(t *testing.T) {
	s := NewSession(1)
	s.SetFromAmount("1")

	_, seq1 := s.quoteRequest("0x1")
	_, seq2 := s.quoteRequest("0x1")

	stale := &quote.Quote{Amount: "100"}
	if s.publishQuote(seq1, stale) {
		t.Error("superseded response must be discarded")
	}
	if s.Snapshot().Quote != nil {
		t.Error("stale quote must not be published")
	}

	fresh := &quote.Quote{Amount: "245.1"}
	if !s.publishQuote(seq2, fresh) {
		t.Error("latest response must be published")
	}
	snap := s.Snapshot()
	if snap.Quote == nil || snap.Quote.Amount != "245.1" {
		t.Errorf("quote = %+v", snap.Quote)
	}
	if snap.ToAmount != "245.1" {
		t.Errorf("exact-input quote should fill the buy amount, got %q", snap.ToAmount)
	}
}

func TestPublishQuoteExactOutputFillsFromAmount(t *testing.T) {
	s := NewSession(1)
	s.SetToAmount("100")

	_, seq := s.quoteRequest("0x1")
	s.publishQuote(seq, &quote.Quote{Amount: "0.04"})

	if got := s.Snapshot().FromAmount; got != "0.04" {
		t.Errorf("exact-output quote should fill the sell amount, got %q", got)
	}
}

func TestQuoteErrorSequencing(t *testing.T) {
	s := NewSession(1)
	s.SetFromAmount("1")

	_, seq1 := s.quoteRequest("0x1")
	_, seq2 := s.quoteRequest("0x1")

	s.setQuoteError(seq1, "no route")
	if s.Snapshot().QuoteError != "" {
		t.Error("stale error must be discarded")
	}

	s.setQuoteError(seq2, "no route")
	if s.Snapshot().QuoteError != "no route" {
		t.Error("latest error must surface")
	}
}
