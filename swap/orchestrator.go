package swap

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/youke3399/youke-uniswap/quote"
	"github.com/youke3399/youke-uniswap/tokens"
)

// QuoteFetcher prices a swap intent.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, r quote.Request) (*quote.Quote, error)
}

// AllowanceEnsurer makes the on-chain allowances cover the required amount.
type AllowanceEnsurer interface {
	EnsureAllowance(ctx context.Context, token tokens.Token, owner common.Address, required *big.Int) error
}

// Submitter broadcasts the quote's call payload to the router and waits for
// confirmation.
type Submitter interface {
	Submit(ctx context.Context, chainID uint64, calldata []byte, value *big.Int) (common.Hash, error)
}

// Settlement describes a confirmed swap, captured before the session resets.
type Settlement struct {
	TxHash     common.Hash
	ChainID    uint64
	FromSymbol string
	ToSymbol   string
	FromAmount string
	ToAmount   string
}

const defaultDebounce = time.Second

type Options struct {
	Session   *Session
	Quotes    QuoteFetcher
	Allowance AllowanceEnsurer
	Submitter Submitter

	// Recipient is the wallet address swaps are signed from and bought
	// tokens are delivered to.
	Recipient common.Address

	// Debounce is how long the amount must settle before a quote request is
	// issued (default 1s).
	Debounce time.Duration

	// OnSettled runs after a swap confirms (history, notification, balance
	// refresh). Optional.
	OnSettled func(Settlement)

	// OnSwapFailed runs after a swap submission fails. Optional.
	OnSwapFailed func(error)
}

// Orchestrator sequences allowance checking, quote acquisition, and swap
// submission for the session's current intent.
type Orchestrator struct {
	session   *Session
	quotes    QuoteFetcher
	allowance AllowanceEnsurer
	submitter Submitter
	recipient common.Address
	debounce  time.Duration

	onSettled    func(Settlement)
	onSwapFailed func(error)

	timerMu sync.Mutex
	timer   *time.Timer

	// runMu serializes HandleAction so a second button press cannot start
	// another approval or broadcast a duplicate swap while one is in flight.
	runMu sync.Mutex
}

func New(opts Options) *Orchestrator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Orchestrator{
		session:      opts.Session,
		quotes:       opts.Quotes,
		allowance:    opts.Allowance,
		submitter:    opts.Submitter,
		recipient:    opts.Recipient,
		debounce:     debounce,
		onSettled:    opts.OnSettled,
		onSwapFailed: opts.OnSwapFailed,
	}
}

// Session returns the state container the orchestrator drives.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Intent edits go through the orchestrator so every change re-arms the
// debounced quote refresh.

func (o *Orchestrator) SelectFrom(t tokens.Token) {
	o.session.SelectFrom(t)
	o.scheduleQuote()
}

func (o *Orchestrator) SelectTo(t tokens.Token) {
	o.session.SelectTo(t)
	o.scheduleQuote()
}

func (o *Orchestrator) SetFromAmount(v string) {
	o.session.SetFromAmount(v)
	o.scheduleQuote()
}

func (o *Orchestrator) SetToAmount(v string) {
	o.session.SetToAmount(v)
	o.scheduleQuote()
}

func (o *Orchestrator) SetChain(chainID uint64) {
	o.session.SetChain(chainID)
	o.scheduleQuote()
}

// scheduleQuote re-arms the debounce timer; earlier pending fires are
// cancelled.
func (o *Orchestrator) scheduleQuote() {
	o.timerMu.Lock()
	defer o.timerMu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		o.RefreshQuote(context.Background())
	})
}

// RefreshQuote prices the current intent immediately. An incomplete intent
// clears the published quote instead. Responses that lost the race to a
// newer request are dropped by the session.
func (o *Orchestrator) RefreshQuote(ctx context.Context) {
	req, seq := o.session.quoteRequest(o.recipient.Hex())
	if err := req.Validate(); err != nil {
		o.session.clearQuote()
		return
	}

	q, err := o.quotes.FetchQuote(ctx, req)
	if err != nil {
		log.Printf("quote request failed: %v", err)
		o.session.setQuoteError(seq, err.Error())
		return
	}
	o.session.publishQuote(seq, q)
}

// HandleAction is the swap button. For a native input token it submits the
// swap directly; for a contract token the first action runs the approval
// phase and the second submits.
func (o *Orchestrator) HandleAction(ctx context.Context) error {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	o.session.setSwapError("")

	snap := o.session.Snapshot()
	from, _ := o.session.Tokens()

	if snap.FromToken == "" || snap.ToToken == "" {
		o.session.setSwapError("select both tokens")
		return fmt.Errorf("select both tokens")
	}

	if from.IsNative() {
		return o.submitSwap(ctx)
	}

	switch snap.ApproveStatus {
	case StatusIdle:
		return o.runApproval(ctx, from, snap.FromAmount)
	case StatusDone:
		return o.submitSwap(ctx)
	default:
		// approval already in flight
		return nil
	}
}

func (o *Orchestrator) runApproval(ctx context.Context, from tokens.Token, amount string) error {
	required, err := tokens.ParseUnits(amount, from.Decimals)
	if err != nil || required.Sign() <= 0 {
		o.session.setSwapError("enter a positive amount")
		return fmt.Errorf("invalid amount %q", amount)
	}

	o.session.setApproveStatus(StatusPending)
	if err := o.allowance.EnsureAllowance(ctx, from, o.recipient, required); err != nil {
		log.Printf("approval failed: %v", err)
		o.session.failApproval(fmt.Sprintf("approval failed: %v", err))
		return err
	}
	o.session.setApproveStatus(StatusDone)
	return nil
}

func (o *Orchestrator) submitSwap(ctx context.Context) error {
	q := o.session.currentQuote()
	if q == nil || len(q.Calldata) == 0 {
		o.session.setSwapError("no quote available")
		return fmt.Errorf("no quote available")
	}

	// capture the intent before settle clears it
	snap := o.session.Snapshot()

	o.session.setSwapStatus(StatusPending)
	txHash, err := o.submitter.Submit(ctx, snap.ChainID, q.Calldata, q.Value)
	if err != nil {
		log.Printf("swap failed: %v", err)
		o.session.failSwap(fmt.Sprintf("swap failed: %v", err))
		if o.onSwapFailed != nil {
			o.onSwapFailed(err)
		}
		return err
	}

	o.session.settle()
	log.Printf("Swap confirmed: %s", txHash.Hex())

	if o.onSettled != nil {
		o.onSettled(Settlement{
			TxHash:     txHash,
			ChainID:    snap.ChainID,
			FromSymbol: snap.FromToken,
			ToSymbol:   snap.ToToken,
			FromAmount: snap.FromAmount,
			ToAmount:   snap.ToAmount,
		})
	}
	return nil
}
