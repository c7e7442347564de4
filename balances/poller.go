package balances

import (
	"context"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/swap"
)

const defaultInterval = 30 * time.Second

// Poller keeps the session's token balances and the network gas price fresh
// on a fixed interval. Refresh can also be called directly, e.g. right after
// a swap settles.
type Poller struct {
	clients  chain.Clients
	session  *swap.Session
	owner    common.Address
	interval time.Duration
}

func NewPoller(clients chain.Clients, session *swap.Session, owner common.Address) *Poller {
	return &Poller{
		clients:  clients,
		session:  session,
		owner:    owner,
		interval: defaultInterval,
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Balance poller stopped")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh re-reads both selected token balances and the gas price.
func (p *Poller) Refresh(ctx context.Context) {
	backend, err := p.clients.For(p.session.ChainID())
	if err != nil {
		log.Printf("Balance poller: %v", err)
		return
	}

	from, to := p.session.Tokens()

	fromBal, err := TokenBalance(ctx, backend, from, p.owner)
	if err != nil {
		log.Printf("Balance poller: %v", err)
		return
	}
	toBal, err := TokenBalance(ctx, backend, to, p.owner)
	if err != nil {
		log.Printf("Balance poller: %v", err)
		return
	}
	p.session.SetBalances(fromBal, toBal)

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		log.Printf("Balance poller: error reading gas price: %v", err)
		return
	}
	p.session.SetGasPrice(gasPrice)
}
