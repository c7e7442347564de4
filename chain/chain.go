// Package chain wraps per-chain RPC connections behind a narrow interface so
// on-chain reads and transaction submission can be faked in tests.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of ethclient.Client the swap flow needs.
// TransactionReceipt and CodeAt also satisfy bind.WaitMined.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Clients maps a chain ID to its RPC backend.
type Clients map[uint64]Backend

// Dial connects to every configured RPC endpoint.
func Dial(endpoints map[uint64]string) (Clients, error) {
	clients := make(Clients, len(endpoints))
	for chainID, url := range endpoints {
		client, err := ethclient.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("connecting to chain %d RPC at %s: %w", chainID, url, err)
		}
		clients[chainID] = client
	}
	return clients, nil
}

// For returns the backend for a chain.
func (c Clients) For(chainID uint64) (Backend, error) {
	backend, ok := c[chainID]
	if !ok {
		return nil, fmt.Errorf("no RPC client for chain %d", chainID)
	}
	return backend, nil
}
