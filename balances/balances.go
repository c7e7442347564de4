package balances

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/youke3399/youke-uniswap/chain"
	"github.com/youke3399/youke-uniswap/contracts"
	"github.com/youke3399/youke-uniswap/tokens"
)

// ERC20Balance returns the token balance (smallest unit) of an address.
func ERC20Balance(ctx context.Context, backend chain.Backend, token, addr common.Address) (*big.Int, error) {
	data, err := contracts.ERC20ABI.Pack("balanceOf", addr)
	if err != nil {
		return nil, err
	}

	output, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(output) < 32 {
		return big.NewInt(0), nil
	}

	return new(big.Int).SetBytes(output[:32]), nil
}

// TokenBalance returns the balance of an address for a registry token,
// native or contract-backed.
func TokenBalance(ctx context.Context, backend chain.Backend, t tokens.Token, addr common.Address) (*big.Int, error) {
	if t.IsZero() {
		return big.NewInt(0), nil
	}
	if t.IsNative() {
		bal, err := backend.BalanceAt(ctx, addr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading native balance: %w", err)
		}
		return bal, nil
	}
	bal, err := ERC20Balance(ctx, backend, t.Address, addr)
	if err != nil {
		return nil, fmt.Errorf("reading %s balance: %w", t.Symbol, err)
	}
	return bal, nil
}
