package tokens

import (
	"github.com/ethereum/go-ethereum/common"
)

// Token identifies a fungible asset on a specific chain: either the chain's
// native currency or an ERC20 contract. The zero value is "no token".
type Token struct {
	ChainID  uint64
	Address  common.Address // zero for native currency
	Decimals uint8
	Symbol   string
	Name     string

	native bool
}

// Native constructs the native currency of a chain.
func Native(chainID uint64, decimals uint8, symbol, name string) Token {
	return Token{
		ChainID:  chainID,
		Decimals: decimals,
		Symbol:   symbol,
		Name:     name,
		native:   true,
	}
}

// New constructs a contract-backed token.
func New(chainID uint64, address string, decimals uint8, symbol, name string) Token {
	return Token{
		ChainID:  chainID,
		Address:  common.HexToAddress(address),
		Decimals: decimals,
		Symbol:   symbol,
		Name:     name,
	}
}

// IsNative reports whether the token is the chain's native currency.
func (t Token) IsNative() bool {
	return t.native
}

// IsZero reports whether the token is unset.
func (t Token) IsZero() bool {
	return t.Symbol == "" && !t.native
}

// SameAsset reports whether a and b identify the same asset: equal chain and
// either both native or both backed by the same contract.
func SameAsset(a, b Token) bool {
	if a.ChainID != b.ChainID {
		return false
	}
	if a.native || b.native {
		return a.native == b.native
	}
	return a.Address == b.Address
}
