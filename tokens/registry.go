package tokens

// registry holds the swappable tokens per chain. Built once at init, never
// mutated afterwards.
var registry = map[uint64][]Token{
	1: {
		Native(1, 18, "ETH", "Ether"),
		New(1, "0xD33526068D116cE69F19A9ee46F0bd304F21A51f", 18, "RPL", "Rocket Pool"),
		New(1, "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6, "USDT", "Tether USD"),
		New(1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin"),
		New(1, "0x6982508145454Ce325dDbE47a25d4ec3d2311933", 18, "PEPE", "pepe"),
	},
	10: {
		Native(10, 18, "ETH", "Ether"),
		New(10, "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", 6, "USDT", "Tether USD"),
		New(10, "0x7F5c764cBc14f9669B88837ca1490cCa17c31607", 6, "USDC", "USD Coin"),
	},
	324: {
		Native(324, 18, "ETH", "Ether"),
		New(324, "0x7821a81c0baa7f50a3063c0b51984d081658969d", 6, "USDT", "Tether USD"),
		New(324, "0x3355df6D4c9C3035724Fd0e3914dE96A5a83aaf4", 6, "USDC", "USD Coin"),
	},
	8453: {
		Native(8453, 18, "ETH", "Ether"),
		New(8453, "0x2eA0325f6D8AcCd8b6D4b3E2e2a58E10bAAb9786", 6, "USDT", "Tether USD"),
		New(8453, "0xd9AA94D2c0e4F38e3D69f4687c7D97c4008A8E68", 6, "USDC", "USD Coin"),
	},
	42161: {
		Native(42161, 18, "ETH", "Ether"),
		New(42161, "0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", 6, "USDT", "Tether USD"),
		New(42161, "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", 6, "USDC", "USD Coin"),
	},
}

// ForChain returns the swappable tokens on a chain, in display order.
func ForChain(chainID uint64) []Token {
	list := registry[chainID]
	out := make([]Token, len(list))
	copy(out, list)
	return out
}

// Find looks up a token by symbol on a chain.
func Find(chainID uint64, symbol string) (Token, bool) {
	for _, t := range registry[chainID] {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Token{}, false
}
