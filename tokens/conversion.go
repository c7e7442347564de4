package tokens

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseUnits converts a human-readable decimal string into the token's
// smallest unit. Fractional digits beyond the token's precision are dropped.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	whole, frac := s, ""
	if idx := strings.Index(s, "."); idx != -1 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if ok && v.Sign() >= 0 {
		return v, nil
	}
	return nil, fmt.Errorf("invalid amount %q", amount)
}

// FormatUnits renders a smallest-unit value as a decimal string, trimming
// trailing zeros from the fractional part.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	s := v.String()
	if decimals == 0 {
		return s
	}
	if len(s) <= int(decimals) {
		s = strings.Repeat("0", int(decimals)-len(s)+1) + s
	}
	split := len(s) - int(decimals)
	whole, frac := s[:split], strings.TrimRight(s[split:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
