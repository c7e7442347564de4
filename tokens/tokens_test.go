package tokens

import (
	"math/big"
	"testing"
)

func TestSameAsset(t *testing.T) {
	eth := Native(1, 18, "ETH", "Ether")
	usdc := New(1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6, "USDC", "USD Coin")

	if !SameAsset(eth, Native(1, 18, "ETH", "Ether")) {
		t.Error("native currencies on the same chain should match")
	}
	if SameAsset(eth, Native(10, 18, "ETH", "Ether")) {
		t.Error("native currencies on different chains should not match")
	}
	if SameAsset(eth, usdc) {
		t.Error("native and contract tokens should not match")
	}
	if !SameAsset(usdc, New(1, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", 6, "USDC", "")) {
		t.Error("same contract address should match regardless of hex case or name")
	}
	if SameAsset(usdc, New(1, "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6, "USDT", "Tether USD")) {
		t.Error("different contracts should not match")
	}
}

func TestRegistry(t *testing.T) {
	mainnet := ForChain(1)
	if len(mainnet) != 5 {
		t.Fatalf("expected 5 mainnet tokens, got %d", len(mainnet))
	}
	if !mainnet[0].IsNative() {
		t.Error("first mainnet token should be the native currency")
	}

	usdt, ok := Find(1, "USDT")
	if !ok {
		t.Fatal("USDT not found on mainnet")
	}
	if usdt.Decimals != 6 {
		t.Errorf("USDT decimals = %d, want 6", usdt.Decimals)
	}

	if _, ok := Find(999, "ETH"); ok {
		t.Error("unknown chain should have no tokens")
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"0.1", 18, "100000000000000000"},
		{"1", 6, "1000000"},
		{"100", 6, "100000000"},
		{"0.000001", 6, "1"},
		{"1.5", 2, "150"},
		{".5", 2, "50"},
		{"1.23456789", 6, "1234567"}, // extra precision dropped
		{"0", 18, "0"},
	}
	for _, tt := range tests {
		got, err := ParseUnits(tt.amount, tt.decimals)
		if err != nil {
			t.Errorf("ParseUnits(%q, %d): %v", tt.amount, tt.decimals, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseUnits(%q, %d) = %s, want %s", tt.amount, tt.decimals, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1.2.3", "-1"} {
		if _, err := ParseUnits(bad, 6); err == nil {
			t.Errorf("ParseUnits(%q) should fail", bad)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		value    string
		decimals uint8
		want     string
	}{
		{"100000000000000000", 18, "0.1"},
		{"1000000", 6, "1"},
		{"1500000", 6, "1.5"},
		{"1", 6, "0.000001"},
		{"0", 18, "0"},
	}
	for _, tt := range tests {
		v, _ := new(big.Int).SetString(tt.value, 10)
		if got := FormatUnits(v, tt.decimals); got != tt.want {
			t.Errorf("FormatUnits(%s, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
		}
	}
	if got := FormatUnits(nil, 18); got != "0" {
		t.Errorf("FormatUnits(nil) = %q, want 0", got)
	}
}
