package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// BIP39 mnemonic for the signing wallet
	Mnemonic string `json:"mnemonic"`

	// RPC endpoints keyed by decimal chain ID
	RPCEndpoints map[string]string `json:"rpc_endpoints"`

	// Quote service endpoint (full URL)
	QuoteAPIURL string `json:"quote_api_url"`

	// Quote request defaults
	Protocols string `json:"protocols"`
	MinSplits int    `json:"min_splits"`
	Slippage  int    `json:"slippage"` // basis points

	// Chain the session starts on (default 1)
	ChainID uint64 `json:"chain_id"`

	// Path to SQLite database
	DatabasePath string `json:"database_path"`

	// HTTP server port (default 8080)
	Port int `json:"port"`

	// Optional Telegram notifications
	TelegramToken  string `json:"telegram_token"`
	TelegramChatID int64  `json:"telegram_chat_id"`

	// Optional Universal Router overrides keyed by decimal chain ID
	Routers map[string]string `json:"routers"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Mnemonic == "" {
		return fmt.Errorf("mnemonic is required")
	}
	if len(c.RPCEndpoints) == 0 {
		return fmt.Errorf("rpc_endpoints is required")
	}
	if c.QuoteAPIURL == "" {
		return fmt.Errorf("quote_api_url is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.ChainID == 0 {
		c.ChainID = 1
	}
	if c.Slippage == 0 {
		c.Slippage = 50
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if _, ok := c.RPCEndpoints[strconv.FormatUint(c.ChainID, 10)]; !ok {
		return fmt.Errorf("no rpc_endpoint configured for chain_id %d", c.ChainID)
	}
	return nil
}

// Endpoints returns the RPC endpoints keyed by numeric chain ID.
func (c *Config) Endpoints() (map[uint64]string, error) {
	return parseChainKeys(c.RPCEndpoints, "rpc_endpoints")
}

// RouterOverrides returns the configured router addresses keyed by numeric
// chain ID. Addresses stay hex strings; the caller converts.
func (c *Config) RouterOverrides() (map[uint64]string, error) {
	return parseChainKeys(c.Routers, "routers")
}

func parseChainKeys(m map[string]string, field string) (map[uint64]string, error) {
	out := make(map[uint64]string, len(m))
	for key, val := range m {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid chain ID %q", field, key)
		}
		out[chainID] = val
	}
	return out, nil
}
