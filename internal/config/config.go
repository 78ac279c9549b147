// Package config defines the top-level configuration for the paperdex
// simulator and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PAPERDEX_* environment
// variables.
type Config struct {
	Sim      SimConfig    `toml:"sim"`
	Feed     FeedConfig   `toml:"feed"`
	Redis    RedisConfig  `toml:"redis"`
	Server   ServerConfig `toml:"server"`
	Notify   NotifyConfig `toml:"notify"`
	Mode     string       `toml:"mode"`
	LogLevel string       `toml:"log_level"`
}

// SimConfig holds the trade-simulation parameters.
type SimConfig struct {
	StartingBalance  float64  `toml:"starting_balance"`
	MaxOpenPositions int      `toml:"max_open_positions"`
	MaxClosedTrades  int      `toml:"max_closed_trades"`
	ScanInterval     duration `toml:"scan_interval"`
	TopPairs         int      `toml:"top_pairs"`
	MinPositionUSD   float64  `toml:"min_position_usd"`
	// MinLiquidityUSD filters candidates before ranking; zero disables the
	// pre-filter.
	MinLiquidityUSD float64 `toml:"min_liquidity_usd"`

	Aggressive TierConfig `toml:"aggressive"`
	Cautious   TierConfig `toml:"cautious"`
	Safe       TierConfig `toml:"safe"`
}

// TierConfig holds the per-tier sizing fraction and exit bands.
type TierConfig struct {
	Fraction      float64 `toml:"fraction"`
	TakeProfitPct float64 `toml:"take_profit_pct"`
	StopLossPct   float64 `toml:"stop_loss_pct"`
}

// FeedConfig holds the market feed source parameters.
type FeedConfig struct {
	// Mode selects the feed implementation: "dexscreener" or "sample".
	Mode    string   `toml:"mode"`
	BaseURL string   `toml:"base_url"`
	Chain   string   `toml:"chain"`
	Timeout duration `toml:"timeout"`
}

// RedisConfig holds the optional Redis mirror/event-bus parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds the HTTP status server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Sim: SimConfig{
			StartingBalance:  100.0,
			MaxOpenPositions: 5,
			MaxClosedTrades:  50,
			ScanInterval:     duration{30 * time.Second},
			TopPairs:         10,
			MinPositionUSD:   1.0,
			MinLiquidityUSD:  0,
			Aggressive:       TierConfig{Fraction: 0.05, TakeProfitPct: 0.05, StopLossPct: 0.10},
			Cautious:         TierConfig{Fraction: 0.10, TakeProfitPct: 0.10, StopLossPct: 0.12},
			Safe:             TierConfig{Fraction: 0.20, TakeProfitPct: 0.15, StopLossPct: 0.15},
		},
		Feed: FeedConfig{
			Mode:    "dexscreener",
			BaseURL: "https://api.dexscreener.com",
			Chain:   "solana",
			Timeout: duration{10 * time.Second},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"position_opened", "position_closed", "feed_error"},
		},
		Mode:     "sim",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"sim":     true,
	"monitor": true,
	"server":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validFeedModes enumerates the accepted values for FeedConfig.Mode.
var validFeedModes = map[string]bool{
	"dexscreener": true,
	"sample":      true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: sim, monitor, server)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Sim
	if c.Sim.StartingBalance <= 0 {
		errs = append(errs, fmt.Sprintf("sim: starting_balance must be > 0, got %v", c.Sim.StartingBalance))
	}
	if c.Sim.MaxOpenPositions < 1 {
		errs = append(errs, "sim: max_open_positions must be >= 1")
	}
	if c.Sim.MaxClosedTrades < 1 {
		errs = append(errs, "sim: max_closed_trades must be >= 1")
	}
	if c.Sim.ScanInterval.Duration <= 0 {
		errs = append(errs, "sim: scan_interval must be > 0")
	}
	if c.Sim.TopPairs < 1 {
		errs = append(errs, "sim: top_pairs must be >= 1")
	}
	if c.Sim.MinPositionUSD < 0 {
		errs = append(errs, "sim: min_position_usd must not be negative")
	}
	if c.Sim.MinLiquidityUSD < 0 {
		errs = append(errs, "sim: min_liquidity_usd must not be negative")
	}
	for _, tc := range []struct {
		name string
		t    TierConfig
	}{
		{"aggressive", c.Sim.Aggressive},
		{"cautious", c.Sim.Cautious},
		{"safe", c.Sim.Safe},
	} {
		if tc.t.Fraction <= 0 || tc.t.Fraction > 1 {
			errs = append(errs, fmt.Sprintf("sim.%s: fraction must be in (0,1], got %v", tc.name, tc.t.Fraction))
		}
		if tc.t.TakeProfitPct <= 0 {
			errs = append(errs, fmt.Sprintf("sim.%s: take_profit_pct must be > 0, got %v", tc.name, tc.t.TakeProfitPct))
		}
		if tc.t.StopLossPct <= 0 || tc.t.StopLossPct >= 1 {
			errs = append(errs, fmt.Sprintf("sim.%s: stop_loss_pct must be in (0,1), got %v", tc.name, tc.t.StopLossPct))
		}
	}

	// Feed
	if !validFeedModes[strings.ToLower(c.Feed.Mode)] {
		errs = append(errs, fmt.Sprintf("feed: unknown mode %q (valid: dexscreener, sample)", c.Feed.Mode))
	}
	if strings.ToLower(c.Feed.Mode) == "dexscreener" {
		if c.Feed.BaseURL == "" {
			errs = append(errs, "feed: base_url must not be empty")
		}
		if c.Feed.Chain == "" {
			errs = append(errs, "feed: chain must not be empty")
		}
	}
	if c.Feed.Timeout.Duration <= 0 {
		errs = append(errs, "feed: timeout must be > 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Notify — token and chat ID go together.
	tk := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tk != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ScanInterval returns the configured scan interval as a time.Duration.
func (c *Config) ScanInterval() time.Duration { return c.Sim.ScanInterval.Duration }

// FeedTimeout returns the configured feed timeout as a time.Duration.
func (c *Config) FeedTimeout() time.Duration { return c.Feed.Timeout.Duration }
