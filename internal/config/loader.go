package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PAPERDEX_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PAPERDEX_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators adjust the simulator at deploy time without touching the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Sim ──
	setFloat64(&cfg.Sim.StartingBalance, "PAPERDEX_SIM_STARTING_BALANCE")
	setInt(&cfg.Sim.MaxOpenPositions, "PAPERDEX_SIM_MAX_OPEN_POSITIONS")
	setInt(&cfg.Sim.MaxClosedTrades, "PAPERDEX_SIM_MAX_CLOSED_TRADES")
	setDuration(&cfg.Sim.ScanInterval, "PAPERDEX_SIM_SCAN_INTERVAL")
	setInt(&cfg.Sim.TopPairs, "PAPERDEX_SIM_TOP_PAIRS")
	setFloat64(&cfg.Sim.MinPositionUSD, "PAPERDEX_SIM_MIN_POSITION_USD")
	setFloat64(&cfg.Sim.MinLiquidityUSD, "PAPERDEX_SIM_MIN_LIQUIDITY_USD")

	// ── Feed ──
	setStr(&cfg.Feed.Mode, "PAPERDEX_FEED_MODE")
	setStr(&cfg.Feed.BaseURL, "PAPERDEX_FEED_BASE_URL")
	setStr(&cfg.Feed.Chain, "PAPERDEX_FEED_CHAIN")
	setDuration(&cfg.Feed.Timeout, "PAPERDEX_FEED_TIMEOUT")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PAPERDEX_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PAPERDEX_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PAPERDEX_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PAPERDEX_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PAPERDEX_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PAPERDEX_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PAPERDEX_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "PAPERDEX_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "PAPERDEX_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PAPERDEX_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PAPERDEX_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PAPERDEX_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PAPERDEX_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "PAPERDEX_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "PAPERDEX_MODE")
	setStr(&cfg.LogLevel, "PAPERDEX_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
