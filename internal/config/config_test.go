package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sim", cfg.Mode)
	assert.InDelta(t, 100.0, cfg.Sim.StartingBalance, 1e-9)
	assert.Equal(t, 5, cfg.Sim.MaxOpenPositions)
	assert.Equal(t, 50, cfg.Sim.MaxClosedTrades)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval())
	assert.Equal(t, 10, cfg.Sim.TopPairs)
	assert.Equal(t, "dexscreener", cfg.Feed.Mode)
	assert.Equal(t, "solana", cfg.Feed.Chain)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout())
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.Sim.StartingBalance = -5
	cfg.Sim.TopPairs = 0
	cfg.Server.Port = 99999

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "starting_balance")
	assert.Contains(t, err.Error(), "top_pairs")
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_TierBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fraction over one", func(c *Config) { c.Sim.Safe.Fraction = 1.5 }},
		{"fraction zero", func(c *Config) { c.Sim.Aggressive.Fraction = 0 }},
		{"take profit zero", func(c *Config) { c.Sim.Cautious.TakeProfitPct = 0 }},
		{"stop loss at one", func(c *Config) { c.Sim.Safe.StopLossPct = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_TelegramFieldsGoTogether(t *testing.T) {
	cfg := Defaults()
	cfg.Notify.TelegramToken = "tok"
	assert.Error(t, cfg.Validate())

	cfg.Notify.TelegramChatID = "123"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_FeedModes(t *testing.T) {
	cfg := Defaults()
	cfg.Feed.Mode = "sample"
	cfg.Feed.BaseURL = ""
	cfg.Feed.Chain = ""
	assert.NoError(t, cfg.Validate(), "sample feed needs no base_url or chain")

	cfg.Feed.Mode = "dexscreener"
	assert.Error(t, cfg.Validate())
}

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "monitor"

[sim]
starting_balance = 250.0
scan_interval = "45s"

[sim.aggressive]
fraction = 0.03
take_profit_pct = 0.04
stop_loss_pct = 0.08

[feed]
chain = "base"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "monitor", cfg.Mode)
	assert.InDelta(t, 250.0, cfg.Sim.StartingBalance, 1e-9)
	assert.Equal(t, 45*time.Second, cfg.ScanInterval())
	assert.InDelta(t, 0.03, cfg.Sim.Aggressive.Fraction, 1e-12)
	assert.Equal(t, "base", cfg.Feed.Chain)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Sim.MaxOpenPositions)
	assert.InDelta(t, 0.10, cfg.Sim.Cautious.Fraction, 1e-12)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mode = "sim"`), 0o644))

	t.Setenv("PAPERDEX_MODE", "server")
	t.Setenv("PAPERDEX_SIM_STARTING_BALANCE", "42.5")
	t.Setenv("PAPERDEX_SIM_SCAN_INTERVAL", "2m")
	t.Setenv("PAPERDEX_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PAPERDEX_REDIS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "server", cfg.Mode)
	assert.InDelta(t, 42.5, cfg.Sim.StartingBalance, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.ScanInterval())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Redis.Enabled)
}

func TestDuration_TextRoundTrip(t *testing.T) {
	var d duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("not-a-duration")))
}
