package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint32(50), cfg.FeeBps)
	assert.Equal(t, int64(300), cfg.MinTransferExpiry)
	assert.Equal(t, int64(30*24*3600), cfg.MaxTransferExpiry)
	assert.Equal(t, uint64(100), cfg.FaucetClaimAmount)
	assert.Equal(t, int64(24*3600), cfg.FaucetCooldown)
	assert.Equal(t, uint64(1000), cfg.FaucetMaxClaim)

	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"fee above 100 percent", func(c *Config) { c.FeeBps = 10_001 }, ErrInvalidFeeRate},
		{"zero min expiry", func(c *Config) { c.MinTransferExpiry = 0 }, ErrInvalidExpiryWindow},
		{"max below min expiry", func(c *Config) { c.MaxTransferExpiry = c.MinTransferExpiry }, ErrInvalidExpiryWindow},
		{"zero faucet claim", func(c *Config) { c.FaucetClaimAmount = 0 }, ErrInvalidFaucet},
		{"negative faucet cooldown", func(c *Config) { c.FaucetCooldown = -1 }, ErrInvalidFaucet},
		{"faucet max below claim", func(c *Config) { c.FaucetMaxClaim = 1 }, ErrInvalidFaucet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), tt.wantErr)
		})
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "DEBUG"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().FeeBps, cfg.FeeBps)
	assert.Equal(t, DefaultConfig().FaucetClaimAmount, cfg.FaucetClaimAmount)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PAYFLOW_FEE_BPS", "25")
	t.Setenv("PAYFLOW_LOG_LEVEL", "debug")
	t.Setenv("PAYFLOW_FAUCET_CLAIM_AMOUNT", "500")
	t.Setenv("PAYFLOW_FAUCET_MAX_CLAIM", "5000")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, uint32(25), cfg.FeeBps)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(500), cfg.FaucetClaimAmount)
	assert.Equal(t, uint64(5000), cfg.FaucetMaxClaim)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := "PAYFLOW_FEE_BPS=75\nPAYFLOW_DATA_DIR=/var/lib/payflow\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, uint32(75), cfg.FeeBps)
	assert.Equal(t, "/var/lib/payflow", cfg.DataDir)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("PAYFLOW_FEE_BPS", "20000")

	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidFeeRate)
}
