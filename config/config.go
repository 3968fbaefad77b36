// Package config holds deployment configuration for the payment engines:
// data directory, fee rate, expiry window bounds, and faucet defaults.
// Values load from environment variables and an optional .env file via
// viper; Validate rejects out-of-range values before any engine starts.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	DataDir  string `mapstructure:"PAYFLOW_DATA_DIR"`
	LogLevel string `mapstructure:"PAYFLOW_LOG_LEVEL"`

	// FeeBps is the protocol fee rate in basis points, applied by all
	// three escrow engines at creation.
	FeeBps uint32 `mapstructure:"PAYFLOW_FEE_BPS"`

	// MinTransferExpiry and MaxTransferExpiry bound how far beyond now a
	// conditional transfer's expiry may fall, in seconds.
	MinTransferExpiry int64 `mapstructure:"PAYFLOW_MIN_TRANSFER_EXPIRY"`
	MaxTransferExpiry int64 `mapstructure:"PAYFLOW_MAX_TRANSFER_EXPIRY"`

	// Faucet defaults, used when no parameters are persisted yet.
	FaucetClaimAmount uint64 `mapstructure:"PAYFLOW_FAUCET_CLAIM_AMOUNT"`
	FaucetCooldown    int64  `mapstructure:"PAYFLOW_FAUCET_COOLDOWN"`
	FaucetMaxClaim    uint64 `mapstructure:"PAYFLOW_FAUCET_MAX_CLAIM"`
}

// DefaultConfig returns the built-in defaults: 50 bps fee, a 5 minute to
// 30 day transfer expiry window, and a 100-unit faucet claim on a 24 hour
// cooldown.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:           filepath.Join(home, ".payflow"),
		LogLevel:          "info",
		FeeBps:            50,
		MinTransferExpiry: 300,
		MaxTransferExpiry: 30 * 24 * 3600,
		FaucetClaimAmount: 100,
		FaucetCooldown:    24 * 3600,
		FaucetMaxClaim:    1000,
	}
}

// Load reads configuration from environment variables and an optional .env
// file in path, falling back to DefaultConfig values. The result is
// validated before being returned.
func Load(path string) (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PAYFLOW_DATA_DIR", defaults.DataDir)
	v.SetDefault("PAYFLOW_LOG_LEVEL", defaults.LogLevel)
	v.SetDefault("PAYFLOW_FEE_BPS", defaults.FeeBps)
	v.SetDefault("PAYFLOW_MIN_TRANSFER_EXPIRY", defaults.MinTransferExpiry)
	v.SetDefault("PAYFLOW_MAX_TRANSFER_EXPIRY", defaults.MaxTransferExpiry)
	v.SetDefault("PAYFLOW_FAUCET_CLAIM_AMOUNT", defaults.FaucetClaimAmount)
	v.SetDefault("PAYFLOW_FAUCET_COOLDOWN", defaults.FaucetCooldown)
	v.SetDefault("PAYFLOW_FAUCET_MAX_CLAIM", defaults.FaucetMaxClaim)

	for _, key := range []string{
		"PAYFLOW_DATA_DIR", "PAYFLOW_LOG_LEVEL", "PAYFLOW_FEE_BPS",
		"PAYFLOW_MIN_TRANSFER_EXPIRY", "PAYFLOW_MAX_TRANSFER_EXPIRY",
		"PAYFLOW_FAUCET_CLAIM_AMOUNT", "PAYFLOW_FAUCET_COOLDOWN",
		"PAYFLOW_FAUCET_MAX_CLAIM",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		// The .env file is optional; only a malformed file is an error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
