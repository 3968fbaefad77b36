package config

import (
	"fmt"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.FeeBps > 10000 {
		return fmt.Errorf("%w: %d bps", ErrInvalidFeeRate, cfg.FeeBps)
	}

	if cfg.MinTransferExpiry <= 0 || cfg.MaxTransferExpiry <= cfg.MinTransferExpiry {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidExpiryWindow, cfg.MinTransferExpiry, cfg.MaxTransferExpiry)
	}

	if cfg.FaucetClaimAmount == 0 || cfg.FaucetCooldown < 0 || cfg.FaucetMaxClaim < cfg.FaucetClaimAmount {
		return fmt.Errorf("%w: claim %d, cooldown %d, max %d",
			ErrInvalidFaucet, cfg.FaucetClaimAmount, cfg.FaucetCooldown, cfg.FaucetMaxClaim)
	}

	return nil
}
