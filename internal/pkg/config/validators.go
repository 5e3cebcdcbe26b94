// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredConfig marks validation failures for absent values
var ErrMissingRequiredConfig = errors.New("missing required configuration")

type validator interface {
	validate(cfg *Config) error
}

// validatorsFor returns the validation chain for the environment
func validatorsFor(cfg *Config) []validator {
	chain := []validator{basicValidator{}}
	if cfg.IsProduction() {
		chain = append(chain, productionValidator{})
	}
	return chain
}

// basicValidator checks the fields every environment needs
type basicValidator struct{}

func (basicValidator) validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: database host", ErrMissingRequiredConfig)
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("%w: database name", ErrMissingRequiredConfig)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("%w: server port", ErrMissingRequiredConfig)
	}

	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max connections must be >= min connections")
	}
	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	if cfg.Pharmacy.ExpiryWarningDays <= 0 {
		return fmt.Errorf("expiry warning days must be positive")
	}
	if cfg.Pharmacy.LowStockThreshold < 0 {
		return fmt.Errorf("low stock threshold cannot be negative")
	}
	if cfg.Pharmacy.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive")
	}

	return nil
}

// productionValidator rejects development defaults and insecure
// settings that are tolerable everywhere else
type productionValidator struct{}

func (productionValidator) validate(cfg *Config) error {
	if strings.Contains(cfg.Database.Password, "MISSING_") || cfg.Database.Password == "" {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}
	if cfg.Security.JWTSecret == "" || cfg.Security.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("%w: JWT secret", ErrMissingRequiredConfig)
	}
	if len(cfg.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}
	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("%w: allowed origins", ErrMissingRequiredConfig)
	}
	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin not allowed in production")
		}
	}

	if cfg.Server.TLSEnabled {
		if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
			return fmt.Errorf("%w: TLS cert and key files", ErrMissingRequiredConfig)
		}
	}

	return nil
}
