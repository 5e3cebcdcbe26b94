package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Environment: "development"},
		Database: DatabaseConfig{
			Host:           "localhost",
			Name:           "apotek",
			Password:       "local-password",
			SSLMode:        "disable",
			MaxConnections: 25,
			MinConnections: 5,
		},
		Redis:    RedisConfig{PoolSize: 10},
		Server:   ServerConfig{Port: "8080"},
		Security: SecurityConfig{RateLimitRequests: 100},
		Pharmacy: PharmacyConfig{
			ExpiryWarningDays: 90,
			LowStockThreshold: 10,
			DefaultPageSize:   50,
		},
	}
}

func validProductionConfig() *Config {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.Security.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Security.SecureHeaders = true
	cfg.Security.AllowedOrigins = []string{"https://apotek.sehatindo.com"}
	return cfg
}

func TestBasicValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid_config_passes",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing_database_host",
			mutate:  func(cfg *Config) { cfg.Database.Host = "" },
			wantErr: "database host",
		},
		{
			name:    "missing_database_name",
			mutate:  func(cfg *Config) { cfg.Database.Name = "" },
			wantErr: "database name",
		},
		{
			name:    "missing_server_port",
			mutate:  func(cfg *Config) { cfg.Server.Port = "" },
			wantErr: "server port",
		},
		{
			name: "max_connections_below_min",
			mutate: func(cfg *Config) {
				cfg.Database.MaxConnections = 2
				cfg.Database.MinConnections = 5
			},
			wantErr: "max connections",
		},
		{
			name:    "zero_redis_pool",
			mutate:  func(cfg *Config) { cfg.Redis.PoolSize = 0 },
			wantErr: "redis pool size",
		},
		{
			name:    "zero_expiry_warning_days",
			mutate:  func(cfg *Config) { cfg.Pharmacy.ExpiryWarningDays = 0 },
			wantErr: "expiry warning days",
		},
		{
			name:    "negative_low_stock_threshold",
			mutate:  func(cfg *Config) { cfg.Pharmacy.LowStockThreshold = -1 },
			wantErr: "low stock threshold",
		},
		{
			name:    "zero_page_size",
			mutate:  func(cfg *Config) { cfg.Pharmacy.DefaultPageSize = 0 },
			wantErr: "page size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid_production_config_passes",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "placeholder_database_password",
			mutate:  func(cfg *Config) { cfg.Database.Password = "MISSING_DB_PASSWORD" },
			wantErr: "database password",
		},
		{
			name:    "default_jwt_secret",
			mutate:  func(cfg *Config) { cfg.Security.JWTSecret = "change-me-in-production" },
			wantErr: "JWT secret",
		},
		{
			name:    "short_jwt_secret",
			mutate:  func(cfg *Config) { cfg.Security.JWTSecret = "too-short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "ssl_disabled",
			mutate:  func(cfg *Config) { cfg.Database.SSLMode = "disable" },
			wantErr: "SSL",
		},
		{
			name:    "secure_headers_disabled",
			mutate:  func(cfg *Config) { cfg.Security.SecureHeaders = false },
			wantErr: "secure headers",
		},
		{
			name:    "no_allowed_origins",
			mutate:  func(cfg *Config) { cfg.Security.AllowedOrigins = nil },
			wantErr: "allowed origins",
		},
		{
			name:    "wildcard_origin",
			mutate:  func(cfg *Config) { cfg.Security.AllowedOrigins = []string{"*"} },
			wantErr: "wildcard origin",
		},
		{
			name: "tls_enabled_without_cert",
			mutate: func(cfg *Config) {
				cfg.Server.TLSEnabled = true
				cfg.Server.TLSCertFile = ""
			},
			wantErr: "TLS cert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProductionConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionChecksSkippedInDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.Database.SSLMode = "disable"
	cfg.Security.JWTSecret = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidateWrapsMissingConfigSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrMissingRequiredConfig)
}
