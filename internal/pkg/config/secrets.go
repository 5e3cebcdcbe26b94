// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// AWSSecretsManager reads a JSON secret blob from AWS Secrets Manager.
// The blob maps env-style keys to values, e.g. {"DB_PASSWORD": "..."}.
type AWSSecretsManager struct {
	client     *secretsmanager.Client
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSecretsManager{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger.With(slog.String("component", "secrets")),
	}, nil
}

// GetSecret retrieves a single secret value
func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	secrets, err := sm.GetSecrets(ctx, []string{key})
	if err != nil {
		return "", err
	}
	val, ok := secrets[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found", key)
	}
	return val, nil
}

// GetSecrets retrieves the requested keys, serving from the cached blob
// while it is fresh
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl && len(sm.cache) > 0 {
		found := make(map[string]string, len(keys))
		for _, key := range keys {
			if val, ok := sm.cache[key]; ok {
				found[key] = val
			}
		}
		sm.cacheMu.RUnlock()
		if len(found) == len(keys) {
			return found, nil
		}
	} else {
		sm.cacheMu.RUnlock()
	}

	sm.logger.InfoContext(ctx, "fetching secrets",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string payload", sm.secretName)
	}

	var blob map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &blob); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = blob
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	found := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := blob[key]; ok {
			found[key] = val
		} else {
			sm.logger.WarnContext(ctx, "secret key missing from blob",
				slog.String("key", key))
		}
	}
	return found, nil
}

// secretOverrideKeys are the credentials production pulls from Secrets
// Manager instead of the environment
var secretOverrideKeys = []string{
	"DB_PASSWORD",
	"REDIS_PASSWORD",
	"AWS_SECRET_ACCESS_KEY",
	"JWT_SECRET",
}

// applySecretOverrides replaces credential fields with values from
// Secrets Manager when a secret name is configured
func applySecretOverrides(ctx context.Context, cfg *Config, secretName string, logger *slog.Logger) error {
	sm, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, secretName, logger)
	if err != nil {
		return err
	}

	secrets, err := sm.GetSecrets(ctx, secretOverrideKeys)
	if err != nil {
		return err
	}

	if v, ok := secrets["DB_PASSWORD"]; ok {
		cfg.Database.Password = v
	}
	if v, ok := secrets["REDIS_PASSWORD"]; ok {
		cfg.Redis.Password = v
		cfg.Asynq.RedisPassword = v
	}
	if v, ok := secrets["AWS_SECRET_ACCESS_KEY"]; ok {
		cfg.AWS.SecretAccessKey = v
	}
	if v, ok := secrets["JWT_SECRET"]; ok {
		cfg.Security.JWTSecret = v
	}
	return nil
}
