package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// VaultClient handles secure secret management using HashiCorp Vault
type VaultClient struct {
	client *api.Client
	logger *zap.Logger
}

// VaultSecret represents a secret stored in Vault
type VaultSecret struct {
	Data map[string]interface{} `json:"data"`
}

// NewVaultClient creates a new Vault client
func NewVaultClient(baseURL, token string, logger *zap.Logger) (*VaultClient, error) {
	config := &api.Config{
		Address: baseURL,
		HttpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	client.SetToken(token)

	return &VaultClient{
		client: client,
		logger: logger,
	}, nil
}

// GetSecret retrieves a secret from Vault
func (v *VaultClient) GetSecret(path string) (*VaultSecret, error) {
	secret, err := v.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("no secret data found at %s", path)
	}

	return &VaultSecret{
		Data: secret.Data,
	}, nil
}

// GetDatabaseCredentials retrieves database credentials from Vault
func (v *VaultClient) GetDatabaseCredentials(serviceName string) (map[string]string, error) {
	secretPath := fmt.Sprintf("apexrebate/%s/database", serviceName)
	secret, err := v.GetSecret(secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get database credentials: %w", err)
	}

	creds := make(map[string]string)
	for key, value := range secret.Data {
		if strValue, ok := value.(string); ok {
			creds[key] = strValue
		}
	}

	return creds, nil
}

// GetRedisCredentials retrieves Redis credentials from Vault
func (v *VaultClient) GetRedisCredentials(serviceName string) (map[string]string, error) {
	secretPath := fmt.Sprintf("apexrebate/%s/redis", serviceName)
	secret, err := v.GetSecret(secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis credentials: %w", err)
	}

	creds := make(map[string]string)
	for key, value := range secret.Data {
		if strValue, ok := value.(string); ok {
			creds[key] = strValue
		}
	}

	return creds, nil
}

// LoadSecretsFromVault loads all secrets for a service from Vault, keyed by
// the configuration names they override.
func (v *VaultClient) LoadSecretsFromVault(serviceName string) (map[string]string, error) {
	secrets := make(map[string]string)

	if dbCreds, err := v.GetDatabaseCredentials(serviceName); err == nil {
		for key, value := range dbCreds {
			secrets["database."+key] = value
		}
	} else {
		v.logger.Warn("Failed to load database credentials from Vault", zap.Error(err))
	}

	if redisCreds, err := v.GetRedisCredentials(serviceName); err == nil {
		for key, value := range redisCreds {
			secrets["redis."+key] = value
		}
	} else {
		v.logger.Warn("Failed to load Redis credentials from Vault", zap.Error(err))
	}

	return secrets, nil
}

// HealthCheck checks if Vault is accessible
func (v *VaultClient) HealthCheck() error {
	_, err := v.client.Sys().Health()
	if err != nil {
		return fmt.Errorf("Vault health check failed: %w", err)
	}
	return nil
}

// RenewToken renews the Vault token
func (v *VaultClient) RenewToken() error {
	_, err := v.client.Auth().Token().RenewSelf(0)
	if err != nil {
		return fmt.Errorf("failed to renew Vault token: %w", err)
	}
	return nil
}
