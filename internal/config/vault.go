package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration. Vault is used as a
// read-only source for the API session token in CI or shared-automation
// environments where neither an OS keyring nor a local token file exists.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// Secret paths
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault.
type VaultSecrets struct {
	// APIToken is the KVv2 path of a secret whose "token" key holds the
	// ResumePilot API session token.
	APIToken string `mapstructure:"apiToken"`
}

// VaultClient wraps the Vault API client.
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration. Returns
// (nil, nil) when Vault integration is disabled.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	client, err := createVaultAPIClient(config, logger)
	if err != nil {
		return nil, err
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	return &VaultClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// createVaultAPIClient creates and configures the Vault API client.
func createVaultAPIClient(config VaultConfig, logger *errors.Logger) (*api.Client, error) {
	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to create Vault client")
		}
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return client, nil
}

// resolveVaultToken resolves the Vault token from config or file.
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// GetAPIToken reads the ResumePilot API session token from the configured
// secret path. Vault is treated as read-only: login and logout never write
// back to it.
func (vc *VaultClient) GetAPIToken() (string, error) {
	if vc == nil {
		return "", fmt.Errorf("vault client not initialized")
	}
	if vc.config.Secrets.APIToken == "" {
		return "", fmt.Errorf("vault.secrets.apiToken path is not configured")
	}

	secret, err := vc.client.Logical().Read(vc.config.Secrets.APIToken)
	if err != nil {
		if vc.logger != nil {
			vc.logger.LogError(err, "Failed to read secret from Vault", "path", vc.config.Secrets.APIToken)
		}
		return "", fmt.Errorf("failed to read secret from %s: %w", vc.config.Secrets.APIToken, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found at path: %s", vc.config.Secrets.APIToken)
	}

	// KVv2 wraps the payload under "data".
	data := secret.Data
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}

	token, ok := data["token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("secret at %s has no \"token\" key", vc.config.Secrets.APIToken)
	}

	if vc.logger != nil {
		vc.logger.Debug("Loaded API token from Vault", "path", vc.config.Secrets.APIToken)
	}
	return token, nil
}
