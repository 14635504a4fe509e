package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:8000/api",
			Environment: "development",
			Timeout:     60 * time.Second,
		},
		Session: SessionConfig{
			TokenName:      "authToken",
			Storage:        "keyring",
			KeyringService: "resumepilot",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "table",
			SupportedFormats: []string{"table", "json", "text"},
			MaxUploadSize:    10 * 1024 * 1024,
			MatchThreshold:   50,
			PageSize:         PageSizeConfig{Resumes: 10, Jobs: 10, Evaluations: 6, Applications: 10},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing base URL",
			mutate:      func(c *Config) { c.API.BaseURL = "" },
			expectError: true,
		},
		{
			name: "production without production URL",
			mutate: func(c *Config) {
				c.API.Environment = "production"
				c.API.ProductionURL = ""
			},
			expectError: true,
		},
		{
			name: "production with production URL",
			mutate: func(c *Config) {
				c.API.Environment = "production"
				c.API.ProductionURL = "https://api.example.com/api"
			},
			expectError: false,
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.API.Timeout = 0 },
			expectError: true,
		},
		{
			name:        "unknown storage backend",
			mutate:      func(c *Config) { c.Session.Storage = "cookies" },
			expectError: true,
		},
		{
			name:        "vault storage without vault enabled",
			mutate:      func(c *Config) { c.Session.Storage = "vault" },
			expectError: true,
		},
		{
			name: "vault storage with vault enabled",
			mutate: func(c *Config) {
				c.Session.Storage = "vault"
				c.Vault.Enabled = true
				c.Vault.Address = "http://127.0.0.1:8200"
			},
			expectError: false,
		},
		{
			name:        "default format outside supported set",
			mutate:      func(c *Config) { c.App.DefaultFormat = "markdown" },
			expectError: true,
		},
		{
			name:        "zero upload limit",
			mutate:      func(c *Config) { c.App.MaxUploadSize = 0 },
			expectError: true,
		},
		{
			name:        "zero page size",
			mutate:      func(c *Config) { c.App.PageSize.Evaluations = 0 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		api      APIConfig
		expected string
	}{
		{
			name:     "development uses base URL",
			api:      APIConfig{BaseURL: "http://127.0.0.1:8000/api", Environment: "development"},
			expected: "http://127.0.0.1:8000/api",
		},
		{
			name: "production uses production URL",
			api: APIConfig{
				BaseURL:       "http://127.0.0.1:8000/api",
				ProductionURL: "https://api.example.com/api",
				Environment:   "production",
			},
			expected: "https://api.example.com/api",
		},
		{
			name: "production without production URL falls back",
			api: APIConfig{
				BaseURL:     "http://127.0.0.1:8000/api",
				Environment: "production",
			},
			expected: "http://127.0.0.1:8000/api",
		},
		{
			name:     "trailing slash is trimmed",
			api:      APIConfig{BaseURL: "http://127.0.0.1:8000/api/", Environment: "development"},
			expected: "http://127.0.0.1:8000/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.api.ResolveBaseURL(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestApplyFallbacksTokenFile(t *testing.T) {
	cfg := validConfig()
	cfg.Session.TokenFile = ""
	cfg.applyFallbacks()
	if cfg.Session.TokenFile == "" {
		t.Error("Expected a default token file path")
	}

	cfg = validConfig()
	cfg.Session.TokenFile = "/tmp/custom-token"
	cfg.applyFallbacks()
	if cfg.Session.TokenFile != "/tmp/custom-token" {
		t.Errorf("Expected explicit token file kept, got '%s'", cfg.Session.TokenFile)
	}
}

func TestApplyFallbacksServiceInstance(t *testing.T) {
	cfg := validConfig()
	cfg.Observability.ServiceName = "resumepilot"
	cfg.applyFallbacks()
	if cfg.Observability.ServiceInstance == "" {
		t.Error("Expected a derived service instance id")
	}
}
