package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config file values
// 3. Environment variables (RESUMEPILOT_API_BASEURL, etc.)
// 4. Default values - Lowest priority
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Session       SessionConfig       `mapstructure:"session"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// APIConfig holds connection settings for the ResumePilot REST API.
type APIConfig struct {
	BaseURL        string               `mapstructure:"baseURL"`       // development endpoint
	ProductionURL  string               `mapstructure:"productionURL"` // used when environment is "production"
	Environment    string               `mapstructure:"environment"`   // "development" or "production"
	Timeout        time.Duration        `mapstructure:"timeout"`
	RateLimit      RateLimitConfig      `mapstructure:"rateLimit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ResolveBaseURL returns the API base URL for the selected environment.
func (a APIConfig) ResolveBaseURL() string {
	if a.Environment == "production" && a.ProductionURL != "" {
		return strings.TrimRight(a.ProductionURL, "/")
	}
	return strings.TrimRight(a.BaseURL, "/")
}

// RateLimitConfig holds client-side request throttling configuration.
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
}

// CircuitBreakerConfig represents circuit breaker configuration for API calls.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// SessionConfig holds token persistence configuration. The token is the only
// piece of client state that survives a process exit.
type SessionConfig struct {
	TokenName      string `mapstructure:"tokenName"`      // storage key, fixed as "authToken" by the API contract
	Storage        string `mapstructure:"storage"`        // "keyring", "file" or "vault"
	TokenFile      string `mapstructure:"tokenFile"`      // path for the file backend
	KeyringService string `mapstructure:"keyringService"` // service name for the OS keyring backend
}

// AppConfig holds general application configuration.
type AppConfig struct {
	LogLevel           string         `mapstructure:"logLevel"`
	DefaultFormat      string         `mapstructure:"defaultFormat"`
	SupportedFormats   []string       `mapstructure:"supportedFormats"`
	MaxUploadSize      int64          `mapstructure:"maxUploadSize"`      // bytes, checked before any network call
	AllowedUploadTypes []string       `mapstructure:"allowedUploadTypes"` // file extensions accepted for uploads
	MatchThreshold     int            `mapstructure:"matchThreshold"`     // minimum score for a matched candidate
	PageSize           PageSizeConfig `mapstructure:"pageSize"`
}

// PageSizeConfig holds the fixed page size for each list view.
type PageSizeConfig struct {
	Resumes      int `mapstructure:"resumes"`
	Jobs         int `mapstructure:"jobs"`
	Evaluations  int `mapstructure:"evaluations"`
	Applications int `mapstructure:"applications"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	ConsoleOutput   bool             `mapstructure:"consoleOutput"`
	SampleRate      float64          `mapstructure:"sampleRate"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration.
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds the metrics endpoint served in watch mode.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMEPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumepilot/")
	v.AddConfigPath("$HOME/.resumepilot")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	// API Configuration
	v.SetDefault("api.baseURL", "http://127.0.0.1:8000/api")
	v.SetDefault("api.productionURL", "")
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.timeout", 60*time.Second)

	// Rate limiting defaults
	v.SetDefault("api.rateLimit.enabled", false)
	v.SetDefault("api.rateLimit.requestsPerMin", 120)
	v.SetDefault("api.rateLimit.burstCapacity", 20)

	// Circuit breaker defaults
	v.SetDefault("api.circuitBreaker.enabled", true)
	v.SetDefault("api.circuitBreaker.maxRequests", 3)
	v.SetDefault("api.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("api.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("api.circuitBreaker.minRequests", 5)
	v.SetDefault("api.circuitBreaker.failureThreshold", 0.6)

	// Session Configuration
	v.SetDefault("session.tokenName", "authToken")
	v.SetDefault("session.storage", "keyring")
	v.SetDefault("session.tokenFile", "")
	v.SetDefault("session.keyringService", "resumepilot")

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "table")
	v.SetDefault("app.supportedFormats", []string{"table", "json", "text"})
	v.SetDefault("app.maxUploadSize", 10*1024*1024) // 10MB
	v.SetDefault("app.allowedUploadTypes", []string{".pdf", ".doc", ".docx", ".txt"})
	v.SetDefault("app.matchThreshold", 50)
	v.SetDefault("app.pageSize.resumes", 10)
	v.SetDefault("app.pageSize.jobs", 10)
	v.SetDefault("app.pageSize.evaluations", 6)
	v.SetDefault("app.pageSize.applications", 10)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiToken", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumepilot")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required (set RESUMEPILOT_API_BASEURL)")
	}

	if c.API.Environment == "production" && c.API.ProductionURL == "" {
		return fmt.Errorf("production API URL is required when environment is \"production\"")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	switch c.Session.Storage {
	case "keyring", "file", "vault":
	default:
		return fmt.Errorf("invalid session storage backend: %s (must be 'keyring', 'file' or 'vault')", c.Session.Storage)
	}

	if c.Session.Storage == "vault" && !c.Vault.Enabled {
		return fmt.Errorf("session storage 'vault' requires vault.enabled")
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	for _, size := range []int{c.App.PageSize.Resumes, c.App.PageSize.Jobs, c.App.PageSize.Evaluations, c.App.PageSize.Applications} {
		if size <= 0 {
			return fmt.Errorf("page sizes must be positive")
		}
	}

	return nil
}

// applyFallbacks applies environment-derived defaults after unmarshaling.
func (c *Config) applyFallbacks() {
	// Production environment can also be selected the way the build tooling did it.
	if env := os.Getenv("RESUMEPILOT_ENV"); env != "" && c.API.Environment == "development" {
		c.API.Environment = env
	}

	if c.Session.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Session.TokenFile = filepath.Join(home, ".resumepilot", "token")
	}

	// Set dynamic service instance ID if not specified
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}
