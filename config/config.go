package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Sources  SourcesConfig
	Resolver ResolverConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the base URLs for the external lookup sources and
// the per-call timeout applied to each of them
type SourcesConfig struct {
	OpenFDABaseURL   string        `mapstructure:"openfda_base_url"`
	UPCItemDBBaseURL string        `mapstructure:"upcitemdb_base_url"`
	RxNormBaseURL    string        `mapstructure:"rxnorm_base_url"`
	DrugBankBaseURL  string        `mapstructure:"drugbank_base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// ResolverConfig holds resolution pipeline configuration
type ResolverConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/medscan/")

	// Environment variable settings
	v.SetEnvPrefix("MEDSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Source defaults
	v.SetDefault("sources.openfda_base_url", "https://api.fda.gov")
	v.SetDefault("sources.upcitemdb_base_url", "https://api.upcitemdb.com")
	v.SetDefault("sources.rxnorm_base_url", "https://rxnav.nlm.nih.gov")
	v.SetDefault("sources.drugbank_base_url", "https://api.drugbankplus.com")
	v.SetDefault("sources.timeout", "10s")

	// Resolver defaults
	v.SetDefault("resolver.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Sources.Timeout <= 0 {
		return fmt.Errorf("sources timeout must be positive, got: %s", config.Sources.Timeout)
	}

	urls := map[string]string{
		"openfda":   config.Sources.OpenFDABaseURL,
		"upcitemdb": config.Sources.UPCItemDBBaseURL,
		"rxnorm":    config.Sources.RxNormBaseURL,
		"drugbank":  config.Sources.DrugBankBaseURL,
	}
	for name, url := range urls {
		if url == "" {
			return fmt.Errorf("%s base URL is required", name)
		}
	}

	return nil
}
