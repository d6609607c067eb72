package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LogConfig configures infra/logger.
type LogConfig struct {
	Level string
	JSON  bool
	File  string
}

// OpenSearchConfig configures the optional OpenSearch log sink.
type OpenSearchConfig struct {
	Enabled  bool
	URL      string
	User     string
	Password string
	Index    string
}

// AppConfig represents the application configuration
type AppConfig struct {
	Port             string
	Environment      string
	Log              LogConfig
	OpenSearch       OpenSearchConfig
	EnabledProviders []string
	ProviderTimeout  time.Duration

	providers map[string]map[string]string
}

// providerEnv maps provider setting keys to environment variables.
var providerEnv = map[string]map[string]string{
	"alatpay": {
		"baseUrl":                  "ALATPAY_BASE_URL",
		"subscriptionKey":          "ALATPAY_SUBSCRIPTION_KEY",
		"businessId":               "ALATPAY_BUSINESS_ID",
		"schemaVersion":            "ALATPAY_SCHEMA_VERSION",
		"assertTransactionStatus":  "ALATPAY_ASSERT_TRANSACTION_STATUS",
		"transactionStatusMessage": "ALATPAY_TRANSACTION_STATUS_MESSAGE",
	},
	"paystack": {
		"baseUrl":   "PAYSTACK_BASE_URL",
		"secretKey": "PAYSTACK_SECRET_KEY",
	},
}

// Load reads .env (when present) and the process environment.
func Load(dotenvFiles ...string) (*AppConfig, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "9999")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("ENABLE_OPENSEARCH_LOGGING", false)
	v.SetDefault("OPENSEARCH_URL", "http://localhost:9200")
	v.SetDefault("OPENSEARCH_INDEX", "paybridge-logs")
	v.SetDefault("ENABLED_PROVIDERS", "alatpay,paystack")
	v.SetDefault("PROVIDER_TIMEOUT", "30s")
	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	v.SetDefault("ALATPAY_SCHEMA_VERSION", "v1")

	timeout, err := time.ParseDuration(v.GetString("PROVIDER_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid PROVIDER_TIMEOUT: %w", err)
	}

	cfg := &AppConfig{
		Port:        v.GetString("APP_PORT"),
		Environment: v.GetString("APP_ENV"),
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
			File:  v.GetString("LOG_FILE"),
		},
		OpenSearch: OpenSearchConfig{
			Enabled:  v.GetBool("ENABLE_OPENSEARCH_LOGGING"),
			URL:      v.GetString("OPENSEARCH_URL"),
			User:     v.GetString("OPENSEARCH_USER"),
			Password: v.GetString("OPENSEARCH_PASSWORD"),
			Index:    v.GetString("OPENSEARCH_INDEX"),
		},
		EnabledProviders: splitList(v.GetString("ENABLED_PROVIDERS")),
		ProviderTimeout:  timeout,
		providers:        make(map[string]map[string]string, len(providerEnv)),
	}

	for name, keys := range providerEnv {
		settings := map[string]string{"timeout": timeout.String()}
		for key, env := range keys {
			if value := strings.TrimSpace(v.GetString(env)); value != "" {
				settings[key] = value
			}
		}
		cfg.providers[name] = settings
	}

	return cfg, nil
}

// ProviderSettings returns a copy of the settings map for a provider, ready
// for its NewFromConfig. Unknown providers get an empty map.
func (c *AppConfig) ProviderSettings(name string) map[string]string {
	settings := make(map[string]string, len(c.providers[name]))
	for k, v := range c.providers[name] {
		settings[k] = v
	}
	return settings
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
