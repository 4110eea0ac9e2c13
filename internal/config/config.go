// Package config loads server configuration from environment variables and an
// optional YAML file. Environment variables take precedence over file values,
// which take precedence over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dshills/nhs-mcp/internal/backend"
)

// Config holds all configuration values for the server
type Config struct {
	// Search backend
	APIEndpoint        string        `koanf:"api_management_endpoint"`
	SubscriptionKey    string        `koanf:"api_management_subscription_key"`
	HTTPTimeout        time.Duration `koanf:"-"`
	HTTPTimeoutSeconds int           `koanf:"http_timeout_seconds"`

	// Server settings
	Port     int    `koanf:"port"`
	Env      string `koanf:"env"`
	LogLevel string `koanf:"log_level"`

	// Tracing
	TracingEnabled    bool    `koanf:"tracing_enabled"`
	OTLPEndpoint      string  `koanf:"otel_exporter_otlp_endpoint"`
	TracingSampleRate float64 `koanf:"tracing_sample_rate"`
	TracingInsecure   bool    `koanf:"tracing_insecure"`
}

// Configuration validation errors
var (
	ErrInvalidPort       = errors.New("PORT must be between 1 and 65535")
	ErrInvalidTimeout    = errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	ErrInvalidSampleRate = errors.New("TRACING_SAMPLE_RATE must be between 0 and 1")
	ErrInvalidLogLevel   = errors.New("LOG_LEVEL must be one of debug, info, warn, error")
	ErrInvalidEndpoint   = errors.New("API_MANAGEMENT_ENDPOINT must be an http or https URL")
)

// Defaults for non-secret configuration
const (
	DefaultPort               = 8080
	DefaultEnv                = "development"
	DefaultLogLevel           = "info"
	DefaultHTTPTimeoutSeconds = 30
	DefaultTracingSampleRate  = 1.0
)

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment are not overridden
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load()
}

// Load reads configuration from environment variables and an optional config
// file. It returns the config and every validation error found (empty if
// valid). A config file that cannot be read is returned as the only error
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	timeoutSeconds, err := getEnvIntOrDefault("HTTP_TIMEOUT_SECONDS", k.Int("http_timeout_seconds"), DefaultHTTPTimeoutSeconds)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	sampleRate := DefaultTracingSampleRate
	if k.Exists("tracing_sample_rate") {
		sampleRate = k.Float64("tracing_sample_rate")
	}
	sampleRate, err = getEnvFloatOrDefault("TRACING_SAMPLE_RATE", sampleRate)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	cfg := &Config{
		APIEndpoint: getEnvOrDefaultMulti(
			[]string{"API_MANAGEMENT_ENDPOINT", "NHS_API_ENDPOINT"},
			k.String("api_management_endpoint"),
			backend.DefaultEndpoint,
		),
		SubscriptionKey: getEnvOrDefaultMulti(
			[]string{"API_MANAGEMENT_SUBSCRIPTION_KEY", "NHS_API_KEY"},
			k.String("api_management_subscription_key"),
			"",
		),
		HTTPTimeoutSeconds: timeoutSeconds,
		HTTPTimeout:        time.Duration(timeoutSeconds) * time.Second,
		Port:               port,
		Env:                getEnvOrDefaultMulti([]string{"ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		LogLevel:           strings.ToLower(getEnvOrDefaultMulti([]string{"LOG_LEVEL"}, k.String("log_level"), DefaultLogLevel)),
		TracingEnabled:     getEnvBool("TRACING_ENABLED", k.Bool("tracing_enabled")),
		OTLPEndpoint:       getEnvOrKoanf("OTEL_EXPORTER_OTLP_ENDPOINT", k, "otel_exporter_otlp_endpoint"),
		TracingSampleRate:  sampleRate,
		TracingInsecure:    getEnvBool("TRACING_INSECURE", k.Bool("tracing_insecure")),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks field ranges. A missing subscription key is not an error:
// the server starts and reports not ready
func (c *Config) Validate() []error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, ErrInvalidSampleRate)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ErrInvalidLogLevel)
	}
	if !strings.HasPrefix(c.APIEndpoint, "http://") && !strings.HasPrefix(c.APIEndpoint, "https://") {
		errs = append(errs, ErrInvalidEndpoint)
	}

	return errs
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// BackendConfigured reports whether a subscription key is available
func (c *Config) BackendConfigured() bool {
	return c.SubscriptionKey != ""
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return n, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

func getEnvFloatOrDefault(envKey string, fallback float64) (float64, error) {
	val := os.Getenv(envKey)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a valid number: %w", envKey, err)
	}
	return f, nil
}

// getEnvBool parses common boolean spellings, falling back when unset or unrecognised
func getEnvBool(envKey string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(envKey)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
