package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/nhs-mcp/internal/backend"
)

var configEnvKeys = []string{
	"API_MANAGEMENT_ENDPOINT", "NHS_API_ENDPOINT",
	"API_MANAGEMENT_SUBSCRIPTION_KEY", "NHS_API_KEY",
	"PORT", "ENV", "GO_ENV", "LOG_LEVEL", "HTTP_TIMEOUT_SECONDS",
	"TRACING_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "TRACING_SAMPLE_RATE", "TRACING_INSECURE",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, errs := Load("")
	require.Empty(t, errs)

	assert.Equal(t, backend.DefaultEndpoint, cfg.APIEndpoint)
	assert.Empty(t, cfg.SubscriptionKey)
	assert.False(t, cfg.BackendConfigured())
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, DefaultTracingSampleRate, cfg.TracingSampleRate)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvAliases(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantEndpoint string
		wantKey      string
	}{
		{
			name: "primary names",
			env: map[string]string{
				"API_MANAGEMENT_ENDPOINT":         "https://primary.example.com/service-search",
				"API_MANAGEMENT_SUBSCRIPTION_KEY": "primary-key",
			},
			wantEndpoint: "https://primary.example.com/service-search",
			wantKey:      "primary-key",
		},
		{
			name: "aliases",
			env: map[string]string{
				"NHS_API_ENDPOINT": "https://alias.example.com/service-search",
				"NHS_API_KEY":      "alias-key",
			},
			wantEndpoint: "https://alias.example.com/service-search",
			wantKey:      "alias-key",
		},
		{
			name: "primary wins over alias",
			env: map[string]string{
				"API_MANAGEMENT_SUBSCRIPTION_KEY": "primary-key",
				"NHS_API_KEY":                     "alias-key",
			},
			wantEndpoint: backend.DefaultEndpoint,
			wantKey:      "primary-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, errs := Load("")
			require.Empty(t, errs)
			assert.Equal(t, tt.wantEndpoint, cfg.APIEndpoint)
			assert.Equal(t, tt.wantKey, cfg.SubscriptionKey)
			assert.True(t, cfg.BackendConfigured())
		})
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
api_management_subscription_key: file-key
port: 9090
env: production
log_level: debug
http_timeout_seconds: 5
tracing_enabled: true
tracing_sample_rate: 0.25
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, errs := Load(path)
		require.Empty(t, errs)
		assert.Equal(t, "file-key", cfg.SubscriptionKey)
		assert.Equal(t, 9090, cfg.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
		assert.True(t, cfg.TracingEnabled)
		assert.InDelta(t, 0.25, cfg.TracingSampleRate, 1e-9)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("API_MANAGEMENT_SUBSCRIPTION_KEY", "env-key")
		t.Setenv("PORT", "7070")
		t.Setenv("TRACING_ENABLED", "false")
		t.Setenv("TRACING_SAMPLE_RATE", "0.5")

		cfg, errs := Load(path)
		require.Empty(t, errs)
		assert.Equal(t, "env-key", cfg.SubscriptionKey)
		assert.Equal(t, 7070, cfg.Port)
		assert.False(t, cfg.TracingEnabled)
		assert.InDelta(t, 0.5, cfg.TracingSampleRate, 1e-9)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, errs := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Nil(t, cfg)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "failed to load config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"port out of range", map[string]string{"PORT": "70000"}, ErrInvalidPort},
		{"zero timeout", map[string]string{"HTTP_TIMEOUT_SECONDS": "-1"}, ErrInvalidTimeout},
		{"sample rate above one", map[string]string{"TRACING_SAMPLE_RATE": "1.5"}, ErrInvalidSampleRate},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}, ErrInvalidLogLevel},
		{"endpoint without scheme", map[string]string{"API_MANAGEMENT_ENDPOINT": "example.com"}, ErrInvalidEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, errs := Load("")
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], tt.wantErr)
		})
	}
}

func TestLoad_UnparseableNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("TRACING_SAMPLE_RATE", "half")

	cfg, errs := Load("")
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "PORT must be a valid integer")
	assert.Contains(t, errs[1].Error(), "TRACING_SAMPLE_RATE must be a valid number")
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NHS_API_KEY=dotenv-key\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv does not override variables that are already set, even if empty
	require.NoError(t, os.Unsetenv("NHS_API_KEY"))

	require.NoError(t, LoadDotEnv())
	cfg, errs := Load("")
	require.Empty(t, errs)
	assert.Equal(t, "dotenv-key", cfg.SubscriptionKey)
	require.NoError(t, os.Unsetenv("NHS_API_KEY"))
}

func TestLoadDotEnv_NoFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.NoError(t, LoadDotEnv())
}
