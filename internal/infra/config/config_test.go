package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 7*24*time.Hour, cfg.Share.TTL)
	require.Equal(t, 10, cfg.RateLimit.IdentifyPerIP.Limit)
	require.Equal(t, 1000, cfg.RateLimit.IdentifyGlobal.Limit)
}

func TestCredentialsConfigured(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{PlaceholderAPIKey, false},
		{"sk-real-key", true},
	}
	for _, tc := range cases {
		cfg := LLMConfig{APIKey: tc.key}
		require.Equal(t, tc.want, cfg.CredentialsConfigured(), "key %q", tc.key)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "http:\n  address: \":9000\"\n"))
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("SHARE_TTL", "48h")
	t.Setenv("IMAGE_MAX_EDGE", "512")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, 48*time.Hour, cfg.Share.TTL)
	require.Equal(t, 512, cfg.Image.MaxEdge)
}

func TestLoadToleratesMissingAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "llm:\n  visionModel: \"gpt-4o-mini\"\n"))
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.LLM.CredentialsConfigured())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Image.JPEGQuality = 150
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.RateLimit.IdentifyPerIP.Limit = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.IdentifyPerIP.Limit = 0
	require.NoError(t, cfg.Validate(), "quotas are not checked when limiting is disabled")

	cfg = defaultConfig()
	cfg.Share.Valkey.Enabled = true
	require.Error(t, cfg.Validate())
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}
