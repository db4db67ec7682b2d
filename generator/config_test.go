package generator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig(), cfg)
				assert.Equal(t, "https://lookup.binlist.net", cfg.BinlistURL)
				assert.Equal(t, 10*time.Second, cfg.BinlistTimeout)
				assert.Equal(t, 20, cfg.AttemptsFactor)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"HTTP_ADDR":               "0.0.0.0:8080",
				"LOG_LEVEL":               "debug",
				"BINLIST_URL":             "http://binlist.local",
				"BINLIST_TIMEOUT_SECONDS": "3",
				"EXPIRY_YEARS":            "4",
				"ATTEMPTS_FACTOR":         "5",
				"SAVED_LIST_LIMIT":        "25",
				"FINGERPRINT_KEY":         "secret",
				"METRICS_ENABLED":         "false",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "http://binlist.local", cfg.BinlistURL)
				assert.Equal(t, 3*time.Second, cfg.BinlistTimeout)
				assert.Equal(t, 4, cfg.ExpiryYears)
				assert.Equal(t, 5, cfg.AttemptsFactor)
				assert.Equal(t, 25, cfg.SavedListLimit)
				assert.Equal(t, "secret", cfg.FingerprintKey)
				assert.False(t, cfg.MetricsEnabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// run from an empty directory so no stray .env is picked up
			chdir(t, t.TempDir())
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.validate(t, LoadConfig())
		})
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("SAVED_LIST_LIMIT=42\n"), 0o600))

	chdir(t, nested)
	t.Setenv("SAVED_LIST_LIMIT", "")
	os.Unsetenv("SAVED_LIST_LIMIT")

	cfg := LoadConfig()
	assert.Equal(t, 42, cfg.SavedListLimit)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
