package config_test

import (
	"os"
	"path/filepath"
	"productapi/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "127.0.0.1:5000", cfg.ServerAddr)
	assert.Equal(t, "data/products.json", cfg.DataFile)
	assert.True(t, cfg.CreateIfMissing)
	assert.True(t, cfg.WatchDataFile)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "# local overrides\nSERVER_ADDR=\":9090\"\nDATA_FILE=tmp/p.json\nMETRICS_ENABLED=true\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	// the process environment wins over the file
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("LOG_FORMAT", "console")
	// godotenv only fills unset keys; t.Setenv restores them when the test ends
	t.Setenv("DATA_FILE", "")
	t.Setenv("METRICS_ENABLED", "")
	os.Unsetenv("DATA_FILE")
	os.Unsetenv("METRICS_ENABLED")

	cfg, err := config.LoadFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, "tmp/p.json", cfg.DataFile)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFileMissingIsFine(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().DataFile, cfg.DataFile)
}

func TestLoadFileInvalidValues(t *testing.T) {
	testCases := map[string]struct {
		key   string
		value string
	}{
		"bad bool":         {key: "CREATE_IF_MISSING", value: "maybe"},
		"bad duration":     {key: "READ_TIMEOUT", value: "soon"},
		"negative timeout": {key: "WRITE_TIMEOUT", value: "-1s"},
		"bad body limit":   {key: "MAX_BODY_BYTES", value: "lots"},
		"bad log format":   {key: "LOG_FORMAT", value: "xml"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.env"))
			assert.ErrorContains(t, err, tc.key)
		})
	}
}
