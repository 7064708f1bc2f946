package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "https://crt.sh", cfg.Endpoints.CrtSh)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscout.yaml")
	content := "listen: \":9090\"\nlog_level: debug\nendpoints:\n  doh: http://127.0.0.1:5353/resolve\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, "http://127.0.0.1:5353/resolve", cfg.Endpoints.DoH)
	// Untouched keys keep their defaults.
	assert.Equal(t, "https://dns.bufferover.run", cfg.Endpoints.BufferOver)
	assert.Equal(t, "subscout.db", cfg.Database)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestConfig_LevelFallback(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}
