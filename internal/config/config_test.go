package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/state"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localsketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "#000000", cfg.Session.Brush().Color)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
root: /srv/refs
mdns:
  enabled: false
session:
  interval: 90
  color: "#F0A"
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/refs", cfg.Root)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.False(t, cfg.MDNS.Enabled)
	assert.Equal(t, 90, cfg.Session.Interval)
	assert.Equal(t, 3, cfg.Session.Size)
	assert.Equal(t, "#ff00aa", cfg.Session.Brush().Color)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "adr: :8080\n"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "session:\n  interval: 0\n  size: 500\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, state.ErrValidation)
	assert.Contains(t, err.Error(), "session.interval")
	assert.Contains(t, err.Error(), "session.size")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	log = LogConfig{Level: "warn", Format: "text"}.NewLogger(&buf, true)
	log.Debug("verbose")
	assert.Contains(t, buf.String(), "msg=verbose")
}
