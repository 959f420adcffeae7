package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesOnlyFieldsPresentInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xacto.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\nlogLevel: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Defaults().MetricsAddr, cfg.MetricsAddr)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [this is not an int\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort(0))
	assert.NoError(t, ValidatePort(65535))
	assert.Error(t, ValidatePort(-1))
	assert.Error(t, ValidatePort(65536))
}
