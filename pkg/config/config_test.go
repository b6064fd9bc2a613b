package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Detect.ShingleSize)
	assert.Equal(t, 4, cfg.Detect.Window)
	assert.Equal(t, 0.40, cfg.Detect.FileThreshold)
	assert.Equal(t, 0.40, cfg.Detect.AssignmentThreshold)
	assert.Equal(t, 5, cfg.Detect.TopMatches)
	assert.True(t, cfg.Cache.Enabled)
	assert.Contains(t, cfg.Corpus.Extensions, ".cpp")
	assert.Contains(t, cfg.Corpus.IgnoreDirs, "node_modules")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tattle.yaml")
	data := `
detect:
  shingle_size: 7
  window: 9
  file_threshold: 0.5
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Detect.ShingleSize)
	assert.Equal(t, 9, cfg.Detect.Window)
	assert.Equal(t, 0.5, cfg.Detect.FileThreshold)
	// Untouched keys keep defaults.
	assert.Equal(t, 0.40, cfg.Detect.AssignmentThreshold)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tattle.toml")
	data := `
[detect]
top_matches = 3

[corpus]
extensions = [".c", ".py"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Detect.TopMatches)
	assert.Equal(t, []string{".c", ".py"}, cfg.Corpus.Extensions)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tattle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detect:\n  file_threshold: 1.5\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestAllowsExtension(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.AllowsExtension(".cpp"))
	assert.True(t, cfg.AllowsExtension(".CPP"))
	assert.False(t, cfg.AllowsExtension(".exe"))
	assert.False(t, cfg.AllowsExtension(""))
}

func TestIgnoresDir(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IgnoresDir("__pycache__"))
	assert.True(t, cfg.IgnoresDir(".git"))
	assert.False(t, cfg.IgnoresDir("src"))
}
