package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  name: llama3.2-vision
  temperature: 0.2
prompts:
  system_message: "You are terse."
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "llama3.2-vision", cfg.Model.Name)
	require.Equal(t, 0.2, cfg.Model.Temperature)
	require.Equal(t, "You are terse.", cfg.Prompts.SystemMessage)
	// Untouched values keep defaults.
	require.Equal(t, ":5000", cfg.Server.Addr)
}

func TestLoad_BrokenFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STALLAMA_URL", "http://example:9999")
	t.Setenv("STALLAMA_MODEL", "codellama")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://example:9999", cfg.Server.URL)
	require.Equal(t, "codellama", cfg.Model.Name)
}
