package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvStore, EnvNoKeyring, EnvDebug} {
		t.Setenv(k, "")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_Values(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "store = \"/tmp/secrets.sealtext\"\nkeyring = false\ndebug = true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/secrets.sealtext", cfg.Store)
	assert.False(t, cfg.Keyring)
	assert.True(t, cfg.Debug)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug = true\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultStore, cfg.Store)
	assert.True(t, cfg.Keyring)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("store = \"from-file\"\n"), 0600))

	t.Setenv(EnvStore, "from-env")
	t.Setenv(EnvNoKeyring, "1")
	t.Setenv(EnvDebug, "true")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store)
	assert.False(t, cfg.Keyring)
	assert.True(t, cfg.Debug)
}

func TestLoadFile_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDebug, "maybe")

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFile_BadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("store = [\n"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := &Config{Store: "vault.db", Keyring: false, Debug: true}
	require.NoError(t, want.Save(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPath_Env(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/sealtext.toml")

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/etc/sealtext.toml", p)
}
