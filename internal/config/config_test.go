package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOCKBOX_STORE_PATH", "LOCKBOX_LOG_LEVEL", "LOCKBOX_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	var c Config
	c.LoadDefaults()

	want := Config{
		StorePath: filepath.Join("/home/tester", ".lockbox", "store.yaml"),
		LogLevel:  "warn",
		LogFormat: "text",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	clearEnv(t)

	path := writeTempJSON(t, `{"store_path": "/from/json.yaml", "log_level": "info"}`)

	t.Run("defaults only", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, filepath.Join("/home/tester", ".lockbox", "store.yaml"), cfg.StorePath)
	})

	t.Run("json over defaults", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/from/json.yaml", cfg.StorePath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("env over json", func(t *testing.T) {
		t.Setenv("LOCKBOX_STORE_PATH", "/from/env.yaml")
		t.Setenv("LOCKBOX_LOG_FORMAT", "json")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/from/env.yaml", cfg.StorePath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
	})
}

func TestLoad_JSONErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = Load(writeTempJSON(t, `{ this is not valid json`))
	require.Error(t, err)
}
