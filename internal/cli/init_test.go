package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndValidateConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "memory")

		cfg, err := LoadAndValidateConfig()

		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.DataBackend)
	})

	t.Run("invalid still returns config", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "sheets")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadAndValidateConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid data backend")
		require.NotNil(t, cfg)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONTA_TEST_CURRENCY=US$\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CONTA_TEST_CURRENCY") })

	LoadEnvFile(path)

	assert.Equal(t, "US$", os.Getenv("CONTA_TEST_CURRENCY"))

	// A missing file is ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
