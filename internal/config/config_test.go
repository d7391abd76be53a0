package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bracefix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
targets:
  - src/testing/test-utils.ts
  - src/utils/response-parsing.ts
fixers:
  - syntax
  - arrow-return-closer
jobs: 2
logging:
  level: debug
blocks:
  - name: responses-block
    marker: "const responses: Record<string, (args: any) => any> = {"
    replacement: |
      const responses = {
      };
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Targets, 2)
	assert.Equal(t, []string{"syntax", "arrow-return-closer"}, cfg.Fixers)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Blocks, 1)
	assert.Equal(t, "responses-block", cfg.Blocks[0].Name)
	assert.Contains(t, cfg.Blocks[0].Replacement, "const responses = {")
	// Unset fields keep defaults.
	assert.Equal(t, "500ms", cfg.Watch.Debounce)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("bad jobs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Jobs = 0
		assert.ErrorContains(t, cfg.Validate(), "jobs")
	})

	t.Run("bad level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "loud"
		assert.ErrorContains(t, cfg.Validate(), "log level")
	})

	t.Run("bad debounce", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Watch.Debounce = "soon"
		assert.ErrorContains(t, cfg.Validate(), "debounce")
	})

	t.Run("block missing marker", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Blocks = []BlockRule{{Name: "b", Replacement: "x"}}
		assert.ErrorContains(t, cfg.Validate(), "marker")
	})
}

func TestDebounceDuration(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	cfg.Watch.Debounce = "2s"
	d, err = cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	cfg.Watch.Debounce = ""
	d, err = cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}
