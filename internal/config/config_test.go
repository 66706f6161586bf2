package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load uses defaults when no config file exists
// - Load reads .tsdoc/config.yml and .tsdoc/config.yaml
// - A partial config file merges with defaults
// - Environment variables override config file values and defaults
// - An explicit config file is used instead of the project directory
// - Load returns errors for malformed YAML and invalid values
// - Validate maps each invalid field to its sentinel error
// - Validate rejects malformed and empty glob patterns
// - Validate reports every problem at once
// - GetSourceExtensions, DBPath, ToIndexerConfig and ToWatcherOptions derive from the config

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Paths.Include, "**/*.ts")
	assert.Contains(t, cfg.Paths.Ignore, "node_modules/**")
	assert.False(t, cfg.Docs.Private)
	assert.Equal(t, "text", cfg.Docs.Format)
	assert.Equal(t, ".tsdoc/docs.db", cfg.Storage.DBPath)
	assert.Equal(t, 2048, cfg.Cache.Capacity)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.Equal(t, 4, cfg.Indexer.Workers)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() - viper AutomaticEnv reads the process environment
	tempDir := t.TempDir()

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
paths:
  include:
    - "src/**/*.ts"
  ignore:
    - "src/generated/**"
docs:
  private: true
  format: json
storage:
  db_path: /tmp/docs.db
cache:
  capacity: 10
watch:
  debounce_ms: 0
indexer:
  workers: 2
`)

	cfg, err := LoadConfigFromDir(tempDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.ts"}, cfg.Paths.Include)
	assert.Equal(t, []string{"src/generated/**"}, cfg.Paths.Ignore)
	assert.True(t, cfg.Docs.Private)
	assert.Equal(t, "json", cfg.Docs.Format)
	assert.Equal(t, "/tmp/docs.db", cfg.Storage.DBPath)
	assert.Equal(t, 10, cfg.Cache.Capacity)
	assert.Equal(t, 0, cfg.Watch.DebounceMS)
	assert.Equal(t, 2, cfg.Indexer.Workers)
}

func TestLoadConfig_LoadsFromConfigYamlAndMergesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
docs:
  format: yaml
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Docs.Format)
	// Everything else comes from defaults
	assert.Equal(t, Default().Paths, cfg.Paths)
	assert.Equal(t, 4, cfg.Indexer.Workers)
}

func TestLoadConfig_EnvironmentVariablesOverride(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
docs:
  format: json
indexer:
  workers: 2
`)

	t.Setenv("TSDOC_DOCS_FORMAT", "yaml")
	t.Setenv("TSDOC_CACHE_CAPACITY", "99")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	// Environment variables win over file and defaults
	assert.Equal(t, "yaml", cfg.Docs.Format)
	assert.Equal(t, 99, cfg.Cache.Capacity)
	// Not overridden, comes from the file
	assert.Equal(t, 2, cfg.Indexer.Workers)
}

func TestNewFileLoader_ExplicitFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("docs:\n  private: true\n"), 0644))

	cfg, err := NewFileLoader(tempDir, path).Load()
	require.NoError(t, err)
	assert.True(t, cfg.Docs.Private)

	// Test: a missing explicit file is an error
	_, err = NewFileLoader(tempDir, filepath.Join(tempDir, "missing.yml")).Load()
	assert.Error(t, err)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		tempDir := t.TempDir()
		writeConfig(t, tempDir, "config.yml", "docs: [unclosed\n")

		_, err := NewLoader(tempDir).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		tempDir := t.TempDir()
		writeConfig(t, tempDir, "config.yml", "docs:\n  format: html\n")

		_, err := NewLoader(tempDir).Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidFormat))
	})
}

func TestValidate_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"format", func(c *Config) { c.Docs.Format = "xml" }, ErrInvalidFormat},
		{"capacity", func(c *Config) { c.Cache.Capacity = 0 }, ErrInvalidCapacity},
		{"workers", func(c *Config) { c.Indexer.Workers = -1 }, ErrInvalidWorkers},
		{"debounce", func(c *Config) { c.Watch.DebounceMS = -5 }, ErrInvalidDebounce},
		{"db path", func(c *Config) { c.Storage.DBPath = "" }, ErrEmptyDBPath},
		{"no include", func(c *Config) { c.Paths.Include = nil }, ErrInvalidPattern},
		{"malformed include", func(c *Config) { c.Paths.Include = []string{"src/[a-"} }, ErrInvalidPattern},
		{"empty ignore", func(c *Config) { c.Paths.Ignore = []string{" "} }, ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Docs.Format = "xml"
	cfg.Cache.Capacity = 0
	cfg.Indexer.Workers = 0

	err := Validate(cfg)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "validation failed:")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
	assert.True(t, errors.Is(err, ErrInvalidWorkers))
}

func TestConfig_Derived(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Paths.Include = []string{"**/*.ts", "src/**/*.ts", "*.mjs", "README"}

	assert.Equal(t, []string{".ts", ".mjs"}, cfg.GetSourceExtensions())

	assert.Equal(t, filepath.Join("/proj", ".tsdoc", "docs.db"), cfg.DBPath("/proj"))
	cfg.Storage.DBPath = "/abs/docs.db"
	assert.Equal(t, "/abs/docs.db", cfg.DBPath("/proj"))

	ic := cfg.ToIndexerConfig("/proj")
	assert.Equal(t, "/proj", ic.RootDir)
	assert.Equal(t, cfg.Paths.Include, ic.IncludePatterns)
	assert.Equal(t, cfg.Indexer.Workers, ic.Workers)
	assert.Equal(t, cfg.Cache.Capacity, ic.CacheCapacity)

	cfg.Paths.Ignore = []string{"node_modules/**", "src/gen/**", "**/*.min.js", "dist/**", ".git/**"}
	cfg.Watch.DebounceMS = 250
	wo := cfg.ToWatcherOptions()
	assert.Equal(t, []string{".tsdoc", ".git", "node_modules", "dist"}, wo.SkipDir)
	assert.Equal(t, []string{".ts", ".mjs"}, wo.Extensions)
	assert.Equal(t, 250*time.Millisecond, wo.Debounce)
}
