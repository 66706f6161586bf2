// Package config loads tsdoc configuration.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (TSDOC_*)
//  2. Project config (.tsdoc/config.yml or .tsdoc/config.yaml)
//  3. Built-in defaults
//
// Nested fields map to environment variables with underscores, e.g.
// TSDOC_DOCS_FORMAT or TSDOC_INDEXER_WORKERS.
package config

// Config represents the complete tsdoc configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Docs    DocsConfig    `yaml:"docs" mapstructure:"docs"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Indexer IndexerConfig `yaml:"indexer" mapstructure:"indexer"`
}

// PathsConfig defines which files to document and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include" validate:"min=1"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`                    // glob patterns to ignore
}

// DocsConfig controls what is documented and how it is printed.
type DocsConfig struct {
	Private bool   `yaml:"private" mapstructure:"private"`                               // include non-exported declarations
	Format  string `yaml:"format" mapstructure:"format" validate:"oneof=text json yaml"` // output format
}

// StorageConfig locates the documentation database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path" validate:"required"` // relative to the project root unless absolute
}

// CacheConfig sizes the in-memory parse cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"gt=0"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms" validate:"gte=0"`
}

// IndexerConfig tunes the indexer.
type IndexerConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gt=0"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.ts",
				"**/*.tsx",
				"**/*.mts",
				"**/*.cts",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.cjs",
			},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				".tsdoc/**",
				"dist/**",
				"build/**",
				"coverage/**",
				"**/*.min.js",
			},
		},
		Docs: DocsConfig{
			Private: false,
			Format:  "text",
		},
		Storage: StorageConfig{
			DBPath: ".tsdoc/docs.db",
		},
		Cache: CacheConfig{
			Capacity: 2048,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Indexer: IndexerConfig{
			Workers: 4,
		},
	}
}

// GetSourceExtensions extracts unique file extensions from the include
// patterns, with a leading dot (e.g. []string{".ts", ".tsx"}), in pattern
// order.
func (c *Config) GetSourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string
	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.ts" -> ".ts", "*.mjs" -> ".mjs"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
