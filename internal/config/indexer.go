package config

import (
	"github.com/mvp-joe/tsdoc/internal/indexer"
)

// ToIndexerConfig converts a Config to an indexer.Config.
// The rootDir parameter specifies the root directory of the project to index.
func (c *Config) ToIndexerConfig(rootDir string) indexer.Config {
	return indexer.Config{
		RootDir:         rootDir,
		IncludePatterns: c.Paths.Include,
		IgnorePatterns:  c.Paths.Ignore,
		Private:         c.Docs.Private,
		Workers:         c.Indexer.Workers,
		CacheCapacity:   c.Cache.Capacity,
	}
}
