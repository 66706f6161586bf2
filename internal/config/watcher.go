package config

import (
	"strings"
	"time"

	"github.com/mvp-joe/tsdoc/internal/watcher"
)

// alwaysSkipped directories are never watched.
var alwaysSkipped = []string{DirName, ".git"}

// ToWatcherOptions converts a Config to watcher.Options. Ignore patterns of
// the form "name/**" become skipped directory names; other patterns are
// left to the indexer, which re-checks every reported file.
func (c *Config) ToWatcherOptions() watcher.Options {
	skip := append([]string{}, alwaysSkipped...)
	seen := map[string]bool{DirName: true, ".git": true}
	for _, pattern := range c.Paths.Ignore {
		name, ok := strings.CutSuffix(pattern, "/**")
		if !ok || name == "" || strings.ContainsAny(name, "/*?[{") || seen[name] {
			continue
		}
		seen[name] = true
		skip = append(skip, name)
	}

	return watcher.Options{
		Extensions: c.GetSourceExtensions(),
		Debounce:   time.Duration(c.Watch.DebounceMS) * time.Millisecond,
		SkipDir:    skip,
	}
}
