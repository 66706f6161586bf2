package indexer

// Test Plan for FileDiscovery:
// - "**/" patterns match files in the root and in subdirectories
// - Ignored directories are pruned, including the .tsdoc state directory
// - Results are absolute, sorted paths
// - Matches and RelPath agree with DiscoverFiles
// - Malformed patterns fail construction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileDiscovery_DiscoverFiles(t *testing.T) {
	t.Parallel()

	// Setup
	root := t.TempDir()
	for _, rel := range []string{
		"index.ts",
		"src/b.ts",
		"src/a.tsx",
		"src/util.js",
		"README.md",
		"node_modules/pkg/index.ts",
		".tsdoc/cache.ts",
		"dist/out.js",
	} {
		writeFile(t, root, rel, "export const x = 1;\n")
	}

	fd, err := NewFileDiscovery(root, []string{"**/*.ts", "**/*.tsx"}, []string{"node_modules/**", "dist/**"})
	require.NoError(t, err)

	// Execute
	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	// Verify
	assert.Equal(t, []string{
		filepath.Join(root, "index.ts"),
		filepath.Join(root, "src", "a.tsx"),
		filepath.Join(root, "src", "b.ts"),
	}, files)
}

func TestFileDiscovery_Matches(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery("/proj", []string{"**/*.ts"}, []string{"vendor/**", "**/*.d.ts"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"main.ts", true},
		{"src/deep/mod.ts", true},
		{"src/mod.js", false},
		{"vendor/lib.ts", false},
		{"types/global.d.ts", false},
		{".tsdoc/x.ts", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fd.Matches(tt.path), tt.path)
	}

	rel, err := fd.RelPath(filepath.Join("/proj", "src", "mod.ts"))
	require.NoError(t, err)
	assert.Equal(t, "src/mod.ts", rel)

	rel, err = fd.RelPath("src/./mod.ts")
	require.NoError(t, err)
	assert.Equal(t, "src/mod.ts", rel)
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery("/proj", []string{"src/[a-"}, nil)
	assert.Error(t, err)
}
