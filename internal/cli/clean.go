package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsdoc/internal/storage"
)

var cleanQuietFlag bool

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the documentation index to force a full reindex",
	Long: `Clean removes the project's documentation database (.tsdoc/docs.db and its
SQLite side files). The next 'tsdoc index' run documents every file again.

The configuration file (.tsdoc/config.yml) is preserved.

Use cases:
  - Upgraded tsdoc and the schema version changed
  - Corrupted index data
  - Debugging indexing issues

Examples:
  # Clean the index
  tsdoc clean

  # Clean with minimal output
  tsdoc clean --quiet
`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
}

func runClean(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cleanQuietFlag {
		out = io.Discard
	}
	return cleanIndex(out, cfg.DBPath(rootDir))
}

// cleanIndex removes the database at dbPath with its WAL, shared memory and
// lock files. It refuses while another process holds the write lock.
func cleanIndex(out io.Writer, dbPath string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No index found for this project")
		return nil
	}

	lock, err := storage.AcquireWriteLock(dbPath)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return fmt.Errorf("cannot clean while another tsdoc process is indexing: %w", err)
		}
		return err
	}

	var sizeMB float64
	if info, err := os.Stat(dbPath); err == nil {
		sizeMB = float64(info.Size()) / (1024 * 1024)
	}

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			lock.Release()
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	if err := lock.Release(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if err := os.Remove(dbPath + ".lock"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	fmt.Fprintf(out, "✓ Cleaned index (~%.1f MB)\n", sizeMB)
	fmt.Fprintln(out, "Next 'tsdoc index' will perform a full reindex")
	return nil
}
