package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsdoc/internal/storage"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the project's documentation index",
	Long: `Show the state of .tsdoc/docs.db for the current project.

Displays:
- Number of indexed files and documented variables
- When the last index run finished and what it changed
- Whether another tsdoc process currently holds the write lock`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

// indexStatus is a snapshot of one project's index.
type indexStatus struct {
	DBPath        string            `json:"dbPath"`
	Exists        bool              `json:"exists"`
	SchemaVersion string            `json:"schemaVersion,omitempty"`
	Files         int               `json:"files"`
	Nodes         int               `json:"nodes"`
	Locked        bool              `json:"locked"`
	LastRun       *storage.IndexRun `json:"lastRun,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	status, err := readIndexStatus(cfg.DBPath(rootDir))
	if err != nil {
		return err
	}

	if statusJSON {
		return writeStructured(cmd.OutOrStdout(), FormatJSON, status)
	}
	formatStatus(cmd.OutOrStdout(), status)
	return nil
}

// readIndexStatus inspects the database at dbPath without modifying it.
func readIndexStatus(dbPath string) (*indexStatus, error) {
	status := &indexStatus{DBPath: dbPath}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return status, nil
	}
	status.Exists = true

	locked, err := isLocked(dbPath)
	if err != nil {
		return nil, err
	}
	status.Locked = locked

	db, err := storage.OpenReadOnly(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if status.SchemaVersion, err = storage.GetSchemaVersion(db); err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	reader := storage.NewReader(db)
	if status.Files, status.Nodes, err = reader.Counts(); err != nil {
		return nil, err
	}
	if status.LastRun, err = reader.LastRun(); err != nil {
		return nil, err
	}
	return status, nil
}

// isLocked reports whether another process holds the write lock.
func isLocked(dbPath string) (bool, error) {
	lock, err := storage.AcquireWriteLock(dbPath)
	if errors.Is(err, storage.ErrLocked) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, lock.Release()
}

func formatStatus(w io.Writer, status *indexStatus) {
	if !status.Exists {
		fmt.Fprintf(w, "No index at %s, run 'tsdoc index' first\n", status.DBPath)
		return
	}

	fmt.Fprintln(w, "Index Status:")
	fmt.Fprintf(w, "  Database:  %s (schema %s)\n", status.DBPath, status.SchemaVersion)
	fmt.Fprintf(w, "  Files:     %s\n", formatNumber(status.Files))
	fmt.Fprintf(w, "  Variables: %s\n", formatNumber(status.Nodes))

	if run := status.LastRun; run != nil {
		fmt.Fprintf(w, "  Last run:  %s (took %s, %d written, %d removed)\n",
			formatTimeSince(run.FinishedAt),
			formatDuration(run.FinishedAt.Sub(run.StartedAt)),
			run.FilesIndexed, run.FilesRemoved)
	} else {
		fmt.Fprintln(w, "  Last run:  never")
	}

	if status.Locked {
		fmt.Fprintln(w, "  Status:    indexing (write lock held)")
	} else {
		fmt.Fprintln(w, "  Status:    idle")
	}
}

// formatDuration formats a duration in compact format.
// Examples: "0s", "5s", "1m", "1h 30m", "2h", "1d", "1d 3h"
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds%60)
}

// formatTimeSince formats t as time ago, or "never" for the zero time.
func formatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	since := time.Since(t)
	if since < 0 {
		since = 0
	}
	return formatDuration(since) + " ago"
}
