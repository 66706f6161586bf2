package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsdoc/internal/mcp"
)

var mcpWatchFlag bool

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for variable documentation",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
document and search the variables of your project.

The MCP server:
- Indexes the project on startup (unless another tsdoc process owns the index)
- Provides tsdoc_variables to document a file or inline source
- Provides tsdoc_search for full-text search over the index
- Keeps the index current while running (--watch, on by default)
- Communicates via stdio (standard MCP transport)

Example:
  tsdoc mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpWatchFlag, "watch", true, "Reindex changed files while serving")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	// stdout carries the protocol
	fmt.Fprintf(os.Stderr, "tsdoc MCP Server %s\n", Version)
	fmt.Fprintf(os.Stderr, "Project: %s\n\n", rootDir)

	server, err := mcp.NewMCPServer(ctx, cfg, rootDir, mcp.ServerOptions{
		Version: Version,
		Watch:   mcpWatchFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
