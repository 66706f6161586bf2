package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsdoc/internal/doc"
)

// VariablesToolName is the name of the variable documentation tool.
const VariablesToolName = "tsdoc_variables"

// defaultSourceName names inline source when no path is given.
const defaultSourceName = "input.ts"

// Extractor documents files and inline source. *indexer.Processor
// implements it; the processor must include private declarations so the
// handler can filter per call.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (*doc.FileDocs, error)
	ExtractSource(ctx context.Context, name string, src []byte) (*doc.FileDocs, error)
}

// AddVariablesTool registers the tsdoc_variables tool with an MCP server.
func AddVariablesTool(s *server.MCPServer, extractor Extractor, rootDir string) {
	tool := mcp.NewTool(
		VariablesToolName,
		mcp.WithDescription(`Document the variable declarations of a TypeScript or JavaScript file.

Every name bound by var, let or const is reported with its declared or
inferred type, declaration keyword, location and JSDoc. Destructuring
patterns are projected onto the annotated or initializer type.

Pass either a project-relative file path, or inline source (path then only
selects the dialect by extension, default input.ts).`),
		mcp.WithString("path",
			mcp.Description("File path relative to the project root (e.g. src/config.ts)")),
		mcp.WithString("source",
			mcp.Description("Inline source to document instead of reading a file")),
		mcp.WithBoolean("private",
			mcp.Description("Include declarations that are neither exported nor ambient (default: false)")),
		mcp.WithString("format",
			mcp.Description("Response format: json (default) or text"),
			mcp.Enum("json", "text")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createVariablesHandler(extractor, rootDir))
}

func createVariablesHandler(extractor Extractor, rootDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := argumentsMap(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var args VariablesRequest
		if args.Path, err = parseStringArg(argsMap, "path", false); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.Source, err = parseStringArg(argsMap, "source", false); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.Format, err = parseStringArg(argsMap, "format", false); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args.Private = parseBoolArg(argsMap, "private", false)

		if args.Format == "" {
			args.Format = "json"
		}
		if args.Format != "json" && args.Format != "text" {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", args.Format)), nil
		}

		var fd *doc.FileDocs
		switch {
		case args.Source != "":
			name := args.Path
			if name == "" {
				name = defaultSourceName
			}
			fd, err = extractor.ExtractSource(ctx, name, []byte(args.Source))
		case args.Path != "":
			if !withinRoot(rootDir, args.Path) {
				return mcp.NewToolResultError(fmt.Sprintf("path %s is outside the project", args.Path)), nil
			}
			fd, err = extractor.ExtractFile(ctx, args.Path)
		default:
			return mcp.NewToolResultError("either path or source is required"), nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		nodes := fd.Nodes
		if !args.Private {
			nodes = doc.PublicOnly(nodes)
		}

		if args.Format == "text" {
			var b strings.Builder
			if err := doc.FormatText(&b, nodes); err != nil {
				return nil, fmt.Errorf("failed to format nodes: %w", err)
			}
			return mcp.NewToolResultText(b.String()), nil
		}

		response := &VariablesResponse{
			Path:  fd.Path,
			Hash:  fd.Hash,
			Nodes: nodes,
			Total: len(nodes),
		}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// withinRoot reports whether path, absolute or root-relative, stays inside rootDir.
func withinRoot(rootDir, path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// VariablesRequest represents the arguments of the tsdoc_variables tool.
type VariablesRequest struct {
	Path    string `json:"path,omitempty"`
	Source  string `json:"source,omitempty"`
	Private bool   `json:"private,omitempty"`
	Format  string `json:"format,omitempty"`
}

// VariablesResponse is the JSON response of the tsdoc_variables tool.
type VariablesResponse struct {
	Path  string     `json:"path"`
	Hash  string     `json:"hash"`
	Nodes []doc.Node `json:"nodes"`
	Total int        `json:"total"`
}
