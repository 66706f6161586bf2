package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsdoc/internal/search"
)

// SearchToolName is the name of the documentation search tool.
const SearchToolName = "tsdoc_search"

// Searcher runs keyword queries over indexed documentation.
type Searcher interface {
	Search(ctx context.Context, query string, opts *search.Options) ([]*search.Result, error)
}

// AddSearchTool registers the tsdoc_search tool with an MCP server.
func AddSearchTool(s *server.MCPServer, searcher Searcher) {
	tool := mcp.NewTool(
		SearchToolName,
		mcp.WithDescription(`Full-text search over the documented variables of the project, using bleve query syntax.

Fields: name, type, doc, file_path, kind, decl_kind.
Supports boolean operators (+required, -excluded), phrases ("connection pool"),
wildcards (serv*) and fuzzy terms (prot~1).

Examples:
- name:port
- type:string AND doc:deprecated
- doc:"retry policy" -name:legacy*`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Bleve query string")),
		mcp.WithString("kind",
			mcp.Description("Filter by declaration kind"),
			mcp.Enum("export", "private", "declare")),
		mcp.WithString("decl_kind",
			mcp.Description("Filter by declaration keyword"),
			mcp.Enum("var", "let", "const")),
		mcp.WithString("file_path",
			mcp.Description("Wildcard over project-relative paths (e.g. src/*)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-100, default: 15)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSearchHandler(searcher))
}

func createSearchHandler(searcher Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		argsMap, err := argumentsMap(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var args SearchRequest
		if args.Query, err = parseStringArg(argsMap, "query", true); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for key, dst := range map[string]*string{
			"kind":      &args.Kind,
			"decl_kind": &args.DeclKind,
			"file_path": &args.FilePath,
		} {
			if *dst, err = parseStringArg(argsMap, key, false); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		args.Limit = parseClampedInt(argsMap, "limit", 15, 1, 100)

		results, err := searcher.Search(ctx, args.Query, &search.Options{
			Limit:    args.Limit,
			Kind:     args.Kind,
			DeclKind: args.DeclKind,
			FilePath: args.FilePath,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		response := &SearchResponse{
			Query:   args.Query,
			Results: results,
			Total:   len(results),
			Metadata: SearchResponseMetadata{
				TookMs: int(time.Since(startTime).Milliseconds()),
			},
		}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// SearchRequest represents the arguments of the tsdoc_search tool.
type SearchRequest struct {
	Query    string `json:"query"`
	Kind     string `json:"kind,omitempty"`
	DeclKind string `json:"decl_kind,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchResponse is the JSON response of the tsdoc_search tool.
type SearchResponse struct {
	Query    string                 `json:"query"`
	Results  []*search.Result       `json:"results"`
	Total    int                    `json:"total"`
	Metadata SearchResponseMetadata `json:"metadata"`
}

// SearchResponseMetadata contains timing information.
type SearchResponseMetadata struct {
	TookMs int `json:"took_ms"`
}
