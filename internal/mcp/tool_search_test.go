package mcp

// Test Plan for tsdoc_search:
// - Registration does not panic
// - Queries return nodes with scores as JSON
// - kind, decl_kind, file_path and limit reach the searcher
// - A missing query or a failing search is a tool error

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/jsdoc"
	"github.com/mvp-joe/tsdoc/internal/search"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/tstype"
	"github.com/mvp-joe/tsdoc/internal/variable"
)

// recordingSearcher records the options it was called with.
type recordingSearcher struct {
	query string
	opts  *search.Options
	err   error
}

func (r *recordingSearcher) Search(ctx context.Context, query string, opts *search.Options) ([]*search.Result, error) {
	r.query = query
	r.opts = opts
	return nil, r.err
}

func newIndexedSearcher(t *testing.T) *search.Searcher {
	t.Helper()
	nodes := []doc.Node{
		{
			Name:            "retryLimit",
			Kind:            doc.NodeKindVariable,
			Location:        doc.Location{Filename: "src/net.ts", Line: 2},
			DeclarationKind: doc.DeclarationExport,
			JSDoc:           &jsdoc.JSDoc{Doc: "How often a request is retried."},
			VariableDef:     &variable.VariableDef{TSType: tstype.Keyword("number"), Kind: syntax.DeclConst},
		},
		{
			Name:            "timeout",
			Kind:            doc.NodeKindVariable,
			Location:        doc.Location{Filename: "src/net.ts", Line: 5, ByteIndex: 60},
			DeclarationKind: doc.DeclarationExport,
			VariableDef:     &variable.VariableDef{TSType: tstype.Keyword("number"), Kind: syntax.DeclLet},
		},
	}
	s, err := search.NewSearcher(context.Background(), nodes)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddSearchTool_Registration(t *testing.T) {
	t.Parallel()

	s := server.NewMCPServer("test-server", "1.0.0", server.WithToolCapabilities(true))
	require.NotPanics(t, func() {
		AddSearchTool(s, &recordingSearcher{})
	})
}

func TestSearchHandler_Results(t *testing.T) {
	t.Parallel()

	// Setup
	handler := createSearchHandler(newIndexedSearcher(t))

	// Execute
	result := callTool(t, handler, map[string]interface{}{"query": "doc:retried"})

	// Verify
	assert.False(t, result.IsError)
	var response SearchResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "doc:retried", response.Query)
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "retryLimit", response.Results[0].Node.Name)
	assert.Equal(t, "number", response.Results[0].Node.TypeRepr())
	assert.Greater(t, response.Results[0].Score, 0.0)

	// Test: filters apply
	result = callTool(t, handler, map[string]interface{}{"query": "type:number", "decl_kind": "let"})
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "timeout", response.Results[0].Node.Name)
}

func TestSearchHandler_Options(t *testing.T) {
	t.Parallel()

	rec := &recordingSearcher{}
	handler := createSearchHandler(rec)

	result := callTool(t, handler, map[string]interface{}{
		"query":     "name:port",
		"kind":      "declare",
		"decl_kind": "var",
		"file_path": "lib/*",
		"limit":     float64(500),
	})

	assert.False(t, result.IsError)
	assert.Equal(t, "name:port", rec.query)
	assert.Equal(t, &search.Options{Limit: 100, Kind: "declare", DeclKind: "var", FilePath: "lib/*"}, rec.opts)

	// Test: limit defaults to 15
	callTool(t, handler, map[string]interface{}{"query": "x"})
	assert.Equal(t, 15, rec.opts.Limit)
}

func TestSearchHandler_Errors(t *testing.T) {
	t.Parallel()

	result := callTool(t, createSearchHandler(&recordingSearcher{}), map[string]interface{}{})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "query parameter is required")

	result = callTool(t, createSearchHandler(&recordingSearcher{err: errors.New("bad regexp")}), map[string]interface{}{"query": "/[/"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "bad regexp")
}
