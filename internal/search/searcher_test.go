package search

// Test Plan for Searcher:
// - Field-scoped queries find nodes by name, type and doc text
// - Results carry the full node back out of the index
// - Kind, DeclKind and FilePath filters narrow results
// - Limit is honoured and invalid limits fall back to the default
// - Update replaces a file's nodes and removes deleted files
// - A malformed query is an error

import (
	"context"
	"testing"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/jsdoc"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/tstype"
	"github.com/mvp-joe/tsdoc/internal/variable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(file string, offset int, name string, kind doc.DeclarationKind, declKind syntax.DeclKind, typ *tstype.TypeDef, comment string) doc.Node {
	n := doc.Node{
		Name:            name,
		Kind:            doc.NodeKindVariable,
		Location:        doc.Location{Filename: file, Line: 1, ByteIndex: offset},
		DeclarationKind: kind,
		VariableDef:     &variable.VariableDef{TSType: typ, Kind: declKind},
	}
	if comment != "" {
		n.JSDoc = &jsdoc.JSDoc{Doc: comment}
	}
	return n
}

func fixtureNodes() []doc.Node {
	return []doc.Node{
		node("src/server.ts", 0, "serverPort", doc.DeclarationExport, syntax.DeclConst, tstype.Keyword("number"), "The port the HTTP server listens on."),
		node("src/server.ts", 40, "hostName", doc.DeclarationExport, syntax.DeclLet, tstype.Keyword("string"), "Bind address."),
		node("src/db.ts", 0, "pool", doc.DeclarationPrivate, syntax.DeclConst, tstype.RefOf("Pool"), "Shared database connection pool."),
		node("lib/globals.ts", 0, "VERSION", doc.DeclarationDeclare, syntax.DeclVar, tstype.Keyword("string"), ""),
	}
}

func newTestSearcher(t *testing.T, nodes []doc.Node) *Searcher {
	t.Helper()
	s, err := NewSearcher(context.Background(), nodes)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func names(results []*Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Node.Name)
	}
	return out
}

func TestSearcher_FieldQueries(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t, fixtureNodes())
	ctx := context.Background()

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	// Test: name
	results, err := s.Search(ctx, "name:serverPort", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	got := results[0].Node
	assert.Equal(t, "serverPort", got.Name)
	assert.Equal(t, "src/server.ts", got.Location.Filename)
	assert.Equal(t, doc.DeclarationExport, got.DeclarationKind)
	assert.Equal(t, "number", got.TypeRepr())
	require.NotNil(t, got.VariableDef)
	assert.Equal(t, syntax.DeclConst, got.VariableDef.Kind)
	require.NotNil(t, got.JSDoc)
	assert.Equal(t, "The port the HTTP server listens on.", got.JSDoc.Doc)
	assert.Greater(t, results[0].Score, 0.0)

	// Test: doc text
	results, err = s.Search(ctx, "doc:pool", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pool"}, names(results))

	// Test: type
	results, err = s.Search(ctx, "type:string", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hostName", "VERSION"}, names(results))

	// Test: unscoped terms search every text field
	results, err = s.Search(ctx, "server", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"serverPort"}, names(results))
}

func TestSearcher_Filters(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t, fixtureNodes())
	ctx := context.Background()

	results, err := s.Search(ctx, "type:string", &Options{Kind: "declare"})
	require.NoError(t, err)
	assert.Equal(t, []string{"VERSION"}, names(results))

	results, err = s.Search(ctx, "type:string", &Options{DeclKind: "let"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hostName"}, names(results))

	results, err = s.Search(ctx, "type:string type:number type:Pool", &Options{FilePath: "src/*"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"serverPort", "hostName", "pool"}, names(results))

	results, err = s.Search(ctx, "type:string", &Options{Kind: "private"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearcher_Limit(t *testing.T) {
	t.Parallel()

	var nodes []doc.Node
	for i := 0; i < 30; i++ {
		nodes = append(nodes, node("many.ts", i*10, "item", doc.DeclarationExport, syntax.DeclConst, tstype.Keyword("number"), "repeated item"))
	}
	s := newTestSearcher(t, nodes)
	ctx := context.Background()

	results, err := s.Search(ctx, "doc:item", &Options{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, results, 5)

	// Test: out of range limits use the default
	results, err = s.Search(ctx, "doc:item", &Options{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, results, defaultLimit)

	results, err = s.Search(ctx, "doc:item", &Options{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, results, defaultLimit)
}

func TestSearcher_Update(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t, fixtureNodes())
	ctx := context.Background()

	// Setup: src/server.ts now only declares listenPort; src/db.ts is gone
	updated := []doc.Node{
		node("src/server.ts", 0, "listenPort", doc.DeclarationExport, syntax.DeclConst, tstype.Keyword("number"), "Port."),
	}

	// Execute
	err := s.Update(ctx, updated, []string{"src/db.ts"})
	require.NoError(t, err)

	// Verify
	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	results, err := s.Search(ctx, "name:serverPort name:hostName name:pool", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(ctx, "name:listenPort", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"listenPort"}, names(results))
}

func TestSearcher_InvalidQuery(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t, fixtureNodes())

	_, err := s.Search(context.Background(), "name:/[a-/", nil)
	assert.Error(t, err)
}

func TestNewSearcher_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearcher(ctx, fixtureNodes())
	assert.ErrorIs(t, err, context.Canceled)
}
