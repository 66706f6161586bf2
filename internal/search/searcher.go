// Package search provides keyword search over documentation nodes using an
// in-memory bleve index.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/mvp-joe/tsdoc/internal/doc"
)

const (
	defaultLimit  = 15
	maxLimit      = 100
	batchSize     = 1000
	maxHighlights = 3
)

// Options narrows a search. A nil *Options uses the defaults.
type Options struct {
	// Limit is the maximum number of results (default 15, max 100).
	Limit int `json:"limit,omitempty"`
	// Kind filters by declaration kind: export, private or declare.
	Kind string `json:"kind,omitempty"`
	// DeclKind filters by declaration keyword: var, let or const.
	DeclKind string `json:"declKind,omitempty"`
	// FilePath is a wildcard pattern over root-relative paths ("src/*").
	FilePath string `json:"filePath,omitempty"`
}

// Result is a single search hit.
type Result struct {
	Node       doc.Node `json:"node"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// Searcher is a keyword index over documentation nodes.
//
// Queries use bleve query-string syntax and may be scoped to the fields
// name, type, doc, file_path, kind and decl_kind.
type Searcher struct {
	index bleve.Index
	mu    sync.RWMutex
	// byFile tracks document ids so a file can be dropped on update.
	byFile map[string][]string
}

// NewSearcher builds an index over the given nodes.
func NewSearcher(ctx context.Context, nodes []doc.Node) (*Searcher, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	s := &Searcher{index: index, byFile: make(map[string][]string)}
	if err := s.indexNodes(ctx, nodes); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index nodes: %w", err)
	}
	return s, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	text := func() *mapping.FieldMapping {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = "standard"
		m.Store = true
		m.Index = true
		m.IncludeTermVectors = true
		return m
	}
	keyword := func() *mapping.FieldMapping {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = "keyword"
		m.Store = true
		m.Index = true
		m.IncludeInAll = false
		return m
	}

	// The encoded node is only stored, never searched
	nodeMapping := bleve.NewTextFieldMapping()
	nodeMapping.Store = true
	nodeMapping.Index = false
	nodeMapping.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", text())
	docMapping.AddFieldMappingsAt("type", text())
	docMapping.AddFieldMappingsAt("doc", text())
	docMapping.AddFieldMappingsAt("file_path", keyword())
	docMapping.AddFieldMappingsAt("kind", keyword())
	docMapping.AddFieldMappingsAt("decl_kind", keyword())
	docMapping.AddFieldMappingsAt("node", nodeMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// documentID identifies a node by file, declarator offset and name.
func documentID(n *doc.Node) string {
	return n.Location.Filename + ":" + strconv.Itoa(n.Location.ByteIndex) + ":" + n.Name
}

func nodeToDocument(n *doc.Node) (map[string]interface{}, error) {
	encoded, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}

	declKind := ""
	if n.VariableDef != nil {
		declKind = n.VariableDef.Kind.String()
	}

	return map[string]interface{}{
		"name":      n.Name,
		"type":      n.TypeRepr(),
		"doc":       docText(n),
		"file_path": n.Location.Filename,
		"kind":      string(n.DeclarationKind),
		"decl_kind": declKind,
		"node":      string(encoded),
	}, nil
}

// docText flattens a JSDoc comment into searchable text.
func docText(n *doc.Node) string {
	if n.JSDoc == nil {
		return ""
	}
	parts := []string{n.JSDoc.Doc}
	for _, tag := range n.JSDoc.Tags {
		parts = append(parts, tag.Value)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// indexNodes adds nodes in batches. The caller must hold the write lock or
// own the searcher exclusively.
func (s *Searcher) indexNodes(ctx context.Context, nodes []doc.Node) error {
	batch := s.index.NewBatch()
	for i := range nodes {
		if i%batchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		n := &nodes[i]
		id := documentID(n)
		document, err := nodeToDocument(n)
		if err != nil {
			return fmt.Errorf("failed to encode node %s: %w", id, err)
		}
		if err := batch.Index(id, document); err != nil {
			return fmt.Errorf("failed to add node %s to batch: %w", id, err)
		}
		s.byFile[n.Location.Filename] = append(s.byFile[n.Location.Filename], id)

		if batch.Size() >= batchSize {
			if err := s.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = s.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}
	return nil
}

// Search runs a query-string query with the given filters.
func (s *Searcher) Search(ctx context.Context, queryStr string, opts *Options) ([]*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	limit := opts.Limit
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queries := []query.Query{bleve.NewQueryStringQuery(queryStr)}
	if opts.Kind != "" {
		q := bleve.NewTermQuery(opts.Kind)
		q.SetField("kind")
		queries = append(queries, q)
	}
	if opts.DeclKind != "" {
		q := bleve.NewTermQuery(opts.DeclKind)
		q.SetField("decl_kind")
		queries = append(queries, q)
	}
	if opts.FilePath != "" {
		q := bleve.NewWildcardQuery(opts.FilePath)
		q.SetField("file_path")
		queries = append(queries, q)
	}

	var final query.Query = queries[0]
	if len(queries) > 1 {
		final = bleve.NewConjunctionQuery(queries...)
	}

	req := bleve.NewSearchRequestOptions(final, limit, 0, false)
	style := "html"
	req.Highlight = bleve.NewHighlight()
	req.Highlight.Style = &style
	req.Highlight.Fields = []string{"name", "type", "doc"}
	req.Fields = []string{"node"}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		encoded, _ := hit.Fields["node"].(string)
		var n doc.Node
		if err := json.Unmarshal([]byte(encoded), &n); err != nil {
			return nil, fmt.Errorf("failed to decode node %s: %w", hit.ID, err)
		}
		results = append(results, &Result{
			Node:       n,
			Score:      hit.Score,
			Highlights: extractHighlights(hit.Fragments),
		})
	}
	return results, nil
}

// extractHighlights flattens fragments in field order, keeping at most three.
func extractHighlights(fragments map[string][]string) []string {
	var highlights []string
	for _, field := range []string{"name", "type", "doc"} {
		highlights = append(highlights, fragments[field]...)
	}
	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	return highlights
}

// Update drops every node of deletedFiles and of the files in added, then
// indexes added. Re-indexed files must therefore be passed with all of
// their nodes.
func (s *Searcher) Update(ctx context.Context, added []doc.Node, deletedFiles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(deletedFiles))
	for _, f := range deletedFiles {
		drop[f] = true
	}
	for i := range added {
		drop[added[i].Location.Filename] = true
	}

	batch := s.index.NewBatch()
	for file := range drop {
		for _, id := range s.byFile[file] {
			batch.Delete(id)
		}
		delete(s.byFile, file)
	}
	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute delete batch: %w", err)
		}
	}

	return s.indexNodes(ctx, added)
}

// Count returns the number of indexed nodes.
func (s *Searcher) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index.Close()
	}
	return nil
}
