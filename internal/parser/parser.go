// Package parser turns TypeScript and JavaScript source into the syntax
// model using tree-sitter.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// ErrUnsupportedLanguage is returned for files whose extension is not a
// TypeScript or JavaScript dialect.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Parser parses source files. It is safe for concurrent use; every call
// creates its own tree-sitter parser.
type Parser struct {
	ts  *sitter.Language
	tsx *sitter.Language
}

// New creates a parser for the TypeScript and TSX grammars.
func New() *Parser {
	return &Parser{
		ts:  sitter.NewLanguage(typescript.LanguageTypescript()),
		tsx: sitter.NewLanguage(typescript.LanguageTSX()),
	}
}

// Supported reports whether path has an extension the parser understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts", ".js", ".mjs", ".cjs", ".tsx", ".jsx":
		return true
	}
	return false
}

// language picks the grammar for path. Paths without an extension are
// treated as TypeScript so that inline snippets can be parsed.
func (p *Parser) language(path string) (*sitter.Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "", ".ts", ".mts", ".cts", ".js", ".mjs", ".cjs":
		return p.ts, nil
	case ".tsx", ".jsx":
		return p.tsx, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, ext)
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*syntax.Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Parse(ctx, path, source)
}

// Parse parses source as the dialect implied by path. Syntax errors do not
// fail the parse: tree-sitter recovers and unparseable statements are kept
// as syntax.OtherStmt.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*syntax.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lang, err := p.language(path)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	l := &lowerer{src: source}
	body := l.program(tree.RootNode())
	return syntax.NewModule(path, source, body), nil
}
