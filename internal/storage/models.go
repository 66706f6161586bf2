package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/jsdoc"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/tstype"
	"github.com/mvp-joe/tsdoc/internal/variable"
)

// IndexRun is one completed index run.
type IndexRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	FilesIndexed int       `json:"filesIndexed"`
	FilesRemoved int       `json:"filesRemoved"`
	NodesWritten int       `json:"nodesWritten"`
}

var nodeColumns = []string{
	"file_path", "name", "kind", "declaration_kind", "decl_kind",
	"line", "col", "byte_index", "type_repr", "ts_type_json", "js_doc_json",
}

// nodeValues flattens a node into the doc_nodes columns (in nodeColumns order).
func nodeValues(filePath string, n *doc.Node) ([]interface{}, error) {
	declKind := ""
	var tsType *tstype.TypeDef
	if n.VariableDef != nil {
		declKind = n.VariableDef.Kind.String()
		tsType = n.VariableDef.TSType
	}

	typeJSON, err := nullableJSON(tsType != nil, tsType)
	if err != nil {
		return nil, fmt.Errorf("encode type of %s: %w", n.Name, err)
	}
	docJSON, err := nullableJSON(n.JSDoc != nil, n.JSDoc)
	if err != nil {
		return nil, fmt.Errorf("encode jsdoc of %s: %w", n.Name, err)
	}

	return []interface{}{
		filePath,
		n.Name,
		string(n.Kind),
		string(n.DeclarationKind),
		declKind,
		n.Location.Line,
		n.Location.Col,
		n.Location.ByteIndex,
		n.TypeRepr(),
		typeJSON,
		docJSON,
	}, nil
}

func nullableJSON(present bool, v interface{}) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanNode rebuilds a node from a row selected with nodeColumns.
func scanNode(row scanner) (doc.Node, error) {
	var (
		n                 doc.Node
		kind, declaration string
		declKind, repr    string
		typeJSON, docJSON sql.NullString
	)
	err := row.Scan(
		&n.Location.Filename,
		&n.Name,
		&kind,
		&declaration,
		&declKind,
		&n.Location.Line,
		&n.Location.Col,
		&n.Location.ByteIndex,
		&repr,
		&typeJSON,
		&docJSON,
	)
	if err != nil {
		return doc.Node{}, err
	}
	n.Kind = doc.NodeKind(kind)
	n.DeclarationKind = doc.DeclarationKind(declaration)

	def := &variable.VariableDef{}
	if def.Kind, err = syntax.ParseDeclKind(declKind); err != nil {
		return doc.Node{}, fmt.Errorf("node %s: %w", n.Name, err)
	}
	if typeJSON.Valid {
		def.TSType = &tstype.TypeDef{}
		if err := json.Unmarshal([]byte(typeJSON.String), def.TSType); err != nil {
			return doc.Node{}, fmt.Errorf("decode type of %s: %w", n.Name, err)
		}
	}
	n.VariableDef = def

	if docJSON.Valid {
		n.JSDoc = &jsdoc.JSDoc{}
		if err := json.Unmarshal([]byte(docJSON.String), n.JSDoc); err != nil {
			return doc.Node{}, fmt.Errorf("decode jsdoc of %s: %w", n.Name, err)
		}
	}
	return n, nil
}
