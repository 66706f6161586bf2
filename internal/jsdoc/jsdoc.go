// Package jsdoc parses `/** ... */` documentation comments.
package jsdoc

import (
	"strings"
)

// TagKind names a block tag.
type TagKind string

const (
	TagDeprecated  TagKind = "deprecated"
	TagExample     TagKind = "example"
	TagSee         TagKind = "see"
	TagSince       TagKind = "since"
	TagDefault     TagKind = "default"
	TagType        TagKind = "type"
	TagCategory    TagKind = "category"
	TagInternal    TagKind = "internal"
	TagUnsupported TagKind = "unsupported"
)

// Tag is one `@tag` block. Value holds the tag body; for @type it is the
// text between the braces. Unsupported tags keep their full source.
type Tag struct {
	Kind  TagKind `json:"kind" yaml:"kind"`
	Value string  `json:"value,omitempty" yaml:"value,omitempty"`
}

// JSDoc is a parsed documentation comment.
type JSDoc struct {
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
	Tags []Tag  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Deprecated reports whether the comment carries @deprecated.
func (d *JSDoc) Deprecated() bool {
	return d.Has(TagDeprecated)
}

// Has reports whether a tag of the given kind is present.
func (d *JSDoc) Has(kind TagKind) bool {
	if d == nil {
		return false
	}
	for _, t := range d.Tags {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// Parse parses a raw comment, with or without its delimiters. It returns nil
// when the comment has neither text nor tags.
func Parse(raw string) *JSDoc {
	lines := stripDelimiters(raw)

	doc := &JSDoc{}
	var desc []string
	var cur *strings.Builder
	var curName string

	flush := func() {
		if cur == nil {
			return
		}
		doc.Tags = append(doc.Tags, newTag(curName, strings.TrimSpace(cur.String())))
		cur = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@") {
			flush()
			name, rest, _ := strings.Cut(trimmed[1:], " ")
			curName = name
			cur = &strings.Builder{}
			cur.WriteString(rest)
			continue
		}
		if cur != nil {
			cur.WriteByte('\n')
			// examples keep their indentation
			if curName == string(TagExample) {
				cur.WriteString(line)
			} else {
				cur.WriteString(trimmed)
			}
			continue
		}
		desc = append(desc, line)
	}
	flush()

	doc.Doc = strings.TrimSpace(strings.Join(trimLines(desc), "\n"))
	if doc.Doc == "" && len(doc.Tags) == 0 {
		return nil
	}
	return doc
}

func newTag(name, body string) Tag {
	switch TagKind(name) {
	case TagDeprecated, TagExample, TagSee, TagSince, TagCategory, TagInternal:
		return Tag{Kind: TagKind(name), Value: body}
	case TagDefault, "defaultValue":
		return Tag{Kind: TagDefault, Value: body}
	case TagType:
		return Tag{Kind: TagType, Value: braced(body)}
	}
	value := "@" + name
	if body != "" {
		value += " " + body
	}
	return Tag{Kind: TagUnsupported, Value: value}
}

// braced returns the text inside a leading `{...}`, honouring nesting.
func braced(s string) string {
	if !strings.HasPrefix(s, "{") {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[1:i])
			}
		}
	}
	return strings.TrimSpace(s[1:])
}

// stripDelimiters removes `/**`, `*/` and the leading `*` of each line.
func stripDelimiters(raw string) []string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		t := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(t, "*") {
			t = strings.TrimPrefix(t, "*")
			t = strings.TrimPrefix(t, " ")
			line = t
		} else if i == 0 {
			line = strings.TrimLeft(line, " ")
		}
		lines[i] = line
	}
	return lines
}

// trimLines drops leading and trailing blank lines.
func trimLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
