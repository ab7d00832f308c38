// Package spec turns tagged comment text into a typed, queryable model: the
// annotation extractor recognizes @tag lines inside leading comment blocks,
// the tag grammar parsers convert them into per-kind specs, and the tree
// builder assembles them into per-contract bundles.
package spec

import (
	"strings"

	"komodo/internal/lang"
)

// Tag identifies an annotation kind. The set is closed; unrecognized tags
// are dropped at extraction time.
type Tag int

const (
	TagInvariant Tag = iota
	TagPre
	TagRequires
	TagPost
	TagEnsures
	TagState
	TagAccess
	TagCalls
	TagTemporal
	TagDomainConstraint
)

var tagNames = map[Tag]string{
	TagInvariant:        "invariant",
	TagPre:              "pre",
	TagRequires:         "requires",
	TagPost:             "post",
	TagEnsures:          "ensures",
	TagState:            "state",
	TagAccess:           "access",
	TagCalls:            "calls",
	TagTemporal:         "temporal",
	TagDomainConstraint: "domain-constraint",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, n := range tagNames {
		m[n] = t
	}
	return m
}()

// String returns the tag's annotation name as written in source.
func (t Tag) String() string { return tagNames[t] }

// ParseTag maps an annotation name to its Tag. Reports false for names
// outside the recognized set.
func ParseTag(name string) (Tag, bool) {
	t, ok := tagsByName[name]
	return t, ok
}

// IsPrecondition reports whether the tag is pre or its synonym requires.
func (t Tag) IsPrecondition() bool { return t == TagPre || t == TagRequires }

// IsPostcondition reports whether the tag is post or its synonym ensures.
func (t Tag) IsPostcondition() bool { return t == TagPost || t == TagEnsures }

// Annotation is one raw extracted annotation line: the tag, the expression
// text, an optional trailing comment, and its source location.
type Annotation struct {
	Tag        Tag
	Expression string
	Comment    string
	File       string
	Line       int
	Column     int
}

// commentLeaders are stripped from the front of each physical line before
// tag recognition.
var commentLeaders = []string{"/**", "*/", "//", "/*", "*"}

// ExtractBlock scans one leading comment block for annotation lines. The
// block is raw text starting at pos in file. Each annotation must fit on one
// physical line: `@<tag> <expression> [// <comment>]`. The expression runs
// up to the last trailing `//`; a literal `//` inside a quoted string is
// mis-split, a documented limitation of the single-line grammar.
func ExtractBlock(file, block string, pos lang.Pos) []Annotation {
	var out []Annotation
	line := pos.Line
	for _, raw := range strings.Split(block, "\n") {
		ann, ok := extractLine(file, raw, line)
		if ok {
			out = append(out, ann)
		}
		line++
	}
	return out
}

// extractLine applies the single-line grammar to one physical line.
func extractLine(file, raw string, line int) (Annotation, bool) {
	body := strings.TrimLeft(raw, " \t")
	for _, leader := range commentLeaders {
		if strings.HasPrefix(body, leader) {
			body = strings.TrimLeft(body[len(leader):], " \t")
			break
		}
	}
	if !strings.HasPrefix(body, "@") {
		return Annotation{}, false
	}

	name := body[1:]
	rest := ""
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		rest = strings.TrimSpace(name[i:])
		name = name[:i]
	}
	tag, ok := ParseTag(name)
	if !ok {
		return Annotation{}, false
	}

	expr, comment := rest, ""
	if i := strings.LastIndex(rest, "//"); i >= 0 {
		expr = strings.TrimSpace(rest[:i])
		comment = strings.TrimSpace(rest[i+2:])
	}

	col := strings.Index(raw, "@") + 1
	return Annotation{
		Tag:        tag,
		Expression: expr,
		Comment:    comment,
		File:       file,
		Line:       line,
		Column:     col,
	}, true
}
