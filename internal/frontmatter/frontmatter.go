// Package frontmatter provides helpers for markdown files that carry YAML
// frontmatter between --- delimiters, including the sorted tag blocks the
// report pages use.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse splits a markdown document into its frontmatter (raw YAML bytes)
// and body. The document must begin with "---\n"; the closing "---" line
// ends the frontmatter block. Returns an error if the opening delimiter is
// absent.
func Parse(data []byte) (frontmatter []byte, body []byte, err error) {
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, nil, fmt.Errorf("frontmatter: missing opening --- delimiter")
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("frontmatter: missing closing --- delimiter")
	}
	fm := rest[:idx]
	// Skip past closing delimiter and optional newline.
	tail := rest[idx+4:]
	if len(tail) > 0 && tail[0] == '\n' {
		tail = tail[1:]
	}
	return fm, tail, nil
}

// Compose marshals v as YAML frontmatter and concatenates body, returning
// the complete markdown document with --- delimiters.
func Compose(v any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}

// TagBlock returns a frontmatter block holding only a tag list. Tags are
// sorted alphabetically so repeated generation is byte-identical.
func TagBlock(tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	var b strings.Builder
	b.WriteString("---\ntags:\n")
	for _, t := range sorted {
		b.WriteString("  - " + t + "\n")
	}
	b.WriteString("---\n\n")
	return b.String()
}
