// Package report renders verification reports: a canonical JSON artifact,
// a markdown bundle, and a styled terminal summary. Generation is pure;
// writing is separate, so identical inputs always serialize to identical
// bytes.
package report

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"komodo/internal/lang"
	"komodo/internal/verify"
)

// Artifact is the serialized form of one verification pass. It carries a
// hash over the input set instead of a timestamp so re-runs over unchanged
// inputs are byte-identical.
type Artifact struct {
	InputsSHA256 string           `json:"inputsSha256"`
	Reports      []*verify.Report `json:"reports"`
	Totals       verify.Summary   `json:"totals"`
}

// BuildArtifact assembles the artifact for a set of reports over the given
// units. Reports keep their pass order; the hash covers file names and
// source text in sorted file order.
func BuildArtifact(reports []*verify.Report, units []*lang.Unit) *Artifact {
	var totals verify.Summary
	for _, r := range reports {
		totals.Verified += r.Summary.Verified
		totals.Unverified += r.Summary.Unverified
		totals.Violated += r.Summary.Violated
		totals.Missing += r.Summary.Missing
		totals.Total += r.Summary.Total
	}
	return &Artifact{
		InputsSHA256: inputSetHash(units),
		Reports:      reports,
		Totals:       totals,
	}
}

// inputSetHash computes a SHA-256 over every unit's file name and source,
// in sorted file order.
func inputSetHash(units []*lang.Unit) string {
	sorted := make([]*lang.Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })

	h := sha256.New()
	for _, u := range sorted {
		fmt.Fprintf(h, "%s\n", u.File)
		h.Write([]byte(u.Source))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// EncodeJSON serializes the artifact with two-space indentation and a
// trailing newline. Key order is fixed by the struct definitions.
func EncodeJSON(a *Artifact) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the encoded artifact to path, creating parent
// directories as needed.
func WriteJSON(a *Artifact, path string) error {
	data, err := EncodeJSON(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
