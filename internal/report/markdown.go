package report

// markdown.go — converts an Artifact into a markdown bundle.
//
// Bundle layout:
//   index.md               — totals plus a row per contract
//   contracts/<name>.md    — one page per report, results in display order
//
// Generation writes no files; WriteBundle persists pages in sorted path
// order so repeated runs touch files identically.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"komodo/internal/frontmatter"
	"komodo/internal/verify"
)

// Bundle holds pre-generated page content (path → markdown). Paths are
// relative to the output directory, using forward slashes.
type Bundle struct {
	pages map[string]string
}

// GenerateBundle builds all pages from the artifact.
func GenerateBundle(a *Artifact) *Bundle {
	pages := make(map[string]string)
	pages["index.md"] = buildIndexPage(a)
	for _, r := range a.Reports {
		name := sanitizeFilename(r.ContractName)
		pages["contracts/"+name+".md"] = buildContractPage(r)
	}
	return &Bundle{pages: pages}
}

// WriteBundle writes all pages to outputDir in sorted path order. The
// contracts/ subdirectory is always created.
func WriteBundle(b *Bundle, outputDir string) error {
	if err := os.MkdirAll(filepath.Join(outputDir, "contracts"), 0o755); err != nil {
		return fmt.Errorf("mkdir contracts: %w", err)
	}

	paths := make([]string, 0, len(b.pages))
	for p := range b.pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		abs := filepath.Join(outputDir, filepath.FromSlash(p))
		if err := writePage(abs, b.pages[p]); err != nil {
			return err
		}
	}
	return nil
}

// buildIndexPage builds index.md — totals and a per-contract table.
func buildIndexPage(a *Artifact) string {
	var b strings.Builder
	b.WriteString(frontmatter.TagBlock([]string{"komodo/index"}))
	b.WriteString("# Verification Report\n\n")
	b.WriteString(fmt.Sprintf("- **Inputs hash**: `%s`\n", a.InputsSHA256))
	b.WriteString(fmt.Sprintf("- **Specs**: %d total — %d verified, %d unverified, %d violated, %d missing\n\n",
		a.Totals.Total, a.Totals.Verified, a.Totals.Unverified, a.Totals.Violated, a.Totals.Missing))

	b.WriteString("## Contracts\n\n")
	b.WriteString("| Contract | Verified | Unverified | Violated | Missing |\n")
	b.WriteString("|----------|----------|------------|----------|----------|\n")
	for _, r := range a.Reports {
		name := sanitizeFilename(r.ContractName)
		b.WriteString(fmt.Sprintf("| [[contracts/%s\\|%s]] | %d | %d | %d | %d |\n",
			name, r.ContractName, r.Summary.Verified, r.Summary.Unverified, r.Summary.Violated, r.Summary.Missing))
	}
	return b.String()
}

// buildContractPage builds contracts/<name>.md for one report.
func buildContractPage(r *verify.Report) string {
	var b strings.Builder

	tags := []string{"contract", worstStatusTag(r)}
	b.WriteString(frontmatter.TagBlock(tags))
	b.WriteString(fmt.Sprintf("# %s\n\n", r.ContractName))
	b.WriteString(fmt.Sprintf("Source: `%s`\n\n", r.File))

	b.WriteString("| Tag | Expression | Status | Message |\n")
	b.WriteString("|-----|------------|--------|---------|\n")
	for _, res := range r.Results {
		b.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
			res.Tag, escapeCell(res.Expression), res.Status, escapeCell(res.Message)))
	}

	var details []string
	for _, res := range r.Results {
		for _, d := range res.Details {
			details = append(details, fmt.Sprintf("- %s:%d — %s", res.Tag, res.Line, d))
		}
	}
	if len(details) > 0 {
		b.WriteString("\n## Details\n\n")
		for _, d := range details {
			b.WriteString(d + "\n")
		}
	}

	return b.String()
}

// worstStatusTag maps a report to a status tag for the page frontmatter:
// violated beats missing beats unverified beats verified.
func worstStatusTag(r *verify.Report) string {
	switch {
	case r.Summary.Violated > 0:
		return "status-violated"
	case r.Summary.Missing > 0:
		return "status-missing"
	case r.Summary.Unverified > 0:
		return "status-unverified"
	default:
		return "status-verified"
	}
}

// escapeCell keeps expression text from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// sanitizeFilename replaces / and . with -, collapses consecutive - to
// one, and trims leading/trailing -.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// writePage writes content to path, creating parent directories as needed.
func writePage(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
