// Package suggest derives starter annotations from code patterns. It is a
// consumer of the same evidence primitives the verifier uses, not part of
// the verification contract: the output is a draft for the engineer to
// edit, never fed back into verification automatically.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"komodo/internal/evidence"
	"komodo/internal/lang"
)

// Suggestion is one proposed annotation line for a declaration.
type Suggestion struct {
	Contract string
	Method   string // empty for contract-level suggestions
	Line     string
	Reason   string
}

// Generate proposes annotations for every contract in the units.
// Generation is pure; rendering is separate.
func Generate(units []*lang.Unit, ext evidence.Extractor, vocab evidence.Vocabulary) []Suggestion {
	var out []Suggestion
	for _, u := range units {
		for _, c := range u.Contracts {
			out = append(out, generateContract(c, ext, vocab)...)
		}
	}
	return out
}

func generateContract(c *lang.Contract, ext evidence.Extractor, vocab evidence.Vocabulary) []Suggestion {
	var out []Suggestion
	stored := ext.StoredFields(c)

	// Invariant stubs for stored fields that methods actually write.
	writers := make(map[string][]string)
	for _, m := range c.Methods {
		for _, w := range ext.StateWrites(m, stored) {
			writers[w.Field] = append(writers[w.Field], m.Name)
		}
	}
	fields := make([]string, 0, len(writers))
	for f := range writers {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		out = append(out, Suggestion{
			Contract: c.Name,
			Line:     fmt.Sprintf("@invariant owner.%s.value >= 0", f),
			Reason:   fmt.Sprintf("written by %s", strings.Join(writers[f], ", ")),
		})
	}

	for _, m := range c.Methods {
		out = append(out, generateMethod(c.Name, m, ext, stored, vocab)...)
	}
	return out
}

func generateMethod(contract string, m *lang.Method, ext evidence.Extractor, stored map[string]string, vocab evidence.Vocabulary) []Suggestion {
	var out []Suggestion

	if vocab.HasAccessGuard(m.Body) || vocab.HasManualAccessCheck(m.Body) {
		out = append(out, Suggestion{
			Contract: contract, Method: m.Name,
			Line:   "@access deployer-only",
			Reason: "sender check present in body",
		})
	}

	calls := ext.CallSites(m)
	writes := ext.StateWrites(m, stored)
	if len(calls) > 0 && len(writes) > 0 {
		out = append(out, Suggestion{
			Contract: contract, Method: m.Name,
			Line:   "@ensures CEI",
			Reason: "method mixes state writes and external calls",
		})
	}
	if len(calls) > 0 {
		out = append(out, Suggestion{
			Contract: contract, Method: m.Name,
			Line:   "@calls external : ? -> must-succeed",
			Reason: "external-call site present; fill in the target",
		})
	}

	for _, g := range ext.Guards(m) {
		if g.Condition == "" || vocab.HasAccessGuard(g.Condition) {
			continue
		}
		out = append(out, Suggestion{
			Contract: contract, Method: m.Name,
			Line:   "@pre " + g.Condition,
			Reason: "guard check found in body",
		})
	}
	return out
}

// Render formats suggestions as paste-ready comment blocks, grouped by
// contract and method.
func Render(suggestions []Suggestion) string {
	var b strings.Builder
	lastKey := ""
	for _, s := range suggestions {
		key := s.Contract
		if s.Method != "" {
			key += "." + s.Method
		}
		if key != lastKey {
			if lastKey != "" {
				b.WriteString("\n")
			}
			b.WriteString("// " + key + "\n")
			lastKey = key
		}
		b.WriteString(fmt.Sprintf("// %s  // %s\n", s.Line, s.Reason))
	}
	return b.String()
}
