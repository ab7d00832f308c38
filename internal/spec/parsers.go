package spec

// parsers.go — one micro-grammar per tag kind. Malformed input degrades to a
// best-effort structural form instead of failing: unparsable state
// transitions yield "?" placeholder states, unparsable calls clauses keep
// the full text as the target. Bad input stays inspectable.

import (
	"regexp"
	"sort"
	"strings"
)

// fieldAccessPattern matches the stored-field access convention
// `owner.<id>.value` (receiver keyword owner or this).
var fieldAccessPattern = regexp.MustCompile(`\b(?:owner|this)\.([A-Za-z_][A-Za-z0-9_]*)\.value\b`)

// FieldRefs returns the deduplicated stored-field names an expression
// mentions via the field-access convention, sorted for determinism.
func FieldRefs(expr string) []string {
	seen := make(map[string]bool)
	for _, m := range fieldAccessPattern.FindAllStringSubmatch(expr, -1) {
		seen[m[1]] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// OldRefs returns the contents of every old(...) occurrence in expr. The
// scan reads a single level of parens; nested parens inside an old() break
// it, a deliberate simplicity trade.
func OldRefs(expr string) []string {
	var out []string
	rest := expr
	for {
		i := strings.Index(rest, "old(")
		if i < 0 {
			return out
		}
		rest = rest[i+len("old("):]
		j := strings.Index(rest, ")")
		if j < 0 {
			return out
		}
		out = append(out, strings.TrimSpace(rest[:j]))
		rest = rest[j+1:]
	}
}

// InvariantSpec is a contract-level invariant with its referenced fields.
type InvariantSpec struct {
	Annotation Annotation
	FieldRefs  []string
}

// ParseInvariant builds an InvariantSpec from an invariant annotation.
func ParseInvariant(a Annotation) InvariantSpec {
	return InvariantSpec{Annotation: a, FieldRefs: FieldRefs(a.Expression)}
}

// PreconditionSpec is a pre/requires annotation bound to its method.
type PreconditionSpec struct {
	Annotation Annotation
	Method     string
}

// PostconditionSpec is a post/ensures annotation bound to its method. IsCEI
// marks the special `ensures CEI` form; when set, OldRefs and FieldRefs are
// empty by construction.
type PostconditionSpec struct {
	Annotation Annotation
	Method     string
	IsCEI      bool
	OldRefs    []string
	FieldRefs  []string
}

// ParsePostcondition builds a PostconditionSpec. An ensures whose expression
// trimmed and uppercased equals "CEI" is the CEI marker.
func ParsePostcondition(a Annotation, method string) PostconditionSpec {
	if a.Tag == TagEnsures && strings.ToUpper(strings.TrimSpace(a.Expression)) == "CEI" {
		return PostconditionSpec{Annotation: a, Method: method, IsCEI: true}
	}
	return PostconditionSpec{
		Annotation: a,
		Method:     method,
		OldRefs:    OldRefs(a.Expression),
		FieldRefs:  FieldRefs(a.Expression),
	}
}

// StateTransition is one parsed state annotation. State names keep a leading
// negation marker as part of the literal string. DefinedBy names the method
// whose doc block declared the transition; contract-level declarations leave
// it empty. The field is the de-duplication identity for copies promoted to
// the contract-level list.
type StateTransition struct {
	Annotation Annotation
	From       string
	To         string
	Methods    []string
	Condition  string
	DefinedBy  string
}

// ParseStateTransition parses `from -> to : m1(), m2() [when cond]`.
// Malformed input yields From=To="?", no methods, and the full text as the
// condition.
func ParseStateTransition(a Annotation) StateTransition {
	text := strings.TrimSpace(a.Expression)
	arrow := strings.Index(text, "->")
	if arrow < 0 {
		return StateTransition{Annotation: a, From: "?", To: "?", Condition: text}
	}
	t := StateTransition{Annotation: a, From: strings.TrimSpace(text[:arrow])}

	rest := text[arrow+2:]
	// Optional trailing bracketed when-clause.
	if open := strings.LastIndex(rest, "["); open >= 0 {
		clause := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[open+1:]), "]"))
		if cond, ok := strings.CutPrefix(clause, "when "); ok {
			t.Condition = strings.TrimSpace(cond)
			rest = rest[:open]
		}
	}

	colon := strings.Index(rest, ":")
	if colon < 0 {
		t.To = strings.TrimSpace(rest)
		return t
	}
	t.To = strings.TrimSpace(rest[:colon])
	for _, m := range strings.Split(rest[colon+1:], ",") {
		m = strings.TrimSuffix(strings.TrimSpace(m), "()")
		if m != "" {
			t.Methods = append(t.Methods, m)
		}
	}
	return t
}

// AccessSpec is an access annotation bound to its method. Level is the raw
// string as written: one of the conventional levels or an arbitrary
// extension value, case preserved.
type AccessSpec struct {
	Annotation Annotation
	Level      string
	Method     string
}

// ParseAccess builds an AccessSpec.
func ParseAccess(a Annotation, method string) AccessSpec {
	return AccessSpec{Annotation: a, Level: strings.TrimSpace(a.Expression), Method: method}
}

// CallsSpec is a cross-call expectation bound to its method. Expectation is
// conventionally must-succeed, may-fail, or unchecked but is not enforced as
// an enum at parse time.
type CallsSpec struct {
	Annotation   Annotation
	Target       string
	CalledMethod string
	Expectation  string
	Method       string
}

// ParseCalls parses `target : calledMethod -> expectation`, splitting on the
// first colon and the last arrow. Malformed input keeps the full text as the
// target with the other parts empty.
func ParseCalls(a Annotation, method string) CallsSpec {
	text := strings.TrimSpace(a.Expression)
	s := CallsSpec{Annotation: a, Method: method}

	colon := strings.Index(text, ":")
	if colon < 0 {
		s.Target = text
		return s
	}
	rest := text[colon+1:]
	arrow := strings.LastIndex(rest, "->")
	if arrow < 0 {
		s.Target = text
		return s
	}
	s.Target = strings.TrimSpace(text[:colon])
	s.CalledMethod = strings.TrimSpace(rest[:arrow])
	s.Expectation = strings.TrimSpace(rest[arrow+2:])
	return s
}

// TemporalSpec is a temporal annotation: the first whitespace-delimited
// token as subject plus the full condition text.
type TemporalSpec struct {
	Annotation Annotation
	Subject    string
	Condition  string
	Method     string
}

// ParseTemporal builds a TemporalSpec.
func ParseTemporal(a Annotation, method string) TemporalSpec {
	t := TemporalSpec{Annotation: a, Condition: strings.TrimSpace(a.Expression), Method: method}
	if fields := strings.Fields(t.Condition); len(fields) > 0 {
		t.Subject = fields[0]
	}
	return t
}

// DomainConstraintSpec is a domain-constraint annotation. Constraint is the
// raw name, one of the predefined set or arbitrary text kept verbatim.
type DomainConstraintSpec struct {
	Annotation Annotation
	Constraint string
}

// ParseDomainConstraint builds a DomainConstraintSpec.
func ParseDomainConstraint(a Annotation) DomainConstraintSpec {
	return DomainConstraintSpec{Annotation: a, Constraint: strings.TrimSpace(a.Expression)}
}
