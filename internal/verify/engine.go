package verify

// engine.go — top-level driver. For each contract record the engine locates
// the matching declaration by name; a miss turns every attached spec into
// MISSING (per-spec short-circuit, not a pass-level abort). Otherwise each
// spec is dispatched to its per-tag verifier. Passes are stateless: every
// run is a pure function of the spec tree and the declaration tree.

import (
	"fmt"

	"komodo/internal/evidence"
	"komodo/internal/lang"
	"komodo/internal/spec"
)

// Engine verifies spec trees against declaration trees.
type Engine struct {
	ext   evidence.Extractor
	vocab evidence.Vocabulary
}

// New returns an Engine using the given extractor and vocabulary. The
// extractor is injected so tests can substitute synthetic evidence.
func New(ext evidence.Extractor, vocab evidence.Vocabulary) *Engine {
	return &Engine{ext: ext, vocab: vocab}
}

// NewDefault returns an Engine over the built-in vocabulary.
func NewDefault() *Engine {
	v := evidence.Default()
	return New(evidence.New(v), v)
}

// Verify produces one report per contract record, in tree order.
func (e *Engine) Verify(trees []*spec.SpecTree, units []*lang.Unit) []*Report {
	var reports []*Report
	for _, tree := range trees {
		for _, cs := range tree.Contracts {
			reports = append(reports, e.VerifyContract(cs, units))
		}
	}
	return reports
}

// VerifyContract verifies a single contract record against the units.
func (e *Engine) VerifyContract(cs *spec.ContractSpecs, units []*lang.Unit) *Report {
	_, decl := lang.FindContract(units, cs.Name)
	var results []Result
	if decl == nil {
		results = e.missingResults(cs)
	} else {
		results = e.contractResults(cs, decl)
	}
	return &Report{
		ContractName: cs.Name,
		File:         cs.File,
		Results:      results,
		Summary:      summarize(results),
	}
}

// contractResults runs every spec through its verifier, grouped in display
// order.
func (e *Engine) contractResults(cs *spec.ContractSpecs, decl *lang.Contract) []Result {
	stored := e.ext.StoredFields(decl)
	var results []Result

	add := func(r Result) { results = append(results, r) }

	for _, group := range displayOrder {
		switch group {
		case spec.TagInvariant:
			for _, inv := range cs.Invariants {
				add(e.verifyInvariant(inv, decl, stored))
			}
		case spec.TagAccess:
			for _, name := range cs.MethodOrder {
				ms := cs.Methods[name]
				if ms.Access == nil {
					continue
				}
				if m := decl.Method(name); m == nil {
					add(methodMissing(ms.Access.Annotation, name, cs.Name))
				} else {
					add(e.verifyAccess(*ms.Access, m))
				}
			}
		case spec.TagPre, spec.TagRequires:
			for _, name := range cs.MethodOrder {
				for _, pre := range cs.Methods[name].Preconditions {
					if pre.Annotation.Tag != group {
						continue
					}
					if m := decl.Method(name); m == nil {
						add(methodMissing(pre.Annotation, name, cs.Name))
					} else {
						add(e.verifyPrecondition(pre, m))
					}
				}
			}
		case spec.TagPost, spec.TagEnsures:
			for _, name := range cs.MethodOrder {
				for _, post := range cs.Methods[name].Postconditions {
					if post.Annotation.Tag != group {
						continue
					}
					if m := decl.Method(name); m == nil {
						add(methodMissing(post.Annotation, name, cs.Name))
					} else {
						add(e.verifyPostcondition(post, m, stored))
					}
				}
			}
		case spec.TagCalls:
			for _, name := range cs.MethodOrder {
				for _, call := range cs.Methods[name].Calls {
					if m := decl.Method(name); m == nil {
						add(methodMissing(call.Annotation, name, cs.Name))
					} else {
						add(e.verifyCalls(call, m))
					}
				}
			}
		case spec.TagState:
			for _, t := range cs.Transitions {
				add(e.verifyStateTransition(t, decl))
			}
		case spec.TagTemporal:
			for _, name := range cs.MethodOrder {
				for _, tmp := range cs.Methods[name].Temporal {
					add(e.verifyTemporal(tmp))
				}
			}
		case spec.TagDomainConstraint:
			for _, dc := range cs.DomainConstraints {
				add(e.verifyDomainConstraint(dc, decl))
			}
		}
	}
	return results
}

// missingResults emits one MISSING result per attached spec, in the same
// display order the verifying path uses.
func (e *Engine) missingResults(cs *spec.ContractSpecs) []Result {
	msg := fmt.Sprintf("declaration %q not found", cs.Name)
	var results []Result
	add := func(a spec.Annotation) {
		results = append(results, result(a, Missing, msg))
	}

	for _, group := range displayOrder {
		switch group {
		case spec.TagInvariant:
			for _, inv := range cs.Invariants {
				add(inv.Annotation)
			}
		case spec.TagAccess:
			for _, name := range cs.MethodOrder {
				if acc := cs.Methods[name].Access; acc != nil {
					add(acc.Annotation)
				}
			}
		case spec.TagPre, spec.TagRequires:
			for _, name := range cs.MethodOrder {
				for _, pre := range cs.Methods[name].Preconditions {
					if pre.Annotation.Tag == group {
						add(pre.Annotation)
					}
				}
			}
		case spec.TagPost, spec.TagEnsures:
			for _, name := range cs.MethodOrder {
				for _, post := range cs.Methods[name].Postconditions {
					if post.Annotation.Tag == group {
						add(post.Annotation)
					}
				}
			}
		case spec.TagCalls:
			for _, name := range cs.MethodOrder {
				for _, call := range cs.Methods[name].Calls {
					add(call.Annotation)
				}
			}
		case spec.TagState:
			for _, t := range cs.Transitions {
				add(t.Annotation)
			}
		case spec.TagTemporal:
			for _, name := range cs.MethodOrder {
				for _, tmp := range cs.Methods[name].Temporal {
					add(tmp.Annotation)
				}
			}
		case spec.TagDomainConstraint:
			for _, dc := range cs.DomainConstraints {
				add(dc.Annotation)
			}
		}
	}
	return results
}

// methodMissing builds the MISSING result for a spec whose method is absent
// from the located declaration.
func methodMissing(a spec.Annotation, method, contract string) Result {
	return result(a, Missing, fmt.Sprintf("method %q not found in %q", method, contract))
}
