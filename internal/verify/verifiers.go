package verify

// verifiers.go — one heuristic verifier per contract kind. Precision-first:
// specific checks run before fuzzy ones, and fuzzy matches never escalate
// to VERIFIED. Only structurally decidable negatives reach VIOLATED.

import (
	"fmt"
	"regexp"
	"strings"

	"komodo/internal/lang"
	"komodo/internal/spec"
)

// ---------------------------------------------------------------------------
// Invariant
// ---------------------------------------------------------------------------

// verifyInvariant checks a contract-level invariant. It never emits
// VIOLATED: field-value correctness cannot be established without
// evaluating semantics, so the strongest signal available is an unguarded
// write, reported as a cautious UNVERIFIED.
func (e *Engine) verifyInvariant(inv spec.InvariantSpec, decl *lang.Contract, stored map[string]string) Result {
	if len(inv.FieldRefs) == 0 {
		return result(inv.Annotation, Unverified, "no stored-field references; nothing concrete to check")
	}

	var details []string
	unguarded := false
	for _, m := range decl.Methods {
		touched := false
		for _, f := range inv.FieldRefs {
			if strings.Contains(m.Body, f) {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		if len(e.ext.Guards(m)) > 0 {
			details = append(details, fmt.Sprintf("%s: touches guarded state, needs deeper evaluation", m.Name))
		} else {
			unguarded = true
			details = append(details, fmt.Sprintf("%s: touches state with no validation present", m.Name))
		}
	}

	if len(details) == 0 {
		return result(inv.Annotation, Verified, "no method touches the referenced fields; trivially maintained")
	}
	msg := "touching methods are guarded; needs deeper evaluation"
	if unguarded {
		msg = "state is touched with no validation present"
	}
	return result(inv.Annotation, Unverified, msg, details...)
}

// ---------------------------------------------------------------------------
// Access
// ---------------------------------------------------------------------------

// verifyAccess checks an access level against the method body.
func (e *Engine) verifyAccess(acc spec.AccessSpec, m *lang.Method) Result {
	switch acc.Level {
	case "deployer-only", "owner-only":
		if e.vocab.HasAccessGuard(m.Body) || e.vocab.HasManualAccessCheck(m.Body) {
			return result(acc.Annotation, Verified, fmt.Sprintf("%s enforces %s via sender check", acc.Method, acc.Level))
		}
		return result(acc.Annotation, Violated, fmt.Sprintf("%s has no sender check for %s", acc.Method, acc.Level))
	case "anyone":
		if e.vocab.HasAccessGuard(m.Body) {
			return result(acc.Annotation, Violated, fmt.Sprintf("%s restricts access despite being declared open", acc.Method))
		}
		return result(acc.Annotation, Verified, fmt.Sprintf("%s is unrestricted", acc.Method))
	default:
		return result(acc.Annotation, Unverified, fmt.Sprintf("unknown access level %q, kept verbatim", acc.Level))
	}
}

// ---------------------------------------------------------------------------
// Precondition
// ---------------------------------------------------------------------------

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// noiseTerms are dropped from key-term extraction: the field-access
// convention's own tokens plus literals.
var noiseTerms = map[string]bool{
	"this": true, "owner": true, "value": true, "old": true,
	"true": true, "false": true,
}

// keyTerms extracts identifier-like terms longer than two characters,
// with the field-access convention collapsed to the bare field name first.
func keyTerms(text string) map[string]bool {
	text = fieldAccessRewrite.ReplaceAllString(text, "$1")
	terms := make(map[string]bool)
	for _, id := range identPattern.FindAllString(text, -1) {
		if len(id) > 2 && !noiseTerms[id] {
			terms[id] = true
		}
	}
	return terms
}

var fieldAccessRewrite = regexp.MustCompile(`\b(?:owner|this)\.([A-Za-z_][A-Za-z0-9_]*)\.value\b`)

// verifyPrecondition runs the ordered cascade; the first matching step
// wins.
func (e *Engine) verifyPrecondition(pre spec.PreconditionSpec, m *lang.Method) Result {
	expr := pre.Annotation.Expression

	// 1. Expression names a known guard helper: presence is decisive.
	for _, helper := range e.vocab.GuardHelpers {
		if !strings.Contains(expr, helper) {
			continue
		}
		if strings.Contains(m.Body, helper) {
			return result(pre.Annotation, Verified, fmt.Sprintf("%s present in %s", helper, pre.Method))
		}
		return result(pre.Annotation, Violated, fmt.Sprintf("%s required by precondition but absent from %s", helper, pre.Method))
	}

	// 2. Status/state conditions behind any guard helper need call-graph
	// analysis to settle.
	lower := strings.ToLower(expr)
	if (strings.Contains(lower, "status") || strings.Contains(lower, "state")) && e.vocab.HasGuardHelper(m.Body) {
		return result(pre.Annotation, Unverified, "may be enforced by a guard helper; needs call-graph analysis")
	}

	// 3. Fuzzy term overlap against each guard condition; at least half of
	// the expression's terms must hit a single guard.
	exprTerms := keyTerms(expr)
	if len(exprTerms) > 0 {
		for _, g := range e.ext.Guards(m) {
			guardTerms := keyTerms(g.Condition)
			hits := 0
			for t := range exprTerms {
				if guardTerms[t] {
					hits++
				}
			}
			if hits*2 >= len(exprTerms) {
				return result(pre.Annotation, Verified, fmt.Sprintf("guard in %s covers the condition's terms", pre.Method))
			}
		}
	}

	// 4. Fallback: revert marker present means some check exists.
	if e.vocab.HasRevertMarker(m.Body) {
		fields := spec.FieldRefs(expr)
		allPresent := true
		for _, f := range fields {
			if !strings.Contains(m.Body, f) {
				allPresent = false
				break
			}
		}
		if len(fields) > 0 && allPresent {
			return result(pre.Annotation, Unverified, "referenced fields and a revert path are present; condition not matched")
		}
		return result(pre.Annotation, Unverified, "a revert path exists but no matching check was found")
	}

	// 5. Nothing resembling enforcement.
	return result(pre.Annotation, Violated, fmt.Sprintf("no check for this condition found in %s", pre.Method))
}

// ---------------------------------------------------------------------------
// Postcondition
// ---------------------------------------------------------------------------

// verifyPostcondition checks a non-CEI postcondition, or dispatches to the
// CEI check. Non-CEI postconditions never emit VERIFIED: value-level claims
// stay UNVERIFIED, and only structurally decidable negatives reach
// VIOLATED.
func (e *Engine) verifyPostcondition(post spec.PostconditionSpec, m *lang.Method, stored map[string]string) Result {
	if post.IsCEI {
		return e.verifyCEI(post, m, stored)
	}

	writes := e.ext.StateWrites(m, stored)
	written := make(map[string]bool, len(writes))
	for _, w := range writes {
		written[w.Field] = true
	}
	for _, f := range post.FieldRefs {
		if !written[f] && !textuallyWritten(m.Body, f) {
			return result(post.Annotation, Unverified, fmt.Sprintf("field %q is never written in %s", f, post.Method))
		}
	}

	if mentionsReturnValue(post.Annotation.Expression) && !m.HasReturn {
		return result(post.Annotation, Violated, fmt.Sprintf("postcondition mentions a return value but %s never returns one", post.Method))
	}

	if len(post.OldRefs) > 0 {
		return result(post.Annotation, Unverified, "old() references need pre/post state comparison")
	}

	return result(post.Annotation, Unverified, "value-level claim; structural check only")
}

// textuallyWritten reports whether the body contains a direct write form
// for the field, covering fields outside the stored-field map.
func textuallyWritten(body, field string) bool {
	return strings.Contains(body, field+".value =") || strings.Contains(body, field+".set(")
}

// mentionsReturnValue reports whether a postcondition expression talks
// about the method's return value.
func mentionsReturnValue(expr string) bool {
	lower := strings.ToLower(expr)
	return strings.Contains(lower, "result") || strings.Contains(lower, "return")
}

// verifyCEI checks the checks-effects-interactions ordering: no state write
// may occur lexically after an external call. A purely syntactic single
// pass over positions; branches and loops are not modeled.
func (e *Engine) verifyCEI(post spec.PostconditionSpec, m *lang.Method, stored map[string]string) Result {
	calls := e.ext.CallSites(m)
	writes := e.ext.StateWrites(m, stored)
	if len(calls) == 0 {
		return result(post.Annotation, Verified, fmt.Sprintf("%s makes no external calls", post.Method))
	}
	if len(writes) == 0 {
		return result(post.Annotation, Verified, fmt.Sprintf("%s writes no state", post.Method))
	}

	minCall := calls[0].Pos.Offset
	for _, c := range calls[1:] {
		if c.Pos.Offset < minCall {
			minCall = c.Pos.Offset
		}
	}
	for _, w := range writes {
		if w.Pos.Offset > minCall {
			return result(post.Annotation, Violated,
				fmt.Sprintf("state write after external call in %s", post.Method),
				fmt.Sprintf("write %q at offset %d follows call at offset %d", w.Field, w.Pos.Offset, minCall))
		}
	}
	return result(post.Annotation, Verified, fmt.Sprintf("all state writes in %s precede external calls", post.Method))
}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

// verifyCalls checks a cross-call expectation against the method body.
func (e *Engine) verifyCalls(cs spec.CallsSpec, m *lang.Method) Result {
	sites := e.ext.CallSites(m)
	if len(sites) == 0 {
		return result(cs.Annotation, Violated, fmt.Sprintf("no external-call site in %s", cs.Method))
	}

	bare := cs.Target
	if i := strings.LastIndex(bare, "."); i >= 0 {
		bare = bare[i+1:]
	}
	if !strings.Contains(m.Body, cs.Target) && !strings.Contains(m.Body, bare) {
		return result(cs.Annotation, Violated, fmt.Sprintf("target %q not referenced in %s", cs.Target, cs.Method))
	}

	if cs.CalledMethod != "" &&
		!strings.Contains(m.Body, cs.CalledMethod) && !e.vocab.HasSelectorMarker(m.Body) {
		return result(cs.Annotation, Unverified, fmt.Sprintf("called method %q not visible in %s; may be selector-dispatched", cs.CalledMethod, cs.Method))
	}

	if cs.Expectation == "must-succeed" && !e.vocab.HasSuccessCheck(m.Body) {
		return result(cs.Annotation, Violated, fmt.Sprintf("call declared must-succeed but %s never checks the outcome", cs.Method))
	}

	return result(cs.Annotation, Verified, fmt.Sprintf("call to %q structurally consistent", cs.Target))
}

// ---------------------------------------------------------------------------
// State transition
// ---------------------------------------------------------------------------

// verifyStateTransition is deliberately weak: once minimal structural
// prerequisites hold the answer is UNVERIFIED, because transition
// correctness is a value-level property. Only absent methods produce
// MISSING.
func (e *Engine) verifyStateTransition(t spec.StateTransition, decl *lang.Contract) Result {
	var bodies []string
	for _, name := range t.Methods {
		m := decl.Method(name)
		if m == nil {
			return result(t.Annotation, Missing, fmt.Sprintf("method %q not found in %q", name, decl.Name))
		}
		bodies = append(bodies, m.Body)
	}
	if len(t.Methods) == 0 {
		for _, m := range decl.Methods {
			bodies = append(bodies, m.Body)
		}
	}

	joined := strings.ToLower(strings.Join(bodies, "\n"))
	for _, state := range []string{t.From, t.To} {
		term := strings.ToLower(strings.TrimPrefix(state, "!"))
		if term != "" && term != "?" && strings.Contains(joined, term) {
			return result(t.Annotation, Unverified, "state terms present; transition needs value-level evaluation")
		}
	}
	if strings.Contains(joined, "state") || strings.Contains(joined, "status") {
		return result(t.Annotation, Unverified, "state terms present; transition needs value-level evaluation")
	}
	return result(t.Annotation, Unverified, "no state-like terms found in the referenced methods")
}

// ---------------------------------------------------------------------------
// Temporal
// ---------------------------------------------------------------------------

// verifyTemporal always reports UNVERIFIED; temporal contracts are
// documentation-only in this engine.
func (e *Engine) verifyTemporal(t spec.TemporalSpec) Result {
	return result(t.Annotation, Unverified, "temporal contracts are documentation-only")
}

// ---------------------------------------------------------------------------
// Domain constraint
// ---------------------------------------------------------------------------

var hardcodedFee = regexp.MustCompile(`fee:\s*\d`)

const maxAppArgs = 15

// verifyDomainConstraint dispatches the predefined constraint checks.
// Unknown names are preserved verbatim and reported UNVERIFIED, supporting
// forward compatibility with new constraint vocabularies.
func (e *Engine) verifyDomainConstraint(dc spec.DomainConstraintSpec, decl *lang.Contract) Result {
	var b strings.Builder
	for _, m := range decl.Methods {
		b.WriteString(m.Body)
		b.WriteString("\n")
	}
	body := b.String()

	switch dc.Constraint {
	case "no-hardcoded-fee":
		if strings.Contains(body, "globals.minTxnFee") {
			return result(dc.Annotation, Verified, "fee derived from globals.minTxnFee")
		}
		if hardcodedFee.MatchString(body) {
			return result(dc.Annotation, Violated, "hardcoded fee literal found")
		}
		return result(dc.Annotation, Unverified, "no fee usage found")

	case "max-app-args":
		checked := false
		for _, m := range decl.Methods {
			for _, site := range e.ext.CallSites(m) {
				checked = true
				// Naive top-level comma split; nested-comma arguments
				// overcount. Kept as-is, a known limitation.
				if n := countArgs(site.ArgText); n > maxAppArgs {
					return result(dc.Annotation, Violated,
						fmt.Sprintf("call in %s passes %d arguments, limit is %d", m.Name, n, maxAppArgs))
				}
			}
		}
		if !checked {
			return result(dc.Annotation, Unverified, "no external-call sites to check")
		}
		return result(dc.Annotation, Verified, fmt.Sprintf("all call sites pass at most %d arguments", maxAppArgs))

	case "no-rekey":
		if strings.Contains(body, "rekeyTo:") {
			return result(dc.Annotation, Violated, "rekeyTo present")
		}
		return result(dc.Annotation, Verified, "no rekeyTo usage")

	case "no-close-remainder":
		if strings.Contains(body, "closeRemainderTo:") {
			return result(dc.Annotation, Violated, "closeRemainderTo present")
		}
		return result(dc.Annotation, Verified, "no closeRemainderTo usage")

	case "no-reentrancy":
		return result(dc.Annotation, Unverified, "reentrancy analysis is out of this engine's reach")

	default:
		return result(dc.Annotation, Unverified, fmt.Sprintf("unknown constraint %q, kept verbatim", dc.Constraint))
	}
}

// countArgs counts call arguments via a plain comma split of the argument
// text. Empty text is zero arguments.
func countArgs(argText string) int {
	if strings.TrimSpace(argText) == "" {
		return 0
	}
	return len(strings.Split(argText, ","))
}
