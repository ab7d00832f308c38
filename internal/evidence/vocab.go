// Package evidence provides pure read-only queries over the declaration
// tree: stored-field detection, external-call sites, state writes, and
// guard checks. The verification engine consumes these through the
// Extractor interface so it can be tested against hand-built trees.
package evidence

import "strings"

// Vocabulary pins the fixed token lists the extractors and verifiers match
// against. Zero value is unusable; start from Default and extend via
// settings.
type Vocabulary struct {
	// WrapperTypes is the persistence-wrapper allow-list for stored-field
	// detection.
	WrapperTypes []string
	// Receivers are the keywords accepted on the left of the field-access
	// convention `<receiver>.<field>.value`.
	Receivers []string
	// CallSentinel is the exact callee text of an external-call site.
	CallSentinel string
	// RevertMarkers abort execution when reached.
	RevertMarkers []string
	// GuardHelpers are runtime check helpers that make a statement a guard.
	GuardHelpers []string
	// AccessGuardHelpers enforce deployer/owner-only access on their own.
	AccessGuardHelpers []string
	// SenderTokens identify the transaction sender in a manual access check.
	SenderTokens []string
	// AuthorityTokens identify the deployer/owner side of a manual access
	// check.
	AuthorityTokens []string
	// SelectorMarkers indicate selector-based dispatch of a cross-call.
	SelectorMarkers []string
	// SuccessMarkers indicate the result of a cross-call is checked.
	SuccessMarkers []string
}

// Default returns the built-in vocabulary.
func Default() Vocabulary {
	return Vocabulary{
		WrapperTypes: []string{
			"GlobalStateKey", "LocalStateKey", "BoxKey",
			"GlobalStateMap", "LocalStateMap", "BoxMap",
		},
		Receivers:          []string{"this", "owner"},
		CallSentinel:       "sendMethodCall",
		RevertMarkers:      []string{"throw", "revert", "abort(", "fail("},
		GuardHelpers:       []string{"assert", "verifyTxn", "verifyAppCallTxn", "verifyPayTxn"},
		AccessGuardHelpers: []string{"assertDeployer", "assertOwner", "onlyCreator", "onlyOwner"},
		SenderTokens:       []string{"txn.sender", "this.txn.sender", "sender"},
		AuthorityTokens:    []string{"creator", "app.creator", "owner", "deployer", "admin"},
		SelectorMarkers:    []string{"selector", "methodSelector"},
		SuccessMarkers:     []string{".success"},
	}
}

// HasRevertMarker reports whether text contains any revert/abort marker.
func (v Vocabulary) HasRevertMarker(text string) bool {
	return containsAny(text, v.RevertMarkers)
}

// HasGuardHelper reports whether text contains any guard-helper name.
func (v Vocabulary) HasGuardHelper(text string) bool {
	return containsAny(text, v.GuardHelpers)
}

// HasAccessGuard reports whether text contains a deployer/owner guard
// helper.
func (v Vocabulary) HasAccessGuard(text string) bool {
	return containsAny(text, v.AccessGuardHelpers)
}

// HasManualAccessCheck reports whether text combines a sender-identity
// token with an owner/deployer token, the hand-written form of an access
// guard.
func (v Vocabulary) HasManualAccessCheck(text string) bool {
	return containsAny(text, v.SenderTokens) && containsAny(text, v.AuthorityTokens)
}

// HasSelectorMarker reports whether text mentions selector-based dispatch.
func (v Vocabulary) HasSelectorMarker(text string) bool {
	return containsAny(text, v.SelectorMarkers)
}

// HasSuccessCheck reports whether text checks a cross-call's outcome: a
// success marker, a revert marker, or a guard helper.
func (v Vocabulary) HasSuccessCheck(text string) bool {
	return containsAny(text, v.SuccessMarkers) || v.HasRevertMarker(text) || v.HasGuardHelper(text)
}

// IsWrapperType reports whether a field's declared type or initializer text
// names a persistence wrapper.
func (v Vocabulary) IsWrapperType(text string) (string, bool) {
	for _, w := range v.WrapperTypes {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
