// Package verify runs per-tag heuristic verifiers against the declaration
// tree and produces ordered verdict reports. Checks are structural and
// lexical, never semantic proofs: the engine inspects raw positions and
// textual containment, not control flow or values.
package verify

import "fmt"

// Status is the four-valued verdict for one spec. It is terminal: a spec
// gets exactly one status per pass and there are no transitions.
type Status int

const (
	// Verified: the structural evidence required by the contract is present.
	Verified Status = iota
	// Unverified: the contract could not be confirmed or refuted with the
	// evidence this engine can see.
	Unverified
	// Violated: the code is structurally inconsistent with the contract.
	Violated
	// Missing: the declaration or method the spec refers to was not found.
	Missing
)

var statusNames = [...]string{"VERIFIED", "UNVERIFIED", "VIOLATED", "MISSING"}

// String returns the canonical upper-case status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler so statuses serialize as
// their canonical names in JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, n := range statusNames {
		if n == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
