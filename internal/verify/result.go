package verify

// result.go — the JSON-serializable verdict shapes. Field order here fixes
// the key order of the serialized report.

import "komodo/internal/spec"

// Result is the verdict for one spec.
type Result struct {
	Tag        string   `json:"tag" yaml:"tag"`
	Expression string   `json:"expression" yaml:"expression"`
	Status     Status   `json:"status" yaml:"status"`
	Message    string   `json:"message" yaml:"message"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
	File       string   `json:"file" yaml:"file"`
	Line       int      `json:"line" yaml:"line"`
}

// Summary counts results per status.
type Summary struct {
	Verified   int `json:"verified" yaml:"verified"`
	Unverified int `json:"unverified" yaml:"unverified"`
	Violated   int `json:"violated" yaml:"violated"`
	Missing    int `json:"missing" yaml:"missing"`
	Total      int `json:"total" yaml:"total"`
}

// Report is the ordered verdict list for one contract. Results are grouped
// by tag in the fixed display order: invariant, access, pre, requires,
// post, ensures, calls, state, temporal, domain-constraint.
type Report struct {
	ContractName string   `json:"contractName" yaml:"contractName"`
	File         string   `json:"file" yaml:"file"`
	Results      []Result `json:"results" yaml:"results"`
	Summary      Summary  `json:"summary" yaml:"summary"`
}

// displayOrder is the fixed tag grouping order for reports.
var displayOrder = []spec.Tag{
	spec.TagInvariant,
	spec.TagAccess,
	spec.TagPre,
	spec.TagRequires,
	spec.TagPost,
	spec.TagEnsures,
	spec.TagCalls,
	spec.TagState,
	spec.TagTemporal,
	spec.TagDomainConstraint,
}

// HasViolations reports whether any result in the report is VIOLATED. Hosts
// exit non-zero when any report anywhere has one.
func (r *Report) HasViolations() bool {
	return r.Summary.Violated > 0
}

// AnyViolations reports whether any report in the slice has a VIOLATED
// result.
func AnyViolations(reports []*Report) bool {
	for _, r := range reports {
		if r.HasViolations() {
			return true
		}
	}
	return false
}

// summarize recomputes the summary from the result list.
func summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case Verified:
			s.Verified++
		case Unverified:
			s.Unverified++
		case Violated:
			s.Violated++
		case Missing:
			s.Missing++
		}
	}
	s.Total = len(results)
	return s
}

// result builds a Result from an annotation plus verdict.
func result(a spec.Annotation, status Status, message string, details ...string) Result {
	return Result{
		Tag:        a.Tag.String(),
		Expression: a.Expression,
		Status:     status,
		Message:    message,
		Details:    details,
		File:       a.File,
		Line:       a.Line,
	}
}
