package spec

// tree.go — assembles raw annotations into the per-unit spec tree. The tree
// is built once per compilation unit and read-only thereafter.

import (
	"komodo/internal/lang"
)

// MethodSpecs is the per-method bundle: zero or more preconditions,
// postconditions, calls specs, temporal specs, state transitions, and at
// most one access spec (the first one wins).
type MethodSpecs struct {
	Method         string
	Preconditions  []PreconditionSpec
	Postconditions []PostconditionSpec
	Calls          []CallsSpec
	Temporal       []TemporalSpec
	Transitions    []StateTransition
	Access         *AccessSpec
}

// empty reports whether the bundle carries no specs at all.
func (m *MethodSpecs) empty() bool {
	return len(m.Preconditions) == 0 && len(m.Postconditions) == 0 &&
		len(m.Calls) == 0 && len(m.Temporal) == 0 &&
		len(m.Transitions) == 0 && m.Access == nil
}

// ContractSpecs holds every spec attached to one declaration. Transitions
// contains both contract-level declarations and copies of every
// method-level transition; the copies carry DefinedBy so a later
// de-duplication pass can use that identity.
type ContractSpecs struct {
	Name              string
	File              string
	Invariants        []InvariantSpec
	Transitions       []StateTransition
	DomainConstraints []DomainConstraintSpec
	Methods           map[string]*MethodSpecs
	MethodOrder       []string
}

// empty reports whether the contract record carries no specs of any kind.
func (c *ContractSpecs) empty() bool {
	return len(c.Invariants) == 0 && len(c.Transitions) == 0 &&
		len(c.DomainConstraints) == 0 && len(c.Methods) == 0
}

// SpecCount returns the number of individual specs attached to the
// contract. Method-level transitions are counted once (under their method);
// the contract-level copies promoted from methods are excluded.
func (c *ContractSpecs) SpecCount() int {
	n := len(c.Invariants) + len(c.DomainConstraints)
	for _, t := range c.Transitions {
		if t.DefinedBy == "" {
			n++
		}
	}
	for _, name := range c.MethodOrder {
		m := c.Methods[name]
		n += len(m.Preconditions) + len(m.Postconditions) + len(m.Calls) +
			len(m.Temporal) + len(m.Transitions)
		if m.Access != nil {
			n++
		}
	}
	return n
}

// SpecTree is the parsed model of all annotations in one compilation unit.
// Unassociated holds file-level annotations that could not attach to any
// contract; they are permanently orphaned, never revisited.
type SpecTree struct {
	File         string
	Contracts    []*ContractSpecs
	Unassociated []Annotation
}

// Build walks the unit's declarations in document order and assembles the
// spec tree. A contract with zero specs of every kind is not materialized.
// File-level annotations preceding the first declaration attach to the
// first materialized contract only when their tag is invariant or
// domain-constraint; everything else lands in Unassociated.
func Build(unit *lang.Unit) *SpecTree {
	tree := &SpecTree{File: unit.File}

	var fileLevel []Annotation
	for _, block := range unit.Header {
		fileLevel = append(fileLevel, ExtractBlock(unit.File, block.Text, block.Pos)...)
	}

	for _, decl := range unit.Contracts {
		cs := buildContract(unit.File, decl)
		if !cs.empty() {
			tree.Contracts = append(tree.Contracts, cs)
		}
	}

	for _, a := range fileLevel {
		if len(tree.Contracts) > 0 && (a.Tag == TagInvariant || a.Tag == TagDomainConstraint) {
			first := tree.Contracts[0]
			switch a.Tag {
			case TagInvariant:
				first.Invariants = append(first.Invariants, ParseInvariant(a))
			case TagDomainConstraint:
				first.DomainConstraints = append(first.DomainConstraints, ParseDomainConstraint(a))
			}
			continue
		}
		tree.Unassociated = append(tree.Unassociated, a)
	}

	return tree
}

// buildContract dispatches one declaration's annotations. Class-level tags
// other than invariant, state, and domain-constraint are dropped.
func buildContract(file string, decl *lang.Contract) *ContractSpecs {
	cs := &ContractSpecs{
		Name:    decl.Name,
		File:    file,
		Methods: make(map[string]*MethodSpecs),
	}

	for _, a := range ExtractBlock(file, decl.Doc, decl.DocPos) {
		switch a.Tag {
		case TagInvariant:
			cs.Invariants = append(cs.Invariants, ParseInvariant(a))
		case TagState:
			cs.Transitions = append(cs.Transitions, ParseStateTransition(a))
		case TagDomainConstraint:
			cs.DomainConstraints = append(cs.DomainConstraints, ParseDomainConstraint(a))
		}
	}

	for _, method := range decl.Methods {
		ms := buildMethod(file, method)
		if ms.empty() {
			continue
		}
		cs.Methods[method.Name] = ms
		cs.MethodOrder = append(cs.MethodOrder, method.Name)
		// Promote method-level transitions to the contract list, tagged
		// with their defining method.
		cs.Transitions = append(cs.Transitions, ms.Transitions...)
	}

	return cs
}

// buildMethod collects one method's annotations into its bundle.
func buildMethod(file string, method *lang.Method) *MethodSpecs {
	ms := &MethodSpecs{Method: method.Name}
	for _, a := range ExtractBlock(file, method.Doc, method.DocPos) {
		switch {
		case a.Tag.IsPrecondition():
			ms.Preconditions = append(ms.Preconditions, PreconditionSpec{Annotation: a, Method: method.Name})
		case a.Tag.IsPostcondition():
			ms.Postconditions = append(ms.Postconditions, ParsePostcondition(a, method.Name))
		case a.Tag == TagCalls:
			ms.Calls = append(ms.Calls, ParseCalls(a, method.Name))
		case a.Tag == TagTemporal:
			ms.Temporal = append(ms.Temporal, ParseTemporal(a, method.Name))
		case a.Tag == TagState:
			t := ParseStateTransition(a)
			t.DefinedBy = method.Name
			ms.Transitions = append(ms.Transitions, t)
		case a.Tag == TagAccess:
			if ms.Access == nil {
				acc := ParseAccess(a, method.Name)
				ms.Access = &acc
			}
		case a.Tag == TagInvariant, a.Tag == TagDomainConstraint:
			// Contract-level tags on a method are dropped.
		}
	}
	return ms
}
