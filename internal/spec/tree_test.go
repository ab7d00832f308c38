package spec

import (
	"testing"

	"komodo/internal/lang"
)

func counterUnit() *lang.Unit {
	return &lang.Unit{
		File: "counter.ts",
		Header: []lang.CommentBlock{
			{Text: "// @invariant owner.count.value >= 0\n// @temporal eventually drained", Pos: lang.Pos{Line: 1}},
		},
		Contracts: []*lang.Contract{
			{
				Name:   "Counter",
				Doc:    "/**\n * @state IDLE -> ACTIVE : start()\n * @domain-constraint no-rekey\n */",
				DocPos: lang.Pos{Line: 3},
				Methods: []*lang.Method{
					{
						Name:   "start",
						Doc:    "/**\n * @pre owner.count.value == 0\n * @access deployer-only\n * @access anyone\n * @state IDLE -> ACTIVE : start()\n */",
						DocPos: lang.Pos{Line: 8},
					},
					{
						Name: "plain",
					},
				},
			},
			{
				Name: "Unannotated",
			},
		},
	}
}

func TestBuildTree(t *testing.T) {
	tree := Build(counterUnit())

	if len(tree.Contracts) != 1 {
		t.Fatalf("got %d contracts, want 1 (unannotated not materialized)", len(tree.Contracts))
	}
	cs := tree.Contracts[0]
	if cs.Name != "Counter" {
		t.Fatalf("contract name = %q", cs.Name)
	}

	// File-level invariant attaches to the first contract; the temporal one
	// is permanently orphaned.
	if len(cs.Invariants) != 1 {
		t.Errorf("invariants = %d, want 1", len(cs.Invariants))
	}
	if len(tree.Unassociated) != 1 || tree.Unassociated[0].Tag != TagTemporal {
		t.Errorf("unassociated = %v, want one temporal", tree.Unassociated)
	}

	// One contract-level transition plus the promoted method-level copy.
	if len(cs.Transitions) != 2 {
		t.Fatalf("transitions = %d, want 2", len(cs.Transitions))
	}
	if cs.Transitions[0].DefinedBy != "" {
		t.Errorf("contract-level transition has DefinedBy = %q, want empty", cs.Transitions[0].DefinedBy)
	}
	if cs.Transitions[1].DefinedBy != "start" {
		t.Errorf("promoted transition has DefinedBy = %q, want start", cs.Transitions[1].DefinedBy)
	}

	ms := cs.Methods["start"]
	if ms == nil {
		t.Fatal("no bundle for start")
	}
	if len(ms.Preconditions) != 1 {
		t.Errorf("preconditions = %d, want 1", len(ms.Preconditions))
	}
	// First access annotation wins.
	if ms.Access == nil || ms.Access.Level != "deployer-only" {
		t.Errorf("access = %+v, want deployer-only", ms.Access)
	}
	if _, ok := cs.Methods["plain"]; ok {
		t.Error("spec-free method materialized a bundle")
	}
}

func TestSpecCount(t *testing.T) {
	tree := Build(counterUnit())
	cs := tree.Contracts[0]

	// invariant + domain-constraint + contract-level state + pre + access +
	// method-level state. The promoted copy is not double counted.
	if got, want := cs.SpecCount(), 6; got != want {
		t.Errorf("SpecCount = %d, want %d", got, want)
	}
}

func TestBuildEmptyUnit(t *testing.T) {
	tree := Build(&lang.Unit{File: "empty.ts"})
	if len(tree.Contracts) != 0 || len(tree.Unassociated) != 0 {
		t.Errorf("empty unit produced %d contracts, %d orphans", len(tree.Contracts), len(tree.Unassociated))
	}
}
