package spec

import (
	"reflect"
	"testing"

	"komodo/internal/lang"
)

func TestExtractBlock(t *testing.T) {
	block := `/**
 * Counter keeps a monotone count.
 * @invariant owner.count.value >= 0
 * @state IDLE -> ACTIVE : start() // lifecycle
 * @nonsense whatever
 */`
	anns := ExtractBlock("counter.ts", block, lang.Pos{Line: 1, Column: 1})
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}

	if anns[0].Tag != TagInvariant {
		t.Errorf("tag: got %v, want invariant", anns[0].Tag)
	}
	if got, want := anns[0].Expression, "owner.count.value >= 0"; got != want {
		t.Errorf("expression: got %q, want %q", got, want)
	}
	if anns[0].Line != 3 {
		t.Errorf("line: got %d, want 3", anns[0].Line)
	}

	if anns[1].Tag != TagState {
		t.Errorf("tag: got %v, want state", anns[1].Tag)
	}
	if got, want := anns[1].Expression, "IDLE -> ACTIVE : start()"; got != want {
		t.Errorf("expression: got %q, want %q", got, want)
	}
	if got, want := anns[1].Comment, "lifecycle"; got != want {
		t.Errorf("comment: got %q, want %q", got, want)
	}
}

func TestExtractLineColumn(t *testing.T) {
	anns := ExtractBlock("f.ts", "   * @pre owner.total.value > 0", lang.Pos{Line: 7})
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if got, want := anns[0].Column, 6; got != want {
		t.Errorf("column: got %d, want %d", got, want)
	}
	if anns[0].Line != 7 {
		t.Errorf("line: got %d, want 7", anns[0].Line)
	}
}

func TestExtractLineTagOnly(t *testing.T) {
	anns := ExtractBlock("f.ts", "// @temporal", lang.Pos{Line: 1})
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if anns[0].Expression != "" {
		t.Errorf("expression: got %q, want empty", anns[0].Expression)
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		ok   bool
	}{
		{"invariant", TagInvariant, true},
		{"pre", TagPre, true},
		{"requires", TagRequires, true},
		{"ensures", TagEnsures, true},
		{"domain-constraint", TagDomainConstraint, true},
		{"postcondition", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		tag, ok := ParseTag(tt.name)
		if ok != tt.ok || (ok && tag != tt.tag) {
			t.Errorf("ParseTag(%q) = %v, %v; want %v, %v", tt.name, tag, ok, tt.tag, tt.ok)
		}
	}
}

func TestTagSynonyms(t *testing.T) {
	if !TagRequires.IsPrecondition() || !TagPre.IsPrecondition() {
		t.Error("pre and requires must both be preconditions")
	}
	if !TagEnsures.IsPostcondition() || !TagPost.IsPostcondition() {
		t.Error("post and ensures must both be postconditions")
	}
	if TagPre.IsPostcondition() || TagPost.IsPrecondition() {
		t.Error("synonym groups must not overlap")
	}
}

func TestFieldRefs(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"owner.a.value == owner.b.value", []string{"a", "b"}},
		{"owner.a.value + owner.a.value > 0", []string{"a"}},
		{"this.total.value >= old(this.total.value)", []string{"total"}},
		{"x > 0", nil},
	}
	for _, tt := range tests {
		got := FieldRefs(tt.expr)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FieldRefs(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestOldRefs(t *testing.T) {
	got := OldRefs("owner.a.value == old(owner.a.value) + old(amount)")
	want := []string{"owner.a.value", "amount"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OldRefs = %v, want %v", got, want)
	}
	if refs := OldRefs("no history here"); len(refs) != 0 {
		t.Errorf("OldRefs without old() = %v, want empty", refs)
	}
}
