package suggest

import (
	"strings"
	"testing"

	"komodo/internal/evidence"
	"komodo/internal/lang"
)

func saleUnit() *lang.Unit {
	return &lang.Unit{
		File: "sale.ts",
		Contracts: []*lang.Contract{{
			Name: "Sale",
			Fields: []lang.Field{
				{Name: "total", Type: "GlobalStateKey<uint64>"},
				{Name: "admin", Type: "GlobalStateKey<Address>"},
			},
			Methods: []*lang.Method{
				{
					Name: "buy",
					Body: "assert(amount > 0)\nthis.total.value = this.total.value + amount\nsendMethodCall(registry, amount)",
					Statements: []lang.Statement{
						{Kind: lang.StmtExpr, Text: "assert(amount > 0)", Pos: lang.Pos{Offset: 0}},
					},
					Calls: []lang.Call{
						{Callee: "assert", ArgText: "amount > 0", Pos: lang.Pos{Offset: 0}},
						{Callee: "sendMethodCall", ArgText: "registry, amount", Pos: lang.Pos{Offset: 60}},
					},
					Assigns: []lang.Assign{
						{Target: "this.total.value", Pos: lang.Pos{Offset: 20}},
					},
				},
				{
					Name: "configure",
					Body: "assert(this.txn.sender === this.app.creator)\nthis.admin.value = next",
					Assigns: []lang.Assign{
						{Target: "this.admin.value", Pos: lang.Pos{Offset: 45}},
					},
				},
			},
		}},
	}
}

func TestGenerate(t *testing.T) {
	vocab := evidence.Default()
	suggestions := Generate([]*lang.Unit{saleUnit()}, evidence.New(vocab), vocab)

	byLine := make(map[string]Suggestion)
	for _, s := range suggestions {
		byLine[s.Line] = s
	}

	inv, ok := byLine["@invariant owner.total.value >= 0"]
	if !ok {
		t.Fatalf("missing invariant stub for total; have %+v", suggestions)
	}
	if inv.Method != "" {
		t.Errorf("invariant suggestion bound to method %q", inv.Method)
	}
	if !strings.Contains(inv.Reason, "buy") {
		t.Errorf("invariant reason = %q, want the writing method named", inv.Reason)
	}

	if _, ok := byLine["@invariant owner.admin.value >= 0"]; !ok {
		t.Error("missing invariant stub for admin")
	}

	acc, ok := byLine["@access deployer-only"]
	if !ok {
		t.Fatal("missing access suggestion for configure")
	}
	if acc.Method != "configure" {
		t.Errorf("access suggestion bound to %q, want configure", acc.Method)
	}

	cei, ok := byLine["@ensures CEI"]
	if !ok {
		t.Fatal("missing CEI suggestion for buy")
	}
	if cei.Method != "buy" {
		t.Errorf("CEI suggestion bound to %q, want buy", cei.Method)
	}

	if _, ok := byLine["@calls external : ? -> must-succeed"]; !ok {
		t.Error("missing calls stub for buy")
	}

	if _, ok := byLine["@pre assert(amount > 0)"]; !ok {
		t.Error("missing precondition from the guard helper")
	}
}

func TestGenerateQuietContract(t *testing.T) {
	unit := &lang.Unit{
		File: "quiet.ts",
		Contracts: []*lang.Contract{{
			Name:    "Quiet",
			Methods: []*lang.Method{{Name: "noop", Body: "log(1)"}},
		}},
	}
	vocab := evidence.Default()
	if got := Generate([]*lang.Unit{unit}, evidence.New(vocab), vocab); len(got) != 0 {
		t.Errorf("got %+v, want no suggestions", got)
	}
}

func TestRender(t *testing.T) {
	out := Render([]Suggestion{
		{Contract: "Sale", Line: "@invariant owner.total.value >= 0", Reason: "written by buy"},
		{Contract: "Sale", Method: "buy", Line: "@ensures CEI", Reason: "mixes writes and calls"},
		{Contract: "Sale", Method: "buy", Line: "@calls external : ? -> must-succeed", Reason: "call site present"},
	})

	if !strings.Contains(out, "// Sale\n// @invariant owner.total.value >= 0") {
		t.Errorf("contract group missing:\n%s", out)
	}
	if !strings.Contains(out, "// Sale.buy\n// @ensures CEI") {
		t.Errorf("method group missing:\n%s", out)
	}
	if strings.Count(out, "// Sale.buy\n") != 1 {
		t.Errorf("method header repeated:\n%s", out)
	}
}
