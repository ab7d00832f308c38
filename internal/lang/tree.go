// Package lang defines the read-only declaration/statement tree that syntax
// providers produce and the verification engine consumes. The tree is a
// lexical snapshot: positions carry absolute byte offsets so later passes can
// order events without re-reading the source.
package lang

// Pos locates a tree node in its source file. Line and Column are 1-based;
// Offset is the absolute byte offset from the start of the file.
type Pos struct {
	Line   int
	Column int
	Offset int
}

// StatementKind classifies a top-level method-body statement.
type StatementKind int

const (
	StmtExpr StatementKind = iota
	StmtIf
	StmtAssign
	StmtDecl
	StmtReturn
	StmtOther
)

// Statement is one top-level statement in a method body. For StmtIf, Cond
// holds the condition text and Then the full text of the then-branch.
type Statement struct {
	Kind StatementKind
	Text string
	Cond string
	Then string
	Pos  Pos
}

// Call is a call expression found anywhere in a method body, in document
// order. Callee is the callee text with any type arguments stripped; ArgText
// is the raw text between the outermost argument parens.
type Call struct {
	Callee  string
	ArgText string
	Text    string
	Pos     Pos
}

// Assign is an assignment found anywhere in a method body.
type Assign struct {
	Target string
	Value  string
	Text   string
	Pos    Pos
}

// Field is a member declaration of a contract. Type and Init keep raw text;
// stored-field detection matches wrapper type names against both.
type Field struct {
	Name string
	Type string
	Init string
	Pos  Pos
}

// Method is a member function of a contract. Doc is the raw leading comment
// block and DocPos its starting position; Body is the full body text.
type Method struct {
	Name       string
	Pos        Pos
	Doc        string
	DocPos     Pos
	Params     []string
	Body       string
	BodyPos    Pos
	Statements []Statement
	Calls      []Call
	Assigns    []Assign
	HasReturn  bool
}

// Contract is a top-level declaration (class or struct) with its members.
type Contract struct {
	Name    string
	Pos     Pos
	Doc     string
	DocPos  Pos
	Fields  []Field
	Methods []*Method
}

// Method returns the named method, or nil.
func (c *Contract) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// CommentBlock is a comment block that is not the leading doc of any
// declaration, kept with its starting position.
type CommentBlock struct {
	Text string
	Pos  Pos
}

// Unit is one parsed compilation unit: the declarations plus the raw source
// text they were sliced from. Header holds comment blocks that precede the
// first declaration without attaching to it. Units are immutable after
// construction.
type Unit struct {
	File      string
	Source    string
	Header    []CommentBlock
	Contracts []*Contract
}

// Contract returns the named contract in the unit, or nil.
func (u *Unit) Contract(name string) *Contract {
	for _, c := range u.Contracts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindContract searches several units in order and returns the first
// contract with the given name, along with its owning unit.
func FindContract(units []*Unit, name string) (*Unit, *Contract) {
	for _, u := range units {
		if c := u.Contract(name); c != nil {
			return u, c
		}
	}
	return nil, nil
}
