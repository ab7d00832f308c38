package source

// typescript.go — tree-sitter backed provider for the TypeScript dialect
// the contract sources are written in. Classes become contracts, public
// field definitions become fields, method definitions become methods.
// Comment nodes riding immediately above a declaration become its doc
// block; comment blocks preceding the first class become unit header
// blocks.

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"komodo/internal/lang"
)

// TypeScript parses .ts sources with tree-sitter.
type TypeScript struct {
	parser *sitter.Parser
}

// NewTypeScript returns a TypeScript provider.
func NewTypeScript() *TypeScript {
	p := sitter.NewParser()
	p.SetLanguage(typescript.GetLanguage())
	return &TypeScript{parser: p}
}

func (t *TypeScript) Name() string { return "ts" }

func (t *TypeScript) Extensions() []string { return []string{".ts", ".mts"} }

// Parse builds the unit for one file.
func (t *TypeScript) Parse(path string, content []byte) (*lang.Unit, error) {
	tree, err := t.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	unit := &lang.Unit{File: path, Source: string(content)}

	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}
	pos := func(n *sitter.Node) lang.Pos {
		return lang.Pos{
			Line:   int(n.StartPoint().Row) + 1,
			Column: int(n.StartPoint().Column) + 1,
			Offset: int(n.StartByte()),
		}
	}

	var pending []*sitter.Node
	flushHeader := func() {
		for _, block := range mergeCommentBlocks(pending) {
			unit.Header = append(unit.Header, lang.CommentBlock{Text: blockText(content, block), Pos: pos(block[0])})
		}
		pending = nil
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "comment":
				pending = append(pending, child)
			case "class_declaration":
				doc, docPos := takeDoc(&pending, child, content, pos)
				if len(unit.Contracts) == 0 {
					flushHeader()
				} else {
					pending = nil
				}
				unit.Contracts = append(unit.Contracts, t.parseClass(child, content, doc, docPos, text, pos))
			case "export_statement":
				visit(child)
			default:
				if len(unit.Contracts) == 0 {
					flushHeader()
				} else {
					pending = nil
				}
			}
		}
	}
	visit(tree.RootNode())
	if len(unit.Contracts) == 0 {
		flushHeader()
	}

	return unit, nil
}

// parseClass builds one contract from a class declaration.
func (t *TypeScript) parseClass(node *sitter.Node, content []byte, doc string, docPos lang.Pos,
	text func(*sitter.Node) string, pos func(*sitter.Node) lang.Pos) *lang.Contract {

	c := &lang.Contract{Pos: pos(node), Doc: doc, DocPos: docPos}
	if name := node.ChildByFieldName("name"); name != nil {
		c.Name = text(name)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return c
	}

	var pending []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "comment":
			pending = append(pending, member)
		case "public_field_definition":
			pending = nil
			c.Fields = append(c.Fields, t.parseField(member, text, pos))
		case "method_definition":
			mdoc, mdocPos := takeDoc(&pending, member, content, pos)
			pending = nil
			c.Methods = append(c.Methods, t.parseMethod(member, mdoc, mdocPos, text, pos))
		default:
			pending = nil
		}
	}
	return c
}

// parseField builds one field from a public field definition.
func (t *TypeScript) parseField(node *sitter.Node, text func(*sitter.Node) string, pos func(*sitter.Node) lang.Pos) lang.Field {
	f := lang.Field{Pos: pos(node)}
	if name := node.ChildByFieldName("name"); name != nil {
		f.Name = text(name)
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		f.Type = strings.TrimPrefix(text(typ), ":")
	}
	if val := node.ChildByFieldName("value"); val != nil {
		f.Init = text(val)
	}
	return f
}

// parseMethod builds one method, collecting top-level statements plus every
// call and assignment in the body.
func (t *TypeScript) parseMethod(node *sitter.Node, doc string, docPos lang.Pos,
	text func(*sitter.Node) string, pos func(*sitter.Node) lang.Pos) *lang.Method {

	m := &lang.Method{Pos: pos(node), Doc: doc, DocPos: docPos}
	if name := node.ChildByFieldName("name"); name != nil {
		m.Name = text(name)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			m.Params = append(m.Params, text(params.NamedChild(i)))
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return m
	}
	m.Body = text(body)
	m.BodyPos = pos(body)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		m.Statements = append(m.Statements, t.parseStatement(stmt, text, pos))
	}

	collectExpressions(body, m, text, pos)
	return m
}

// parseStatement classifies one top-level body statement.
func (t *TypeScript) parseStatement(node *sitter.Node, text func(*sitter.Node) string, pos func(*sitter.Node) lang.Pos) lang.Statement {
	s := lang.Statement{Text: text(node), Pos: pos(node), Kind: lang.StmtOther}
	switch node.Type() {
	case "if_statement":
		s.Kind = lang.StmtIf
		if cond := node.ChildByFieldName("condition"); cond != nil {
			s.Cond = strings.TrimSuffix(strings.TrimPrefix(text(cond), "("), ")")
		}
		if then := node.ChildByFieldName("consequence"); then != nil {
			s.Then = text(then)
		}
	case "expression_statement":
		s.Kind = lang.StmtExpr
		if node.NamedChildCount() > 0 {
			switch node.NamedChild(0).Type() {
			case "assignment_expression", "augmented_assignment_expression":
				s.Kind = lang.StmtAssign
			}
		}
	case "return_statement":
		s.Kind = lang.StmtReturn
	case "lexical_declaration", "variable_declaration":
		s.Kind = lang.StmtDecl
	}
	return s
}

// collectExpressions walks the whole body once, recording every call
// expression and assignment in document order, and whether the method
// returns a value.
func collectExpressions(node *sitter.Node, m *lang.Method, text func(*sitter.Node) string, pos func(*sitter.Node) lang.Pos) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "call_expression":
			call := lang.Call{Text: text(child), Pos: pos(child)}
			if fn := child.ChildByFieldName("function"); fn != nil {
				call.Callee = text(fn)
			}
			if args := child.ChildByFieldName("arguments"); args != nil {
				call.ArgText = strings.TrimSuffix(strings.TrimPrefix(text(args), "("), ")")
			}
			m.Calls = append(m.Calls, call)
		case "assignment_expression", "augmented_assignment_expression":
			a := lang.Assign{Text: text(child), Pos: pos(child)}
			if left := child.ChildByFieldName("left"); left != nil {
				a.Target = text(left)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				a.Value = text(right)
			}
			m.Assigns = append(m.Assigns, a)
		case "return_statement":
			if child.NamedChildCount() > 0 {
				m.HasReturn = true
			}
		}
		collectExpressions(child, m, text, pos)
	}
}

// takeDoc detaches the last pending comment block as the declaration's doc
// when it sits directly above it (no blank line between). Earlier blocks
// stay pending for the header flush.
func takeDoc(pending *[]*sitter.Node, decl *sitter.Node, content []byte, pos func(*sitter.Node) lang.Pos) (string, lang.Pos) {
	run := *pending
	if len(run) == 0 {
		return "", lang.Pos{}
	}
	blocks := mergeCommentBlocks(run)
	last := blocks[len(blocks)-1]
	lastEnd := int(last[len(last)-1].EndPoint().Row) + 1
	if int(decl.StartPoint().Row)+1-lastEnd > 1 {
		return "", lang.Pos{}
	}
	*pending = run[:len(run)-len(last)]
	return blockText(content, last), pos(last[0])
}

// mergeCommentBlocks groups consecutive comment nodes into blocks: nodes on
// adjacent lines belong to the same block.
func mergeCommentBlocks(nodes []*sitter.Node) [][]*sitter.Node {
	var blocks [][]*sitter.Node
	for _, n := range nodes {
		if len(blocks) > 0 {
			prev := blocks[len(blocks)-1]
			prevEnd := int(prev[len(prev)-1].EndPoint().Row)
			if int(n.StartPoint().Row)-prevEnd <= 1 {
				blocks[len(blocks)-1] = append(prev, n)
				continue
			}
		}
		blocks = append(blocks, []*sitter.Node{n})
	}
	return blocks
}

// blockText returns the source slice spanning a comment block.
func blockText(content []byte, block []*sitter.Node) string {
	start := block[0].StartByte()
	end := block[len(block)-1].EndByte()
	return string(content[start:end])
}
