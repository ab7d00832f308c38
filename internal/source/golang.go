package source

// golang.go — Go provider. Struct type declarations become contracts and
// their methods become contract methods. Parse works from the file content
// alone via go/parser; LoadDir loads a whole package directory through
// golang.org/x/tools/go/packages and falls back to per-file parsing when
// loading fails.

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"komodo/internal/lang"
)

// Go parses Go sources with go/parser.
type Go struct{}

// NewGo returns a Go provider.
func NewGo() *Go { return &Go{} }

func (g *Go) Name() string { return "go" }

func (g *Go) Extensions() []string { return []string{".go"} }

// Parse builds the unit for one file.
func (g *Go) Parse(path string, content []byte) (*lang.Unit, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return buildUnit(path, content, fset, file), nil
}

// LoadDir parses every file of the package in dir. It tries go/packages
// first for a load that honors build constraints; on failure each .go file
// is parsed individually.
func (g *Go) LoadDir(dir string) ([]*lang.Unit, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedFiles,
		Dir:  dir,
		Fset: fset,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err == nil && len(pkgs) > 0 && len(pkgs[0].Syntax) > 0 {
		var units []*lang.Unit
		for _, file := range pkgs[0].Syntax {
			path := fset.Position(file.Pos()).Filename
			content, rerr := os.ReadFile(path)
			if rerr != nil {
				return nil, fmt.Errorf("read %s: %w", path, rerr)
			}
			units = append(units, buildUnit(path, content, fset, file))
		}
		return units, nil
	}

	// Fall back: parse each file with go/parser, no package context.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var units []*lang.Unit
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		u, err := g.Parse(path, content)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// buildUnit maps one parsed file onto the declaration tree.
func buildUnit(path string, content []byte, fset *token.FileSet, file *ast.File) *lang.Unit {
	unit := &lang.Unit{File: path, Source: string(content)}

	pos := func(p token.Pos) lang.Pos {
		position := fset.Position(p)
		return lang.Pos{Line: position.Line, Column: position.Column, Offset: position.Offset}
	}
	text := func(node ast.Node) string {
		start, end := pos(node.Pos()).Offset, pos(node.End()).Offset
		if start < 0 || end > len(content) || start > end {
			return ""
		}
		return string(content[start:end])
	}

	contracts := make(map[string]*lang.Contract)
	var order []string

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			c := &lang.Contract{Name: ts.Name.Name, Pos: pos(ts.Pos())}
			if gd.Doc != nil {
				c.Doc = text(gd.Doc)
				c.DocPos = pos(gd.Doc.Pos())
			}
			for _, f := range st.Fields.List {
				typeText := text(f.Type)
				for _, name := range f.Names {
					c.Fields = append(c.Fields, lang.Field{Name: name.Name, Type: typeText, Pos: pos(name.Pos())})
				}
			}
			contracts[c.Name] = c
			order = append(order, c.Name)
		}
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recv := receiverTypeName(fd.Recv.List[0].Type)
		c, ok := contracts[recv]
		if !ok {
			continue
		}
		c.Methods = append(c.Methods, buildGoMethod(fd, pos, text))
	}

	// File-level doc comments that precede the first declaration. The first
	// declaration's own doc group belongs to the declaration, so the cutoff
	// starts at the doc when one exists.
	if len(file.Comments) > 0 {
		firstDecl := token.Pos(0)
		if len(file.Decls) > 0 {
			firstDecl = file.Decls[0].Pos()
			switch d := file.Decls[0].(type) {
			case *ast.GenDecl:
				if d.Doc != nil {
					firstDecl = d.Doc.Pos()
				}
			case *ast.FuncDecl:
				if d.Doc != nil {
					firstDecl = d.Doc.Pos()
				}
			}
		}
		for _, cg := range file.Comments {
			if firstDecl != 0 && cg.End() >= firstDecl {
				break
			}
			unit.Header = append(unit.Header, lang.CommentBlock{Text: text(cg), Pos: pos(cg.Pos())})
		}
	}

	for _, name := range order {
		unit.Contracts = append(unit.Contracts, contracts[name])
	}
	return unit
}

// buildGoMethod maps one method declaration.
func buildGoMethod(fd *ast.FuncDecl,
	pos func(token.Pos) lang.Pos, text func(ast.Node) string) *lang.Method {

	m := &lang.Method{Name: fd.Name.Name, Pos: pos(fd.Pos())}
	if fd.Doc != nil {
		m.Doc = text(fd.Doc)
		m.DocPos = pos(fd.Doc.Pos())
	}
	if fd.Type.Params != nil {
		for _, p := range fd.Type.Params.List {
			for _, name := range p.Names {
				m.Params = append(m.Params, name.Name)
			}
		}
	}
	if fd.Body == nil {
		return m
	}
	m.Body = text(fd.Body)
	m.BodyPos = pos(fd.Body.Pos())

	for _, stmt := range fd.Body.List {
		m.Statements = append(m.Statements, buildGoStatement(stmt, pos, text))
	}

	ast.Inspect(fd.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			call := lang.Call{Text: text(node), Pos: pos(node.Pos()), Callee: text(node.Fun)}
			var args []string
			for _, a := range node.Args {
				args = append(args, text(a))
			}
			call.ArgText = strings.Join(args, ", ")
			m.Calls = append(m.Calls, call)
		case *ast.AssignStmt:
			for i, lhs := range node.Lhs {
				a := lang.Assign{Text: text(node), Pos: pos(node.Pos()), Target: text(lhs)}
				if i < len(node.Rhs) {
					a.Value = text(node.Rhs[i])
				}
				m.Assigns = append(m.Assigns, a)
			}
		case *ast.ReturnStmt:
			if len(node.Results) > 0 {
				m.HasReturn = true
			}
		}
		return true
	})
	return m
}

// buildGoStatement classifies one top-level body statement.
func buildGoStatement(stmt ast.Stmt,
	pos func(token.Pos) lang.Pos, text func(ast.Node) string) lang.Statement {

	s := lang.Statement{Text: text(stmt), Pos: pos(stmt.Pos()), Kind: lang.StmtOther}
	switch node := stmt.(type) {
	case *ast.IfStmt:
		s.Kind = lang.StmtIf
		s.Cond = text(node.Cond)
		s.Then = text(node.Body)
	case *ast.ExprStmt:
		s.Kind = lang.StmtExpr
	case *ast.AssignStmt:
		s.Kind = lang.StmtAssign
	case *ast.DeclStmt:
		s.Kind = lang.StmtDecl
	case *ast.ReturnStmt:
		s.Kind = lang.StmtReturn
	}
	return s
}

// receiverTypeName unwraps a method receiver to its bare type name.
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	}
	return ""
}
