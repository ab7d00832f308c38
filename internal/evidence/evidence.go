package evidence

// evidence.go — the four extractor queries. All are pure functions of the
// tree: same inputs, same outputs, no mutation.

import (
	"regexp"
	"strings"

	"komodo/internal/lang"
)

// CallSite is one external-call occurrence in a method body.
type CallSite struct {
	Text    string
	ArgText string
	Pos     lang.Pos
}

// StateWrite is one stored-field mutation: a `.value` assignment or a
// `.set` call.
type StateWrite struct {
	Field string
	Text  string
	Pos   lang.Pos
}

// Guard is one runtime check found in a method body. Message holds the
// quoted string from an if+revert guard when present; helper-style guards
// leave it empty.
type Guard struct {
	Condition string
	Message   string
	Text      string
	Pos       lang.Pos
}

// Extractor is the query surface the verification engine consumes. It is
// injected so the engine can run against synthetic trees in tests.
type Extractor interface {
	// StoredFields returns field name -> wrapper-type name for the
	// contract's members, computed from declared types and initializers.
	StoredFields(c *lang.Contract) map[string]string

	// CallSites returns every call expression whose callee exactly matches
	// the external-call sentinel, in document order.
	CallSites(m *lang.Method) []CallSite

	// StateWrites returns every mutation of a known stored field, given the
	// contract's stored-field map.
	StateWrites(m *lang.Method, stored map[string]string) []StateWrite

	// Guards returns every guard check among the method's top-level
	// statements.
	Guards(m *lang.Method) []Guard
}

// treeExtractor implements Extractor over the lang tree using a fixed
// vocabulary.
type treeExtractor struct {
	vocab Vocabulary

	valueWrite *regexp.Regexp
	setCall    *regexp.Regexp
}

// New returns an Extractor for the given vocabulary.
func New(vocab Vocabulary) Extractor {
	recv := make([]string, len(vocab.Receivers))
	for i, r := range vocab.Receivers {
		recv[i] = regexp.QuoteMeta(r)
	}
	alt := strings.Join(recv, "|")
	return &treeExtractor{
		vocab:      vocab,
		valueWrite: regexp.MustCompile(`^(?:` + alt + `)\.([A-Za-z_][A-Za-z0-9_]*)\.value$`),
		setCall:    regexp.MustCompile(`^(?:` + alt + `)\.([A-Za-z_][A-Za-z0-9_]*)\.set$`),
	}
}

func (e *treeExtractor) StoredFields(c *lang.Contract) map[string]string {
	stored := make(map[string]string)
	for _, f := range c.Fields {
		if w, ok := e.vocab.IsWrapperType(f.Type); ok {
			stored[f.Name] = w
			continue
		}
		if w, ok := e.vocab.IsWrapperType(f.Init); ok {
			stored[f.Name] = w
		}
	}
	return stored
}

func (e *treeExtractor) CallSites(m *lang.Method) []CallSite {
	var sites []CallSite
	for _, call := range m.Calls {
		if call.Callee != e.vocab.CallSentinel {
			continue
		}
		sites = append(sites, CallSite{Text: call.Text, ArgText: call.ArgText, Pos: call.Pos})
	}
	return sites
}

func (e *treeExtractor) StateWrites(m *lang.Method, stored map[string]string) []StateWrite {
	var writes []StateWrite
	for _, a := range m.Assigns {
		if sub := e.valueWrite.FindStringSubmatch(strings.TrimSpace(a.Target)); sub != nil && stored[sub[1]] != "" {
			writes = append(writes, StateWrite{Field: sub[1], Text: a.Text, Pos: a.Pos})
		}
	}
	for _, c := range m.Calls {
		if sub := e.setCall.FindStringSubmatch(strings.TrimSpace(c.Callee)); sub != nil && stored[sub[1]] != "" {
			writes = append(writes, StateWrite{Field: sub[1], Text: c.Text, Pos: c.Pos})
		}
	}
	return writes
}

// quotedMessage matches the first quoted string in a guard's then-branch.
var quotedMessage = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

func (e *treeExtractor) Guards(m *lang.Method) []Guard {
	var guards []Guard
	for _, stmt := range m.Statements {
		switch stmt.Kind {
		case lang.StmtIf:
			if !e.vocab.HasRevertMarker(stmt.Then) {
				continue
			}
			g := Guard{Condition: strings.TrimSpace(stmt.Cond), Text: stmt.Text, Pos: stmt.Pos}
			if sub := quotedMessage.FindStringSubmatch(stmt.Then); sub != nil {
				if sub[1] != "" {
					g.Message = sub[1]
				} else {
					g.Message = sub[2]
				}
			}
			guards = append(guards, g)
		case lang.StmtExpr:
			if e.vocab.HasGuardHelper(stmt.Text) || e.vocab.HasAccessGuard(stmt.Text) {
				guards = append(guards, Guard{Condition: strings.TrimSpace(stmt.Text), Text: stmt.Text, Pos: stmt.Pos})
			}
		}
	}
	return guards
}
