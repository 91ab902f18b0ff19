package scope

import (
	"fmt"
	"io"

	"github.com/arnavsurve/minic/internal/compiler/symbols"
)

// Global is the id of the outermost scope.
const Global = 0

// ViolationKind identifies which uniqueness rule an insertion broke.
type ViolationKind int

const (
	DuplicateLocal ViolationKind = iota + 1
	DuplicateParameter
	GlobalShadow
)

// Violation is returned by AddEntry when the entry was rejected.
type Violation struct {
	Kind ViolationKind
	Name string
}

func (v *Violation) Error() string {
	if v.Kind == GlobalShadow {
		return fmt.Sprintf("variable %q is already defined globally", v.Name)
	}
	return fmt.Sprintf("variable %q is already defined locally", v.Name)
}

type paramList struct {
	owner  string
	params []symbols.Entry
}

// Table is a flat, insertion-ordered entry list with an explicit scope
// stack. Scope ids are handed out monotonically and never reused.
type Table struct {
	entries []symbols.Entry
	params  []paramList

	stack   []frame
	current frame
	nextID  int
}

type frame struct {
	id    int
	owner string
}

func NewTable() *Table {
	return &Table{current: frame{id: Global}, nextID: Global + 1}
}

// EnterScope opens a fresh scope owned by the named procedure or function.
func (t *Table) EnterScope(owner string) int {
	t.stack = append(t.stack, t.current)
	t.current = frame{id: t.nextID, owner: owner}
	t.nextID++
	return t.current.id
}

// ExitScope returns to the enclosing scope. It is a no-op at global scope.
func (t *Table) ExitScope() {
	if len(t.stack) == 0 {
		return
	}
	t.current = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Table) CurrentScope() int { return t.current.id }

// Owner returns the procedure owning the current scope, "" at global scope.
func (t *Table) Owner() string { return t.current.owner }

// Depth returns the number of open scopes above global.
func (t *Table) Depth() int { return len(t.stack) }

// AddEntry inserts e unless it duplicates a name in its own scope, a
// parameter of the scope's owner, or (outside global scope) a global.
func (t *Table) AddEntry(e symbols.Entry) *Violation {
	if t.definedIn(e.Name, e.Scope) {
		return &Violation{Kind: DuplicateLocal, Name: e.Name}
	}
	if owner := t.ownerOf(e.Scope); owner != "" && t.HasParameter(owner, e.Name) {
		return &Violation{Kind: DuplicateParameter, Name: e.Name}
	}
	if e.Scope != Global && t.definedIn(e.Name, Global) {
		return &Violation{Kind: GlobalShadow, Name: e.Name}
	}
	t.entries = append(t.entries, e)
	return nil
}

// AddFunctionParameter appends param to owner's parameter list without any
// uniqueness check.
func (t *Table) AddFunctionParameter(owner string, param symbols.Entry) {
	for i := range t.params {
		if t.params[i].owner == owner {
			t.params[i].params = append(t.params[i].params, param)
			return
		}
	}
	t.params = append(t.params, paramList{owner: owner, params: []symbols.Entry{param}})
}

func (t *Table) HasParameter(owner, name string) bool {
	for _, pl := range t.params {
		if pl.owner != owner {
			continue
		}
		for _, p := range pl.params {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// Lookup finds name in the current scope, then the global scope.
func (t *Table) Lookup(name string) (symbols.Entry, bool) {
	for _, id := range []int{t.current.id, Global} {
		for _, e := range t.entries {
			if e.Name == name && e.Scope == id {
				return e, true
			}
		}
	}
	return symbols.Entry{}, false
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []symbols.Entry {
	out := make([]symbols.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Parameters returns a copy of owner's parameter list.
func (t *Table) Parameters(owner string) []symbols.Entry {
	for _, pl := range t.params {
		if pl.owner == owner {
			out := make([]symbols.Entry, len(pl.params))
			copy(out, pl.params)
			return out
		}
	}
	return nil
}

func (t *Table) definedIn(name string, id int) bool {
	for _, e := range t.entries {
		if e.Name == name && e.Scope == id {
			return true
		}
	}
	return false
}

// ownerOf resolves the procedure that owns scope id while that scope is
// open. Closed scopes cannot receive entries.
func (t *Table) ownerOf(id int) string {
	if t.current.id == id {
		return t.current.owner
	}
	for _, f := range t.stack {
		if f.id == id {
			return f.owner
		}
	}
	return ""
}

// WriteTo dumps the entries, then each parameter list, in insertion order.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for _, e := range t.entries {
		cw.printf("IDENTIFIER_NAME: %s\n", e.Name)
		cw.printf("IDENTIFIER_TYPE: %s\n", e.Kind)
		writeShape(cw, e)
	}
	for _, pl := range t.params {
		cw.printf("PARAMETER LIST FOR: %s\n", pl.owner)
		for _, p := range pl.params {
			cw.printf("IDENTIFIER_NAME: %s\n", p.Name)
			writeShape(cw, p)
		}
	}
	return cw.n, cw.err
}

func writeShape(cw *countingWriter, e symbols.Entry) {
	isArray := "no"
	if e.IsArray {
		isArray = "yes"
	}
	cw.printf("DATATYPE: %s\n", e.DataType)
	cw.printf("DATATYPE_IS_ARRAY: %s\n", isArray)
	cw.printf("DATATYPE_ARRAY_SIZE: %d\n", e.ArraySize)
	cw.printf("SCOPE: %d\n\n", e.Scope)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	n, err := fmt.Fprintf(c.w, format, args...)
	c.n += int64(n)
	c.err = err
}
