package symbols

import "fmt"

// Kind is the IDENTIFIER_TYPE column of the symbol table.
type Kind string

const (
	KindProcedure Kind = "procedure"
	KindFunction  Kind = "function"
	KindParameter Kind = "parameter"
	KindDatatype  Kind = "datatype"
)

// NotApplicable is the declared type recorded for procedures.
const NotApplicable = "NOT APPLICABLE"

// Entry is one declared name.
type Entry struct {
	Name      string
	Kind      Kind
	DataType  string // int, bool, char, void, or NotApplicable
	IsArray   bool
	ArraySize int
	Scope     int
}

// IsCallable reports whether the entry names a procedure or function.
func (e Entry) IsCallable() bool {
	return e.Kind == KindProcedure || e.Kind == KindFunction
}

func (e Entry) String() string {
	if e.IsArray {
		return fmt.Sprintf("%s %s %s[%d] @%d", e.Kind, e.DataType, e.Name, e.ArraySize, e.Scope)
	}
	return fmt.Sprintf("%s %s %s @%d", e.Kind, e.DataType, e.Name, e.Scope)
}
