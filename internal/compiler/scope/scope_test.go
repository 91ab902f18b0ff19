package scope

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arnavsurve/minic/internal/compiler/symbols"
)

func variable(name string, scope int) symbols.Entry {
	return symbols.Entry{Name: name, Kind: symbols.KindDatatype, DataType: "int", Scope: scope}
}

func TestScopeIDsAreNeverReused(t *testing.T) {
	tbl := NewTable()
	if tbl.CurrentScope() != Global {
		t.Fatalf("new table scope expected=%d, got=%d", Global, tbl.CurrentScope())
	}

	first := tbl.EnterScope("foo")
	inner := tbl.EnterScope("foo")
	if inner <= first {
		t.Errorf("nested scope id expected > %d, got=%d", first, inner)
	}
	tbl.ExitScope()
	if tbl.CurrentScope() != first {
		t.Errorf("after exit expected scope=%d, got=%d", first, tbl.CurrentScope())
	}
	tbl.ExitScope()

	second := tbl.EnterScope("bar")
	if second == first || second == inner {
		t.Errorf("scope id %d reused", second)
	}
	tbl.ExitScope()
	tbl.ExitScope() // extra exit at global is ignored
	if tbl.CurrentScope() != Global || tbl.Depth() != 0 {
		t.Errorf("expected global scope, got=%d depth=%d", tbl.CurrentScope(), tbl.Depth())
	}
}

func TestAddEntryViolations(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Table) symbols.Entry
		kind     ViolationKind
		expected string
	}{
		{
			name: "SameScopeDuplicate",
			setup: func(tbl *Table) symbols.Entry {
				tbl.AddEntry(variable("x", Global))
				return variable("x", Global)
			},
			kind:     DuplicateLocal,
			expected: `variable "x" is already defined locally`,
		},
		{
			name: "ShadowsParameter",
			setup: func(tbl *Table) symbols.Entry {
				id := tbl.EnterScope("foo")
				tbl.AddFunctionParameter("foo", symbols.Entry{Name: "n", Kind: symbols.KindParameter, DataType: "int", Scope: id})
				return variable("n", id)
			},
			kind:     DuplicateParameter,
			expected: `variable "n" is already defined locally`,
		},
		{
			name: "ShadowsGlobal",
			setup: func(tbl *Table) symbols.Entry {
				tbl.AddEntry(variable("g", Global))
				id := tbl.EnterScope("foo")
				return variable("g", id)
			},
			kind:     GlobalShadow,
			expected: `variable "g" is already defined globally`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable()
			e := tt.setup(tbl)
			before := len(tbl.Entries())

			v := tbl.AddEntry(e)
			if v == nil {
				t.Fatalf("AddEntry(%v) expected violation, got nil", e)
			}
			if v.Kind != tt.kind {
				t.Errorf("violation kind expected=%d, got=%d", tt.kind, v.Kind)
			}
			if v.Error() != tt.expected {
				t.Errorf("message expected=%q, got=%q", tt.expected, v.Error())
			}
			var err error = v
			var target *Violation
			if !errors.As(err, &target) {
				t.Errorf("errors.As failed for %T", err)
			}
			if len(tbl.Entries()) != before {
				t.Errorf("rejected entry was stored")
			}
		})
	}
}

func TestSiblingScopesDoNotCollide(t *testing.T) {
	tbl := NewTable()
	a := tbl.EnterScope("a")
	if v := tbl.AddEntry(variable("i", a)); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	tbl.ExitScope()
	b := tbl.EnterScope("b")
	if v := tbl.AddEntry(variable("i", b)); v != nil {
		t.Fatalf("unexpected violation in sibling scope: %v", v)
	}
	tbl.ExitScope()
	if _, ok := tbl.Lookup("i"); ok {
		t.Errorf("local leaked into global lookup")
	}
}

func TestWriteTo(t *testing.T) {
	tbl := NewTable()
	tbl.AddEntry(symbols.Entry{Name: "sum", Kind: symbols.KindFunction, DataType: "int", Scope: Global})
	id := tbl.EnterScope("sum")
	tbl.AddFunctionParameter("sum", symbols.Entry{Name: "xs", Kind: symbols.KindParameter, DataType: "int", IsArray: true, ArraySize: 4, Scope: id})
	tbl.AddEntry(variable("total", id))
	tbl.ExitScope()

	expected := `IDENTIFIER_NAME: sum
IDENTIFIER_TYPE: function
DATATYPE: int
DATATYPE_IS_ARRAY: no
DATATYPE_ARRAY_SIZE: 0
SCOPE: 0

IDENTIFIER_NAME: total
IDENTIFIER_TYPE: datatype
DATATYPE: int
DATATYPE_IS_ARRAY: no
DATATYPE_ARRAY_SIZE: 0
SCOPE: 1

PARAMETER LIST FOR: sum
IDENTIFIER_NAME: xs
DATATYPE: int
DATATYPE_IS_ARRAY: yes
DATATYPE_ARRAY_SIZE: 4
SCOPE: 1

`
	var out bytes.Buffer
	n, err := tbl.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if out.String() != expected {
		t.Errorf("dump wrong.\nexpected=\n%s\ngot=\n%s", expected, out.String())
	}
	if n != int64(out.Len()) {
		t.Errorf("byte count expected=%d, got=%d", out.Len(), n)
	}
}
