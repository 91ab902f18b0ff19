package cst

import "testing"

func TestDump(t *testing.T) {
	proc := New(LabelProcedure, "main", 1).
		AddChild(NewSymbol("(", 1)).
		AddChild(NewSymbol(")", 1)).
		AddChild(NewSymbol("{", 1)).
		AddChild(New(LabelDeclaration, "int", 2).AddChild(New(LabelVariable, "x", 2))).
		AddChild(NewSymbol("}", 3))
	root := New(LabelProgram, "", -1).AddChild(proc)

	expected := `Program () [Line: -1]
    Procedure (main) [Line: 1]
        "("
        ")"
        "{"
        Declaration (int) [Line: 2]
            Variable (x) [Line: 2]
        "}"
`
	if got := root.String(); got != expected {
		t.Errorf("Dump wrong.\nexpected=\n%s\ngot=\n%s", expected, got)
	}
	if root.Count() != 8 {
		t.Errorf("Count() expected=8, got=%d", root.Count())
	}
}

func TestAddChildIgnoresNil(t *testing.T) {
	n := New(LabelOperator, "-", 1)
	n.AddChild(nil).AddChild(New(LabelOperand, "y", 1))
	if len(n.Children) != 1 {
		t.Fatalf("expected 1 child, got=%d", len(n.Children))
	}
	if n.Child(0).Value != "y" || n.Child(1) != nil {
		t.Errorf("Child() lookup wrong: %v / %v", n.Child(0), n.Child(1))
	}
}

func TestShape(t *testing.T) {
	n := New(LabelOperator, "+", 1).
		AddChild(New(LabelOperand, "1", 1)).
		AddChild(New(LabelOperator, "*", 1).
			AddChild(New(LabelOperand, "2", 1)).
			AddChild(New(LabelOperand, "3", 1)))

	expected := "Operator(+ Operand(1) Operator(* Operand(2) Operand(3)))"
	if got := n.Shape(); got != expected {
		t.Errorf("Shape() expected=%q, got=%q", expected, got)
	}
}
