// Package cst holds the concrete syntax tree built by the parser.
package cst

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Node labels produced by the parser.
const (
	LabelProgram          = "Program"
	LabelProcedure        = "Procedure"
	LabelFunction         = "Function"
	LabelReturnType       = "ReturnType"
	LabelParameterType    = "ParameterType"
	LabelParameter        = "Parameter"
	LabelArraySize        = "ArraySize"
	LabelSymbol           = "Symbol"
	LabelDeclaration      = "Declaration"
	LabelVariable         = "Variable"
	LabelArrayDeclaration = "ArrayDeclaration"
	LabelAssignment       = "Assignment"
	LabelArrayAccess      = "ArrayAccess"
	LabelFunctionCall     = "FunctionCall"
	LabelIfStatement      = "IfStatement"
	LabelElseStatement    = "ElseStatement"
	LabelWhileStatement   = "WhileStatement"
	LabelForStatement     = "ForStatement"
	LabelIncrement        = "Increment"
	LabelReturn           = "Return"
	LabelOperator         = "Operator"
	LabelOperand          = "Operand"
	LabelEscapeSequence   = "EscapeSequence"
)

// Node is one CST node. Each node is owned by exactly one parent; the
// children slice keeps source order.
type Node struct {
	Label    string
	Value    string
	Line     int
	Children []*Node
}

func New(label, value string, line int) *Node {
	return &Node{Label: label, Value: value, Line: line}
}

// NewSymbol records a structural punctuation token.
func NewSymbol(lit string, line int) *Node {
	return New(LabelSymbol, lit, line)
}

// AddChild appends child and returns n so calls can be chained.
func (n *Node) AddChild(child *Node) *Node {
	if child != nil {
		n.Children = append(n.Children, child)
	}
	return n
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Walk visits n and its descendants depth-first, in child order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Dump writes the tree one node per line, indented four spaces per level.
// Symbol nodes print as their quoted value, everything else as
// `Label (value) [Line: n]`.
func (n *Node) Dump(w io.Writer) error {
	var err error
	n.Walk(func(node *Node, depth int) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat(" ", depth*4)
		if node.Label == LabelSymbol {
			_, err = fmt.Fprintf(w, "%s\"%s\"\n", indent, node.Value)
		} else {
			_, err = fmt.Fprintf(w, "%s%s (%s) [Line: %d]\n", indent, node.Label, node.Value, node.Line)
		}
		return err == nil
	})
	return err
}

func (n *Node) String() string {
	var out bytes.Buffer
	_ = n.Dump(&out)
	return out.String()
}

// Shape renders the subtree as a compact s-expression of labels and
// values, e.g. Operator(+ Operand(1) Operand(2)). Used by tests.
func (n *Node) Shape() string {
	var out strings.Builder
	n.shape(&out)
	return out.String()
}

func (n *Node) shape(out *strings.Builder) {
	out.WriteString(n.Label)
	out.WriteString("(")
	out.WriteString(n.Value)
	for _, c := range n.Children {
		out.WriteString(" ")
		c.shape(out)
	}
	out.WriteString(")")
}
