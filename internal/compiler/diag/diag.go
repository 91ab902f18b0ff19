// Package diag collects the line-numbered diagnostics produced while a
// single source file moves through the pipeline.
package diag

import (
	"errors"
	"fmt"
	"io"
)

// ErrAborted is wrapped by stage errors when a file's analysis stopped on a
// reported diagnostic.
var ErrAborted = errors.New("analysis aborted")

type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Semantic
	IO
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntactic"
	case Semantic:
		return "semantic"
	case IO:
		return "io"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Diagnostic struct {
	Line    int
	Kind    Kind
	Message string
}

// String renders the diagnostic in error log form: "Line <n>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("Line %d: %s", d.Line, d.Message)
}

// Handler is the error sink handed to the comment stripper, lexer and
// parser. One Handler serves one file; the driver resets it between files.
type Handler struct {
	diags []Diagnostic
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Add(line int, kind Kind, msg string) {
	h.diags = append(h.diags, Diagnostic{Line: line, Kind: kind, Message: msg})
}

func (h *Handler) Addf(line int, kind Kind, format string, args ...any) {
	h.Add(line, kind, fmt.Sprintf(format, args...))
}

func (h *Handler) HasErrors() bool { return len(h.diags) > 0 }

func (h *Handler) Len() int { return len(h.diags) }

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (h *Handler) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(h.diags))
	copy(out, h.diags)
	return out
}

func (h *Handler) Reset() {
	h.diags = h.diags[:0]
}

// Aborted returns an error wrapping ErrAborted for the given stage, or nil
// when nothing was reported.
func (h *Handler) Aborted(stage string) error {
	if !h.HasErrors() {
		return nil
	}
	first := h.diags[0]
	return fmt.Errorf("%s: line %d: %s: %w", stage, first.Line, first.Message, ErrAborted)
}

// WriteTo writes one "Line <n>: <message>" line per diagnostic.
func (h *Handler) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, d := range h.diags {
		n, err := fmt.Fprintln(w, d.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
