package comments

import (
	"errors"
	"strings"
	"testing"

	"github.com/arnavsurve/minic/internal/compiler/diag"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "NoComments",
			input:    "int x;\nx = 1;\n",
			expected: "int x;\nx = 1;\n",
		},
		{
			name:     "LineComment",
			input:    "int x; // the counter\nx = 1;",
			expected: "int x; \nx = 1;",
		},
		{
			name:     "BlockCommentKeepsNewlines",
			input:    "int /* a\nb\nc */ x;",
			expected: "int \n\n x;",
		},
		{
			name:     "NulByteIsNotEndOfInput",
			input:    "int x;\x00 int y; // tail\nint z;",
			expected: "int x;\x00 int y; \nint z;",
		},
		{
			name:     "StarRunClosesBlock",
			input:    "/*** banner ***/int x;",
			expected: "int x;",
		},
		{
			name:     "MarkersInsideString",
			input:    "s = \"// not /* a comment\";",
			expected: "s = \"// not /* a comment\";",
		},
		{
			name:     "EscapedQuoteInString",
			input:    "s = \"a\\\"//b\"; // gone",
			expected: "s = \"a\\\"//b\"; ",
		},
		{
			name:     "DivisionSurvives",
			input:    "x = a / b;",
			expected: "x = a / b;",
		},
		{
			name:     "MultiplicationSurvives",
			input:    "x = a * b;",
			expected: "x = a * b;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := diag.NewHandler()
			got, err := Strip(tt.input, h)
			if err != nil {
				t.Fatalf("Strip returned error: %v (%v)", err, h.Diagnostics())
			}
			if got != tt.expected {
				t.Errorf("Strip wrong.\nexpected=%q\ngot=%q", tt.expected, got)
			}
			if strings.Count(got, "\n") != strings.Count(tt.input, "\n") {
				t.Errorf("newline count changed: input=%d, output=%d",
					strings.Count(tt.input, "\n"), strings.Count(got, "\n"))
			}
		})
	}
}

func TestStripErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{
			name:    "EntireFileComment",
			input:   "/* everything\n   is commented */\n",
			line:    1,
			message: "Lexical Error: Entire file was enclosed in a comment.",
		},
		{
			name:    "UnterminatedBlock",
			input:   "int x;\n/* open\nint y;\n",
			line:    2,
			message: "Lexical Error: Unterminated block comment.",
		},
		{
			name:    "UnmatchedClose",
			input:   "int x;\n\nint y; */\n",
			line:    3,
			message: "Lexical Error: Unmatched closing comment '*/'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := diag.NewHandler()
			got, err := Strip(tt.input, h)
			if !errors.Is(err, diag.ErrAborted) {
				t.Fatalf("Strip expected ErrAborted, got err=%v", err)
			}
			if got != "" {
				t.Errorf("Strip returned text on failure: %q", got)
			}
			diags := h.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got=%d: %v", len(diags), diags)
			}
			if diags[0].Line != tt.line || diags[0].Message != tt.message {
				t.Errorf("diagnostic expected=Line %d: %s, got=%s", tt.line, tt.message, diags[0])
			}
		})
	}
}
