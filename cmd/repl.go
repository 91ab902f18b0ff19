package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/minic/internal/compiler"
	"github.com/arnavsurve/minic/internal/compiler/cst"
	"github.com/arnavsurve/minic/internal/compiler/diag"
)

const (
	historyFile = ".minic_history"
	promptMain  = "minic> "
	promptCont  = "  ...> "
	replHelp    = `:tokens   print the session's tokens
:cst      print the session's CST
:symbols  print the session's symbol table
:reset    forget everything entered so far
:quit     leave the REPL`
)

// repl: interactive parsing
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse declarations and statements interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRepl(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// session holds the accepted source of a REPL run. Every entry is parsed
// together with everything accepted before it, so scopes and duplicate
// checks span the whole session.
type session struct {
	src    string
	last   *compiler.Result
	logger *slog.Logger
}

func newSession(logger *slog.Logger) *session {
	return &session{logger: logger}
}

// eval parses the session source plus entry. On success the entry is kept
// and the top-level nodes it added are returned; on failure the session is
// unchanged.
func (s *session) eval(entry string) ([]*cst.Node, []diag.Diagnostic, error) {
	candidate := s.src + entry + "\n"
	h := diag.NewHandler()
	res, err := compiler.Analyze("repl", candidate, 1, h, s.logger)
	if err != nil {
		return nil, res.Diagnostics, err
	}

	before := 0
	if s.last != nil {
		before = len(s.last.Tree.Children)
	}
	s.src = candidate
	s.last = res
	return res.Tree.Children[before:], nil, nil
}

func (s *session) reset() {
	s.src = ""
	s.last = nil
}

func runRepl(out, errOut io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("minic repl")+" "+mutedStyle.Render("(:quit to exit, :help for commands)"))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(logger)
	for {
		entry, ok := readBalanced(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(out, trimmed); quit {
				return nil
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
		nodes, ds, err := s.eval(entry)
		if err != nil {
			fmt.Fprintln(errOut, failStyle.Render("✘ entry dropped"))
			printDiagnostics(errOut, ds)
			continue
		}
		for _, n := range nodes {
			_ = n.Dump(out)
		}
	}
}

// command runs a meta-command and reports whether the REPL should exit.
func (s *session) command(out io.Writer, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":reset":
		s.reset()
		fmt.Fprintln(out, mutedStyle.Render("session cleared"))
	case ":tokens", ":cst", ":symbols":
		if s.last == nil {
			fmt.Fprintln(out, mutedStyle.Render("nothing parsed yet"))
			return false
		}
		_ = emitResult(out, s.last, strings.TrimPrefix(cmd, ":"))
	case ":help":
		fmt.Fprintln(out, replHelp)
	default:
		fmt.Fprintln(out, "unknown command. Type :help for a list.")
	}
	return false
}

// readBalanced keeps prompting until every (, [ and { opened so far is
// closed. It returns false at end of input.
func readBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); nesting(src) <= 0 || strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
	}
}

// nesting returns the bracket depth left open at the end of src, skipping
// string and char literals and comments.
func nesting(src string) int {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch ch := src[i]; ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '"', '\'':
			for i++; i < len(src) && src[i] != ch && src[i] != '\n'; i++ {
				if src[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			} else if i+1 < len(src) && src[i+1] == '*' {
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					return depth + 1
				}
				i += end + 3
			}
		}
	}
	return depth
}
