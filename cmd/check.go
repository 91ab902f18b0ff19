package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minic/internal/compiler"
	"github.com/arnavsurve/minic/internal/compiler/diag"
)

var emit string

// check: analyze a single file without writing artifacts
var CheckCmd = &cobra.Command{
	Use:   "check <source>",
	Short: "Analyze one source file and print the requested output",
	Args:  cobra.ExactArgs(1),
	RunE:  checkRun,
}

func init() {
	CheckCmd.Flags().StringVarP(&emit, "emit", "e", "", "what to print on success: tokens, cst, symbols or all")
}

func checkRun(cmd *cobra.Command, args []string) error {
	switch emit {
	case "", "tokens", "cst", "symbols", "all":
	default:
		return fmt.Errorf("--emit must be tokens, cst, symbols or all, got %q", emit)
	}

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	h := diag.NewHandler()
	res, err := compiler.Analyze(name, string(src), cfg.Build.StartLine, h, logger)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", failStyle.Render("✘"), name)
		printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
		return err
	}

	out := cmd.OutOrStdout()
	if emit == "" {
		fmt.Fprintf(out, "%s %s %s\n", okStyle.Render("✔"), name,
			mutedStyle.Render(fmt.Sprintf("(%d tokens, %d nodes, %d symbols)",
				len(res.Tokens), res.Tree.Count(), len(res.Table.Entries()))))
		return nil
	}
	return emitResult(out, res, emit)
}

func emitResult(w io.Writer, res *compiler.Result, what string) error {
	if what == "tokens" || what == "all" {
		if err := compiler.WriteTokens(w, res.Tokens); err != nil {
			return err
		}
	}
	if what == "cst" || what == "all" {
		if err := compiler.WriteCST(w, res.Name, res.Tree); err != nil {
			return err
		}
	}
	if what == "symbols" || what == "all" {
		if _, err := res.Table.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
