package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minic/internal/compiler"
	"github.com/arnavsurve/minic/internal/compiler/diag"
)

var keepStripped bool

// build: analyze every source file in a directory
var BuildCmd = &cobra.Command{
	Use:   "build [file-or-dir]",
	Short: "Analyze source files and write token, CST and symbol table artifacts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildRun,
}

func init() {
	BuildCmd.Flags().BoolVar(&keepStripped, "keep-stripped", false, "also write the comment-free source into the output directory")
}

func buildRun(cmd *cobra.Command, args []string) error {
	input := cfg.Build.Input
	if len(args) == 1 {
		input = args[0]
	}
	if cmd.Flags().Changed("keep-stripped") {
		cfg.Build.KeepStripped = keepStripped
	}

	files, err := compiler.Discover(input, cfg.Build.HasExtension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %v files found in %s", cfg.Build.Extensions, input)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s → %s\n", titleStyle.Render("↪ building"), input, cfg.Build.OutputDir+"/")

	sum, err := compiler.Batch(cmd.Context(), files, diag.NewLog(cfg.Build.ErrorLog), compiler.BatchOptions{
		Options: compiler.Options{
			OutputDir:    cfg.Build.OutputDir,
			StartLine:    cfg.Build.StartLine,
			KeepStripped: cfg.Build.KeepStripped,
			Logger:       logger,
		},
		Jobs: cfg.Build.Jobs,
	})
	if err != nil {
		return err
	}

	for _, res := range sum.Results {
		name := filepath.Base(res.Path)
		if res.OK() {
			fmt.Fprintf(out, "  %s %s\n", okStyle.Render("✔"), name)
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", failStyle.Render("✘"), name)
		printDiagnostics(out, res.Diagnostics)
	}

	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d passed · %d failed · run %s",
		sum.Passed, sum.Failed, sum.RunID)))
	if sum.Failed > 0 {
		fmt.Fprintln(out, mutedStyle.Render("diagnostics appended to "+cfg.Build.ErrorLog))
		return fmt.Errorf("%d of %d files failed", sum.Failed, len(files))
	}
	return nil
}
