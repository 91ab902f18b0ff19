package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minic/internal/compiler/diag"
)

var (
	tailLines int
	clearLog  bool
)

// logs: show the batch error log
var LogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show or clear the batch error log",
	Args:  cobra.NoArgs,
	RunE:  logsRun,
}

func init() {
	LogsCmd.Flags().IntVarP(&tailLines, "tail", "n", 0, "show only the last N lines")
	LogsCmd.Flags().BoolVar(&clearLog, "clear", false, "truncate the error log")
}

func logsRun(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	log := diag.NewLog(cfg.Build.ErrorLog)

	if clearLog {
		if err := log.Truncate(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s cleared %s\n", okStyle.Render("✔"), log.Path())
		return nil
	}

	data, err := os.ReadFile(log.Path())
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		fmt.Fprintln(out, mutedStyle.Render("no errors logged in "+log.Path()))
		return nil
	}
	if err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if tailLines > 0 && tailLines < len(lines) {
		lines = lines[len(lines)-tailLines:]
	}
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}
