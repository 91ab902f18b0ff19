package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minic/internal/config"
)

var (
	configPath string
	outDir     string
	errorLog   string
	jobs       int
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minic",
	Short: "minic: front end for a small C-like language",
	Long: `minic strips comments, tokenizes and parses C-like source files,
building a concrete syntax tree and a scoped symbol table for each.

Commands:
  init   Scaffold a new minic project
  build  Analyze every source file and write token, CST and symbol table files
  check  Analyze one file and print its tokens, CST or symbol table
  logs   Show or clear the batch error log
  repl   Parse declarations and statements interactively
`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default: minic.toml, minic.yml or minic.yaml in the working directory)")
	flags.StringVarP(&outDir, "out", "o", "", "output directory for build artifacts")
	flags.StringVar(&errorLog, "error-log", "", "path of the batch error log")
	flags.IntVarP(&jobs, "jobs", "j", 0, "number of files analyzed in parallel")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log parser traces at debug level")

	rootCmd.AddCommand(InitCmd, BuildCmd, CheckCmd, LogsCmd, ReplCmd)
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault(".")
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Build.OutputDir = outDir
	}
	if flags.Changed("error-log") {
		cfg.Build.ErrorLog = errorLog
	}
	if flags.Changed("jobs") {
		if jobs <= 0 {
			return fmt.Errorf("--jobs must be positive, got %d", jobs)
		}
		cfg.Build.Jobs = jobs
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err = newLogger(cfg.Log)
	if err != nil {
		return err
	}
	if cfg.Path() != "" {
		logger.Debug("loaded config", "path", cfg.Path())
	}
	return nil
}

func newLogger(lc config.LogConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
