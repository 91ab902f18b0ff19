package cmd

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed templates
var templates embed.FS

var force bool

// init: scaffold a new project
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new minic project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "↪ scaffolding minic project in %q ...\n", dir)

		created, err := scaffold(dir, force)
		if err != nil {
			return err
		}
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", okStyle.Render("+"), p)
		}
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
}

// scaffold copies the embedded templates into dir. A template named
// "gitignore" is written as ".gitignore". Existing files are left alone
// unless force is set.
func scaffold(dir string, force bool) ([]string, error) {
	var created []string
	err := fs.WalkDir(templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimPrefix(path, "templates/")
		if rel == "gitignore" {
			rel = ".gitignore"
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))

		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}

		data, err := templates.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		created = append(created, target)
		return nil
	})
	return created, err
}
