package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Build.OutputDir != "outputfiles" || cfg.Build.ErrorLog != "errors.txt" {
		t.Errorf("unexpected output defaults: %+v", cfg.Build)
	}
	if cfg.Build.Jobs != 1 || cfg.Build.StartLine != 1 {
		t.Errorf("unexpected numeric defaults: %+v", cfg.Build)
	}
	if len(cfg.Build.Extensions) != 1 || cfg.Build.Extensions[0] != ".c" {
		t.Errorf("unexpected extensions: %v", cfg.Build.Extensions)
	}
	if cfg.Path() != "" {
		t.Errorf("default config path expected empty, got=%q", cfg.Path())
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "TOML",
			file: "minic.toml",
			content: `
[build]
input = "src"
output_dir = "out"
jobs = 4
extensions = ["c", ".h"]

[log]
level = "debug"
format = "json"
`,
		},
		{
			name: "YAML",
			file: "minic.yml",
			content: `
build:
  input: src
  output_dir: out
  jobs: 4
  extensions: [c, .h]
log:
  level: debug
  format: json
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)
			cfg, err := Load(p)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Build.Input != "src" || cfg.Build.OutputDir != "out" || cfg.Build.Jobs != 4 {
				t.Errorf("build section wrong: %+v", cfg.Build)
			}
			if cfg.Build.ErrorLog != "errors.txt" {
				t.Errorf("error_log default expected=errors.txt, got=%q", cfg.Build.ErrorLog)
			}
			if !cfg.Build.HasExtension("x/main.c") || !cfg.Build.HasExtension("x/defs.H") || cfg.Build.HasExtension("x/notes.txt") {
				t.Errorf("extension matching wrong for %v", cfg.Build.Extensions)
			}
			level, err := cfg.Log.SlogLevel()
			if err != nil || level != slog.LevelDebug {
				t.Errorf("level expected=DEBUG, got=%v (%v)", level, err)
			}
			if cfg.Path() != p {
				t.Errorf("Path() expected=%q, got=%q", p, cfg.Path())
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
	if _, err := Load(writeFile(t, dir, "minic.ini", "x=1")); err == nil {
		t.Errorf("expected error for unsupported extension")
	}
	if _, err := Load(writeFile(t, dir, "bad.toml", "[build\n")); err == nil {
		t.Errorf("expected parse error")
	}
	if _, err := Load(writeFile(t, dir, "level.yaml", "log:\n  level: loud\n")); err == nil {
		t.Errorf("expected validation error for log level")
	}
	if _, err := Load(writeFile(t, dir, "format.yaml", "log:\n  format: xml\n")); err == nil {
		t.Errorf("expected validation error for log format")
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv(EnvVar, "")
	dir := t.TempDir()

	cfg, err := LoadDefault(dir)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
	if cfg == nil || cfg.Build.OutputDir != "outputfiles" {
		t.Fatalf("expected defaults alongside ErrNotFound, got=%+v", cfg)
	}

	writeFile(t, dir, "minic.yaml", "build:\n  jobs: 2\n")
	writeFile(t, dir, "minic.toml", "[build]\njobs = 3\n")
	cfg, err = LoadDefault(dir)
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if cfg.Build.Jobs != 3 {
		t.Errorf("minic.toml should win, jobs expected=3, got=%d", cfg.Build.Jobs)
	}

	other := writeFile(t, t.TempDir(), "custom.yml", "build:\n  jobs: 7\n")
	t.Setenv(EnvVar, other)
	cfg, err = LoadDefault(dir)
	if err != nil || cfg.Build.Jobs != 7 {
		t.Errorf("env override expected jobs=7, got=%+v (%v)", cfg, err)
	}
}
