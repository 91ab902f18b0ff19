package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arnavsurve/minic/internal/compiler/comments"
	"github.com/arnavsurve/minic/internal/compiler/cst"
	"github.com/arnavsurve/minic/internal/compiler/diag"
	"github.com/arnavsurve/minic/internal/compiler/lexer"
	"github.com/arnavsurve/minic/internal/compiler/parser"
	"github.com/arnavsurve/minic/internal/compiler/scope"
	"github.com/arnavsurve/minic/internal/compiler/token"
)

const emptyTokenList = "Syntax Error: Token list generation failed. See terminal or error log."

// Options configures a single-file compile.
type Options struct {
	OutputDir    string
	StartLine    int
	KeepStripped bool // also write the comment-free source to OutputDir
	Logger       *slog.Logger
}

func (o Options) logger() *slog.Logger {
	return orDiscard(o.Logger)
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result is everything the pipeline produced for one source file. Tree and
// Table are nil unless the whole pipeline succeeded.
type Result struct {
	Path        string
	Name        string
	Stripped    string
	Tokens      []token.Token
	Tree        *cst.Node
	Table       *scope.Table
	Diagnostics []diag.Diagnostic
	Artifacts   []string
}

func (r *Result) OK() bool { return r.Tree != nil && len(r.Diagnostics) == 0 }

// Analyze runs comment stripping, lexing and parsing over src in memory.
// Diagnostics go to h; on failure the returned error wraps diag.ErrAborted.
func Analyze(name, src string, startLine int, h *diag.Handler, logger *slog.Logger) (*Result, error) {
	logger = orDiscard(logger)
	res := &Result{Name: name}
	defer func() { res.Diagnostics = h.Diagnostics() }()

	stripped, err := comments.Strip(src, h)
	if err != nil {
		return res, err
	}
	res.Stripped = stripped

	toks, err := lexer.Tokenize(stripped, startLine, h)
	if err != nil {
		return res, err
	}
	if len(toks) == 0 {
		h.Add(0, diag.Syntactic, emptyTokenList)
		return res, h.Aborted("tokenize")
	}
	res.Tokens = toks

	p := parser.New(token.NewStream(toks), h, parser.WithLogger(logger.With("file", name)))
	tree := p.ParseProgram()
	if tree == nil || h.HasErrors() {
		return res, h.Aborted("parse")
	}
	res.Tree = tree
	res.Table = p.Table()
	return res, nil
}

// Compile analyzes the file at path. On success it writes the token, CST
// and symbol table artifacts into opts.OutputDir; on any diagnostic it
// removes whatever artifacts an earlier run left for the same file.
func Compile(path string, h *diag.Handler, opts Options) (*Result, error) {
	name := filepath.Base(path)
	logger := opts.logger()
	paths := artifactPaths(opts.OutputDir, name)
	if samePath(paths.stripped, path) {
		// Output dir is the source dir; never overwrite or delete the input.
		paths.stripped = ""
	}

	src, err := os.ReadFile(path)
	if err != nil {
		h.Addf(0, diag.IO, "Unable to read source file %s: %v", name, err)
		res := &Result{Path: path, Name: name, Diagnostics: h.Diagnostics()}
		return res, errors.Join(h.Aborted("read"), paths.remove())
	}

	res, err := Analyze(name, string(src), opts.StartLine, h, logger)
	res.Path = path
	if err != nil {
		if rmErr := paths.remove(); rmErr != nil {
			return res, errors.Join(err, rmErr)
		}
		return res, err
	}

	written, err := writeArtifacts(paths, res, opts.KeepStripped)
	if err != nil {
		return res, err
	}
	res.Artifacts = written
	return res, nil
}

// BatchOptions configures a multi-file run.
type BatchOptions struct {
	Options
	Jobs int
}

// Summary describes one batch run.
type Summary struct {
	RunID   string
	Results []*Result
	Passed  int
	Failed  int
}

// Batch compiles paths with up to opts.Jobs files in flight. A file that
// fails analysis is recorded in log and counted; it does not stop the
// batch. Only I/O errors writing artifacts or the log abort the run.
func Batch(ctx context.Context, paths []string, log *diag.Log, opts BatchOptions) (*Summary, error) {
	sum := &Summary{
		RunID:   uuid.New().String(),
		Results: make([]*Result, len(paths)),
	}
	logger := opts.logger().With("run_id", sum.RunID)
	opts.Logger = logger

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			h := diag.NewHandler()
			res, err := Compile(path, h, opts.Options)
			sum.Results[i] = res

			failed := errors.Is(err, diag.ErrAborted)
			if err != nil && !failed {
				return fmt.Errorf("%s: %w", path, err)
			}
			if failed {
				if logErr := log.Append(h); logErr != nil {
					return logErr
				}
			}

			status := "ok"
			mu.Lock()
			if failed {
				sum.Failed++
				status = "failed"
			} else {
				sum.Passed++
			}
			mu.Unlock()

			logger.Info("compiled",
				"file", res.Name,
				"status", status,
				"tokens", len(res.Tokens),
				"diagnostics", len(res.Diagnostics),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	logger.Info("batch complete", "files", len(paths), "passed", sum.Passed, "failed", sum.Failed)
	return sum, nil
}

// Discover lists the source files under input in name order. A file path
// is returned as is; a directory is scanned one level deep for names
// accepted by match.
func Discover(input string, match func(string) bool) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && match(e.Name()) {
			files = append(files, filepath.Join(input, e.Name()))
		}
	}
	return files, nil
}

// --- Artifacts ---

type artifacts struct {
	stripped string
	tokens   string
	cst      string
	symbols  string
}

type artifactFile struct {
	path string
	data []byte
}

func artifactPaths(dir, name string) artifacts {
	return artifacts{
		stripped: filepath.Join(dir, name),
		tokens:   filepath.Join(dir, "tokens_"+name),
		cst:      filepath.Join(dir, "cst_"+name),
		symbols:  filepath.Join(dir, "symboltable_"+name),
	}
}

func (a artifacts) all() []string {
	if a.stripped == "" {
		return []string{a.tokens, a.cst, a.symbols}
	}
	return []string{a.stripped, a.tokens, a.cst, a.symbols}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func (a artifacts) remove() error {
	var errs []error
	for _, p := range a.all() {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeArtifacts renders every artifact before touching the disk, so a
// render failure never leaves a partial set behind.
func writeArtifacts(paths artifacts, res *Result, keepStripped bool) ([]string, error) {
	var toks, tree, table bytes.Buffer
	if err := WriteTokens(&toks, res.Tokens); err != nil {
		return nil, err
	}
	if err := WriteCST(&tree, res.Name, res.Tree); err != nil {
		return nil, err
	}
	if _, err := res.Table.WriteTo(&table); err != nil {
		return nil, err
	}

	files := []artifactFile{
		{paths.tokens, toks.Bytes()},
		{paths.cst, tree.Bytes()},
		{paths.symbols, table.Bytes()},
	}
	if keepStripped && paths.stripped != "" {
		files = append(files, artifactFile{paths.stripped, []byte(res.Stripped)})
	}

	dir := filepath.Dir(paths.tokens)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return nil, errors.Join(fmt.Errorf("write %s: %w", f.path, err), paths.remove())
		}
		written = append(written, f.path)
	}
	if !keepStripped && paths.stripped != "" {
		if err := os.Remove(paths.stripped); err != nil && !os.IsNotExist(err) {
			return written, err
		}
	}
	return written, nil
}

// WriteTokens writes the token artifact: a header, then a type/lexeme
// pair per token.
func WriteTokens(w io.Writer, toks []token.Token) error {
	if _, err := io.WriteString(w, "Token list:\n\n"); err != nil {
		return err
	}
	for _, t := range toks {
		if _, err := fmt.Fprintf(w, "Token type: %s\nToken: %s\n\n", t.Type, t.Literal); err != nil {
			return err
		}
	}
	return nil
}

// WriteCST writes the CST artifact for the named source file.
func WriteCST(w io.Writer, name string, tree *cst.Node) error {
	if _, err := fmt.Fprintf(w, "CST for file: %s\n", name); err != nil {
		return err
	}
	return tree.Dump(w)
}
