package diag

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// Log is the batch-wide error log. It only ever appends, and serializes
// writers so that files processed in parallel never interleave lines.
type Log struct {
	mu   sync.Mutex
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string { return l.path }

// Append writes every diagnostic in h as one contiguous block.
func (l *Log) Append(h *Handler) error {
	if h == nil || !h.HasErrors() {
		return nil
	}

	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log %s: %w", l.path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("append error log %s: %w", l.path, err)
	}
	return f.Close()
}

// Truncate empties the log. Batch runs never call it; only an explicit
// operator request does.
func (l *Log) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
