package vault

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"minute/internal/logging"
)

// Writer persists files inside one vault root. Every write path is resolved
// and verified to be a descendant of the root before anything touches disk,
// and writes go through a same-directory temp file plus rename so a partial
// file is never visible under its final name.
type Writer struct {
	root string
	log  *slog.Logger
}

// NewWriter opens a writer scoped to root, creating the directory if needed.
func NewWriter(root string) (*Writer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}
	return &Writer{root: abs, log: logging.New("vault")}, nil
}

// Root returns the absolute vault root.
func (w *Writer) Root() string { return w.root }

// Reserve finalizes collision-free names for one run. If the note path is
// already taken, " (2)", " (3)", ... is appended to all three stems until
// the note name is free, so inter-file links stay correct. Call once per
// run, before any writes.
func (w *Writer) Reserve(p Paths) (Paths, error) {
	taken, err := w.exists(p.Note)
	if err != nil {
		return Paths{}, err
	}
	if !taken {
		return p, nil
	}
	for n := 2; ; n++ {
		cand := p.withSuffix(n)
		taken, err := w.exists(cand.Note)
		if err != nil {
			return Paths{}, err
		}
		if !taken {
			w.log.Debug("note name collision resolved", "note", cand.Note, "suffix", n)
			return cand, nil
		}
	}
}

// WriteAtomic writes data to the vault-relative path rel. The parent
// directory is created as needed.
func (w *Writer) WriteAtomic(rel string, data []byte) error {
	return w.writeAtomic(rel, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// WriteAtomicFrom streams r to the vault-relative path rel atomically.
// Used for the audio copy, which can be large.
func (w *Writer) WriteAtomicFrom(rel string, r io.Reader) error {
	return w.writeAtomic(rel, func(f *os.File) error {
		_, err := io.Copy(f, r)
		return err
	})
}

// Exists reports whether the vault-relative path rel exists.
func (w *Writer) Exists(rel string) bool {
	ok, err := w.exists(rel)
	return err == nil && ok
}

func (w *Writer) exists(rel string) (bool, error) {
	abs, err := w.abs(rel)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (w *Writer) writeAtomic(rel string, fill func(*os.File) error) error {
	abs, err := w.abs(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".minute-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// abs resolves rel against the root and rejects anything that escapes it.
// This guards against a malformed path contract, not a hostile caller.
func (w *Writer) abs(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty vault path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("vault path %q must be relative", rel)
	}
	abs := filepath.Clean(filepath.Join(w.root, filepath.FromSlash(rel)))
	if abs != w.root && !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("vault path %q escapes the vault root", rel)
	}
	return abs, nil
}
