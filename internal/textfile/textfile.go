// Package textfile reads and writes documents as plain text files.
//
// Writes hold an exclusive lock on "<path>.lock" and replace the file
// atomically, so a reader never sees a partial document even when a
// script and an editor save the same file.
package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/dshills/lexi/internal/engine/document"
)

// Read loads path into a document.
func Read(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return document.FromString(string(data)), nil
}

// ReadOrNew is Read, except that a missing file yields an empty document.
func ReadOrNew(path string) (*document.Document, error) {
	doc, err := Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return document.New(), nil
	}
	return doc, err
}

// Write saves doc's text to path while holding the file's lock. Missing
// parent directories are created.
func Write(path string, doc *document.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, []byte(doc.Text()))
}

// Saver returns a function writing documents to path, for use as a
// session auto-save hook.
func Saver(path string) func(*document.Document) error {
	return func(doc *document.Document) error {
		return Write(path, doc)
	}
}

// atomicWrite writes data to a temp file in path's directory and renames
// it over path.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lexi-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// renamed; nothing to clean up
	tmp = nil
	return nil
}
