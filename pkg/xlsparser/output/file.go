package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile creates the parent directories of path and writes it through fn.
// Content goes to a temporary file in the same directory that is renamed over
// path only when fn and the close succeed; on any failure it is removed.
func WriteFile(path string, fn func(io.Writer) error) error {
	var b Batch
	defer b.Discard()
	if err := b.Stage(path, fn); err != nil {
		return err
	}
	return b.Commit()
}

type stagedFile struct {
	path string
	tmp  string
}

// Batch writes a set of files to temporaries first and renames them into
// place only once every one of them was written. The zero value is ready to use.
type Batch struct {
	files []stagedFile
}

// Stage writes the content of path to a temporary file beside it.
func (b *Batch) Stage(path string, fn func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	b.files = append(b.files, stagedFile{path: path, tmp: tmp.Name()})
	return nil
}

// Commit renames every staged file over its target. If a rename fails, the
// temporaries not yet renamed are removed.
func (b *Batch) Commit() error {
	for i, f := range b.files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			b.files = b.files[i:]
			b.Discard()
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	b.files = nil
	return nil
}

// Discard removes every staged temporary. It is a no-op after Commit.
func (b *Batch) Discard() {
	for _, f := range b.files {
		os.Remove(f.tmp)
	}
	b.files = nil
}
