package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrProjectExists = errors.New("project folder already exists")
	ErrInvalidEntry  = errors.New("invalid scaffold entry")
)

func ProjectPath(base string, name ProjectName) string {
	return filepath.Join(base, string(name))
}

// IsFileEntry reports whether a scaffold entry names a file. Anything with a
// period is a file, everything else a directory.
func IsFileEntry(entry string) bool {
	return strings.Contains(entry, ".")
}

// CreateLayout creates the project directory and every entry inside it.
// Nothing is written when path already exists or an entry is invalid.
// Non-nil returned error wraps [ErrProjectExists] or [ErrInvalidEntry], or comes from the filesystem.
func CreateLayout(path string, entries []string, out io.Writer) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrProjectExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check whether %q exists: %w", path, err)
	}

	for _, entry := range entries {
		if entry == "" || !filepath.IsLocal(entry) {
			return fmt.Errorf("%w: %q is not a relative path inside the project", ErrInvalidEntry, entry)
		}
	}

	if err = os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create project folder %q: %w", path, err)
	}

	_, _ = fmt.Fprintf(out, "Created folder: %s\n", path)

	for _, entry := range entries {
		itemPath := filepath.Join(path, entry)

		if !IsFileEntry(entry) {
			if err = os.MkdirAll(itemPath, 0750); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", itemPath, err)
			}

			_, _ = fmt.Fprintf(out, "Created directory: %s\n", itemPath)

			continue
		}

		if err = os.MkdirAll(filepath.Dir(itemPath), 0750); err != nil {
			return fmt.Errorf("failed to create directory for %q: %w", itemPath, err)
		}

		if err = touch(itemPath); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Created file: %s\n", itemPath)
	}

	return nil
}

// touch truncate-creates an empty file.
func touch(path string) error {
	fd, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create empty file %q: %w", path, err)
	}

	defer func() { _ = fd.Close() }()

	return nil
}
