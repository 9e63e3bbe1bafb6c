package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

type (
	WriteHook func(io.Writer) error

	// SeedData is what the embedded starter templates can refer to.
	SeedData struct {
		Name          string
		Account       string
		PythonVersion string
		EnvName       string
	}
)

var (
	//go:embed "all:.python/*"
	pythonFS embed.FS

	pythonPrefix = ".python"

	tmpltExt = ".tmplt"
)

// CopyTemplates copies the tree under src into dest. Directories are merged,
// regular files overwrite and keep their permission bits and modification
// time, symlinks below src are recreated. src itself may be a symlink to the
// templates directory. A missing src is not an error and reports false.
func CopyTemplates(src, dest string, out io.Writer) (copied bool, err error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(out, "Default templates folder not found")

		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to access templates folder %q: %w", src, err)
	} else if !info.IsDir() {
		return false, fmt.Errorf("templates path %q is not a directory", src)
	}

	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return false, fmt.Errorf("failed to resolve templates folder %q: %w", src, err)
	}

	err = filepath.WalkDir(root, func(srcPath string, d fs.DirEntry, err1 error) error {
		if err1 != nil {
			return fmt.Errorf("failed to access path at %q: %w", srcPath, err1)
		}

		rel, err1 := filepath.Rel(root, srcPath)
		if err1 != nil {
			return fmt.Errorf("erroneous path %q in templates folder: %w", srcPath, err1)
		}

		if rel == "." {
			return nil
		}

		target := filepath.Join(dest, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(srcPath, target)
		case d.IsDir():
			dirInfo, err2 := d.Info()
			if err2 != nil {
				return fmt.Errorf("failed to stat directory %q: %w", srcPath, err2)
			}

			if err2 = os.MkdirAll(target, dirInfo.Mode().Perm()|0700); err2 != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err2)
			}

			return nil
		case d.Type().IsRegular():
			return copyFile(srcPath, target)
		default:
			return nil
		}
	})
	if err != nil {
		return false, err
	}

	_, _ = fmt.Fprintln(out, "Copied default templates")

	return true, nil
}

func copyFile(src, dest string) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat template file %q: %w", src, err)
	}

	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("failed to open template file %q: %w", src, err)
	}

	defer func() { _ = in.Close() }()

	err = WriteToFile(filepath.Dir(dest), filepath.Base(dest), func(fd io.Writer) error {
		_, err1 := io.Copy(fd, in)

		return err1
	})
	if err != nil {
		return err
	}

	if err = os.Chmod(dest, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to copy permissions to %q: %w", dest, err)
	}

	if err = os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to copy modification time to %q: %w", dest, err)
	}

	return nil
}

func copySymlink(src, dest string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("failed to read symlink %q: %w", src, err)
	}

	if _, err = os.Lstat(dest); err == nil {
		if err = os.Remove(dest); err != nil {
			return fmt.Errorf("failed to replace %q with a symlink: %w", dest, err)
		}
	}

	if err = os.Symlink(link, dest); err != nil {
		return fmt.Errorf("failed to create symlink %q: %w", dest, err)
	}

	return nil
}

// WriteToFile truncate-creates dir/name and fills it through hook.
func WriteToFile(dir, name string, hook WriteHook) (err error) {
	fd, err := os.Create(filepath.Clean(filepath.Join(dir, name)))
	if err != nil {
		return fmt.Errorf("failed to create %q file: %w", name, err)
	}

	err = hook(fd)
	if err != nil {
		_ = fd.Close()

		return fmt.Errorf("failed to write to %q: %w", name, err)
	}

	err = fd.Close()
	if err != nil {
		return fmt.Errorf("failed to close %q after writing: %w", name, err)
	}

	return nil
}

// SeedDefaults renders the embedded README.md and .gitignore starters into
// dest. Files that already exist are left alone. It returns the names written.
func SeedDefaults(dest string, data SeedData, out io.Writer) ([]string, error) {
	return writeFiles(dest, pythonFS, pythonPrefix, data, out)
}

func writeFiles(dest string, srcFS fs.FS, srcPrefix string, data any, out io.Writer) ([]string, error) {
	var written []string

	tmplt := template.New("entry").Delims("{%", "%}")

	err := fs.WalkDir(srcFS, srcPrefix, func(srcFile string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to open %q in data files tree: %w", srcFile, err)
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(srcFile, srcPrefix), "/")
		if rel == "" {
			return nil
		}

		destItem := filepath.Join(dest, filepath.FromSlash(strings.TrimSuffix(rel, tmpltExt)))

		if d.IsDir() {
			if err = os.MkdirAll(destItem, 0750); err != nil {
				return fmt.Errorf("failed to create directory %q in destination folder: %w", rel, err)
			}

			return nil
		}

		if _, err = os.Lstat(destItem); err == nil {
			_, _ = fmt.Fprintf(out, "Kept existing file: %s\n", destItem)

			return nil
		}

		contents, err := fs.ReadFile(srcFS, srcFile)
		if err != nil {
			return fmt.Errorf("failed to read data file %q: %w", srcFile, err)
		}

		t, err := tmplt.New(path.Base(srcFile)).Parse(string(contents))
		if err != nil {
			return fmt.Errorf("failed to parse data file %q as template: %w", srcFile, err)
		}

		err = WriteToFile(filepath.Dir(destItem), filepath.Base(destItem), func(fd io.Writer) error {
			return t.Execute(fd, data)
		})
		if err != nil {
			return fmt.Errorf("failed to create new file from template %q: %w", srcFile, err)
		}

		written = append(written, filepath.ToSlash(strings.TrimSuffix(rel, tmpltExt)))

		_, _ = fmt.Fprintf(out, "Seeded file: %s\n", destItem)

		return nil
	})

	return written, err
}
