// Package pyenv drives the pyenv version manager: listing installed
// interpreters, pinning a directory to a version and creating virtualenvs.
package pyenv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/keith-taylor/pyinit/shell"
)

type (
	Client struct {
		runner shell.Runner
		bin    string
	}

	// Chooser settles on an installed version when the requested one is missing.
	// Implementations return an error wrapping [ErrAborted] when the user gives up.
	Chooser interface {
		Choose(installed []string, requested, fallback string) (string, error)
	}
)

var (
	ErrDefaultMissing = errors.New("default Python version is not installed")
	ErrAborted        = errors.New("aborted")

	// Bare interpreter versions only. Named virtualenvs and non-CPython builds
	// share the same listing and must not match.
	versionRegex = regexp.MustCompile(`^\s*([0-9]+\.[0-9]+(\.[0-9]+)?)\s*$`)
)

func New(runner shell.Runner) *Client {
	return &Client{runner: runner, bin: "pyenv"}
}

// FilterVersions keeps the lines of `pyenv versions --bare` that are plain
// major.minor[.patch] versions, trimmed, de-duplicated and sorted ascending.
func FilterVersions(lines []string) []string {
	versions := make([]string, 0, len(lines))

	for _, line := range lines {
		m := versionRegex.FindStringSubmatch(line)
		if m == nil || slices.Contains(versions, m[1]) {
			continue
		}

		versions = append(versions, m[1])
	}

	slices.SortStableFunc(versions, func(a, b string) int {
		return semver.Compare("v"+a, "v"+b)
	})

	return versions
}

// EnvName is the name of the virtualenv created for a project folder.
func EnvName(folder, suffix string) string {
	return folder + suffix
}

// Resolve returns the version to use for a new project.
// Non-nil returned error wraps [ErrDefaultMissing] or [ErrAborted], or is the chooser's error.
func Resolve(installed []string, requested, fallback string, chooser Chooser) (string, error) {
	if !slices.Contains(installed, fallback) {
		return "", fmt.Errorf("%w: Python %s", ErrDefaultMissing, fallback)
	}

	if requested == "" {
		requested = fallback
	}

	if slices.Contains(installed, requested) {
		return requested, nil
	}

	chosen, err := chooser.Choose(installed, requested, fallback)
	if err != nil {
		return "", err
	}

	if !slices.Contains(installed, chosen) {
		return "", fmt.Errorf("%w: %q is not an installed Python version", ErrAborted, chosen)
	}

	return chosen, nil
}

// Installed lists the interpreter versions known to pyenv.
// Non-nil returned error wraps [shell.ErrCommand].
func (c *Client) Installed(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, shell.Command{Name: c.bin, Args: []string{"versions", "--bare"}})
	if err != nil {
		return nil, err
	}

	return FilterVersions(strings.Split(out, "\n")), nil
}

// SetLocal writes the .python-version pin of dir. name is either a version or a virtualenv.
// Non-nil returned error wraps [shell.ErrCommand].
func (c *Client) SetLocal(ctx context.Context, dir, name string) error {
	_, err := c.runner.Run(ctx, shell.Command{Dir: dir, Name: c.bin, Args: []string{"local", name}})

	return err
}

// Non-nil returned error wraps [shell.ErrCommand].
func (c *Client) CreateVirtualenv(ctx context.Context, dir, version, envName string) error {
	_, err := c.runner.Run(ctx, shell.Command{Dir: dir, Name: c.bin, Args: []string{"virtualenv", version, envName}})

	return err
}
