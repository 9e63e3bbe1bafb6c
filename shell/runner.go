// Package shell runs external programs as explicit argument vectors.
// Nothing here goes through /bin/sh, so folder names and versions are never
// re-parsed by a shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode"
)

type (
	Command struct {
		Dir  string
		Name string
		Args []string
	}

	Runner interface {
		Run(context.Context, Command) (string, error)
	}

	Logger interface {
		Printf(string, ...any)
	}

	Exec struct {
		logger Logger
	}
)

var ErrCommand = errors.New("external command failure")

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// NewExec returns a Runner backed by os/exec. A nil logger disables tracing.
func NewExec(logger Logger) *Exec {
	return &Exec{logger: logger}
}

// Run executes c and returns its standard output with trailing whitespace trimmed.
// Non-nil returned error wraps [ErrCommand].
func (e *Exec) Run(ctx context.Context, c Command) (string, error) {
	if e.logger != nil {
		if c.Dir != "" {
			e.logger.Printf("running %q in %s", c.String(), c.Dir)
		} else {
			e.logger.Printf("running %q", c.String())
		}
	}

	// #nosec G204 -- argv is built by this program, never passed to a shell.
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		return "", fmt.Errorf("%w: %s failed: %s", ErrCommand, c.String(), msg)
	}

	return strings.TrimRightFunc(stdout.String(), unicode.IsSpace), nil
}

