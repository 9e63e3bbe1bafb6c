// Package shelltest provides a scripted [shell.Runner] for tests.
package shelltest

import (
	"context"
	"fmt"

	"github.com/keith-taylor/pyinit/shell"
)

type (
	Response struct {
		Output string
		Err    error
	}

	// Recorder records every command it is asked to run. Responses are keyed by
	// the command line as rendered by [shell.Command.String]; unknown commands
	// succeed with empty output.
	Recorder struct {
		Responses map[string]Response
		Commands  []shell.Command
	}
)

func NewRecorder() *Recorder {
	return &Recorder{Responses: make(map[string]Response)}
}

func (r *Recorder) On(line, output string) *Recorder {
	r.Responses[line] = Response{Output: output}

	return r
}

func (r *Recorder) Fail(line, stderr string) *Recorder {
	r.Responses[line] = Response{Err: fmt.Errorf("%w: %s failed: %s", shell.ErrCommand, line, stderr)}

	return r
}

func (r *Recorder) Run(_ context.Context, c shell.Command) (string, error) {
	r.Commands = append(r.Commands, c)

	resp := r.Responses[c.String()]

	return resp.Output, resp.Err
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	lines := make([]string, len(r.Commands))

	for i := range r.Commands {
		lines[i] = r.Commands[i].String()
	}

	return lines
}
