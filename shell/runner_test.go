package shell

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunTrimsTrailingWhitespace(t *testing.T) {
	out, err := NewExec(nil).Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf '  hello\\n\\n\\t'"},
	})

	require.NoError(t, err, "sh should run without error")
	assert.Equal(t, "  hello", out, "only trailing whitespace should be trimmed")
}

func TestExecRunInDir(t *testing.T) {
	dir := t.TempDir()

	out, err := NewExec(nil).Run(context.Background(), Command{Dir: dir, Name: "pwd"})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(out)
	require.NoError(t, err)

	assert.Equal(t, want, got, "command should run inside Command.Dir")
}

func TestExecRunFailure(t *testing.T) {
	_, err := NewExec(nil).Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommand)
	assert.Contains(t, err.Error(), "boom", "stderr should be part of the diagnostic")
	assert.Contains(t, err.Error(), "sh -c", "command line should be part of the diagnostic")
}

func TestExecRunMissingProgram(t *testing.T) {
	_, err := NewExec(nil).Run(context.Background(), Command{Name: "pyinit-definitely-not-a-program"})

	assert.ErrorIs(t, err, ErrCommand)
}

func TestExecRunArgumentsAreNotShellParsed(t *testing.T) {
	out, err := NewExec(nil).Run(context.Background(), Command{
		Name: "echo",
		Args: []string{"demo; rm -rf /tmp/nothing", "$HOME"},
	})

	require.NoError(t, err)
	assert.Equal(t, "demo; rm -rf /tmp/nothing $HOME", out)
}

func TestExecRunLogsCommand(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewExec(log.New(&buf, "", 0)).Run(context.Background(), Command{Name: "true"})
	require.NoError(t, err)

	assert.Equal(t, "running \"true\"\n", buf.String())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "git", Command{Name: "git"}.String())
	assert.Equal(t, "git add -A", Command{Name: "git", Args: []string{"add", "-A"}}.String())
}
