package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keith-taylor/pyinit/shell"
	"github.com/keith-taylor/pyinit/shell/shelltest"
)

// isolateGit makes `git commit` work without touching the user's git config.
func isolateGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	global := filepath.Join(t.TempDir(), "gitconfig")
	require.NoError(t, os.WriteFile(global, nil, 0600))

	t.Setenv("GIT_CONFIG_GLOBAL", global)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

func TestBootstrapCommands(t *testing.T) {
	rec := shelltest.NewRecorder()

	err := New(rec, "/tmp/demo").Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git init -b main",
		"git add -A",
		"git commit -m First commit, adding file structure.",
	}, rec.Lines())

	assert.Equal(t, []string{"commit", "-m", FirstCommitMessage}, rec.Commands[2].Args, "the message must stay a single argument")

	for _, c := range rec.Commands {
		assert.Equal(t, "/tmp/demo", c.Dir)
	}
}

func TestBootstrapStopsAtFirstFailure(t *testing.T) {
	rec := shelltest.NewRecorder().Fail("git add -A", "fatal: not a git repository")

	err := New(rec, "/tmp/demo").Bootstrap(context.Background())

	assert.ErrorIs(t, err, shell.ErrCommand)
	assert.Equal(t, []string{"git init -b main", "git add -A"}, rec.Lines())
}

func TestBootstrapWithGit(t *testing.T) {
	isolateGit(t)

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.py"), nil, 0600))

	err := New(shell.NewExec(nil), dir).Bootstrap(context.Background())
	require.NoError(t, err, "git should initialize and commit")

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", head.Name().String())

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	require.NoError(t, err)

	var commits []*object.Commit

	require.NoError(t, iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)

		return nil
	}))

	require.Len(t, commits, 1, "there should be exactly one commit")
	assert.Equal(t, FirstCommitMessage, commits[0].Message[:len(FirstCommitMessage)])

	tree, err := commits[0].Tree()
	require.NoError(t, err)

	_, err = tree.File("src/main.py")
	assert.NoError(t, err, "empty files should be committed")

	hash, err := HeadCommit(dir)
	require.NoError(t, err)
	assert.Equal(t, head.Hash().String()[:7], hash)
}

func TestHeadCommitWithoutRepository(t *testing.T) {
	_, err := HeadCommit(t.TempDir())

	assert.Error(t, err)
}

func TestRemoteHint(t *testing.T) {
	assert.Equal(t, []string{
		"git remote add origin git@github.com:keith-taylor/demo.git",
		"git push -u origin main",
	}, RemoteHint("keith-taylor", "demo"))

	assert.Equal(t, "git remote add origin git@github.com:<account>/demo.git", RemoteHint("", "demo")[0])
}
