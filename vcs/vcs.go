// Package vcs initializes the git repository of a new project. Writes go
// through the git CLI; reads use go-git.
package vcs

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/keith-taylor/pyinit/shell"
)

type Repo struct {
	runner shell.Runner
	dir    string
	bin    string
}

const (
	DefaultBranch      = "main"
	FirstCommitMessage = "First commit, adding file structure."

	shortHashLen = 7
)

func New(runner shell.Runner, dir string) *Repo {
	return &Repo{runner: runner, dir: dir, bin: "git"}
}

func (r *Repo) git(ctx context.Context, args ...string) error {
	_, err := r.runner.Run(ctx, shell.Command{Dir: r.dir, Name: r.bin, Args: args})

	return err
}

// Bootstrap initializes the repository on [DefaultBranch], stages everything
// and records the first commit. No remote is configured.
// Non-nil returned error wraps [shell.ErrCommand].
func (r *Repo) Bootstrap(ctx context.Context) error {
	if err := r.git(ctx, "init", "-b", DefaultBranch); err != nil {
		return err
	}

	if err := r.git(ctx, "add", "-A"); err != nil {
		return err
	}

	return r.git(ctx, "commit", "-m", FirstCommitMessage)
}

// HeadCommit returns the abbreviated hash HEAD points to.
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %q: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD of %q: %w", dir, err)
	}

	return head.Hash().String()[:shortHashLen], nil
}

// RemoteHint returns the commands that link the repository to GitHub and push it.
func RemoteHint(account, name string) []string {
	if account == "" {
		account = "<account>"
	}

	return []string{
		fmt.Sprintf("git remote add origin git@github.com:%s/%s.git", account, name),
		"git push -u origin " + DefaultBranch,
	}
}
