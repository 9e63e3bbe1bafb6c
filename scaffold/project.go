// Package scaffold creates a new Python project: the folder layout, optional
// template files, a git repository with a first commit, and a pyenv
// virtualenv pinned to the project directory.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"regexp"

	"github.com/alecthomas/kong"

	"github.com/keith-taylor/pyinit/config"
	"github.com/keith-taylor/pyinit/prompt"
	"github.com/keith-taylor/pyinit/pyenv"
	"github.com/keith-taylor/pyinit/shell"
	"github.com/keith-taylor/pyinit/terminal"
	"github.com/keith-taylor/pyinit/tui"
	"github.com/keith-taylor/pyinit/vcs"
)

type (
	ProjectName string

	PythonProjectCmd struct {
		cfg            config.Config
		term           *terminal.Console
		runner         shell.Runner
		chooser        pyenv.Chooser
		FolderName     ProjectName      `arg:"" required:"" name:"folder-name" help:"Name of the project folder and virtual environment."`
		Pyv            string           `name:"pyv" help:"Python version to use. Defaults to the configured default version."`
		ConfigPath     string           `name:"config" type:"path" help:"Configuration file (.toml, .yaml or .yml)."`
		BaseDir        string           `name:"base-dir" env:"PYINIT_BASE_DIR" help:"Folder under which projects are created."`
		Account        string           `name:"account" env:"PYINIT_ACCOUNT" help:"GitHub account used in the remote linking commands."`
		DefaultVersion string           `name:"default-version" env:"PYINIT_DEFAULT_VERSION" help:"Default Python version, must be installed in pyenv."`
		Suffix         string           `name:"suffix" env:"PYINIT_ENV_SUFFIX" help:"Appended to the folder name to form the virtualenv name."`
		TemplatesDir   string           `name:"templates-dir" env:"PYINIT_TEMPLATES_DIR" help:"Folder whose contents are copied into every new project."`
		SeedDefaults   bool             `name:"seed-defaults" help:"Write a starter README.md and .gitignore when there is no templates folder."`
		TUI            bool             `name:"tui" help:"Use a full-screen picker when the requested Python version is missing."`
		Verbose        bool             `name:"verbose" short:"v" help:"Log external commands and the effective configuration."`
		Version        kong.VersionFlag `name:"version" help:"Show version information and quit."`
	}
)

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func (n *ProjectName) UnmarshalText(text []byte) error {
	if !nameRegex.Match(text) {
		return fmt.Errorf(`%q is not a valid folder name, it must match %s`, string(text), nameRegex)
	}

	*n = ProjectName(text)

	return nil
}

func (n ProjectName) String() string {
	return string(n)
}

// setup loads the configuration and wires the console, command runner and
// version chooser. It runs after parsing so that configuration errors are
// reported without the usage block.
func (c *PythonProjectCmd) setup() (err error) {
	c.cfg, err = config.Load(c.ConfigPath)
	if err != nil {
		return err
	}

	c.applyOverrides()

	if err = c.cfg.Finalize(); err != nil {
		return err
	}

	logger := log.New(os.Stderr, "pyinit: ", 0)

	c.term = terminal.New(os.Stdin, os.Stdout, logger)

	if c.Verbose {
		c.runner = shell.NewExec(logger)

		c.cfg.Dump(os.Stderr)
	} else {
		c.runner = shell.NewExec(nil)
	}

	c.chooser = prompt.NewChooser(c.term)

	if c.TUI {
		c.chooser = tui.NewChooser(os.Stdin, os.Stdout, c.chooser)
	}

	return nil
}

func (c *PythonProjectCmd) applyOverrides() {
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&c.cfg.BaseDir, c.BaseDir},
		{&c.cfg.Account, c.Account},
		{&c.cfg.DefaultVersion, c.DefaultVersion},
		{&c.cfg.EnvSuffix, c.Suffix},
		{&c.cfg.TemplatesDir, c.TemplatesDir},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	if c.SeedDefaults {
		c.cfg.SeedDefaults = true
	}
}

func (c *PythonProjectCmd) Run() error {
	if err := c.setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx)
}

// Every step depends on the previous one, so the first failure is returned
// as is and whatever was already created stays on disk.
func (c *PythonProjectCmd) run(ctx context.Context) error {
	versions := pyenv.New(c.runner)

	installed, err := versions.Installed(ctx)
	if err != nil {
		return err
	}

	version, err := pyenv.Resolve(installed, c.Pyv, c.cfg.DefaultVersion, c.chooser)
	if errors.Is(err, pyenv.ErrDefaultMissing) {
		prompt.DefaultMissing(c.term, c.cfg.DefaultVersion, installed)

		return err
	} else if err != nil {
		return err
	}

	projectPath := ProjectPath(c.cfg.BaseDir, c.FolderName)

	err = CreateLayout(projectPath, c.cfg.Entries, c.term)
	if errors.Is(err, ErrProjectExists) {
		c.term.Printf("Error: Folder '%s' already exists. Aborting.\n", projectPath)
		c.term.Println("You can delete this folder and run this again if you wish.")

		return err
	} else if err != nil {
		return err
	}

	envName := pyenv.EnvName(c.FolderName.String(), c.cfg.EnvSuffix)

	copied, err := CopyTemplates(c.cfg.TemplatesDir, projectPath, c.term)
	if err != nil {
		return err
	}

	if !copied && c.cfg.SeedDefaults {
		_, err = SeedDefaults(projectPath, SeedData{
			Name:          c.FolderName.String(),
			Account:       c.cfg.Account,
			PythonVersion: version,
			EnvName:       envName,
		}, c.term)
		if err != nil {
			return err
		}
	}

	repo := vcs.New(c.runner, projectPath)

	if err = repo.Bootstrap(ctx); err != nil {
		return err
	}

	if hash, err1 := vcs.HeadCommit(projectPath); err1 == nil {
		c.term.Printf("Committed %s: %s\n", hash, vcs.FirstCommitMessage)
	} else {
		c.term.Logger().Printf("could not read the first commit: %s", err1)
	}

	c.term.Println()
	c.term.Notice(append([]string{
		"NOTE!",
		"A git repository was initialised.",
		"If you require a remote repo you need to add this manually. You can then link using, eg:",
	}, vcs.RemoteHint(c.cfg.Account, c.FolderName.String())...)...)
	c.term.Println()

	if err = versions.SetLocal(ctx, projectPath, version); err != nil {
		return err
	}

	c.term.Printf("The Python version was set to %s\n", version)

	if err = versions.CreateVirtualenv(ctx, projectPath, version, envName); err != nil {
		return err
	}

	if err = versions.SetLocal(ctx, projectPath, envName); err != nil {
		return err
	}

	c.term.Printf("Created and set pyenv local virtual environment: %s\n\n", envName)
	c.term.Println("Project setup complete!")

	return nil
}
