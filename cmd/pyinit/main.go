package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/keith-taylor/pyinit/scaffold"
	"github.com/keith-taylor/pyinit/version"
)

func main() {
	var cmd scaffold.PythonProjectCmd

	parser := kong.Must(&cmd, options(os.Exit)...)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func options(exit func(int)) []kong.Option {
	return []kong.Option{
		kong.Name("pyinit"),
		kong.Description("Set up a new Python project folder with git and a pyenv virtualenv."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.FromBuildInfo()},
		kong.Exit(func(code int) { exit(exitCode(code)) }),
	}
}

// exitCode collapses every failure, including kong's usage errors, to 1.
func exitCode(code int) int {
	if code != 0 {
		return 1
	}

	return 0
}
