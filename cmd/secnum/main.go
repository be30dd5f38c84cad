package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/secnum/cmd/secnum/commands"
	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Stdin: os.Stdin, Stdout: os.Stdout}

	ctx := kong.Parse(&cli,
		kong.Name("secnum"),
		kong.Description("Add hierarchical section numbers to Markdown headings (mdBook preprocessor and CLI)."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := ctx.Run(global)
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
