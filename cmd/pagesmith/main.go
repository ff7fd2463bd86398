package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/cmd/pagesmith/commands"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("pagesmith"),
		kong.Description("Render a markdown site and serve it with live reload."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
