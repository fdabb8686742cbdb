package main

import (
	"context"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/murabei/pumpwood-kong/internal/commands/cleanup"
	"github.com/murabei/pumpwood-kong/internal/commands/register"
	"github.com/murabei/pumpwood-kong/internal/commands/routes"
	"github.com/murabei/pumpwood-kong/internal/commands/services"
	"github.com/murabei/pumpwood-kong/internal/commands/status"
	cmdVersion "github.com/murabei/pumpwood-kong/internal/commands/version"
	"github.com/murabei/pumpwood-kong/internal/version"
)

func initializeCommands(ctx context.Context, ui cli.Ui, logOutput io.Writer) map[string]cli.CommandFactory {
	commands := map[string]cli.CommandFactory{
		"version": func() (cli.Command, error) {
			return &cmdVersion.Command{UI: ui, Version: version.GetHumanVersion()}, nil
		},
	}

	services.RegisterCommands(ctx, commands, ui, logOutput)
	routes.RegisterCommands(ctx, commands, ui, logOutput)
	cleanup.RegisterCommands(ctx, commands, ui, logOutput)
	register.RegisterCommands(ctx, commands, ui, logOutput)
	status.RegisterCommands(ctx, commands, ui, logOutput)

	return commands
}

// helpFunc lists only top level commands; subcommands show up in the help of
// their parent.
func helpFunc(commands map[string]cli.CommandFactory) cli.HelpFunc {
	var include []string
	for name := range commands {
		if !strings.Contains(name, " ") {
			include = append(include, name)
		}
	}

	return cli.FilteredHelpFunc(include, cli.BasicHelpFunc("pumpwood-kong"))
}
