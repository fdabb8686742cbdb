package services

import (
	"context"
	"io"

	"github.com/mitchellh/cli"
)

func RegisterCommands(ctx context.Context, commands map[string]cli.CommandFactory, ui cli.Ui, logOutput io.Writer) {
	commands["services"] = func() (cli.Command, error) {
		return NewCommand(), nil
	}

	commands["services delete"] = func() (cli.Command, error) {
		return NewDeleteCommand(ctx, ui, logOutput), nil
	}

	commands["services list"] = func() (cli.Command, error) {
		return NewListCommand(ctx, ui, logOutput), nil
	}

	commands["services put"] = func() (cli.Command, error) {
		return NewPutCommand(ctx, ui, logOutput), nil
	}
}

func NewCommand() *Command {
	return &Command{}
}

type Command struct{}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

func (c *Command) Synopsis() string {
	return synopsis
}

func (c *Command) Help() string {
	return help
}

const synopsis = "Manage Kong services"
const help = `
Usage: pumpwood-kong services <subcommand> [options] [args]
  This command has subcommands for registering, listing and removing Kong
  services. Here are some simple examples, and more detailed examples are
  available in the subcommands.

  Create or update the service "pumpwood-auth-app" with a health check route:

    $ pumpwood-kong services put -health-check /health-check/pumpwood-auth-app/ \
        pumpwood-auth-app http://pumpwood-auth-app:5000/

  List registered services:

    $ pumpwood-kong services list

  Finally, delete a service by id once its routes are gone:

    $ pumpwood-kong services delete 5f6a0c1e-0b3c-4a53-9bd8-6c1a4f7d1d2b
`
