package routes

import (
	"context"
	"io"

	"github.com/mitchellh/cli"
)

func RegisterCommands(ctx context.Context, commands map[string]cli.CommandFactory, ui cli.Ui, logOutput io.Writer) {
	commands["routes"] = func() (cli.Command, error) {
		return NewCommand(), nil
	}

	commands["routes delete"] = func() (cli.Command, error) {
		return NewDeleteCommand(ctx, ui, logOutput), nil
	}

	commands["routes list"] = func() (cli.Command, error) {
		return NewListCommand(ctx, ui, logOutput), nil
	}

	commands["routes models"] = func() (cli.Command, error) {
		return NewModelsCommand(ctx, ui, logOutput), nil
	}

	commands["routes put"] = func() (cli.Command, error) {
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

const synopsis = "Manage Kong routes"
const help = `
Usage: pumpwood-kong routes <subcommand> [options] [args]
  This command has subcommands for registering, listing and removing Kong
  routes. Here are some simple examples, and more detailed examples are
  available in the subcommands.

  Route "/admin/pumpwood-auth-app/gui/" to the service named
  "pumpwood-auth-app":

    $ pumpwood-kong routes put -service-name pumpwood-auth-app \
        pumpwood-auth-app--auth-gui /admin/pumpwood-auth-app/gui/

  Expose the models of a service under /rest/:

    $ pumpwood-kong routes models -service-name pumpwood-auth-app User Group

  List every path routed to each service:

    $ pumpwood-kong routes list

  Finally, delete a route by id:

    $ pumpwood-kong routes delete 5f6a0c1e-0b3c-4a53-9bd8-6c1a4f7d1d2b
`
