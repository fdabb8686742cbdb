package cleanup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
	"github.com/murabei/pumpwood-kong/internal/kong"
)

func RegisterCommands(ctx context.Context, commands map[string]cli.CommandFactory, ui cli.Ui, logOutput io.Writer) {
	commands["cleanup"] = func() (cli.Command, error) {
		return NewCommand(ctx, ui, logOutput), nil
	}
}

type Command struct {
	*kongcli.ClientCLI

	flagDryRun bool
}

func NewCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &Command{
		ClientCLI: kongcli.NewClientCLI(ctx, help, synopsis, ui, logOutput, "cleanup"),
	}
	cmd.Flags.BoolVar(&cmd.flagDryRun, "dry-run", false, "Print the services that would be deleted without deleting anything.")
	cmd.SetHelp(help)

	return cmd
}

func (c *Command) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	var ids []string
	if c.Flags.NArg() > 0 {
		ids = c.Flags.Args()
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	if c.flagDryRun {
		return c.dryRun(client, ids)
	}

	if err := client.DeleteRoutesAndService(c.Context(), ids); err != nil {
		return c.Error("deleting services", err)
	}

	if ids == nil {
		return c.Success("Successfully deleted all unprotected services")
	}
	return c.Success(fmt.Sprintf("Successfully deleted services: %s", strings.Join(ids, ", ")))
}

func (c *Command) dryRun(client *kong.Client, ids []string) int {
	if ids != nil {
		return c.Success(fmt.Sprintf("Would delete services: %s", strings.Join(ids, ", ")))
	}

	services, err := client.ListServices(c.Context())
	if err != nil {
		return c.Error("sending the request", err)
	}

	var out strings.Builder
	deletable := kong.DeletableServices(services)
	fmt.Fprintf(&out, "Would delete %d of %d services", len(deletable), len(services))
	for _, service := range deletable {
		fmt.Fprintf(&out, "\n  %s\t%s", service.Name, service.ID)
	}
	return c.Success(out.String())
}

const (
	synopsis = "Deletes services together with their routes"
	help     = `
Usage: pumpwood-kong cleanup [options] [ID...]

  Deletes every route of each service ID and then the service itself, one
  service at a time. The first failure stops the run; services already
  deleted stay deleted.

  Without IDs, every service whose name does not start with "test" or
  "reload-db" is deleted.

  Additional flags and more advanced use cases are detailed below.
`
)
