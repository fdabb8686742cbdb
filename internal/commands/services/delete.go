package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
)

type DeleteCommand struct {
	*kongcli.ClientCLI
}

func NewDeleteCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	return &DeleteCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, deleteHelp, deleteSynopsis, ui, logOutput, "delete"),
	}
}

func (c *DeleteCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	id := c.Flags.Arg(0)
	if id == "" {
		return c.Error("parsing arguments", errors.New("an id parameter must be provided"))
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	if err := client.DeleteService(c.Context(), id); err != nil {
		return c.Error("sending the request", err)
	}

	return c.Success(fmt.Sprintf("Successfully deleted service: %s", id))
}

const (
	deleteSynopsis = "Deletes a service"
	deleteHelp     = `
Usage: pumpwood-kong services delete [options] ID

  Deletes the service with the given ID. The gateway refuses to delete a
  service that still has routes; use "pumpwood-kong cleanup ID" to remove
  both.

  Additional flags and more advanced use cases are detailed below.
`
)
