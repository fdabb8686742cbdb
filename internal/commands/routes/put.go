package routes

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
	"github.com/murabei/pumpwood-kong/internal/kong"
)

type PutCommand struct {
	*kongcli.ClientCLI

	service       serviceFlags
	flagStripPath bool
}

func NewPutCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &PutCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, putHelp, putSynopsis, ui, logOutput, "put"),
	}
	cmd.service.register(cmd.Flags)
	cmd.Flags.BoolVar(&cmd.flagStripPath, "strip-path", false, "Strip the matched path before proxying upstream.")
	cmd.SetHelp(putHelp)

	return cmd
}

func (c *PutCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	name, path := c.Flags.Arg(0), c.Flags.Arg(1)
	if name == "" || path == "" {
		return c.Error("parsing arguments", errors.New("a name and a path parameter must be provided"))
	}

	service, err := c.service.ref()
	if err != nil {
		return c.Error("parsing command line flags", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	route, err := client.RegisterRoute(c.Context(), kong.RouteRegistration{
		Name:      name,
		Path:      path,
		Service:   service,
		StripPath: c.flagStripPath,
	})
	if err != nil {
		return c.Error("sending the request", err)
	}

	return c.Success(fmt.Sprintf("Successfully registered route: %s (%s)", route.Name, route.ID))
}

const (
	putSynopsis = "Creates or updates a route"
	putHelp     = `
Usage: pumpwood-kong routes put [options] NAME PATH

  Creates or updates the route NAME for PATH. Exactly one of -service-id or
  -service-name selects the service it is bound to.

  Additional flags and more advanced use cases are detailed below.
`
)
