package routes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
)

type ListCommand struct {
	*kongcli.ClientCLI

	flagService string // only list routes of this service id
}

func NewListCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &ListCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, listHelp, listSynopsis, ui, logOutput, "list"),
	}
	cmd.Flags.StringVar(&cmd.flagService, "service", "", "Only list the routes of the service with this id.")
	cmd.SetHelp(listHelp)

	return cmd
}

func (c *ListCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	var out strings.Builder
	if c.flagService != "" {
		routes, err := client.ListServiceRoutes(c.Context(), c.flagService)
		if err != nil {
			return c.Error("sending the request", err)
		}

		fmt.Fprintf(&out, "Successfully retrieved %d routes of service %s", len(routes), c.flagService)
		for _, route := range routes {
			fmt.Fprintf(&out, "\n  %s\t%s\t%s", route.Name, route.ID, strings.Join(route.Paths, ", "))
		}
		return c.Success(out.String())
	}

	index, err := client.ListAllRoutes(c.Context())
	if err != nil {
		return c.Error("sending the request", err)
	}

	fmt.Fprintf(&out, "Successfully retrieved routes of %d services", len(index))
	for _, name := range index.Names() {
		fmt.Fprintf(&out, "\n  %s", name)
		for _, path := range index[name] {
			fmt.Fprintf(&out, "\n    %s", path)
		}
	}
	return c.Success(out.String())
}

const (
	listSynopsis = "Lists routed paths per service"
	listHelp     = `
Usage: pumpwood-kong routes list [options]

  Lists every service by name with the sorted paths routed to it. Services
  without routes are listed too. A route pointing at a service that does not
  exist fails the listing.

  With -service, lists the routes of a single service id instead.

  Additional flags and more advanced use cases are detailed below.
`
)
