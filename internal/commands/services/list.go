package services

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
}

func NewListCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	return &ListCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, listHelp, listSynopsis, ui, logOutput, "list"),
	}
}

func (c *ListCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	services, err := client.ListServices(c.Context())
	if err != nil {
		return c.Error("sending the request", err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Successfully retrieved %d services", len(services))
	for _, service := range services {
		fmt.Fprintf(&out, "\n  %s\t%s\t%s", service.Name, service.ID, service.Upstream())
	}
	return c.Success(out.String())
}

const (
	listSynopsis = "Lists registered services"
	listHelp     = `
Usage: pumpwood-kong services list [options]

  Lists every service registered on the gateway with its id and upstream URL.

  Additional flags and more advanced use cases are detailed below.
`
)
