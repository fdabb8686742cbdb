package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
	"github.com/murabei/pumpwood-kong/internal/kong"
)

type ModelsCommand struct {
	*kongcli.ClientCLI

	service        serviceFlags
	flagRouteName  string
	flagPathPrefix string
}

func NewModelsCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &ModelsCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, modelsHelp, modelsSynopsis, ui, logOutput, "models"),
	}
	cmd.service.register(cmd.Flags)
	cmd.Flags.StringVar(&cmd.flagRouteName, "route-name", "", `Name of the route. Defaults to "<service>--endpoints".`)
	cmd.Flags.StringVar(&cmd.flagPathPrefix, "path-prefix", kong.DefaultModelPathPrefix, "Prefix of every model path.")
	cmd.SetHelp(modelsHelp)

	return cmd
}

func (c *ModelsCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	models := c.Flags.Args()
	if len(models) == 0 {
		return c.Error("parsing arguments", errors.New("at least one model parameter must be provided"))
	}

	service, err := c.service.ref()
	if err != nil {
		return c.Error("parsing command line flags", err)
	}

	cfg, err := c.Config()
	if err != nil {
		return c.Error("loading configuration", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	routes := kong.ModelRoutes{
		Service:        service,
		Models:         models,
		PathPrefix:     c.flagPathPrefix,
		EndpointSuffix: cfg.EndpointSuffix,
		RouteName:      c.flagRouteName,
	}
	route, err := client.RegisterModelRoutes(c.Context(), routes)
	if err != nil {
		return c.Error("sending the request", err)
	}

	return c.Success(fmt.Sprintf("Successfully registered route: %s (%s)\n  %s", route.Name, route.ID, strings.Join(route.Paths, "\n  ")))
}

const (
	modelsSynopsis = "Creates or updates the route exposing a service's models"
	modelsHelp     = `
Usage: pumpwood-kong routes models [options] MODEL...

  Creates or updates a single route carrying one path per MODEL, built as
  <prefix><suffix><model>/ in lower case. The suffix is read from the
  ENDPOINT_SUFFIX environment variable. Exactly one of -service-id or
  -service-name selects the service the route is bound to.

  Additional flags and more advanced use cases are detailed below.
`
)
