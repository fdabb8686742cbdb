package register

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
	"github.com/murabei/pumpwood-kong/internal/kong"
	"github.com/murabei/pumpwood-kong/internal/manifest"
)

func RegisterCommands(ctx context.Context, commands map[string]cli.CommandFactory, ui cli.Ui, logOutput io.Writer) {
	commands["register"] = func() (cli.Command, error) {
		return NewCommand(ctx, ui, logOutput), nil
	}
}

type Command struct {
	*kongcli.ClientCLI

	flagSkipVersionCheck bool
}

func NewCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &Command{
		ClientCLI: kongcli.NewClientCLI(ctx, help, synopsis, ui, logOutput, "register"),
	}
	cmd.Flags.BoolVar(&cmd.flagSkipVersionCheck, "skip-version-check", false,
		"Do not check the gateway version before registering. Kong "+kong.MinimumVersion+" or later is required otherwise.")
	cmd.SetHelp(help)

	return cmd
}

func (c *Command) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	file := c.Flags.Arg(0)
	if file == "" {
		return c.Error("parsing arguments", errors.New("a file parameter must be provided"))
	}

	m, err := manifest.Load(file)
	if err != nil {
		return c.Error("reading service manifest", err)
	}
	if err := m.Validate(); err != nil {
		return c.Error("validating service manifest", err)
	}

	cfg, err := c.Config()
	if err != nil {
		return c.Error("loading configuration", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	if !c.flagSkipVersionCheck {
		info, err := client.Info(c.Context())
		if err != nil {
			return c.Error("sending the request", err)
		}
		if err := kong.CheckVersion(info.Version, kong.MinimumVersion); err != nil {
			return c.Error("checking the gateway version", err)
		}
	}

	result, err := manifest.Apply(c.Context(), client, m, cfg.EndpointSuffix)
	if err != nil {
		return c.Error("registering the manifest", err)
	}

	names := make([]string, 0, len(result.Services))
	for _, service := range result.Services {
		names = append(names, service.Name)
	}
	return c.Success(fmt.Sprintf("Successfully registered services: %s\nRoutes: %s", strings.Join(names, ", "), strings.Join(result.Routes, ", ")))
}

const (
	synopsis = "Registers a service and its routes from a manifest"
	help     = `
Usage: pumpwood-kong register [options] FILE

  Registers the service described in the YAML or JSON manifest FILE together
  with its health check route, its auth-static and reload-db companions and
  the route exposing its models:

    name: pumpwood-auth-app
    url: http://pumpwood-auth-app:5000/
    healthCheck: /health-check/pumpwood-auth-app/
    authStaticURL: http://pumpwood-auth-static:80/
    reloadDBURL: http://test-db-pumpwood-auth:5000/
    models:
      - User
      - Group

  Everything is upserted, so running it again is safe. Model paths pick up
  the ENDPOINT_SUFFIX environment variable.

  Additional flags and more advanced use cases are detailed below.
`
)
