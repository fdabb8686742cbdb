package services

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

	flagHealthCheck    string
	flagConnectTimeout int
	flagWriteTimeout   int
	flagReadTimeout    int
}

func NewPutCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &PutCommand{
		ClientCLI: kongcli.NewClientCLI(ctx, putHelp, putSynopsis, ui, logOutput, "put"),
	}
	cmd.Flags.StringVar(&cmd.flagHealthCheck, "health-check", "", "Path of a health check route to register for the service.")
	cmd.Flags.IntVar(&cmd.flagConnectTimeout, "connect-timeout", 0, "Connect timeout in milliseconds. Defaults to KONG_CONNECT_TIMEOUT.")
	cmd.Flags.IntVar(&cmd.flagWriteTimeout, "write-timeout", 0, "Write timeout in milliseconds. Defaults to KONG_WRITE_TIMEOUT.")
	cmd.Flags.IntVar(&cmd.flagReadTimeout, "read-timeout", 0, "Read timeout in milliseconds. Defaults to KONG_READ_TIMEOUT.")
	cmd.SetHelp(putHelp)

	return cmd
}

func (c *PutCommand) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	name, upstream := c.Flags.Arg(0), c.Flags.Arg(1)
	if name == "" || upstream == "" {
		return c.Error("parsing arguments", errors.New("a name and a url parameter must be provided"))
	}
	if c.flagConnectTimeout < 0 || c.flagWriteTimeout < 0 || c.flagReadTimeout < 0 {
		return c.Error("parsing command line flags", errors.New("timeouts must not be negative"))
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	service, err := client.RegisterService(c.Context(), kong.ServiceRegistration{
		Name:            name,
		URL:             upstream,
		HealthCheckPath: c.flagHealthCheck,
		Timeouts: kong.Timeouts{
			Connect: c.flagConnectTimeout,
			Write:   c.flagWriteTimeout,
			Read:    c.flagReadTimeout,
		},
	})
	if err != nil {
		return c.Error("sending the request", err)
	}

	return c.Success(fmt.Sprintf("Successfully registered service: %s (%s)", service.Name, service.ID))
}

const (
	putSynopsis = "Creates or updates a service"
	putHelp     = `
Usage: pumpwood-kong services put [options] NAME URL

  Creates or updates the service NAME pointing at the upstream URL. When
  -health-check is set, a route named NAME--health-check is registered for
  that path as well.

  Additional flags and more advanced use cases are detailed below.
`
)
