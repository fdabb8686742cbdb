package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mitchellh/cli"

	kongcli "github.com/murabei/pumpwood-kong/internal/cli"
	"github.com/murabei/pumpwood-kong/internal/kong"
)

func RegisterCommands(ctx context.Context, commands map[string]cli.CommandFactory, ui cli.Ui, logOutput io.Writer) {
	commands["status"] = func() (cli.Command, error) {
		return NewCommand(ctx, ui, logOutput), nil
	}
}

type Command struct {
	*kongcli.ClientCLI

	flagWait         bool
	flagWaitAttempts uint64
	flagWaitInterval time.Duration
}

func NewCommand(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command {
	cmd := &Command{
		ClientCLI: kongcli.NewClientCLI(ctx, help, synopsis, ui, logOutput, "status"),
	}
	cmd.Flags.BoolVar(&cmd.flagWait, "wait", false, "Poll the gateway until it answers and its database is reachable.")
	cmd.Flags.Uint64Var(&cmd.flagWaitAttempts, "wait-attempts", 30, "Number of retries when waiting.")
	cmd.Flags.DurationVar(&cmd.flagWaitInterval, "wait-interval", 2*time.Second, "Delay between retries when waiting.")
	cmd.SetHelp(help)

	return cmd
}

func (c *Command) Run(args []string) int {
	if err := c.Parse(args); err != nil {
		return c.Error("parsing command line flags", err)
	}

	client, err := c.CreateClient()
	if err != nil {
		return c.Error("creating the client", err)
	}

	if c.flagWait {
		if err := kong.WaitReady(c.Context(), client, c.flagWaitInterval, c.flagWaitAttempts, c.Logger("status")); err != nil {
			return c.Error("waiting for the gateway", err)
		}
	}

	info, err := client.Info(c.Context())
	if err != nil {
		return c.Error("sending the request", err)
	}
	if err := kong.CheckVersion(info.Version, kong.MinimumVersion); err != nil {
		return c.Error("checking the gateway version", err)
	}

	status, err := client.Status(c.Context())
	if err != nil {
		return c.Error("sending the request", err)
	}
	if !status.Database.Reachable {
		return c.Error("checking the gateway status", errors.New("database is not reachable"))
	}

	return c.Success(fmt.Sprintf("Kong %s on %s is ready at %s", info.Version, info.Hostname, client.Address()))
}

const (
	synopsis = "Checks that the gateway is reachable and supported"
	help     = `
Usage: pumpwood-kong status [options]

  Reads the gateway version and node status. Fails when the admin API cannot
  be reached, when the version is older than ` + kong.MinimumVersion + ` or when the
  database is not reachable.

  With -wait, polls the node status first, which is useful while the
  gateway is starting.

  Additional flags and more advanced use cases are detailed below.
`
)
