package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/kr/text"
	"github.com/mitchellh/cli"

	"github.com/murabei/pumpwood-kong/internal/config"
	"github.com/murabei/pumpwood-kong/internal/kong"
	"github.com/murabei/pumpwood-kong/internal/metrics"
)

type CommonCLI struct {
	UI       cli.Ui
	output   io.Writer
	ctx      context.Context
	help     string
	synopsis string

	// Logging
	flagLogLevel string
	flagLogJSON  bool

	Flags *flag.FlagSet
}

func NewCommonCLI(ctx context.Context, help, synopsis string, ui cli.Ui, logOutput io.Writer, name string) *CommonCLI {
	cli := &CommonCLI{UI: ui, synopsis: synopsis, output: logOutput, ctx: ctx, Flags: flag.NewFlagSet(name, flag.ContinueOnError)}
	cli.init()

	cli.help = FlagUsage(help, cli.Flags)

	return cli
}

func (c *CommonCLI) init() {
	c.Flags.StringVar(&c.flagLogLevel, "log-level", "info",
		`Log verbosity level. Supported values (in order of detail) are "trace", "debug", "info", "warn", and "error".`)
	c.Flags.BoolVar(&c.flagLogJSON, "log-json", false,
		"Enable or disable JSON output format for logging.")

	c.Flags.SetOutput(c.output)
}

func (c *CommonCLI) Context() context.Context {
	return c.ctx
}

func (c *CommonCLI) Logger(name string) hclog.Logger {
	return CreateLogger(c.output, c.flagLogLevel, c.flagLogJSON, name)
}

func (c *CommonCLI) Parse(args []string) error {
	return c.Flags.Parse(args)
}

// SetHelp regenerates the help text after a command registers its own flags.
func (c *CommonCLI) SetHelp(help string) {
	c.help = FlagUsage(help, c.Flags)
}

func (c *CommonCLI) Error(message string, err error) int {
	c.UI.Error("There was an error " + message + ":\n\t" + err.Error())
	return 1
}

func (c *CommonCLI) Success(message string) int {
	c.UI.Output(message)
	return 0
}

func (c *CommonCLI) Synopsis() string {
	return c.synopsis
}

func (c *CommonCLI) Help() string {
	return c.help
}

// ClientCLI adds the flags needed to reach the Kong admin API.
type ClientCLI struct {
	*CommonCLI

	flagAdminURL string    // Admin API base URL, overrides KONG_ADMIN_URL
	flagEnvFiles ArrayFlag // .env files read before resolving configuration

	config *config.Config
}

func NewClientCLI(ctx context.Context, help, synopsis string, ui cli.Ui, logOutput io.Writer, name string) *ClientCLI {
	cli := &ClientCLI{
		CommonCLI: NewCommonCLI(ctx, help, synopsis, ui, logOutput, name),
	}
	cli.init()
	cli.help = FlagUsage(help, cli.Flags)

	return cli
}

func (c *ClientCLI) init() {
	c.Flags.StringVar(&c.flagAdminURL, "kong-admin-url", "",
		"Base URL of the Kong admin API. Defaults to the KONG_ADMIN_URL environment variable or "+config.DefaultAdminURL+".")
	c.Flags.Var(&c.flagEnvFiles, "env-file",
		"Path to a .env file, may be repeated. Variables already set in the environment take precedence.")
}

// Config resolves configuration once, after flags have been parsed.
func (c *ClientCLI) Config() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	cfg, err := config.Load(c.flagEnvFiles...)
	if err != nil {
		return nil, err
	}
	if c.flagAdminURL != "" {
		cfg.AdminURL = c.flagAdminURL
	}

	c.config = cfg
	return cfg, nil
}

func (c *ClientCLI) Error(message string, err error) int {
	c.writeMetrics()
	return c.CommonCLI.Error(message, err)
}

func (c *ClientCLI) Success(message string) int {
	c.writeMetrics()
	return c.CommonCLI.Success(message)
}

func (c *ClientCLI) writeMetrics() {
	if c.config == nil || c.config.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.config.MetricsTextfile); err != nil {
		c.Logger("metrics").Warn("error writing metrics", "path", c.config.MetricsTextfile, "error", err)
	}
}

func (c *ClientCLI) CreateClient() (*kong.Client, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	return kong.CreateClient(kong.ClientConfig{
		Address:  cfg.AdminURL,
		Timeouts: cfg.Timeouts(),
		Logger:   c.Logger("kong"),
	})
}

func FlagUsage(usage string, flags *flag.FlagSet) string {
	out := new(bytes.Buffer)
	out.WriteString(strings.TrimSpace(usage))
	out.WriteString("\n")
	out.WriteString("\n")

	printTitle(out, "Command Options")
	flags.VisitAll(func(f *flag.Flag) {
		printFlag(out, f)
	})

	return strings.TrimRight(out.String(), "\n")
}

func printTitle(w io.Writer, s string) {
	fmt.Fprintf(w, "%s\n\n", s)
}

func printFlag(w io.Writer, f *flag.Flag) {
	example, _ := flag.UnquoteUsage(f)
	if example != "" {
		fmt.Fprintf(w, "  -%s=<%s>\n", f.Name, example)
	} else {
		fmt.Fprintf(w, "  -%s\n", f.Name)
	}

	fmt.Fprintf(w, "%s\n\n", wrapAtLength(f.Usage, 5))
}

// maxLineLength is the maximum width of any line.
const maxLineLength int = 72

func wrapAtLength(s string, pad int) string {
	wrapped := text.Wrap(s, maxLineLength-pad)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
