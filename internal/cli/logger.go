package cli

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

func CreateLogger(output io.Writer, logLevel string, asJSON bool, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Level:           hclog.LevelFromString(logLevel),
		Output:          output,
		JSONFormat:      asJSON,
		IncludeLocation: true,
	}).Named(name)
}
