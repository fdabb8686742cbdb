package kongtest

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
)

type CLITest struct {
	Command     func(ctx context.Context, ui cli.Ui, logOutput io.Writer) cli.Command
	ExitStatus  int
	Args        []string
	OutputCheck func(t *testing.T, output string)
	Timeout     time.Duration
}

// RunCLI runs a command against the fake gateway and checks its exit status
// and combined output.
func (s *Server) RunCLI(t *testing.T, tt CLITest) {
	t.Helper()

	timeout := tt.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var buffer bytes.Buffer
	command := tt.Command(ctx, &cli.BasicUi{Writer: &buffer, ErrorWriter: &buffer}, &buffer)
	assert.Equal(t, tt.ExitStatus, command.Run(append([]string{
		"-log-level", "error",
		"-kong-admin-url", s.URL,
	}, tt.Args...)), buffer.String())

	if tt.OutputCheck != nil {
		tt.OutputCheck(t, buffer.String())
	}
}
