package status

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/murabei/pumpwood-kong/internal/testing/kongtest"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	server.RunCLI(t, kongtest.CLITest{
		Command:    NewCommand,
		ExitStatus: 0,
		OutputCheck: func(t *testing.T, output string) {
			require.Contains(t, output, "Kong 3.4.1 on kongtest is ready at "+server.URL)
		},
	})
}

func TestStatus_Failures(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		setup  func(server *kongtest.Server)
		output string
	}{
		{
			name:   "old version",
			setup:  func(server *kongtest.Server) { server.SetVersion("0.13.0") },
			output: "checking the gateway version",
		},
		{
			name:   "unparseable version",
			setup:  func(server *kongtest.Server) { server.SetVersion("next") },
			output: "parsing gateway version",
		},
		{
			name:   "database unreachable",
			setup:  func(server *kongtest.Server) { server.SetDatabaseReachable(false) },
			output: "database is not reachable",
		},
		{
			name: "admin api error",
			setup: func(server *kongtest.Server) {
				server.Fail(http.MethodGet, "/", http.StatusServiceUnavailable, "unavailable")
			},
			output: "status 503",
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := kongtest.NewServer(t)
			tt.setup(server)
			server.RunCLI(t, kongtest.CLITest{
				Command:    NewCommand,
				ExitStatus: 1,
				OutputCheck: func(t *testing.T, output string) {
					require.Contains(t, output, tt.output)
				},
			})
		})
	}
}

func TestStatus_Wait(t *testing.T) {
	t.Parallel()

	server := kongtest.NewServer(t)
	server.SetDatabaseReachable(false)

	server.RunCLI(t, kongtest.CLITest{
		Command:    NewCommand,
		ExitStatus: 1,
		Args:       []string{"-wait", "-wait-attempts", "2", "-wait-interval", "10ms"},
		Timeout:    5 * time.Second,
		OutputCheck: func(t *testing.T, output string) {
			require.Contains(t, output, "There was an error waiting for the gateway")
		},
	})
	require.Len(t, server.RequestsMatching(http.MethodGet), 3)
}
