package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/require"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

func TestFlagUsage(t *testing.T) {
	t.Parallel()

	common := NewClientCLI(context.Background(), "Usage: pumpwood-kong test", "Tests", cli.NewMockUi(), &bytes.Buffer{}, "test")
	help := common.Help()

	require.True(t, strings.HasPrefix(help, "Usage: pumpwood-kong test\n\nCommand Options"))
	for _, flag := range []string{"-log-level=<string>", "-log-json", "-kong-admin-url=<string>", "-env-file=<value>"} {
		require.Contains(t, help, flag)
	}
	for _, line := range strings.Split(help, "\n") {
		require.LessOrEqual(t, len(line), maxLineLength)
	}
	require.Equal(t, "Tests", common.Synopsis())
}

func TestSetHelp(t *testing.T) {
	t.Parallel()

	common := NewCommonCLI(context.Background(), "before", "", cli.NewMockUi(), &bytes.Buffer{}, "test")
	common.Flags.Bool("wait", false, "Wait for the gateway.")
	common.SetHelp("after")

	require.True(t, strings.HasPrefix(common.Help(), "after"))
	require.Contains(t, common.Help(), "-wait")
}

func TestErrorAndSuccess(t *testing.T) {
	t.Parallel()

	ui := cli.NewMockUi()
	common := NewCommonCLI(context.Background(), "", "", ui, &bytes.Buffer{}, "test")

	require.Equal(t, 1, common.Error("sending the request", os.ErrNotExist))
	require.Equal(t, "There was an error sending the request:\n\tfile does not exist\n", ui.ErrorWriter.String())

	require.Equal(t, 0, common.Success("done"))
	require.Equal(t, "done\n", ui.OutputWriter.String())
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	common := NewCommonCLI(context.Background(), "", "", cli.NewMockUi(), &output, "test")
	require.NoError(t, common.Parse([]string{"-log-level", "warn", "-log-json"}))

	logger := common.Logger("kong")
	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, output.String(), "hidden")
	require.Contains(t, output.String(), `"@message":"shown"`)
	require.Contains(t, output.String(), `"@module":"kong"`)
}

func TestClientCLI_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kong.env")
	require.NoError(t, os.WriteFile(path, []byte("KONG_ADMIN_URL=http://from-file:8001\nKONG_READ_TIMEOUT=1000\n"), 0600))
	t.Setenv("KONG_ADMIN_URL", "")
	os.Unsetenv("KONG_ADMIN_URL")

	client := NewClientCLI(context.Background(), "", "", cli.NewMockUi(), &bytes.Buffer{}, "test")
	require.NoError(t, client.Parse([]string{"-env-file", path}))

	cfg, err := client.Config()
	require.NoError(t, err)
	require.Equal(t, "http://from-file:8001", cfg.AdminURL)

	kongClient, err := client.CreateClient()
	require.NoError(t, err)
	require.Equal(t, "http://from-file:8001", kongClient.Address())
	require.Equal(t, 1000, kongClient.Timeouts().Read)

	override := NewClientCLI(context.Background(), "", "", cli.NewMockUi(), &bytes.Buffer{}, "test")
	require.NoError(t, override.Parse([]string{"-env-file", path, "-kong-admin-url", "http://flag:8001/"}))
	kongClient, err = override.CreateClient()
	require.NoError(t, err)
	require.Equal(t, "http://flag:8001", kongClient.Address())
}

func TestClientCLI_InvalidAddress(t *testing.T) {
	t.Parallel()

	client := NewClientCLI(context.Background(), "", "", cli.NewMockUi(), &bytes.Buffer{}, "test")
	require.NoError(t, client.Parse([]string{"-kong-admin-url", "kong:8001"}))

	_, err := client.CreateClient()
	var configErr *kong.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestClientCLI_MissingEnvFile(t *testing.T) {
	t.Parallel()

	client := NewClientCLI(context.Background(), "", "", cli.NewMockUi(), &bytes.Buffer{}, "test")
	require.NoError(t, client.Parse([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}))

	_, err := client.CreateClient()
	require.Error(t, err)
}

func TestClientCLI_MetricsTextfile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	textfile := filepath.Join(dir, "pumpwood-kong.prom")
	envFile := filepath.Join(dir, "kong.env")
	require.NoError(t, os.WriteFile(envFile, []byte("KONG_METRICS_TEXTFILE="+textfile+"\n"), 0600))

	ui := cli.NewMockUi()
	client := NewClientCLI(context.Background(), "", "", ui, &bytes.Buffer{}, "test")
	require.Equal(t, 0, client.Success("before configuration"))
	require.NoFileExists(t, textfile)

	require.NoError(t, client.Parse([]string{"-env-file", envFile}))
	_, err := client.CreateClient()
	require.NoError(t, err)

	require.Equal(t, 1, client.Error("sending the request", os.ErrClosed))
	require.FileExists(t, textfile)
}
