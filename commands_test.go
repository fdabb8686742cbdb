package main

import (
	"context"
	"io"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/require"
)

func TestHelpFilter(t *testing.T) {
	ui := cli.NewMockUi()

	commands := initializeCommands(context.Background(), ui, io.Discard)
	output := helpFunc(commands)(commands)

	require.Contains(t, output, "services")
	require.Contains(t, output, "cleanup")
	require.NotContains(t, output, "services list")
	require.NotContains(t, output, "routes models")
}
