package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/cli"

	"github.com/murabei/pumpwood-kong/internal/version"
)

func main() {
	ui := &cli.BasicUi{Writer: os.Stdout, ErrorWriter: os.Stderr}
	os.Exit(run(os.Args[1:], ui, os.Stderr))
}

func run(args []string, ui cli.Ui, logOutput io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	commands := initializeCommands(ctx, ui, logOutput)

	c := cli.NewCLI("pumpwood-kong", version.GetHumanVersion())
	c.Args = args
	c.Commands = commands
	c.HelpFunc = helpFunc(commands)
	c.HelpWriter = logOutput

	exitStatus, err := c.Run()
	if err != nil {
		log.Println(err)
	}
	return exitStatus
}
