// cmd/lace is the command-line interface to Lace, an assembler, virtual machine and debugger for
// the LC-3 educational computer.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nonl4331/lace/internal/cli"
	"github.com/nonl4331/lace/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assemble(),
	cmd.Run(),
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result :=
		cli.New(ctx).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
