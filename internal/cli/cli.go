// Package cli contains the command-line interface shared by Lace's subcommands.
package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/nonl4331/lace/internal/log"
)

// Command represents a sub-command in the CLI. Each sub-command has its own flags and an action to
// perform.
type Command interface {
	// FlagSet returns the set of options the command accepts.
	FlagSet() *flag.FlagSet

	// Description returns a brief description of the command's function.
	Description() string

	// Usage prints detailed command documentation.
	Usage(out io.Writer) error

	// Run executes the command. Command output is written to out. It returns a process exit code
	// (spec.md §6: 0 success, 1 assembly error, 2 runtime error, 3 usage error).
	Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int
}

// Commander dispatches CLI arguments to a matching Command.
type Commander struct {
	ctx context.Context
	log *log.Logger

	help     Command
	commands []Command
}

// New creates a Commander that runs subcommands under ctx.
func New(ctx context.Context) *Commander {
	return &Commander{ctx: ctx, log: log.DefaultLogger()}
}

// Execute finds the subcommand named by args[0], parses its flags from the remainder, and runs it.
// With no arguments, it runs the configured help command and returns exit code 3 (usage error).
func (cli *Commander) Execute(args []string) int {
	if len(args) == 0 {
		cli.help.Run(cli.ctx, nil, os.Stdout, cli.log)
		return 3
	}

	found := cli.help // default, if no subcommand matches.

	for _, cmd := range cli.commands {
		if args[0] == cmd.FlagSet().Name() {
			found = cmd
			break
		}
	}

	fs := found.FlagSet()
	if err := fs.Parse(args[1:]); err != nil {
		cli.log.Error("parse error", "err", err)
		return 3
	}

	return found.Run(cli.ctx, fs.Args(), os.Stdout, cli.log)
}

// WithCommands registers the CLI's subcommands.
func (cli *Commander) WithCommands(cmds []Command) *Commander {
	cli.commands = append([]Command(nil), cmds...)
	return cli
}

// WithHelp sets the command run when no subcommand matches, or none is given.
func (cli *Commander) WithHelp(cmd Command) *Commander {
	cli.help = cmd
	return cli
}

// WithLogger installs a logger that writes to out, leaving os.Stdout free for program output.
func (cli *Commander) WithLogger(out *os.File) *Commander {
	logger := log.NewFormattedLogger(out)
	cli.log = logger
	log.SetDefault(logger)

	return cli
}

// Type aliases from the standard library, to reduce symbol stutter at call sites.
type (
	Flag    = flag.Flag
	FlagSet = flag.FlagSet
)
