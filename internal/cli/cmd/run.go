package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/cli"
	"github.com/nonl4331/lace/internal/debugger"
	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/objcode"
	"github.com/nonl4331/lace/internal/term"
	"github.com/nonl4331/lace/internal/vm"
)

// Run returns the "run" subcommand: loads and executes a program, optionally dropping into the
// debugger REPL first.
//
//	lace run [--debugger] file.asm|file.obj
func Run() cli.Command {
	return &runner{}
}

type runner struct {
	debug    bool
	debugger bool
}

func (*runner) Description() string { return "run a program" }

func (*runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run [--debugger] file.asm|file.obj

Loads and runs a program. With --debugger, drops into the REPL before executing
the first instruction.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&r.debugger, "debugger", false, "start in the interactive debugger")

	return fs
}

func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if r.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) != 1 {
		fmt.Fprintln(stdout, "run: expected exactly one program file")
		return 3
	}

	img, err := r.load(args[0])
	if err != nil {
		logger.Error("load failed", "file", args[0], "err", err)
		fmt.Fprintln(stdout, err)

		return 1
	}

	console, err := term.New(os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, term.ErrNoTTY) {
		logger.Error("terminal setup failed", "err", err)
		return 2
	}

	var opts []vm.OptionFn

	opts = append(opts, vm.WithLogger(logger))

	if console != nil {
		defer console.Restore()
		opts = append(opts, vm.WithConsole(console))
	}

	machine := vm.New(opts...)
	loader := vm.NewLoader(machine)

	if _, err := loader.Load(img.Object); err != nil {
		logger.Error("load failed", "err", err)
		return 2
	}

	machine.PC = vm.ProgramCounter(img.Object.Orig)

	var action debugger.Action = debugger.ActionDetach

	if r.debugger {
		engine := debugger.NewEngine(machine)
		ctl := debugger.NewController(engine, img, loader, os.Stdin, stdout)

		if console != nil {
			ctl.Term = console
		}

		action = ctl.Run(ctx)
	}

	if action == debugger.ActionExit {
		return 0
	}

	outcome, err := machine.Run(ctx)

	switch {
	case err != nil:
		logger.Error("runtime error", "err", err)
		return 2
	case outcome == vm.Halted:
		logger.Info("program halted")
		return 0
	default:
		logger.Info("interrupted")
		return 0
	}
}

// load reads a program file, assembling it first if it looks like source.
func (r *runner) load(name string) (asm.Image, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return asm.Image{}, err
	}

	if strings.EqualFold(filepath.Ext(name), ".asm") {
		return asm.Assemble(name, string(src))
	}

	obj, err := objcode.Read(bytes.NewReader(src))
	if err != nil {
		return asm.Image{}, err
	}

	return asm.Image{Object: obj, Symbols: asm.SymbolTable{}, Source: asm.SourceMap{}}, nil
}
