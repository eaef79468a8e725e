package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/cli"
	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/objcode"
)

// Assemble returns the "assemble" subcommand: translates LC3ASM source into an object image.
//
//	lace assemble [-o out.obj] file.asm
func Assemble() cli.Command {
	return &assembler{output: "a.obj"}
}

type assembler struct {
	debug  bool
	output string
}

func (*assembler) Description() string { return "assemble source into an object image" }

func (*assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `assemble [-o out.obj] file.asm

Assembles LC3ASM source into a big-endian object image.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.StringVar(&a.output, "o", "a.obj", "output `filename`")

	return fs
}

func (a *assembler) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) != 1 {
		fmt.Fprintln(stdout, "assemble: expected exactly one source file")
		return 3
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read source", "file", args[0], "err", err)
		return 1
	}

	img, err := asm.Assemble(args[0], string(src))
	if err != nil {
		logger.Error("assembly failed", "err", err)
		fmt.Fprintln(stdout, err)

		return 1
	}

	out, err := os.Create(a.output)
	if err != nil {
		logger.Error("create output", "file", a.output, "err", err)
		return 1
	}
	defer out.Close()

	wrote, err := objcode.Write(out, img.Object)
	if err != nil {
		logger.Error("write object", "file", a.output, "err", err)
		return 1
	}

	logger.Info("assembled", "out", a.output, "bytes", wrote, "symbols", img.Symbols.Count())

	return 0
}
