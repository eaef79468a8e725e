package debugger

// controller.go is the debugger's REPL (spec.md §4.7): it reads a command line, resolves it via
// the command parser, and dispatches to a handler operating on the step engine, the loaded image
// and the VM's registers and memory.

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/vm"
)

// Action tells the controller's caller what to do once Run returns.
type Action uint8

const (
	// ActionDetach means the user typed "quit": the debugger steps aside and the VM should run to
	// completion under normal (non-stepped) execution.
	ActionDetach Action = iota

	// ActionExit means the user typed "exit" or closed input: the process should terminate.
	ActionExit
)

// Terminal is the raw/cooked mode handoff the controller needs around the REPL prompt, per
// spec.md §5: cooked while reading a command line, raw again before resuming the VM so GETC/IN see
// unbuffered keystrokes. A nil Terminal (as in tests, or when stdin isn't a tty) simply skips the
// handoff.
type Terminal interface {
	EnterRaw() error
	EnterCooked() error
}

// Controller is the debugger's REPL loop.
type Controller struct {
	Engine *Engine
	Image  asm.Image
	Loader *vm.Loader
	Term   Terminal

	in  *bufio.Scanner
	out io.Writer
	log *log.Logger
}

// NewController creates a Controller reading commands from in and writing output to out. Any
// breakpoints recorded in image (from .BREAK directives) are installed on engine immediately.
func NewController(engine *Engine, image asm.Image, loader *vm.Loader, in io.Reader, out io.Writer) *Controller {
	for _, bp := range image.Breakpoints {
		engine.AddBreakpoint(bp)
	}

	return &Controller{
		Engine: engine,
		Image:  image,
		Loader: loader,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    log.DefaultLogger(),
	}
}

// Run drives the REPL until the user quits, exits, or input is exhausted (which is treated like
// exit).
func (c *Controller) Run(ctx context.Context) Action {
	fmt.Fprintln(c.out, "lace debugger: type help for commands")

	for {
		fmt.Fprint(c.out, "(lace) ")

		if c.Term != nil {
			_ = c.Term.EnterCooked()
		}

		if !c.in.Scan() {
			return ActionExit
		}

		line := c.in.Text()

		if c.Term != nil {
			_ = c.Term.EnterRaw()
		}

		name, args, err := ParseCommandLine(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}

		if name == "" {
			continue
		}

		action, done, err := c.dispatch(ctx, name, args)
		if err != nil {
			fmt.Fprintln(c.out, err)
		}

		if done {
			return action
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, name string, args []string) (Action, bool, error) {
	switch name {
	case CmdHelp:
		c.help()
	case CmdStep:
		return 0, false, c.reportOutcome(c.Engine.StepOver(ctx))
	case CmdStepInto:
		return 0, false, c.cmdStepInto(ctx, args)
	case CmdStepOut:
		return 0, false, c.reportOutcome(c.Engine.StepOut(ctx))
	case CmdContinue:
		return 0, false, c.reportOutcome(c.Engine.Continue(ctx))
	case CmdRegisters:
		c.cmdRegisters()
	case CmdPrint:
		return 0, false, c.cmdPrint(args)
	case CmdMove:
		return 0, false, c.cmdMove(args)
	case CmdGoto:
		return 0, false, c.cmdGoto(args)
	case CmdBreakAdd:
		return 0, false, c.cmdBreakAdd(args)
	case CmdBreakRemove:
		return 0, false, c.cmdBreakRemove(args)
	case CmdBreakList:
		c.cmdBreakList()
	case CmdAssembly:
		return 0, false, c.cmdAssembly(args)
	case CmdEval:
		return 0, false, c.cmdEval(args)
	case CmdReset:
		return 0, false, c.cmdReset()
	case CmdQuit:
		return ActionDetach, true, nil
	case CmdExit:
		return ActionExit, true, nil
	}

	return 0, false, nil
}

func (c *Controller) reportOutcome(outcome vm.Outcome, err error) error {
	if err != nil {
		return err
	}

	switch outcome {
	case vm.Halted:
		fmt.Fprintln(c.out, "program halted")
	case vm.ReadBlocked:
		fmt.Fprintln(c.out, "interrupted")
	default:
		if c.Engine.atBreakpoint() {
			fmt.Fprintf(c.out, "breakpoint at %s\n", vm.Word(c.Engine.VM.PC))
		}
	}

	return nil
}

func (c *Controller) cmdStepInto(ctx context.Context, args []string) error {
	n := 1

	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("%w: step into count must be a positive integer", ErrBadArgument)
		}

		n = v
	}

	return c.reportOutcome(c.Engine.StepInto(ctx, n))
}

func (c *Controller) cmdRegisters() {
	m := c.Engine.VM
	fmt.Fprintln(c.out, m.REG.String())
	fmt.Fprintf(c.out, "PC: %s PSR: %s MCR: %s\n", m.PC, m.PSR, m.MCR)
}

func (c *Controller) cmdPrint(args []string) error {
	loc := "PC"
	if len(args) > 0 {
		loc = args[0]
	}

	if strings.EqualFold(loc, "PC") {
		c.displayWord(vm.Word(c.Engine.VM.PC), "PC")
		return nil
	}

	if reg, ok := registerOf(loc); ok {
		c.displayWord(vm.Word(c.Engine.VM.REG[reg]), strings.ToUpper(loc))
		return nil
	}

	addr, err := ParseAddress(loc, c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	c.displayWord(c.Engine.VM.Mem.Read(addr), addr.String())

	return nil
}

func (c *Controller) displayWord(w vm.Word, label string) {
	fmt.Fprintf(c.out, "%s: signed=%d unsigned=%d hex=%s ascii=%s\n",
		label, w.Signed(), uint16(w), w.String(), asciiOf(w))
}

func asciiOf(w vm.Word) string {
	b := byte(w)
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}

	return "."
}

func (c *Controller) cmdMove(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: move requires LOC and VAL", ErrBadArgument)
	}

	val, err := parseNumber(args[1])
	if err != nil {
		return err
	}

	if strings.EqualFold(args[0], "PC") {
		c.Engine.VM.PC = vm.ProgramCounter(val)
		return nil
	}

	if reg, ok := registerOf(args[0]); ok {
		c.Engine.VM.REG[reg] = vm.Register(val)
		return nil
	}

	addr, err := ParseAddress(args[0], c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	c.Engine.VM.Mem.Write(addr, vm.Word(val))

	return nil
}

func (c *Controller) cmdGoto(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: goto requires LOC", ErrBadArgument)
	}

	addr, err := ParseAddress(args[0], c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	c.Engine.VM.PC = vm.ProgramCounter(addr)

	return nil
}

func (c *Controller) cmdBreakAdd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: break add requires LOC", ErrBadArgument)
	}

	addr, err := ParseAddress(args[0], c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	c.Engine.AddBreakpoint(addr)
	fmt.Fprintf(c.out, "breakpoint set at %s\n", addr)

	return nil
}

func (c *Controller) cmdBreakRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: break remove requires LOC", ErrBadArgument)
	}

	addr, err := ParseAddress(args[0], c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	c.Engine.RemoveBreakpoint(addr)
	fmt.Fprintf(c.out, "breakpoint cleared at %s\n", addr)

	return nil
}

func (c *Controller) cmdBreakList() {
	bps := c.Engine.Breakpoints()
	if len(bps) == 0 {
		fmt.Fprintln(c.out, "no breakpoints")
		return
	}

	for _, addr := range bps {
		fmt.Fprintf(c.out, "  %s\n", addr)
	}
}

func (c *Controller) cmdAssembly(args []string) error {
	loc := "^"
	if len(args) > 0 {
		loc = args[0]
	}

	addr, err := ParseAddress(loc, c.Image.Symbols, vm.Word(c.Engine.VM.PC))
	if err != nil {
		return err
	}

	src, ok := c.Image.Source.Lookup(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSourceAt, addr)
	}

	fmt.Fprintf(c.out, "%s:%d: %s\n", src.File, src.Line, src.Text)

	return nil
}

// cmdReset restores memory and registers to the post-load state, per spec.md §4.7: user
// breakpoints stay, and .BREAK-sourced breakpoints are rescanned (re-added in case the user
// removed one).
func (c *Controller) cmdReset() error {
	c.Engine.VM.Reset()

	if _, err := c.Loader.Load(c.Image.Object); err != nil {
		return err
	}

	c.Engine.VM.PC = vm.ProgramCounter(c.Image.Object.Orig)

	for _, bp := range c.Image.Breakpoints {
		c.Engine.AddBreakpoint(bp)
	}

	c.Engine.state = Idle
	fmt.Fprintln(c.out, "machine reset")

	return nil
}

func (c *Controller) help() {
	fmt.Fprint(c.out, `commands:
  help(h)                  show this message
  step(s)                  step one source-level instruction, over calls
  step into(si) COUNT?     step COUNT instructions (default 1), into calls
  step out(so)             run until the current subroutine returns
  continue(c)              run until a breakpoint, halt or interrupt
  registers(r)             print all registers
  print(p) LOC?            print a register or memory word (default PC)
  move(m) LOC VAL          write a register or memory word
  goto(g) LOC              set PC
  break add(ba) LOC        set a breakpoint
  break remove(br) LOC     clear a breakpoint
  break list(bl)           list breakpoints
  assembly(a) LOC?         show the source line at LOC (default PC)
  eval(e) INSTR            assemble and execute one instruction in place
  reset(z)                 restore memory, registers and PC
  quit(q)                  detach; the program runs to completion
  exit(x)                  terminate
`)
}

func registerOf(name string) (vm.GPR, bool) {
	name = strings.ToUpper(name)
	if len(name) == 2 && name[0] == 'R' && name[1] >= '0' && name[1] <= '7' {
		return vm.GPR(name[1] - '0'), true
	}

	return 0, false
}
