package debugger

// engine.go implements the step engine (spec.md §4.6): a small explicit state machine that
// advances the VM one instruction at a time, per the design note in spec.md §9 ("encode each
// stepping mode as explicit state ... advanced one VM instruction at a time").

import (
	"context"

	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/vm"
)

// State is the engine's coarse run state.
type State uint8

const (
	// Idle means the engine is stopped and waiting at the debugger prompt.
	Idle State = iota

	// Running means a step/continue is in progress.
	Running

	// Halted means the VM's run bit is clear; no further stepping is possible until Reset.
	Halted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// Engine wraps a VM with the stepping modes and breakpoint set the debugger drives it through.
type Engine struct {
	VM *vm.LC3

	breakpoints map[vm.Word]struct{}
	state       State

	log *log.Logger
}

// NewEngine creates a step engine over machine, with no breakpoints set.
func NewEngine(machine *vm.LC3) *Engine {
	return &Engine{
		VM:          machine,
		breakpoints: make(map[vm.Word]struct{}),
		state:       Idle,
		log:         log.DefaultLogger(),
	}
}

// State returns the engine's current run state.
func (e *Engine) State() State { return e.state }

// AddBreakpoint sets a breakpoint at addr.
func (e *Engine) AddBreakpoint(addr vm.Word) { e.breakpoints[addr] = struct{}{} }

// RemoveBreakpoint clears a breakpoint at addr. Removing an address with no breakpoint is a no-op,
// so add-then-remove at the same address always leaves the set unchanged (spec.md §8).
func (e *Engine) RemoveBreakpoint(addr vm.Word) { delete(e.breakpoints, addr) }

// Breakpoints returns the set of breakpoint addresses, in ascending order.
func (e *Engine) Breakpoints() []vm.Word {
	addrs := make([]vm.Word, 0, len(e.breakpoints))
	for addr := range e.breakpoints {
		addrs = append(addrs, addr)
	}

	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j-1] > addrs[j]; j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}

	return addrs
}

func (e *Engine) atBreakpoint() bool {
	_, ok := e.breakpoints[vm.Word(e.VM.PC)]
	return ok
}

// finish records the engine's state after a step loop ends, per the outcome the VM reported.
func (e *Engine) finish(outcome vm.Outcome) {
	switch outcome {
	case vm.Halted:
		e.state = Halted
	default:
		e.state = Idle
	}
}

// cancelled reports whether ctx has been cancelled, without blocking.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// peek decodes the instruction at the current PC without executing it.
func (e *Engine) peek() vm.Instruction {
	return vm.Instruction(e.VM.Mem.Read(vm.Word(e.VM.PC)))
}

// isCall reports whether op is a subroutine call. JSRR shares JSR's opcode nibble (it's
// distinguished only by the mode bit within the operand field, which Opcode() doesn't carry), so
// checking against vm.JSR alone covers both forms.
func isCall(op vm.Opcode) bool {
	return op == vm.JSR || op == vm.TRAP
}

func isReturn(op vm.Opcode) bool {
	return op == vm.JMP // covers the synthetic RET, which shares JMP's opcode nibble.
}

// StepOver executes exactly one source-level step: a single instruction, unless it is a
// JSR/JSRR/TRAP, in which case the entire call is run to completion and treated as one step. This
// is the "step(s)" command.
func (e *Engine) StepOver(ctx context.Context) (vm.Outcome, error) {
	e.state = Running

	call := e.peek().Opcode()
	returnAddr := vm.Word(e.VM.PC) + 1

	outcome, err := e.VM.Step(ctx)
	if err != nil || outcome != vm.Continued || !isCall(call) {
		e.finish(outcome)
		return outcome, err
	}

	for vm.Word(e.VM.PC) != returnAddr {
		if e.atBreakpoint() || cancelled(ctx) {
			e.state = Idle
			return vm.Continued, nil
		}

		outcome, err = e.VM.Step(ctx)
		if err != nil || outcome != vm.Continued {
			e.finish(outcome)
			return outcome, err
		}
	}

	e.state = Idle

	return outcome, nil
}

// StepInto executes n instructions, descending into any call encountered rather than stepping over
// it. It stops early on a breakpoint, a halt, an error, or ctx cancellation.
func (e *Engine) StepInto(ctx context.Context, n int) (vm.Outcome, error) {
	e.state = Running

	outcome := vm.Continued

	for i := 0; i < n; i++ {
		if i > 0 && (e.atBreakpoint() || cancelled(ctx)) {
			e.state = Idle
			return vm.Continued, nil
		}

		var err error

		outcome, err = e.VM.Step(ctx)
		if err != nil || outcome != vm.Continued {
			e.finish(outcome)
			return outcome, err
		}
	}

	e.state = Idle

	return outcome, nil
}

// StepOut runs until the current subroutine returns to its caller, tracking nested calls so that a
// call made from within the subroutine doesn't return early. Per spec.md §9, this is a shadow
// return address (the value already in R7) plus a nested-call counter.
func (e *Engine) StepOut(ctx context.Context) (vm.Outcome, error) {
	e.state = Running

	shadowReturn := vm.Word(e.VM.REG[vm.RETP])
	depth := 0

	for {
		op := e.peek().Opcode()

		outcome, err := e.VM.Step(ctx)
		if err != nil || outcome != vm.Continued {
			e.finish(outcome)
			return outcome, err
		}

		switch {
		case isCall(op):
			depth++
		case isReturn(op):
			if depth == 0 && vm.Word(e.VM.PC) == shadowReturn {
				e.state = Idle
				return outcome, nil
			} else if depth > 0 {
				depth--
			}
		}

		if e.atBreakpoint() || cancelled(ctx) {
			e.state = Idle
			return vm.Continued, nil
		}
	}
}

// Continue runs the VM until it hits a breakpoint, halts, errors, or ctx is cancelled. Per
// spec.md §4.6, the breakpoint check happens before executing the instruction at that address; the
// first instruction always executes so that continuing from a breakpoint makes progress instead of
// stopping immediately on the same address.
func (e *Engine) Continue(ctx context.Context) (vm.Outcome, error) {
	e.state = Running

	outcome, err := e.VM.Step(ctx)
	if err != nil || outcome != vm.Continued {
		e.finish(outcome)
		return outcome, err
	}

	for {
		if e.atBreakpoint() {
			e.state = Idle
			return vm.Continued, nil
		}

		if cancelled(ctx) {
			e.state = Idle
			return vm.ReadBlocked, nil
		}

		outcome, err = e.VM.Step(ctx)
		if err != nil || outcome != vm.Continued {
			e.finish(outcome)
			return outcome, err
		}
	}
}
