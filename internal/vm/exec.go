package vm

// exec.go implements the machine's fetch-decode-execute cycle.

import (
	"context"
	"errors"
)

// Outcome classifies the result of a single Step.
type Outcome uint8

const (
	// Continued means the instruction ran and the machine is still running.
	Continued Outcome = iota

	// Halted means the instruction ran and left the machine's run bit clear (TRAP HALT, or a
	// direct store to MCR).
	Halted

	// ReadBlocked means the instruction suspended on a GETC/IN console read and the caller's
	// context was cancelled before a byte arrived. The instruction has not completed: Step moves PC
	// back to the TRAP and restores R7, and R0 is not touched, so re-stepping re-enters the same
	// trap. Per spec.md §5, this is how Ctrl-C interrupts a blocked read.
	ReadBlocked
)

func (o Outcome) String() string {
	switch o {
	case Continued:
		return "continued"
	case Halted:
		return "halted"
	case ReadBlocked:
		return "read-blocked"
	default:
		return "unknown"
	}
}

// Step fetches, decodes and executes exactly one instruction.
func (vm *LC3) Step(ctx context.Context) (Outcome, error) {
	if !vm.MCR.Running() {
		return Halted, ErrHalted
	}

	vm.Mem.MAR = Register(vm.PC)

	if err := vm.Mem.Fetch(); err != nil {
		return Continued, err
	}

	vm.IR = Instruction(vm.Mem.MDR)
	vm.PC++

	op := vm.decode()
	retp := vm.REG[RETP]

	if err := op.Execute(vm, ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			vm.PC--
			vm.REG[RETP] = retp

			return ReadBlocked, nil
		}

		return Continued, err
	}

	vm.log.Debug("executed", "op", op.String(), "vm", vm)

	if !vm.MCR.Running() {
		return Halted, nil
	}

	return Continued, nil
}

// Run steps the machine until it halts, an error occurs, or ctx is cancelled. A cancelled context
// stops the loop between instructions and is not itself reported as an error, matching the
// Ctrl-C-interrupts-continue behavior in spec.md §5.
func (vm *LC3) Run(ctx context.Context) (Outcome, error) {
	for {
		select {
		case <-ctx.Done():
			return ReadBlocked, nil
		default:
		}

		outcome, err := vm.Step(ctx)
		if err != nil || outcome != Continued {
			return outcome, err
		}
	}
}
