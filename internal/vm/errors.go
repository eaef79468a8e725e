package vm

// errors.go collects the sentinel errors a machine's Step/Run loop can return.

import "errors"

var (
	// ErrPrivilegedInstruction is returned when RTI executes. Lace models no privilege rings or
	// interrupts (spec.md §1 Non-goals), so RTI can never legitimately run.
	ErrPrivilegedInstruction = errors.New("privileged instruction")

	// ErrReservedOpcode is returned when the undefined opcode (1101) is fetched.
	ErrReservedOpcode = errors.New("reserved opcode")

	// ErrHalted is returned by Step when the machine's run bit is already clear.
	ErrHalted = errors.New("machine halted")

	// ErrUnknownTrap is returned when a TRAP vector has no registered handler.
	ErrUnknownTrap = errors.New("unknown trap vector")
)
