package debugger

// errors.go collects the DebugError taxonomy (spec.md §7). Unlike AsmError and VmError, none of
// these ever terminate a session: the controller prints them and returns to the prompt.

import "errors"

var (
	// ErrUnknownCommand is returned when the first token of a command line matches no command name
	// or alias.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgument is returned when an argument is missing or fails to parse as its expected
	// type (an address, a register name, a 16-bit value).
	ErrBadArgument = errors.New("bad argument")

	// ErrAddressNoLabel is returned when an address expression names a symbol absent from the
	// current symbol table.
	ErrAddressNoLabel = errors.New("no such label")

	// ErrAddressOutOfRange is returned when a numeric literal in an address expression does not
	// fit in 16 bits.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrNoSourceAt is returned by "assembly" when the source map has no entry for the address.
	ErrNoSourceAt = errors.New("no source at address")

	// ErrNotSimulable is returned by "eval" for BR*, HALT and directives, which eval refuses to
	// run: branches have no meaningful isolated effect and HALT would end the session the debugger
	// is attached to.
	ErrNotSimulable = errors.New("instruction cannot be simulated")
)
