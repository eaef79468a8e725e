package vm

import "context"

// Console is the host terminal abstraction shared by the trap service routines (traps.go) and the
// memory-mapped keyboard/display registers (devices.go). The VM never talks to os.Stdin/os.Stdout
// directly; it is always mediated by a Console so that tests can substitute an in-memory fake and
// so the debugger can arrange raw-mode/cooked-mode handoff around it (spec.md §5).
type Console interface {
	// ReadByte blocks until a byte is available, the context is done, or an I/O error occurs. It
	// implements the one of the two suspension points named in spec.md §5.
	ReadByte(ctx context.Context) (byte, error)

	// WriteByte emits a single byte to the console and flushes it.
	WriteByte(b byte) error

	// Poll returns a pending byte without blocking. It reports ok=false if no byte is available.
	// This backs the memory-mapped KBSR/KBDR registers, which must never block the instruction
	// that reads them.
	Poll() (b byte, ok bool)
}

// nullConsole discards output and never has input available. It is the default console so that a
// freshly constructed machine never blocks or panics before a real console is attached.
type nullConsole struct{}

func (nullConsole) ReadByte(ctx context.Context) (byte, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func (nullConsole) WriteByte(byte) error { return nil }

func (nullConsole) Poll() (byte, bool) { return 0, false }
