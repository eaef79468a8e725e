package vm

// traps.go implements the trap service routines natively in Go. Per spec.md §4.5, traps are
// intercepted when the TRAP instruction executes rather than executed as LC-3 code loaded into a trap-vector table (the
// approach the teacher's own monitor package took) — this is a deliberate departure from the
// teacher, required by the specification.

import (
	"context"
	"fmt"
)

// dispatchTrap runs the native handler for the trap vector in a TRAP instruction. R7 already holds
// the return address by the time this runs (see the trap operation's Execute in ops.go).
func (vm *LC3) dispatchTrap(ctx context.Context, vector Word) error {
	switch vector {
	case TrapGETC:
		return vm.trapGETC(ctx)
	case TrapOUT:
		return vm.trapOUT()
	case TrapPUTS:
		return vm.trapPUTS()
	case TrapIN:
		return vm.trapIN(ctx)
	case TrapPUTSP:
		return vm.trapPUTSP()
	case TrapHALT:
		return vm.trapHALT()
	default:
		return fmt.Errorf("%w: x%02x", ErrUnknownTrap, vector)
	}
}

// trapGETC reads one character from the console without echoing it and zero-extends it into R0.
func (vm *LC3) trapGETC(ctx context.Context) error {
	b, err := vm.console.ReadByte(ctx)
	if err != nil {
		return err
	}

	vm.REG[R0] = Register(b)
	vm.PSR.Set(vm.REG[R0])

	return nil
}

// trapOUT writes the character in R0's low byte to the display.
func (vm *LC3) trapOUT() error {
	vm.display.Put(DDRAddr, Register(byte(vm.REG[R0])))
	return nil
}

// trapPUTS writes the null-terminated string of words starting at the address in R0, one character
// per word, to the display.
func (vm *LC3) trapPUTS() error {
	addr := Word(vm.REG[R0])

	for {
		w := vm.Mem.Read(addr)
		if w == 0 {
			break
		}

		vm.display.Put(DDRAddr, Register(byte(w)))
		addr++
	}

	return nil
}

// trapIN prompts for, reads and echoes a single character, then zero-extends it into R0.
func (vm *LC3) trapIN(ctx context.Context) error {
	const prompt = "Input a character> "

	for i := 0; i < len(prompt); i++ {
		vm.display.Put(DDRAddr, Register(prompt[i]))
	}

	b, err := vm.console.ReadByte(ctx)
	if err != nil {
		return err
	}

	vm.display.Put(DDRAddr, Register(b))

	vm.REG[R0] = Register(b)
	vm.PSR.Set(vm.REG[R0])

	return nil
}

// trapPUTSP writes a packed string, two characters per word (low byte first), starting at the
// address in R0, stopping at the first zero byte.
func (vm *LC3) trapPUTSP() error {
	addr := Word(vm.REG[R0])

	for {
		w := vm.Mem.Read(addr)

		lo := byte(w)
		if lo == 0 {
			break
		}

		vm.display.Put(DDRAddr, Register(lo))

		hi := byte(w >> 8)
		if hi == 0 {
			break
		}

		vm.display.Put(DDRAddr, Register(hi))
		addr++
	}

	return nil
}

// trapHALT stops the machine by clearing the master control register's run bit.
func (vm *LC3) trapHALT() error {
	const msg = "\n\n--- halting the machine ---\n\n"

	for i := 0; i < len(msg); i++ {
		vm.display.Put(DDRAddr, Register(msg[i]))
	}

	vm.MCR &^= ControlRunning

	return nil
}
