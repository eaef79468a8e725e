package vm

// vm.go assembles the machine from its smaller parts.

import (
	"fmt"

	"github.com/nonl4331/lace/internal/log"
)

// LC3 is an LC-3 computer simulated in software: registers, condition codes, program counter and
// a 2^16-word memory, per spec.md §3.
type LC3 struct {
	PC  ProgramCounter
	IR  Instruction
	PSR ProcessorStatus
	MCR ControlRegister
	REG RegisterFile
	Mem *Memory

	console Console
	kbd     *Keyboard
	display *Display

	log *log.Logger
}

// OptionFn configures a machine during construction.
type OptionFn func(vm *LC3)

// New creates and initializes a virtual machine in its post-reset state.
func New(opts ...OptionFn) *LC3 {
	vm := &LC3{
		console: nullConsole{},
		log:     log.DefaultLogger(),
	}

	vm.Mem = NewMemory()
	vm.kbd = NewKeyboard(vm.console)
	vm.display = NewDisplay(vm.console)

	vm.Mem.MapDevice(KBSRAddr, vm.kbd)
	vm.Mem.MapDevice(KBDRAddr, vm.kbd)
	vm.Mem.MapDevice(DSRAddr, vm.display)
	vm.Mem.MapDevice(DDRAddr, vm.display)
	vm.Mem.MapDevice(MCRAddr, &vm.MCR)

	for _, opt := range opts {
		opt(vm)
	}

	vm.initializeRegisters()

	return vm
}

// WithLogger configures the machine's logger.
func WithLogger(logger *log.Logger) OptionFn {
	return func(vm *LC3) { vm.log = logger }
}

// WithConsole attaches the host console used for trap I/O and the keyboard/display registers. It
// must be called before any instruction that blocks on input runs.
func WithConsole(console Console) OptionFn {
	return func(vm *LC3) {
		vm.console = console
		vm.kbd.console = console
		vm.display.console = console
	}
}

// WithDisplayListener configures a callback invoked for every character the program writes to the
// display, via OUT/PUTS/PUTSP or a direct store to DDR.
func WithDisplayListener(listener func(uint16)) OptionFn {
	return func(vm *LC3) { vm.display.Listen(listener) }
}

// initializeRegisters sets the machine to its starting state: no condition code set, PC at the
// conventional user-space origin, MCR's run bit set, and registers zeroed.
func (vm *LC3) initializeRegisters() {
	vm.PC = ProgramCounter(UserSpaceAddr)
	vm.PSR = 0
	vm.MCR = ControlRunning
	vm.IR = 0
	vm.REG = RegisterFile{}
}

// Reset returns the machine to its freshly constructed state: all memory and registers are
// cleared, the program counter is set to UserSpaceAddr, and the run bit is set again. It does not
// reload a program.
// Per spec.md §8, Reset is idempotent.
func (vm *LC3) Reset() {
	vm.Mem.Reset()
	vm.initializeRegisters()
}

func (vm *LC3) String() string {
	return fmt.Sprintf(
		"PC: %s IR: %s PSR: %s MCR: %s\nMAR: %s MDR: %s\n%s",
		vm.PC, vm.IR, vm.PSR, vm.MCR, vm.Mem.MAR, vm.Mem.MDR, vm.REG,
	)
}

func (vm *LC3) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", vm.PC.String()),
		log.String("IR", vm.IR.String()),
		log.String("PSR", vm.PSR.String()),
		log.String("MCR", vm.MCR.String()),
	)
}
