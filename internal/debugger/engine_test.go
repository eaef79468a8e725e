package debugger

import (
	"context"
	"testing"

	"github.com/nonl4331/lace/internal/vm"
)

func TestEngineBreakpoints(tt *testing.T) {
	tt.Parallel()

	e := NewEngine(vm.New())

	e.AddBreakpoint(0x3010)
	e.AddBreakpoint(0x3002)
	e.AddBreakpoint(0x3020)
	e.RemoveBreakpoint(0x3099) // no-op: removing an address with no breakpoint

	want := []vm.Word{0x3002, 0x3010, 0x3020}

	got := e.Breakpoints()
	if len(got) != len(want) {
		tt.Fatalf("Breakpoints() want: %v, got: %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			tt.Errorf("Breakpoints()[%d] want: %s, got: %s", i, want[i], got[i])
		}
	}

	e.RemoveBreakpoint(0x3010)

	got = e.Breakpoints()
	if len(got) != 2 || got[0] != 0x3002 || got[1] != 0x3020 {
		tt.Errorf("Breakpoints() after remove: got %v", got)
	}
}

func TestEngineStepOverSkipsSubroutine(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	// JSR to 0x3100, which does one ADD then RET, then the caller continues at 0x3001.
	offset := int32(0x3100) - int32(0x3001)
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.JSR, 0x0800|uint16(offset)&0x07ff)))
	cpu.Mem.Write(0x3100, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3101, vm.Word(vm.NewInstruction(vm.JMP, 0b000_111_000000))) // RET

	outcome, err := e.StepOver(context.Background())
	if err != nil {
		tt.Fatalf("StepOver: %v", err)
	}

	if outcome != vm.Continued {
		tt.Fatalf("outcome want: %s, got: %s", vm.Continued, outcome)
	}

	if cpu.PC != 0x3001 {
		tt.Errorf("PC want: %s, got: %s", vm.ProgramCounter(0x3001), cpu.PC)
	}

	if e.State() != Idle {
		tt.Errorf("state want: %s, got: %s", Idle, e.State())
	}
}

func TestEngineStepOverSingleInstruction(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	cpu.REG[vm.R0] = 1
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))

	if _, err := e.StepOver(context.Background()); err != nil {
		tt.Fatalf("StepOver: %v", err)
	}

	if cpu.REG[vm.R0] != 2 {
		tt.Errorf("R0 want: 2, got: %s", cpu.REG[vm.R0])
	}

	if cpu.PC != 0x3001 {
		tt.Errorf("PC want: %s, got: %s", vm.ProgramCounter(0x3001), cpu.PC)
	}
}

func TestEngineStepOverStopsAtBreakpointInsideCall(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	offset := int32(0x3100) - int32(0x3001)
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.JSR, 0x0800|uint16(offset)&0x07ff)))
	cpu.Mem.Write(0x3100, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3101, vm.Word(vm.NewInstruction(vm.JMP, 0b000_111_000000)))

	e.AddBreakpoint(0x3100)

	if _, err := e.StepOver(context.Background()); err != nil {
		tt.Fatalf("StepOver: %v", err)
	}

	if cpu.PC != 0x3100 {
		tt.Errorf("PC want: %s, got: %s", vm.ProgramCounter(0x3100), cpu.PC)
	}
}

func TestEngineStepInto(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	cpu.REG[vm.R0] = 1
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3001, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3002, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))

	if _, err := e.StepInto(context.Background(), 3); err != nil {
		tt.Fatalf("StepInto: %v", err)
	}

	if cpu.REG[vm.R0] != 4 {
		tt.Errorf("R0 want: 4, got: %s", cpu.REG[vm.R0])
	}

	if cpu.PC != 0x3003 {
		tt.Errorf("PC want: %s, got: %s", vm.ProgramCounter(0x3003), cpu.PC)
	}
}

func TestEngineContinueStopsAtBreakpoint(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3001, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3002, vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00001)))
	cpu.Mem.Write(0x3003, vm.Word(vm.NewInstruction(vm.TRAP, uint16(vm.TrapHALT))))

	e.AddBreakpoint(0x3003)

	if _, err := e.Continue(context.Background()); err != nil {
		tt.Fatalf("Continue: %v", err)
	}

	if cpu.PC != 0x3003 {
		tt.Errorf("PC want: %s, got: %s", vm.ProgramCounter(0x3003), cpu.PC)
	}

	if e.State() != Idle {
		tt.Errorf("state want: %s, got: %s", Idle, e.State())
	}

	// Continuing again must make progress past the breakpoint rather than stopping immediately:
	// the instruction sitting at the breakpoint address (HALT) must actually run.
	outcome, err := e.Continue(context.Background())
	if err != nil {
		tt.Fatalf("Continue: %v", err)
	}

	if outcome != vm.Halted {
		tt.Errorf("outcome want: %s, got: %s", vm.Halted, outcome)
	}
}

func TestEngineContinueHalts(tt *testing.T) {
	tt.Parallel()

	cpu := vm.New()
	e := NewEngine(cpu)

	cpu.PC = 0x3000
	cpu.Mem.Write(0x3000, vm.Word(vm.NewInstruction(vm.TRAP, uint16(vm.TrapHALT))))

	outcome, err := e.Continue(context.Background())
	if err != nil {
		tt.Fatalf("Continue: %v", err)
	}

	if outcome != vm.Halted {
		tt.Errorf("outcome want: %s, got: %s", vm.Halted, outcome)
	}

	if e.State() != Halted {
		tt.Errorf("state want: %s, got: %s", Halted, e.State())
	}
}
