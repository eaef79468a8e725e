package asm

import (
	"context"
	"errors"
	"testing"

	"github.com/nonl4331/lace/internal/vm"
)

func TestAssembleAddHalt(tt *testing.T) {
	tt.Parallel()

	src := `
		.ORIG x3000
		ADD R0,R0,#5
		HALT
		.END
	`

	img, err := Assemble("add_halt.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	if img.Object.Orig != 0x3000 {
		tt.Errorf("Orig want: x3000, got: %s", img.Object.Orig)
	}

	want := []vm.Word{
		vm.Word(vm.NewInstruction(vm.ADD, 0b000_000_1_00101)),
		vm.Word(vm.NewInstruction(vm.TRAP, uint16(vm.TrapHALT))),
	}

	if len(img.Object.Code) != len(want) {
		tt.Fatalf("Code len want: %d, got: %d (%v)", len(want), len(img.Object.Code), img.Object.Code)
	}

	for i := range want {
		if img.Object.Code[i] != want[i] {
			tt.Errorf("Code[%d] want: %s, got: %s", i, want[i], img.Object.Code[i])
		}
	}
}

func TestAssembleIsDeterministic(tt *testing.T) {
	tt.Parallel()

	src := `
		.ORIG x3000
	LOOP	AND R0,R0,#0
		ADD R0,R0,#1
		BRp LOOP
		HALT
		.END
	`

	first, err := Assemble("det.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	second, err := Assemble("det.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	if len(first.Object.Code) != len(second.Object.Code) {
		tt.Fatalf("Code length differs between runs: %d vs %d", len(first.Object.Code), len(second.Object.Code))
	}

	for i := range first.Object.Code {
		if first.Object.Code[i] != second.Object.Code[i] {
			tt.Errorf("Code[%d] differs between runs: %s vs %s", i, first.Object.Code[i], second.Object.Code[i])
		}
	}

	if len(first.Symbols) != len(second.Symbols) {
		tt.Errorf("Symbols length differs between runs: %d vs %d", len(first.Symbols), len(second.Symbols))
	}
}

func TestAssembleRoundTripsLoad(tt *testing.T) {
	tt.Parallel()

	src := `
		.ORIG x3000
		AND R0,R0,#0
		ADD R0,R0,#7
		HALT
		.END
	`

	img, err := Assemble("roundtrip.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	cpu := vm.New()
	loader := vm.NewLoader(cpu)

	if _, err := loader.Load(img.Object); err != nil {
		tt.Fatalf("Load: %v", err)
	}

	cpu.PC = vm.ProgramCounter(img.Object.Orig)

	for i := 0; i < 10; i++ {
		outcome, err := cpu.Step(context.Background())
		if err != nil {
			tt.Fatalf("Step: %v", err)
		}

		if outcome == vm.Halted {
			break
		}
	}

	if cpu.REG[vm.R0] != 7 {
		tt.Errorf("R0 want: 7, got: %s", cpu.REG[vm.R0])
	}
}

func TestSymbolTableAddDuplicate(tt *testing.T) {
	tt.Parallel()

	s := SymbolTable{}

	if err := s.Add("LOOP", 0x3000); err != nil {
		tt.Fatalf("Add: %v", err)
	}

	err := s.Add("loop", 0x3001)
	if err == nil {
		tt.Fatal("want error redefining LOOP under a different case, got nil")
	}

	var de *DuplicateSymbolError
	if !errors.As(err, &de) {
		tt.Fatalf("want *DuplicateSymbolError, got: %T (%v)", err, err)
	}

	loc, ok := s.Lookup("LOOP")
	if !ok || loc != 0x3000 {
		tt.Errorf("original binding must survive a rejected redefinition: loc=%s ok=%v", loc, ok)
	}
}

func TestSymbolTableOffsetOutOfRange(tt *testing.T) {
	tt.Parallel()

	s := SymbolTable{}
	if err := s.Add("FAR", 0x4000); err != nil {
		tt.Fatalf("Add: %v", err)
	}

	_, err := s.Offset("FAR", 0x3000, 9)

	var oe *OffsetRangeError
	if !errors.As(err, &oe) {
		tt.Fatalf("want *OffsetRangeError, got: %T (%v)", err, err)
	}

	if oe.Symbol != "FAR" {
		tt.Errorf("Symbol want: FAR, got: %s", oe.Symbol)
	}

	if oe.Bits != 9 {
		tt.Errorf("Bits want: 9, got: %d", oe.Bits)
	}
}
