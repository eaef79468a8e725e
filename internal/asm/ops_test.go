package asm

import (
	"errors"
	"testing"

	"github.com/nonl4331/lace/internal/vm"
)

func TestOpAddRegisterGenerate(tt *testing.T) {
	tt.Parallel()

	op := &ADD{DR: "R1", SR1: "R2", SR2: "R3"}

	words, err := op.Generate(SymbolTable{}, 0)
	if err != nil {
		tt.Fatalf("Generate: %v", err)
	}

	want := vm.Word(vm.NewInstruction(vm.ADD, 0b001_010_0_00_011))
	if len(words) != 1 || words[0] != want {
		tt.Errorf("Generate want: [%s], got: %v", want, words)
	}
}

func TestOpAddBadRegister(tt *testing.T) {
	tt.Parallel()

	op := &ADD{DR: "R9", SR1: "R0", SR2: "R1"}

	_, err := op.Generate(SymbolTable{}, 0)

	var re *RegisterError
	if !errors.As(err, &re) {
		tt.Fatalf("want *RegisterError, got: %T (%v)", err, err)
	}
}

func TestOpBRUnknownSymbol(tt *testing.T) {
	tt.Parallel()

	op := &BR{NZP: condZero, Symbol: "NOPE"}

	_, err := op.Generate(SymbolTable{}, 0x3001)

	var se *SymbolError
	if !errors.As(err, &se) {
		tt.Fatalf("want *SymbolError, got: %T (%v)", err, err)
	}
}

func TestOpBROffsetOutOfRange(tt *testing.T) {
	tt.Parallel()

	symbols := SymbolTable{}
	if err := symbols.Add("FAR", 0x4000); err != nil {
		tt.Fatalf("Add: %v", err)
	}

	op := &BR{NZP: condZero, Symbol: "FAR"}

	_, err := op.Generate(symbols, 0x3001)

	var oe *OffsetRangeError
	if !errors.As(err, &oe) {
		tt.Fatalf("want *OffsetRangeError, got: %T (%v)", err, err)
	}

	if oe.Bits != 9 {
		tt.Errorf("Bits want: 9, got: %d", oe.Bits)
	}
}

func TestOpBlkwParseRejectsZero(tt *testing.T) {
	tt.Parallel()

	op := &BLKW{}

	err := op.Parse("BLKW", []string{"#0"})
	if err == nil {
		tt.Fatal("want error, got nil")
	}

	if !errors.Is(err, ErrBlkwSize) {
		tt.Errorf("want error wrapping ErrBlkwSize, got: %v", err)
	}
}

func TestOpBlkwParseAndGenerate(tt *testing.T) {
	tt.Parallel()

	op := &BLKW{}

	if err := op.Parse("BLKW", []string{"#4"}); err != nil {
		tt.Fatalf("Parse: %v", err)
	}

	if op.Size() != 4 {
		tt.Errorf("Size want: 4, got: %d", op.Size())
	}

	words, err := op.Generate(SymbolTable{}, 0)
	if err != nil {
		tt.Fatalf("Generate: %v", err)
	}

	if len(words) != 4 {
		tt.Errorf("Generate want: 4 words, got: %d", len(words))
	}

	for i, w := range words {
		if w != 0 {
			tt.Errorf("word %d want: 0, got: %s", i, w)
		}
	}
}

func TestOpStringzSizeAndGenerate(tt *testing.T) {
	tt.Parallel()

	op := &STRINGZ{}

	if err := op.Parse("STRINGZ", []string{"hi"}); err != nil {
		tt.Fatalf("Parse: %v", err)
	}

	if op.Size() != 3 {
		tt.Errorf("Size want: 3 (2 chars + NUL), got: %d", op.Size())
	}

	words, err := op.Generate(SymbolTable{}, 0)
	if err != nil {
		tt.Fatalf("Generate: %v", err)
	}

	want := []vm.Word{'h', 'i', 0}
	if len(words) != len(want) {
		tt.Fatalf("Generate len want: %d, got: %d", len(want), len(words))
	}

	for i := range want {
		if words[i] != want[i] {
			tt.Errorf("word %d want: %s, got: %s", i, want[i], words[i])
		}
	}
}

func TestNewOperationUnknownOpcode(tt *testing.T) {
	tt.Parallel()

	_, err := NewOperation("FROBNICATE")
	if !errors.Is(err, ErrOpcode) {
		tt.Errorf("want error wrapping ErrOpcode, got: %v", err)
	}
}
