package asm

import (
	"errors"
	"testing"

	"github.com/nonl4331/lace/internal/vm"
)

func TestGeneratorBlkwLayout(tt *testing.T) {
	tt.Parallel()

	src := `
		.ORIG x3000
	ARR	.BLKW #3
		LD R0,ARR
		HALT
		.END
	`

	img, err := Assemble("blkw.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	want := []vm.Word{
		0, 0, 0, // the three .BLKW words
		vm.Word(vm.NewInstruction(vm.LD, 0b000_111_111_100)), // LD R0, ARR: offset -4 from pc=0x3004
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

func TestGeneratorOffsetOutOfRangeReportsSyntaxError(tt *testing.T) {
	tt.Parallel()

	src := ".ORIG x3000\nBRz FAR\n.BLKW #400\nFAR HALT\n.END\n"

	_, err := Assemble("offset.asm", src)
	if err == nil {
		tt.Fatal("want offset-range error, got nil")
	}

	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		tt.Fatalf("want *SyntaxError, got: %T (%v)", err, err)
	}

	var offErr *OffsetRangeError
	if !errors.As(err, &offErr) {
		tt.Fatalf("want *OffsetRangeError, got: %T (%v)", err, err)
	}

	if offErr.Symbol != "FAR" {
		tt.Errorf("Symbol want: FAR, got: %s", offErr.Symbol)
	}

	if offErr.Bits != 9 {
		tt.Errorf("Bits want: 9, got: %d", offErr.Bits)
	}
}

func TestGeneratorTracksBreakpoints(tt *testing.T) {
	tt.Parallel()

	src := "BREAK\n.ORIG x3000\nADD R0,R0,#1\nBREAK\nHALT\n.END\n"

	img, err := Assemble("break.asm", src)

	var synErr *SyntaxError
	if err == nil {
		tt.Fatal("leading BREAK before .orig must fail assembly")
	} else if !errors.As(err, &synErr) {
		tt.Fatalf("want *SyntaxError, got: %T (%v)", err, err)
	}

	src = ".ORIG x3000\nADD R0,R0,#1\nBREAK\nHALT\n.END\n"

	img, err = Assemble("break.asm", src)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	if len(img.Breakpoints) != 1 || img.Breakpoints[0] != 0x3001 {
		tt.Errorf("Breakpoints want: [0x3001], got: %v", img.Breakpoints)
	}
}
