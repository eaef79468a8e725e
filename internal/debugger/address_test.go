package debugger

import (
	"errors"
	"testing"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/vm"
)

func TestParseAddress(tt *testing.T) {
	tt.Parallel()

	symbols := asm.SymbolTable{}
	symbols.Add("LOOP", 0x3010)

	cases := []struct {
		name string
		expr string
		pc   vm.Word
		want vm.Word
	}{
		{"absolute hex", "x3010", 0, 0x3010},
		{"absolute decimal", "12288", 0, 0x3000},
		{"label", "LOOP", 0, 0x3010},
		{"label plus offset", "LOOP+4", 0, 0x3014},
		{"label minus hex offset", "LOOP-x10", 0, 0x3000},
		{"pc relative bare", "^", 0x3004, 0x3004},
		{"pc relative positive", "^3", 0x3004, 0x3007},
		{"pc relative negative hex", "^-x10", 0x3020, 0x3010},
	}

	for _, c := range cases {
		c := c
		tt.Run(c.name, func(tt *testing.T) {
			tt.Parallel()

			got, err := ParseAddress(c.expr, symbols, c.pc)
			if err != nil {
				tt.Fatalf("ParseAddress(%q): %v", c.expr, err)
			}

			if got != c.want {
				tt.Errorf("ParseAddress(%q) want: %s, got: %s", c.expr, c.want, got)
			}
		})
	}
}

func TestParseAddressErrors(tt *testing.T) {
	tt.Parallel()

	symbols := asm.SymbolTable{}

	cases := []struct {
		name string
		expr string
		want error
	}{
		{"empty", "", ErrBadArgument},
		{"unknown label", "NOPE", ErrAddressNoLabel},
		{"literal out of range", "x10000", ErrAddressOutOfRange},
		{"garbage literal", "xzz", ErrBadArgument},
	}

	for _, c := range cases {
		c := c
		tt.Run(c.name, func(tt *testing.T) {
			tt.Parallel()

			_, err := ParseAddress(c.expr, symbols, 0)
			if !errors.Is(err, c.want) {
				tt.Errorf("ParseAddress(%q) want err: %v, got: %v", c.expr, c.want, err)
			}
		})
	}
}
