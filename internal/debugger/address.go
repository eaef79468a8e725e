package debugger

// address.go parses the address-expression grammar used by every LOC argument (spec.md §4.7,
// §6): an absolute literal (x3010), a label with an optional signed offset (FOO, FOO+4, FOO-x10),
// or a PC-relative expression (^, ^3, ^-x10).

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/vm"
)

// ParseAddress evaluates an address expression against the current symbol table and program
// counter.
func ParseAddress(expr string, symbols asm.SymbolTable, pc vm.Word) (vm.Word, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("%w: empty address", ErrBadArgument)
	}

	if strings.HasPrefix(expr, "^") {
		off, err := parseSignedOffset(expr[1:])
		if err != nil {
			return 0, err
		}

		return vm.Word(int32(pc) + off), nil
	}

	label, offsetText := splitLabelOffset(expr)

	if n, err := parseNumber(label); err == nil {
		off, err := parseSignedOffset(offsetText)
		if err != nil {
			return 0, err
		}

		return vm.Word(int32(n) + off), nil
	}

	loc, ok := symbols.Lookup(label)
	if !ok {
		// Text that starts like a literal (a digit or the x hex prefix) and names no label is
		// reported as a malformed or out-of-range literal.
		if c := label[0]; c == 'x' || c == 'X' || (c >= '0' && c <= '9') {
			_, err := parseNumber(label)
			return 0, err
		}

		return 0, fmt.Errorf("%w: %s", ErrAddressNoLabel, label)
	}

	off, err := parseSignedOffset(offsetText)
	if err != nil {
		return 0, err
	}

	return vm.Word(int32(loc) + off), nil
}

// splitLabelOffset divides an expression into its leading label/literal and a trailing signed
// offset, e.g. "FOO-x10" -> ("FOO", "-x10"). Labels never begin with + or -, so the first such
// rune after position zero starts the offset.
func splitLabelOffset(expr string) (label, offset string) {
	for i := 1; i < len(expr); i++ {
		if expr[i] == '+' || expr[i] == '-' {
			return expr[:i], expr[i:]
		}
	}

	return expr, ""
}

// parseSignedOffset parses an optional sign followed by a numeric literal. An empty string is a
// zero offset, so that "^" and "FOO" parse as their own address with no adjustment.
func parseSignedOffset(text string) (int32, error) {
	if text == "" {
		return 0, nil
	}

	neg := false

	switch text[0] {
	case '+':
		text = text[1:]
	case '-':
		neg = true
		text = text[1:]
	}

	n, err := parseNumber(text)
	if err != nil {
		return 0, err
	}

	if neg {
		return -int32(n), nil
	}

	return int32(n), nil
}

// parseNumber parses a bare numeric literal: hex (x-prefixed), octal (o-prefixed), binary
// (b-prefixed) or decimal, matching the prefixes the assembler's own literal syntax accepts.
func parseNumber(text string) (uint16, error) {
	if text == "" {
		return 0, fmt.Errorf("%w: empty literal", ErrBadArgument)
	}

	base := 10

	switch text[0] {
	case 'x', 'X':
		base, text = 16, text[1:]
	case 'o', 'O':
		base, text = 8, text[1:]
	case 'b', 'B':
		base, text = 2, text[1:]
	}

	v, err := strconv.ParseUint(text, base, 16)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange { //nolint:errorlint
			return 0, fmt.Errorf("%w: %s", ErrAddressOutOfRange, text)
		}

		return 0, fmt.Errorf("%w: %s", ErrBadArgument, text)
	}

	return uint16(v), nil
}
