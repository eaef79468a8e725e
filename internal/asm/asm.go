/*
Package asm implements a two-pass assembler for LC3ASM, Lace's assembly language.

	LOOP    AND R3,R3,R2
	        AND R1,R1,#-1
	        BRp LOOP

	        .ORIG x3010 ; comment
	IDENT   .FILL xff00
	        .END

A Lexer (see the asmlex package) tokenizes source text; a Parser consumes those tokens into a
SyntaxTable of Operations and a SymbolTable of label locations (pass one); a Generator walks the
syntax table a second time, resolving symbols to PC-relative offsets and encoding each Operation to
machine words (pass two).

	p := NewParser(log.DefaultLogger())
	if err := p.Parse("prog.asm", strings.NewReader(source)); err != nil {
		...
	}

	gen := NewGenerator(p.Origin(), p.Symbols(), p.Syntax())
	obj, err := gen.Assemble()

# Bugs

The grammar has no macro facility and no support for multiple translation units sharing a symbol
table across separate invocations.
*/
package asm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nonl4331/lace/internal/vm"
)

// SymbolTable maps a label to the memory address it names.
type SymbolTable map[string]vm.Word

// Add adds a symbol to the table. Symbols are case-insensitive; they are folded to upper case. The
// table is injective: Add fails if sym is already bound, rather than silently rebinding it.
func (s SymbolTable) Add(sym string, loc vm.Word) error {
	if sym == "" {
		panic("empty symbol")
	}

	key := strings.ToUpper(sym)
	if _, dup := s[key]; dup {
		return &DuplicateSymbolError{Symbol: sym}
	}

	s[key] = loc

	return nil
}

// Lookup returns a symbol's address.
func (s SymbolTable) Lookup(sym string) (vm.Word, bool) {
	loc, ok := s[strings.ToUpper(sym)]
	return loc, ok
}

// Count returns the number of symbols in the table.
func (s SymbolTable) Count() int { return len(s) }

const badOffset uint16 = 0xffff

// Offset computes an n-bit, PC-relative offset from a symbol to a program counter value. PC is the
// address of the word immediately following the instruction being encoded, per the ISA's
// PC-relative addressing convention.
func (s SymbolTable) Offset(sym string, pc vm.Word, n uint8) (uint16, error) {
	loc, ok := s.Lookup(sym)
	if !ok {
		return badOffset, &SymbolError{Symbol: sym}
	}

	delta := int32(int16(loc)) - int32(int16(pc))

	lo, hi := -(int32(1) << (n - 1)), (int32(1) << (n - 1)) - 1
	if delta < lo || delta > hi {
		return badOffset, &OffsetRangeError{Symbol: sym, Offset: delta, Bits: n}
	}

	mask := uint16(1)<<n - 1

	return uint16(delta) & mask, nil
}

var (
	// ErrOpcode is wrapped by errors from an invalid or unknown opcode.
	ErrOpcode = errors.New("opcode error")

	// ErrOperand is wrapped by errors from an invalid operand list.
	ErrOperand = errors.New("operand error")

	// ErrLiteral is wrapped by errors parsing an immediate or directive literal.
	ErrLiteral = errors.New("literal error")

	// ErrDirective is wrapped by errors from an unknown or misplaced directive.
	ErrDirective = errors.New("directive error")

	// ErrBlkwSize is wrapped by a .BLKW whose count is zero or would overflow the address space.
	ErrBlkwSize = errors.New(".blkw bad size")
)

// SyntaxError annotates an assembly error with its source location.
type SyntaxError struct {
	File string
	Line int
	Col  int
	Text string
	Err  error
}

func (se *SyntaxError) Error() string {
	if se.File == "" {
		return fmt.Sprintf("%d:%d: %s: %q", se.Line, se.Col, se.Err, se.Text)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %q", se.File, se.Line, se.Col, se.Err, se.Text)
}

func (se *SyntaxError) Unwrap() error { return se.Err }

// OffsetRangeError is returned when a symbolic PC-relative offset does not fit in its field.
type OffsetRangeError struct {
	Symbol string
	Offset int32
	Bits   uint8
}

func (oe *OffsetRangeError) Error() string {
	return fmt.Sprintf("offset error: %s: %d does not fit in %d bits", oe.Symbol, oe.Offset, oe.Bits)
}

// LiteralRangeError is returned when a numeric literal does not fit in its field.
type LiteralRangeError struct {
	Text string
	Bits uint8
}

func (le *LiteralRangeError) Error() string {
	return fmt.Sprintf("literal range error: %q does not fit in %d bits", le.Text, le.Bits)
}

// RegisterError is returned when an operand names something other than R0-R7.
type RegisterError struct {
	Op  string
	Reg string
}

func (re *RegisterError) Error() string {
	return fmt.Sprintf("%s: bad register: %q", re.Op, re.Reg)
}

// SymbolError is returned when a symbolic operand is not in the symbol table.
type SymbolError struct {
	Symbol string
}

func (se *SymbolError) Error() string { return fmt.Sprintf("undefined symbol: %q", se.Symbol) }

func (se *SymbolError) Is(err error) bool {
	_, ok := err.(*SymbolError) //nolint:errorlint
	return ok
}

// DuplicateSymbolError is returned when a label is defined more than once. The symbol table is
// injective, so redefining a label fails assembly rather than silently rebinding it.
type DuplicateSymbolError struct {
	Symbol string
}

func (de *DuplicateSymbolError) Error() string { return fmt.Sprintf("duplicate label: %q", de.Symbol) }

func (de *DuplicateSymbolError) Is(err error) bool {
	_, ok := err.(*DuplicateSymbolError) //nolint:errorlint
	return ok
}

// Operation is an assembly instruction or directive: parsed once from source text, then encoded to
// machine words against the final symbol table.
type Operation interface {
	// Parse initializes the operation from an opcode/directive name and its operand tokens.
	Parse(operator string, operands []string) error

	// Generate encodes the operation to one or more machine words. pc is the address of the word
	// following the operation, matching the ISA's PC-relative convention.
	Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error)

	// Size returns the number of words the operation occupies in the final image.
	Size() uint16
}

// SourceInfo annotates an Operation with the source position it was parsed from, so pass two can
// report errors against the original text.
type SourceInfo struct {
	File string
	Line int
	Col  int
	Text string

	Operation
}

func (si *SourceInfo) Unwrap() Operation { return si.Operation }

// SyntaxTable holds the parsed program in source order.
type SyntaxTable []*SourceInfo

// Add appends an operation to the table.
func (s *SyntaxTable) Add(si *SourceInfo) {
	if si == nil {
		panic("nil operation")
	}

	*s = append(*s, si)
}

// Condition name fragments used by the BR family of mnemonics (BR, BRn, BRz, ..., BRnzp).
const (
	condPositive = uint16(vm.ConditionPositive)
	condZero     = uint16(vm.ConditionZero)
	condNegative = uint16(vm.ConditionNegative)
)
