package asm

// ops.go implements parsing and code generation for every opcode and assembler directive.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nonl4331/lace/internal/vm"
)

const badGPR = uint16(0xffff)

func registerVal(reg string) uint16 {
	reg = strings.ToUpper(strings.TrimSpace(reg))

	if len(reg) != 2 || (reg[0] != 'R') {
		return badGPR
	}

	switch reg[1] {
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return uint16(reg[1] - '0')
	default:
		return badGPR
	}
}

// parseLiteral parses a numeric literal in decimal, hex (x.../0x...), octal (o.../0o...) or binary
// (b.../0b...) notation and checks that it fits in n bits, read as either a signed or an unsigned
// value (-2^(n-1) through 2^n-1).
func parseLiteral(text string, n uint8) (uint16, error) {
	text = strings.TrimSpace(text)

	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}

	text = strings.TrimPrefix(text, "#")

	base := 10

	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "x"), strings.HasPrefix(text, "X"):
		base = 16
		text = strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "x"), "X")
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "o"), strings.HasPrefix(text, "O"):
		base = 8
		text = strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(text, "0o"), "o"), "O")
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "b"), strings.HasPrefix(text, "B"):
		base = 2
		text = strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(text, "0b"), "b"), "B")
	}

	text = strings.ReplaceAll(text, "_", "")

	val, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrLiteral, err)
	}

	if neg {
		val = -val
	}

	lo, hi := -(int64(1) << (n - 1)), int64(1)<<n-1
	if val < lo || val > hi {
		return 0, &LiteralRangeError{Text: text, Bits: n}
	}

	mask := int64(1)<<n - 1

	return uint16(val) & uint16(mask), nil
}

// parseImmediate parses an operand that is either a symbolic reference or a numeric literal,
// returning the literal bits (valid only when sym == "") and the symbol name.
func parseImmediate(text string, n uint8) (lit uint16, sym string, err error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return 0, "", fmt.Errorf("%w: empty operand", ErrOperand)
	}

	if strings.HasPrefix(text, "#") || strings.HasPrefix(text, "-") ||
		(text[0] >= '0' && text[0] <= '9') ||
		strings.HasPrefix(strings.ToLower(text), "x") ||
		strings.HasPrefix(strings.ToLower(text), "o") ||
		strings.HasPrefix(strings.ToLower(text), "b") {
		lit, err = parseLiteral(text, n)
		return lit, "", err
	}

	return 0, text, nil
}

// BR: conditional branch.
type BR struct {
	NZP    uint16
	Symbol string
	Offset uint16
}

func (op *BR) Size() uint16 { return 1 }

func (op *BR) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: br takes one operand", ErrOperand)
	}

	var nzp uint16

	switch strings.ToUpper(opcode) {
	case "BR", "BRNZP":
		nzp = condNegative | condZero | condPositive
	case "BRN":
		nzp = condNegative
	case "BRZ":
		nzp = condZero
	case "BRP":
		nzp = condPositive
	case "BRNZ":
		nzp = condNegative | condZero
	case "BRNP":
		nzp = condNegative | condPositive
	case "BRZP":
		nzp = condZero | condPositive
	default:
		return fmt.Errorf("%w: %s", ErrOpcode, opcode)
	}

	lit, sym, err := parseImmediate(operands[0], 9)
	if err != nil {
		return fmt.Errorf("br: %w", err)
	}

	op.NZP, op.Offset, op.Symbol = nzp, lit, sym

	return nil
}

func (op *BR) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	offset := op.Offset

	if op.Symbol != "" {
		o, err := symbols.Offset(op.Symbol, pc, 9)
		if err != nil {
			return nil, fmt.Errorf("br: %w", err)
		}

		offset = o
	}

	return []vm.Word{vm.NewInstruction(vm.BR, op.NZP<<9|offset&0x1ff).Encode()}, nil
}

// ADD: addition, register or immediate mode.
type ADD struct {
	DR, SR1, SR2 string
	Imm          bool
	Literal      uint16
}

func (op *ADD) Size() uint16 { return 1 }

func (op *ADD) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("%w: add takes three operands", ErrOperand)
	}

	op.DR, op.SR1 = operands[0], operands[1]

	if sr2 := registerVal(operands[2]); sr2 != badGPR {
		op.SR2 = operands[2]
		return nil
	}

	lit, _, err := parseImmediate(operands[2], 5)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	op.Imm, op.Literal = true, lit

	return nil
}

func (op *ADD) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	dr, sr1 := registerVal(op.DR), registerVal(op.SR1)
	if dr == badGPR {
		return nil, &RegisterError{Op: "add", Reg: op.DR}
	} else if sr1 == badGPR {
		return nil, &RegisterError{Op: "add", Reg: op.SR1}
	}

	if op.Imm {
		return []vm.Word{vm.NewInstruction(vm.ADD, dr<<9|sr1<<6|1<<5|op.Literal&0x1f).Encode()}, nil
	}

	sr2 := registerVal(op.SR2)
	if sr2 == badGPR {
		return nil, &RegisterError{Op: "add", Reg: op.SR2}
	}

	return []vm.Word{vm.NewInstruction(vm.ADD, dr<<9|sr1<<6|sr2).Encode()}, nil
}

// AND: bitwise and, register or immediate mode.
type AND struct {
	DR, SR1, SR2 string
	Imm          bool
	Literal      uint16
}

func (op *AND) Size() uint16 { return 1 }

func (op *AND) Parse(opcode string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("%w: and takes three operands", ErrOperand)
	}

	op.DR, op.SR1 = operands[0], operands[1]

	if sr2 := registerVal(operands[2]); sr2 != badGPR {
		op.SR2 = operands[2]
		return nil
	}

	lit, _, err := parseImmediate(operands[2], 5)
	if err != nil {
		return fmt.Errorf("and: %w", err)
	}

	op.Imm, op.Literal = true, lit

	return nil
}

func (op *AND) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	dr, sr1 := registerVal(op.DR), registerVal(op.SR1)
	if dr == badGPR {
		return nil, &RegisterError{Op: "and", Reg: op.DR}
	} else if sr1 == badGPR {
		return nil, &RegisterError{Op: "and", Reg: op.SR1}
	}

	if op.Imm {
		return []vm.Word{vm.NewInstruction(vm.AND, dr<<9|sr1<<6|1<<5|op.Literal&0x1f).Encode()}, nil
	}

	sr2 := registerVal(op.SR2)
	if sr2 == badGPR {
		return nil, &RegisterError{Op: "and", Reg: op.SR2}
	}

	return []vm.Word{vm.NewInstruction(vm.AND, dr<<9|sr1<<6|sr2).Encode()}, nil
}

// NOT: bitwise complement.
type NOT struct {
	DR, SR string
}

func (op *NOT) Size() uint16 { return 1 }

func (op *NOT) Parse(opcode string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("%w: not takes two operands", ErrOperand)
	}

	op.DR, op.SR = operands[0], operands[1]

	return nil
}

func (op *NOT) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	dr, sr := registerVal(op.DR), registerVal(op.SR)
	if dr == badGPR {
		return nil, &RegisterError{Op: "not", Reg: op.DR}
	} else if sr == badGPR {
		return nil, &RegisterError{Op: "not", Reg: op.SR}
	}

	return []vm.Word{vm.NewInstruction(vm.NOT, dr<<9|sr<<6|0x3f).Encode()}, nil
}

// pcRelative implements the shared shape of LD/LDI/ST/STI/LEA: a destination (or source) register
// and a 9-bit PC-relative offset, symbolic or literal.
type pcRelative struct {
	Reg     string
	Symbol  string
	Literal uint16
}

func (op *pcRelative) parse(name string, operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("%w: %s takes two operands", ErrOperand, name)
	}

	op.Reg = operands[0]

	lit, sym, err := parseImmediate(operands[1], 9)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	op.Literal, op.Symbol = lit, sym

	return nil
}

func (op *pcRelative) offset(symbols SymbolTable, pc vm.Word) (uint16, error) {
	if op.Symbol != "" {
		return symbols.Offset(op.Symbol, pc, 9)
	}

	return op.Literal & 0x1ff, nil
}

// LD: PC-relative load.
type LD struct{ pcRelative }

func (op *LD) Size() uint16 { return 1 }
func (op *LD) Parse(opcode string, operands []string) error { return op.parse("ld", operands) }

func (op *LD) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	dr := registerVal(op.Reg)
	if dr == badGPR {
		return nil, &RegisterError{Op: "ld", Reg: op.Reg}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("ld: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.LD, dr<<9|offset).Encode()}, nil
}

// LDI: PC-relative indirect load.
type LDI struct{ pcRelative }

func (op *LDI) Size() uint16 { return 1 }
func (op *LDI) Parse(opcode string, operands []string) error { return op.parse("ldi", operands) }

func (op *LDI) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	dr := registerVal(op.Reg)
	if dr == badGPR {
		return nil, &RegisterError{Op: "ldi", Reg: op.Reg}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("ldi: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.LDI, dr<<9|offset).Encode()}, nil
}

// LEA: load effective address.
type LEA struct{ pcRelative }

func (op *LEA) Size() uint16 { return 1 }
func (op *LEA) Parse(opcode string, operands []string) error { return op.parse("lea", operands) }

func (op *LEA) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	dr := registerVal(op.Reg)
	if dr == badGPR {
		return nil, &RegisterError{Op: "lea", Reg: op.Reg}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("lea: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.LEA, dr<<9|offset).Encode()}, nil
}

// ST: PC-relative store.
type ST struct{ pcRelative }

func (op *ST) Size() uint16 { return 1 }
func (op *ST) Parse(opcode string, operands []string) error { return op.parse("st", operands) }

func (op *ST) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	sr := registerVal(op.Reg)
	if sr == badGPR {
		return nil, &RegisterError{Op: "st", Reg: op.Reg}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("st: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.ST, sr<<9|offset).Encode()}, nil
}

// STI: PC-relative indirect store.
type STI struct{ pcRelative }

func (op *STI) Size() uint16 { return 1 }
func (op *STI) Parse(opcode string, operands []string) error { return op.parse("sti", operands) }

func (op *STI) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	sr := registerVal(op.Reg)
	if sr == badGPR {
		return nil, &RegisterError{Op: "sti", Reg: op.Reg}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("sti: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.STI, sr<<9|offset).Encode()}, nil
}

// baseOffset implements the shared shape of LDR/STR: a register, a base register and a 6-bit
// offset.
type baseOffset struct {
	Reg, Base string
	Symbol    string
	Literal   uint16
}

func (op *baseOffset) parse(name string, operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("%w: %s takes three operands", ErrOperand, name)
	}

	op.Reg, op.Base = operands[0], operands[1]

	lit, sym, err := parseImmediate(operands[2], 6)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	op.Literal, op.Symbol = lit, sym

	return nil
}

func (op *baseOffset) offset(symbols SymbolTable, pc vm.Word) (uint16, error) {
	if op.Symbol != "" {
		return symbols.Offset(op.Symbol, pc, 6)
	}

	return op.Literal & 0x3f, nil
}

// LDR: base+offset load.
type LDR struct{ baseOffset }

func (op *LDR) Size() uint16 { return 1 }
func (op *LDR) Parse(opcode string, operands []string) error { return op.parse("ldr", operands) }

func (op *LDR) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	dr, base := registerVal(op.Reg), registerVal(op.Base)
	if dr == badGPR {
		return nil, &RegisterError{Op: "ldr", Reg: op.Reg}
	} else if base == badGPR {
		return nil, &RegisterError{Op: "ldr", Reg: op.Base}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("ldr: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.LDR, dr<<9|base<<6|offset).Encode()}, nil
}

// STR: base+offset store.
type STR struct{ baseOffset }

func (op *STR) Size() uint16 { return 1 }
func (op *STR) Parse(opcode string, operands []string) error { return op.parse("str", operands) }

func (op *STR) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	sr, base := registerVal(op.Reg), registerVal(op.Base)
	if sr == badGPR {
		return nil, &RegisterError{Op: "str", Reg: op.Reg}
	} else if base == badGPR {
		return nil, &RegisterError{Op: "str", Reg: op.Base}
	}

	offset, err := op.offset(symbols, pc)
	if err != nil {
		return nil, fmt.Errorf("str: %w", err)
	}

	return []vm.Word{vm.NewInstruction(vm.STR, sr<<9|base<<6|offset).Encode()}, nil
}

// JMP (and its RET alias).
type JMP struct {
	Base string
}

func (op *JMP) Size() uint16 { return 1 }

func (op *JMP) Parse(opcode string, operands []string) error {
	if strings.ToUpper(opcode) == "RET" {
		if len(operands) != 0 {
			return fmt.Errorf("%w: ret takes no operands", ErrOperand)
		}

		op.Base = "R7"

		return nil
	}

	if len(operands) != 1 {
		return fmt.Errorf("%w: jmp takes one operand", ErrOperand)
	}

	op.Base = operands[0]

	return nil
}

func (op *JMP) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	base := registerVal(op.Base)
	if base == badGPR {
		return nil, &RegisterError{Op: "jmp", Reg: op.Base}
	}

	return []vm.Word{vm.NewInstruction(vm.JMP, base<<6).Encode()}, nil
}

// JSR: PC-relative subroutine call.
type JSR struct {
	Symbol  string
	Literal uint16
}

func (op *JSR) Size() uint16 { return 1 }

func (op *JSR) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: jsr takes one operand", ErrOperand)
	}

	lit, sym, err := parseImmediate(operands[0], 11)
	if err != nil {
		return fmt.Errorf("jsr: %w", err)
	}

	op.Literal, op.Symbol = lit, sym

	return nil
}

func (op *JSR) Generate(symbols SymbolTable, pc vm.Word) ([]vm.Word, error) {
	offset := op.Literal

	if op.Symbol != "" {
		o, err := symbols.Offset(op.Symbol, pc, 11)
		if err != nil {
			return nil, fmt.Errorf("jsr: %w", err)
		}

		offset = o
	}

	return []vm.Word{vm.NewInstruction(vm.JSR, 1<<11|offset&0x7ff).Encode()}, nil
}

// JSRR: register-indirect subroutine call.
type JSRR struct {
	Base string
}

func (op *JSRR) Size() uint16 { return 1 }

func (op *JSRR) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: jsrr takes one operand", ErrOperand)
	}

	op.Base = operands[0]

	return nil
}

func (op *JSRR) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	base := registerVal(op.Base)
	if base == badGPR {
		return nil, &RegisterError{Op: "jsrr", Reg: op.Base}
	}

	return []vm.Word{vm.NewInstruction(vm.JSR, base<<6).Encode()}, nil
}

// TRAP: service call.
type TRAP struct {
	Vector uint16
}

func (op *TRAP) Size() uint16 { return 1 }

func (op *TRAP) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: trap takes one operand", ErrOperand)
	}

	lit, err := parseLiteral(operands[0], 8)
	if err != nil {
		return fmt.Errorf("trap: %w", err)
	}

	op.Vector = lit

	return nil
}

func (op *TRAP) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	return []vm.Word{vm.NewInstruction(vm.TRAP, op.Vector&0xff).Encode()}, nil
}

// trapAlias implements the conventional mnemonics (GETC, OUT, PUTS, IN, PUTSP, HALT) as sugar for
// TRAP with a fixed vector.
type trapAlias struct {
	vector vm.Word
}

func (op *trapAlias) Size() uint16 { return 1 }

func (op *trapAlias) Parse(opcode string, operands []string) error {
	if len(operands) != 0 {
		return fmt.Errorf("%w: %s takes no operands", ErrOperand, strings.ToLower(opcode))
	}

	return nil
}

func (op *trapAlias) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	return []vm.Word{vm.NewInstruction(vm.TRAP, uint16(op.vector)).Encode()}, nil
}

func newTrapAlias(vector vm.Word) func() Operation {
	return func() Operation { return &trapAlias{vector: vector} }
}

// RTI assembles to its standard encoding, but Lace has no interrupts or privilege levels to return
// from: executing it always faults in the VM.
type RTI struct{}

func (op *RTI) Size() uint16 { return 1 }

func (op *RTI) Parse(opcode string, operands []string) error {
	if len(operands) != 0 {
		return fmt.Errorf("%w: rti takes no operands", ErrOperand)
	}

	return nil
}

func (op *RTI) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	return []vm.Word{vm.NewInstruction(vm.RTI, 0).Encode()}, nil
}

// ORIG: sets the program's load address. Must be the first operation in a translation unit.
type ORIG struct {
	Literal uint16
}

func (op *ORIG) Size() uint16 { return 0 }

func (op *ORIG) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: .orig takes one operand", ErrOperand)
	}

	lit, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".orig: %w", err)
	}

	op.Literal = lit

	return nil
}

func (op *ORIG) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) { return nil, nil }

// FILL: allocates and initializes one word.
type FILL struct {
	Literal uint16
}

func (op *FILL) Size() uint16 { return 1 }

func (op *FILL) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: .fill takes one operand", ErrOperand)
	}

	lit, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".fill: %w", err)
	}

	op.Literal = lit

	return nil
}

func (op *FILL) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	return []vm.Word{vm.Word(op.Literal)}, nil
}

// BLKW: allocates n uninitialized (zeroed) words.
type BLKW struct {
	Count uint16
}

func (op *BLKW) Size() uint16 { return op.Count }

func (op *BLKW) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: .blkw takes one operand", ErrOperand)
	}

	lit, err := parseLiteral(operands[0], 16)
	if err != nil {
		return fmt.Errorf(".blkw: %w", err)
	}

	if lit == 0 {
		return fmt.Errorf("%w: count must be at least 1", ErrBlkwSize)
	}

	op.Count = lit

	return nil
}

func (op *BLKW) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	return make([]vm.Word, op.Count), nil
}

// STRINGZ: allocates a null-terminated string, one character per word.
type STRINGZ struct {
	Value string
}

func (op *STRINGZ) Size() uint16 { return uint16(len(op.Value) + 1) }

func (op *STRINGZ) Parse(opcode string, operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("%w: .stringz takes one operand", ErrOperand)
	}

	op.Value = operands[0]

	return nil
}

func (op *STRINGZ) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) {
	words := make([]vm.Word, 0, len(op.Value)+1)
	for _, r := range op.Value {
		words = append(words, vm.Word(r))
	}

	return append(words, 0), nil
}

// END: marks the end of a translation unit; the parser ignores every line after it. It generates
// no code.
type END struct{}

func (op *END) Size() uint16 { return 0 }

func (op *END) Parse(opcode string, operands []string) error {
	if len(operands) != 0 {
		return fmt.Errorf("%w: .end takes no operands", ErrOperand)
	}

	return nil
}

func (op *END) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) { return nil, nil }

// BREAK: a non-standard pseudo-op that plants a debugger breakpoint at its address. It generates no
// code of its own; the generator records its address in Image.Breakpoints (see gen.go), and the
// debugger installs those addresses as breakpoints.
type BREAK struct{}

func (op *BREAK) Size() uint16 { return 0 }

func (op *BREAK) Parse(opcode string, operands []string) error {
	if len(operands) != 0 {
		return fmt.Errorf("%w: .break takes no operands", ErrOperand)
	}

	return nil
}

func (op *BREAK) Generate(_ SymbolTable, _ vm.Word) ([]vm.Word, error) { return nil, nil }

// operationTable maps an uppercase opcode or directive name to a constructor for its Operation.
var operationTable = map[string]func() Operation{
	"BR": func() Operation { return &BR{} }, "BRN": func() Operation { return &BR{} },
	"BRZ": func() Operation { return &BR{} }, "BRP": func() Operation { return &BR{} },
	"BRNZ": func() Operation { return &BR{} }, "BRNP": func() Operation { return &BR{} },
	"BRZP": func() Operation { return &BR{} }, "BRNZP": func() Operation { return &BR{} },
	"ADD": func() Operation { return &ADD{} },
	"AND": func() Operation { return &AND{} },
	"NOT": func() Operation { return &NOT{} },
	"LD":  func() Operation { return &LD{} },
	"LDI": func() Operation { return &LDI{} },
	"LDR": func() Operation { return &LDR{} },
	"LEA": func() Operation { return &LEA{} },
	"ST":  func() Operation { return &ST{} },
	"STI": func() Operation { return &STI{} },
	"STR": func() Operation { return &STR{} },
	"JMP": func() Operation { return &JMP{} }, "RET": func() Operation { return &JMP{} },
	"JSR":  func() Operation { return &JSR{} },
	"JSRR": func() Operation { return &JSRR{} },
	"TRAP": func() Operation { return &TRAP{} },
	"RTI":  func() Operation { return &RTI{} },

	"GETC":  newTrapAlias(vm.TrapGETC),
	"OUT":   newTrapAlias(vm.TrapOUT),
	"PUTS":  newTrapAlias(vm.TrapPUTS),
	"IN":    newTrapAlias(vm.TrapIN),
	"PUTSP": newTrapAlias(vm.TrapPUTSP),
	"HALT":  newTrapAlias(vm.TrapHALT),

	"ORIG":    func() Operation { return &ORIG{} },
	"FILL":    func() Operation { return &FILL{} },
	"BLKW":    func() Operation { return &BLKW{} },
	"STRINGZ": func() Operation { return &STRINGZ{} },
	"END":     func() Operation { return &END{} },
	"BREAK":   func() Operation { return &BREAK{} },
}

// NewOperation returns a fresh Operation for an opcode or directive name, or an error wrapping
// ErrOpcode if the name is not recognized.
func NewOperation(name string) (Operation, error) {
	ctor, ok := operationTable[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOpcode, name)
	}

	return ctor(), nil
}
