package vm

// words.go defines the basic data types the machine operates on.

import "fmt"

// Word is the base data type on which the CPU operates. Registers, memory cells and instructions
// all work on 16-bit values.
type Word uint16

func (w Word) String() string {
	return fmt.Sprintf("%0#4x", uint16(w))
}

// Signed returns the word's value interpreted as a two's complement integer.
func (w Word) Signed() int16 {
	return int16(w)
}

// Sext sign-extends the lower n bits in-place.
func (w *Word) Sext(n uint8) {
	i := int16(*w)
	i <<= 16 - n
	i >>= 16 - n
	*w = Word(i)
}

// Zext zero-extends the lower n bits in-place, clearing everything above bit n-1.
func (w *Word) Zext(n uint8) {
	low := Word(^(int16(-1) << n))
	*w &= low
}

// Register holds a 16-bit value in one of the machine's general-purpose or special-purpose
// registers.
type Register Word

func (r Register) String() string {
	return Word(r).String()
}

// GPR identifies one of the eight general-purpose registers.
type GPR uint8

// General purpose registers.
const (
	R0 = GPR(iota)
	R1
	R2
	R3
	R4
	R5
	R6
	R7

	NumGPR        // Count of general-purpose registers.
	RETP   = R7   // Subroutine and trap return address lives in R7 by convention.
)

func (r GPR) String() string {
	return fmt.Sprintf("R%d", uint8(r))
}

// RegisterFile is the set of general-purpose registers.
type RegisterFile [NumGPR]Register

func (rf RegisterFile) String() string {
	return fmt.Sprintf(
		"R0: %s R1: %s R2: %s R3: %s\nR4: %s R5: %s R6: %s R7: %s",
		rf[R0], rf[R1], rf[R2], rf[R3], rf[R4], rf[R5], rf[R6], rf[R7],
	)
}

// Instruction is a value encoding a single CPU operation. The top four bits hold the opcode; the
// remaining twelve bits hold operands and mode flags.
type Instruction Word

// NewInstruction builds an instruction value from an opcode and its operand bits. opcode is
// already positioned in the top nibble (the Opcode constants are defined that way), so it's simply
// combined with the low 12 operand bits.
func NewInstruction(opcode Opcode, operands uint16) Instruction {
	val := uint16(opcode) & 0xf000
	val |= operands & 0x0fff

	return Instruction(val)
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s (%s)", Word(i), i.Opcode())
}

// Encode returns the instruction as a memory word.
func (i Instruction) Encode() Word {
	return Word(i)
}

// Opcode returns the instruction's opcode, stored in the top four bits. The Opcode constants are
// themselves positioned in that nibble, so no shift is needed to compare against them.
func (i Instruction) Opcode() Opcode {
	return Opcode(i & 0xf000)
}

// Cond returns the NZP condition bits from a BR instruction.
func (i Instruction) Cond() Condition {
	return Condition(i & 0x0e00 >> 9)
}

// DR returns the destination register field.
func (i Instruction) DR() GPR {
	return GPR(i & 0x0e00 >> 9)
}

// SR returns the lone source register field (NOT).
func (i Instruction) SR() GPR {
	return GPR(i & 0x01c0 >> 6)
}

// SR1 returns the first source register operand.
func (i Instruction) SR1() GPR {
	return GPR(i & 0x01c0 >> 6)
}

// SR2 returns the second source register operand (register-mode ADD/AND).
func (i Instruction) SR2() GPR {
	return GPR(i & 0x0007)
}

// BaseR returns the base register field (JMP/JSRR/LDR/STR).
func (i Instruction) BaseR() GPR {
	return GPR(i & 0x01c0 >> 6)
}

// Imm reports whether the immediate-mode flag (bit 5) is set, as used by ADD/AND.
func (i Instruction) Imm() bool {
	return i&0x0020 != 0
}

// Relative reports whether the JSR-mode flag (bit 11) is set.
func (i Instruction) Relative() bool {
	return i&0x0800 != 0
}

// Offset returns an n-bit, sign-extended, PC-relative offset from the instruction.
func (i Instruction) Offset(n offset) Word {
	w := Word(i)
	w.Sext(uint8(n))

	return w
}

// Literal returns an n-bit sign-extended immediate value from the instruction.
func (i Instruction) Literal(n literal) Word {
	w := Word(i)
	w.Sext(uint8(n))

	return w
}

// TrapVector returns the zero-extended trap vector field of a TRAP instruction.
func (i Instruction) TrapVector() Word {
	w := Word(i)
	w.Zext(8)

	return w
}

type (
	offset  uint8
	literal uint8
)

// Widths of PC-relative offsets and immediate literals, per the ISA encoding tables.
const (
	OFFSET11 = offset(11)
	OFFSET9  = offset(9)
	OFFSET6  = offset(6)
	IMM5     = literal(5)
)

// Condition represents the three condition-code bits, N, Z and P, of which exactly one is set
// after any instruction that updates condition codes.
type Condition uint8

// Condition flags. The bit positions match the NZP field of a BR instruction.
const (
	ConditionPositive = Condition(1 << iota) // P
	ConditionZero                            // Z
	ConditionNegative                        // N
)

func (c Condition) String() string {
	return fmt.Sprintf("(N:%t Z:%t P:%t)", c.Negative(), c.Zero(), c.Positive())
}

func (c Condition) Negative() bool { return c&ConditionNegative != 0 }
func (c Condition) Zero() bool     { return c&ConditionZero != 0 }
func (c Condition) Positive() bool { return c&ConditionPositive != 0 }

// ConditionOf derives the condition matching a register's signed value.
func ConditionOf(reg Register) Condition {
	switch {
	case reg == 0:
		return ConditionZero
	case int16(reg) > 0:
		return ConditionPositive
	default:
		return ConditionNegative
	}
}
