package debugger

// eval.go implements the "eval" command (spec.md §4.7): assemble a single line of LC3ASM in
// isolation against the current symbol table, then apply the resulting instruction to the live
// machine, including any condition-code update. BR* and HALT are refused: a branch has no useful
// isolated effect and HALT would end the very session eval runs inside.

import (
	"context"
	"fmt"
	"strings"

	"github.com/nonl4331/lace/internal/asm"
	"github.com/nonl4331/lace/internal/vm"
)

func (c *Controller) cmdEval(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: eval requires an instruction", ErrBadArgument)
	}

	operator, operands := splitInstruction(args)

	name := strings.ToUpper(operator)
	if strings.HasPrefix(name, "BR") || name == "HALT" || strings.HasPrefix(operator, ".") {
		return fmt.Errorf("%w: %s", ErrNotSimulable, operator)
	}

	op, err := asm.NewOperation(operator)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotSimulable, err)
	}

	if err := op.Parse(name, operands); err != nil {
		return fmt.Errorf("%w: %s", ErrBadArgument, err)
	}

	pc := vm.Word(c.Engine.VM.PC)

	words, err := op.Generate(c.Image.Symbols, pc+1)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadArgument, err)
	}

	if len(words) != 1 {
		return fmt.Errorf("%w: %s does not assemble to a single instruction", ErrNotSimulable, operator)
	}

	saved := c.Engine.VM.Mem.Read(pc)
	c.Engine.VM.Mem.Write(pc, words[0])

	_, err = c.Engine.VM.Step(context.Background())

	c.Engine.VM.Mem.Write(pc, saved)

	if err != nil {
		return err
	}

	c.cmdRegisters()

	return nil
}

// splitInstruction tokenizes an eval argument list into an operator and comma-separated operand
// texts, e.g. ["ADD", "R3,R3,#1"] -> ("ADD", ["R3", "R3", "#1"]). Unlike the full lexer, this
// doesn't need to handle labels, directives or comments: eval's grammar is a single bare
// instruction.
func splitInstruction(args []string) (operator string, operands []string) {
	operator = args[0]

	rest := strings.Join(args[1:], "")
	if rest == "" {
		return operator, nil
	}

	for _, part := range strings.Split(rest, ",") {
		operands = append(operands, strings.TrimSpace(part))
	}

	return operator, operands
}
