package vm

import (
	"context"
	"errors"
	"testing"
)

// fakeConsole is an in-memory Console used by tests: Poll/ReadByte drain a fixed input queue and
// WriteByte appends to an output buffer.
type fakeConsole struct {
	in  []byte
	out []byte
}

func (c *fakeConsole) ReadByte(ctx context.Context) (byte, error) {
	if len(c.in) == 0 {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	b := c.in[0]
	c.in = c.in[1:]

	return b, nil
}

func (c *fakeConsole) WriteByte(b byte) error {
	c.out = append(c.out, b)
	return nil
}

func (c *fakeConsole) Poll() (byte, bool) {
	if len(c.in) == 0 {
		return 0, false
	}

	b := c.in[0]
	c.in = c.in[1:]

	return b, true
}

func TestKeyboardPollDoesNotBlock(tt *testing.T) {
	tt.Parallel()

	t := NewTestHarness(tt)
	console := &fakeConsole{}
	cpu := t.Make(WithConsole(console))

	if got := cpu.Mem.Read(KBSRAddr); got != 0 {
		t.Errorf("KBSR want: 0 with no input pending, got: %s", got)
	}

	console.in = []byte{'x'}

	if got := cpu.Mem.Read(KBSRAddr); got != Word(KeyboardReady) {
		t.Errorf("KBSR want: ready, got: %s", got)
	}

	if got := cpu.Mem.Read(KBDRAddr); got != Word('x') {
		t.Errorf("KBDR want: %s, got: %s", Word('x'), got)
	}

	if got := cpu.Mem.Read(KBSRAddr); got != 0 {
		t.Errorf("KBSR want: 0 after consuming keystroke, got: %s", got)
	}
}

func TestDisplayWritesReachConsoleAndListener(tt *testing.T) {
	tt.Parallel()

	t := NewTestHarness(tt)
	console := &fakeConsole{}

	var heard []uint16

	cpu := t.Make(
		WithConsole(console),
		WithDisplayListener(func(ch uint16) { heard = append(heard, ch) }),
	)

	cpu.Mem.Write(DDRAddr, Word('!'))

	if string(console.out) != "!" {
		t.Errorf("console output want: %q, got: %q", "!", console.out)
	}

	if len(heard) != 1 || heard[0] != uint16('!') {
		t.Errorf("listener want: [%d], got: %v", '!', heard)
	}

	if got := cpu.Mem.Read(DSRAddr); got != Word(DisplayReady) {
		t.Errorf("DSR want: always ready, got: %s", got)
	}
}

func TestMCRGatesRunning(tt *testing.T) {
	tt.Parallel()

	t := NewTestHarness(tt)
	cpu := t.Make()

	if !cpu.MCR.Running() {
		t.Fatal("want machine running after construction")
	}

	cpu.Mem.Write(MCRAddr, 0)

	if cpu.MCR.Running() {
		t.Error("want machine halted after clearing MCR's run bit via memory")
	}

	_, err := cpu.Step(context.Background())
	if !errors.Is(err, ErrHalted) {
		t.Errorf("want ErrHalted, got: %v", err)
	}
}
