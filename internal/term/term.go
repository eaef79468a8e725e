// Package term adapts a real terminal to vm.Console, so the debugger and the VM's native trap
// service routines can read and write a genuine teletype rather than an in-memory fake.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/nonl4331/lace/internal/vm"
)

// ErrNoTTY is returned when standard input is not a terminal.
var ErrNoTTY = errors.New("term: not a tty")

// Console adapts stdin/stdout to vm.Console, putting the terminal into raw, unbuffered mode for the
// duration of a run so that GETC/IN read one keystroke at a time with no line buffering or local
// echo. Restore always returns the terminal to its original (cooked) mode.
type Console struct {
	in  *os.File
	out *os.File

	fd    int
	saved *term.State

	mu      sync.Mutex
	pending []byte // bytes that ReadByte and Poll hand out before reading from c.bytes.

	bytes chan byte
	done  chan struct{}
}

// New puts sin into raw mode and returns a Console reading from sin and writing to sout. Callers
// must call Restore when done, on every exit path, to avoid leaving the user's terminal raw.
func New(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTTY, err)
	}

	c := &Console{
		in:    sin,
		out:   sout,
		fd:    fd,
		saved: saved,
		bytes: make(chan byte, 1),
		done:  make(chan struct{}),
	}

	if err := setVMin(fd, 1, 0); err != nil {
		_ = term.Restore(fd, saved)
		return nil, fmt.Errorf("term: %w", err)
	}

	go c.readLoop()

	return c, nil
}

// readLoop copies stdin one byte at a time into c.bytes until Restore closes c.done or the read
// fails (typically because Restore set a read deadline, or the descriptor closed).
func (c *Console) readLoop() {
	r := bufio.NewReader(c.in)

	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}

		select {
		case c.bytes <- b:
		case <-c.done:
			return
		}
	}
}

// ReadByte blocks until a byte is read from the terminal, ctx is cancelled, or the console is
// restored.
func (c *Console) ReadByte(ctx context.Context) (byte, error) {
	c.mu.Lock()
	if len(c.pending) > 0 {
		b := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()

		return b, nil
	}
	c.mu.Unlock()

	select {
	case b := <-c.bytes:
		return b, nil
	case <-c.done:
		return 0, errors.New("term: console restored")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WriteByte writes b to the terminal.
func (c *Console) WriteByte(b byte) error {
	_, err := c.out.Write([]byte{b})
	return err
}

// Poll returns a byte without blocking, consuming it; ok is false when no byte is available.
func (c *Console) Poll() (byte, bool) {
	c.mu.Lock()
	if len(c.pending) > 0 {
		b := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()

		return b, true
	}
	c.mu.Unlock()

	select {
	case b := <-c.bytes:
		return b, true
	default:
		return 0, false
	}
}

// EnterCooked temporarily returns the terminal to its original (line-buffered, echoing) mode,
// for the debugger's REPL prompt. EnterRaw restores raw mode afterwards. Unlike Restore, this
// doesn't stop the read loop: the console is still live, just not raw.
func (c *Console) EnterCooked() error {
	return term.Restore(c.fd, c.saved)
}

// EnterRaw puts the terminal back into raw mode after EnterCooked, so GETC/IN see unbuffered
// keystrokes again. Per spec.md §5, this handoff happens around every REPL prompt.
func (c *Console) EnterRaw() error {
	_, err := term.MakeRaw(c.fd)
	return err
}

// Restore returns the terminal to its original mode and stops the read loop. Safe to call more
// than once.
func (c *Console) Restore() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}

	_ = syscall.SetNonblock(c.fd, true)

	return term.Restore(c.fd, c.saved)
}

func setVMin(fd int, vmin, vtime byte) error {
	termIO, err := unix.IoctlGetTermios(fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	return unix.IoctlSetTermios(fd, setTermiosIoctl, termIO)
}

var _ vm.Console = (*Console)(nil)
