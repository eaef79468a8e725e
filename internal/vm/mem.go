package vm

// mem.go is the machine's memory controller: a flat 2^16-word address space with a handful of
// memory-mapped device registers carved out of the top of the address range.

import (
	"errors"
	"fmt"

	"github.com/nonl4331/lace/internal/log"
)

// Regions of the address space. Each region begins at the given address and grows upward towards
// the next.
const (
	TrapTableAddr   Word = 0x0000 // Conventionally holds trap-vector entries; fully addressable.
	SystemSpaceAddr Word = 0x0200
	UserSpaceAddr   Word = 0x3000 // Where user programs conventionally originate.
	IOPageAddr      Word = 0xfe00
	AddrSpace            = 1 << 16 // Logical address space: 65,536 addressable words.
)

// Addresses of memory-mapped device registers, per spec.md §4.5.
const (
	KBSRAddr Word = 0xfe00 // Keyboard status register.
	KBDRAddr Word = 0xfe02 // Keyboard data register.
	DSRAddr  Word = 0xfe04 // Display status register.
	DDRAddr  Word = 0xfe06 // Display data register.
	MCRAddr  Word = 0xfffe // Master control register.
)

// Memory is a controller mediating access to the machine's 2^16-word address space. Reads and
// writes that target a memory-mapped device address are routed to that device instead of the
// backing array.
type Memory struct {
	// Memory address register and memory data register, the microarchitectural path through
	// which the CPU core reads and writes memory.
	MAR Register
	MDR Register

	cell    [AddrSpace]Word
	devices map[Word]mmioDevice

	log *log.Logger
}

// mmioDevice is a memory-mapped device. A single device may be mapped at more than one address
// (e.g. the keyboard's status and data registers), so reads and writes are address-qualified.
type mmioDevice interface {
	Get(addr Word) Register
	Put(addr Word, val Register)
}

// NewMemory creates a memory controller with no devices mapped.
func NewMemory() *Memory {
	return &Memory{
		devices: make(map[Word]mmioDevice),
		log:     log.DefaultLogger(),
	}
}

// MapDevice installs a device register at a memory-mapped address.
func (mem *Memory) MapDevice(addr Word, dev mmioDevice) {
	mem.devices[addr] = dev
}

// Fetch loads the word addressed by MAR into MDR.
func (mem *Memory) Fetch() error {
	if dev, ok := mem.devices[Word(mem.MAR)]; ok {
		mem.MDR = dev.Get(Word(mem.MAR))
		return nil
	}

	mem.MDR = Register(mem.cell[mem.MAR])

	return nil
}

// Store writes MDR to the word addressed by MAR.
func (mem *Memory) Store() error {
	if dev, ok := mem.devices[Word(mem.MAR)]; ok {
		dev.Put(Word(mem.MAR), mem.MDR)
		return nil
	}

	mem.cell[mem.MAR] = Word(mem.MDR)

	return nil
}

// Read loads a word directly by address, bypassing MAR/MDR. Used by the loader and debugger, which
// address memory without stepping the CPU.
func (mem *Memory) Read(addr Word) Word {
	if dev, ok := mem.devices[addr]; ok {
		return Word(dev.Get(addr))
	}

	return mem.cell[addr]
}

// Write stores a word directly by address, bypassing MAR/MDR.
func (mem *Memory) Write(addr Word, val Word) {
	if dev, ok := mem.devices[addr]; ok {
		dev.Put(addr, Register(val))
		return
	}

	mem.cell[addr] = val
}

// Reset clears all memory cells to zero. Device registers are reinitialized separately by the
// machine (see vm.go Reset).
func (mem *Memory) Reset() {
	mem.cell = [AddrSpace]Word{}
	mem.MAR = 0
	mem.MDR = 0
}

// MemoryError wraps ErrMemory with the offending address.
type MemoryError struct {
	Addr Word
}

func (me *MemoryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMemory, me.Addr)
}

func (me *MemoryError) Is(err error) bool {
	return err == ErrMemory //nolint:errorlint
}

// ErrMemory is the sentinel wrapped by memory-related errors.
var ErrMemory = errors.New("memory error")
