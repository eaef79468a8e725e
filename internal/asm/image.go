package asm

// image.go defines the assembler's finished product: a loadable image, its symbol table and a
// source map for the debugger.

import "github.com/nonl4331/lace/internal/vm"

// SourceLine records one line of source text at the address it assembled to, for the debugger's
// source-level display.
type SourceLine struct {
	File string
	Line int
	Text string
}

// SourceMap relates an absolute address to the source line it was assembled from.
type SourceMap map[vm.Word]SourceLine

// Lookup returns the source line at addr, if any.
func (m SourceMap) Lookup(addr vm.Word) (SourceLine, bool) {
	line, ok := m[addr]
	return line, ok
}

// Image is the complete product of assembly: the object code proper, plus the symbol table and
// source map that live alongside it for debugging, but are never written to the object file.
type Image struct {
	Object      vm.ObjectCode
	Symbols     SymbolTable
	Source      SourceMap
	Breakpoints []vm.Word
}
