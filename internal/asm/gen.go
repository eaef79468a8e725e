package asm

// gen.go implements pass two: resolving symbols and encoding each parsed operation to machine
// words, producing a loadable Image.

import (
	"errors"
	"strings"

	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/vm"
)

// Generator walks a SyntaxTable, encoding each Operation against a resolved SymbolTable.
type Generator struct {
	pc      vm.Word
	origin  vm.Word
	symbols SymbolTable
	syntax  SyntaxTable
	log     *log.Logger
}

// NewGenerator creates a code generator for a parsed syntax/symbol table pair, as produced by
// Parser.Parse.
func NewGenerator(origin vm.Word, symbols SymbolTable, syntax SyntaxTable) *Generator {
	return &Generator{origin: origin, pc: origin, symbols: symbols, syntax: syntax, log: log.DefaultLogger()}
}

// Assemble runs pass two, producing a complete Image. Errors are SyntaxErrors annotated with the
// source position of the operation that failed to generate.
func (gen *Generator) Assemble() (Image, error) {
	img := Image{
		Object:  vm.ObjectCode{Orig: gen.origin},
		Symbols: gen.symbols,
		Source:  SourceMap{},
	}

	if len(gen.syntax) == 0 {
		return img, nil
	}

	for _, src := range gen.syntax {
		if _, ok := src.Operation.(*BREAK); ok {
			img.Breakpoints = append(img.Breakpoints, gen.pc)
			continue
		}

		if _, ok := src.Operation.(*ORIG); ok {
			continue
		}

		words, err := src.Operation.Generate(gen.symbols, gen.pc+1)
		if err != nil {
			return img, &SyntaxError{File: src.File, Line: src.Line, Col: src.Col, Text: src.Text, Err: err}
		}

		if len(words) == 0 {
			continue
		}

		img.Source[gen.pc] = SourceLine{File: src.File, Line: src.Line, Text: src.Text}

		for _, w := range words {
			img.Object.Code = append(img.Object.Code, w)
		}

		gen.pc += vm.Word(len(words))
	}

	if len(img.Object.Code) == 0 {
		return img, errors.New("asm: empty image")
	}

	gen.log.Debug("assembled image", "orig", img.Object.Orig, "words", len(img.Object.Code), "symbols", len(gen.symbols))

	return img, nil
}

// Assemble is a convenience wrapper running both assembly passes over src in one call.
func Assemble(name, src string) (Image, error) {
	p := NewParser(nil)

	if err := p.Parse(name, strings.NewReader(src)); err != nil {
		return Image{}, err
	}

	gen := NewGenerator(p.Origin(), p.Symbols(), p.Syntax())

	return gen.Assemble()
}
