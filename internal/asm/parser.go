package asm

// parser.go implements pass one: turning a token stream into a SyntaxTable and a SymbolTable of
// label locations. It knows nothing about operand encoding; that's pass two, in gen.go.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nonl4331/lace/internal/asmlex"
	"github.com/nonl4331/lace/internal/log"
	"github.com/nonl4331/lace/internal/vm"
)

// Parser consumes assembly source into a SyntaxTable and SymbolTable.
type Parser struct {
	log *log.Logger

	symbols SymbolTable
	syntax  SyntaxTable

	origin vm.Word
	pc     vm.Word
	seen   bool // has .ORIG been parsed yet?
}

// NewParser creates a parser. Pass a nil logger to use the package default.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &Parser{log: logger, symbols: SymbolTable{}}
}

// Symbols returns the symbol table built during Parse.
func (p *Parser) Symbols() SymbolTable { return p.symbols }

// Syntax returns the syntax table built during Parse.
func (p *Parser) Syntax() SyntaxTable { return p.syntax }

// Origin returns the load address set by .ORIG.
func (p *Parser) Origin() vm.Word { return p.origin }

// line is one source line, split into an optional label, an operator and its operand tokens.
type line struct {
	file        string
	lineNo      int
	text        string
	label       string
	operator    string
	operatorCol int
	operands    []string
}

// Parse reads name as a single translation unit, populating the parser's SymbolTable (by location)
// and SyntaxTable (in source order). Call Symbols and Syntax afterward to retrieve them.
func (p *Parser) Parse(name string, r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("asm: %s: %w", name, err)
	}

	lines, err := splitLines(name, string(src))
	if err != nil {
		return err
	}

	hasOrig := false

	for _, ln := range lines {
		if op, err := NewOperation(ln.operator); err == nil {
			if _, isOrig := op.(*ORIG); isOrig {
				hasOrig = true
				break
			}
		}
	}

	if !hasOrig {
		return fmt.Errorf("asm: %s: %w", name, errors.New("missing .orig"))
	}

	for _, ln := range lines {
		if ln.operator == "" {
			// groupLine never returns a line with neither label nor operator, so reaching here
			// means ln.label != "".
			if !p.seen {
				return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text,
					Err: fmt.Errorf("%w: first non-comment item must be .orig", ErrDirective)}
			}

			if err := p.symbols.Add(ln.label, p.pc); err != nil {
				return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text, Err: err}
			}

			continue
		}

		op, err := NewOperation(ln.operator)
		if err != nil {
			return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text, Err: err}
		}

		if _, isOrig := op.(*ORIG); !isOrig && !p.seen {
			return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text,
				Err: fmt.Errorf("%w: first non-comment item must be .orig", ErrDirective)}
		}

		if err := op.Parse(ln.operator, ln.operands); err != nil {
			return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text, Err: err}
		}

		switch o := op.(type) {
		case *ORIG:
			if p.seen {
				return &SyntaxError{
					File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text,
					Err: fmt.Errorf("%w: .orig appears more than once", ErrDirective),
				}
			}

			p.seen = true
			p.origin = vm.Word(o.Literal)
			p.pc = p.origin
		case *END:
			p.log.Debug("end of translation unit", "file", name, "line", ln.lineNo)
		case *BLKW:
			if uint32(p.pc)+uint32(o.Count) > 1<<16 {
				return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text,
					Err: fmt.Errorf("%w: LC+n exceeds 2^16", ErrBlkwSize)}
			}
		}

		if ln.label != "" {
			if err := p.symbols.Add(ln.label, p.pc); err != nil {
				return &SyntaxError{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text, Err: err}
			}
		}

		p.syntax.Add(&SourceInfo{File: ln.file, Line: ln.lineNo, Col: ln.operatorCol, Text: ln.text, Operation: op})

		p.pc += vm.Word(op.Size())

		if _, isEnd := op.(*END); isEnd {
			break
		}
	}

	if !p.seen {
		return fmt.Errorf("asm: %s: %w", name, errors.New("missing .orig"))
	}

	return nil
}

// splitLines tokenizes src and groups tokens into logical lines: an optional label, an operator
// and its comma-separated operands.
func splitLines(file, src string) ([]*line, error) {
	lx := asmlex.New(src)

	toks, err := lx.All()
	if err != nil {
		var le *asmlex.LexError
		if errors.As(err, &le) {
			return nil, &SyntaxError{File: file, Line: le.Line, Col: le.Col, Text: le.Text, Err: asmlex.ErrLex}
		}

		return nil, fmt.Errorf("asm: %s: %w", file, err)
	}

	var (
		lines []*line
		cur   []asmlex.Token
	)

	flush := func() error {
		if len(cur) == 0 {
			return nil
		}

		ln, err := groupLine(file, cur)
		if err != nil {
			return err
		}

		if ln != nil {
			lines = append(lines, ln)
		}

		cur = nil

		return nil
	}

	for _, t := range toks {
		switch t.Kind {
		case asmlex.Newline, asmlex.EOF:
			if err := flush(); err != nil {
				return nil, err
			}
		case asmlex.Comment:
			continue
		default:
			cur = append(cur, t)
		}
	}

	return lines, nil
}

// groupLine turns one line's worth of tokens into a line value: at most one leading label (an
// Ident followed by a Colon, or a leading Ident that does not itself name an opcode/directive),
// then an operator (Ident, optionally preceded by Dot for directives)
// and its comma-separated operand text.
func groupLine(file string, toks []asmlex.Token) (*line, error) {
	i := 0

	ln := &line{file: file, lineNo: toks[0].Line, text: renderLine(toks)}

	// A leading Ident is a label when it's immediately followed by a Colon, or when it doesn't name
	// a known mnemonic (a leading mnemonic means there's no label at all: LC-3 assembly identifies
	// labels positionally, not syntactically, so "LOOP AND R1,R1,R2" and "AND R1,R1,R2" are told
	// apart only by looking up the first word).
	if toks[i].Kind == asmlex.Ident {
		if i+1 < len(toks) && toks[i+1].Kind == asmlex.Colon {
			ln.label = toks[i].Text
			i += 2
		} else if _, ok := operationTable[strings.ToUpper(toks[i].Text)]; !ok {
			ln.label = toks[i].Text
			i++
		}
	}

	if i >= len(toks) {
		if ln.label == "" {
			return nil, nil
		}

		return ln, nil
	}

	if toks[i].Kind == asmlex.Dot {
		i++

		if i >= len(toks) || toks[i].Kind != asmlex.Ident {
			return nil, &SyntaxError{File: file, Line: toks[0].Line, Col: toks[0].Col, Err: ErrDirective, Text: "expected directive name"}
		}
	} else if toks[i].Kind != asmlex.Ident {
		return nil, &SyntaxError{File: file, Line: toks[0].Line, Col: toks[0].Col, Err: ErrOpcode, Text: "expected opcode or directive"}
	}

	ln.operator = toks[i].Text
	ln.operatorCol = toks[i].Col
	i++

	ln.operands = groupOperands(toks[i:])

	return ln, nil
}

// groupOperands reassembles comma-separated operand tokens back into text fragments, since
// directives like .STRINGZ need the original string content and numeric operands may span a Hash
// or Minus token followed by an Int.
func groupOperands(toks []asmlex.Token) []string {
	var (
		operands []string
		cur      strings.Builder
	)

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			operands = append(operands, s)
		}

		cur.Reset()
	}

	for _, t := range toks {
		if t.Kind == asmlex.Comma {
			flush()
			continue
		}

		if t.Kind == asmlex.String {
			cur.WriteString(t.Text)
			continue
		}

		cur.WriteString(t.Text)
	}

	flush()

	return operands
}

func renderLine(toks []asmlex.Token) string {
	var b strings.Builder

	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(t.Text)
	}

	return b.String()
}
