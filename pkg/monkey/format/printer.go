package format

import (
	"strings"
)

const (
	// IndentString is one level of indentation.
	IndentString = "\t"

	// InlineBlockWidth is the longest single statement kept on the same
	// line as its braces.
	InlineBlockWidth = 40
)

// Printer accumulates formatted source. Nested blocks are rendered at
// indent+1.
type Printer struct {
	out    strings.Builder
	indent int
}

func NewPrinter() *Printer {
	return &Printer{}
}

func (p *Printer) String() string {
	return p.out.String()
}

func (p *Printer) line(s string) {
	p.out.WriteString(p.indentation())
	p.out.WriteString(s)
	p.out.WriteByte('\n')
}

func (p *Printer) indentation() string {
	return strings.Repeat(IndentString, p.indent)
}

func (p *Printer) indentInc() { p.indent++ }

func (p *Printer) indentDec() {
	if p.indent > 0 {
		p.indent--
	}
}

// fitsInline reports whether s can sit between braces on one line.
func fitsInline(s string) bool {
	return !strings.Contains(s, "\n") && len(s) <= InlineBlockWidth
}
