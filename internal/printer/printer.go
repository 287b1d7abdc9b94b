// Package printer renders an Expression back to a readable surface form
// for diagnostics and trace dumps. It is explicitly non-normative
// (spec.md §1 keeps the surface syntax out of scope): two printers are
// free to disagree on spacing or parenthesization as long as neither
// claims to be parseable.
package printer

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/giucamp/djup/internal/expr"
)

// ansi color codes used when highlighting is enabled.
const (
	colorReset   = "\x1b[0m"
	colorName    = "\x1b[36m" // composite/identifier names, cyan
	colorLiteral = "\x1b[33m" // literals, yellow
	colorType    = "\x1b[90m" // type annotations, dim gray
)

// Options controls rendering (spec.md §7's printer is a debugging aid,
// not a parser target).
type Options struct {
	Highlight  bool // wrap tokens in ANSI color codes
	ShowTypes  bool // print "name:type" for typed identifiers
}

// AutoOptions returns Options with Highlight enabled only when w looks
// like an interactive terminal, mirroring the teacher's termBuffer
// builtins' use of mattn/go-isatty to decide whether to emit control
// codes at all (internal/evaluator/builtins_term.go).
func AutoOptions(w io.Writer) Options {
	highlight := false
	if f, ok := w.(*os.File); ok {
		highlight = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return Options{Highlight: highlight, ShowTypes: true}
}

// Print renders e using opts and returns the resulting string.
func Print(e *expr.Expression, opts Options) string {
	var b strings.Builder
	print1(&b, e, opts)
	return b.String()
}

func print1(b *strings.Builder, e *expr.Expression, opts Options) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch {
	case e.IsLiteral():
		writeColored(b, e.PrintedForm(), colorLiteral, opts)
	case e.IsIdentifier():
		writeColored(b, e.Name().String(), colorName, opts)
		if opts.ShowTypes && e.Type() != nil {
			b.WriteString(":")
			writeColored(b, e.Type().Scalar, colorType, opts)
		}
	case e.IsComposite():
		name := e.Name().String()
		if name == "" {
			b.WriteString("(")
		} else {
			writeColored(b, name, colorName, opts)
			b.WriteString("(")
		}
		for i, a := range e.Arguments() {
			if i > 0 {
				b.WriteString(", ")
			}
			print1(b, a, opts)
		}
		b.WriteString(")")
	default:
		b.WriteString("?")
	}
}

func writeColored(b *strings.Builder, s, color string, opts Options) {
	if opts.Highlight {
		b.WriteString(color)
		b.WriteString(s)
		b.WriteString(colorReset)
		return
	}
	b.WriteString(s)
}
