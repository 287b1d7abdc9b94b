// Command djup-demo is a minimal demonstration of the matching core: it
// registers a couple of axioms on a namespace, canonicalizes an
// expression, and runs a variadic pattern against a call to show the
// multiple-solutions behavior spec.md §3 calls out. It is deliberately
// not a full CLI or parser front-end (spec.md §1 non-goals) — just
// enough wiring to exercise pkg/djup end to end, in the spirit of the
// teacher's cmd/funxy/main.go driving its own VM.
package main

import (
	"fmt"
	"os"

	"github.com/giucamp/djup/internal/printer"
	"github.com/giucamp/djup/pkg/djup"
)

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "djup-demo:", err)
		os.Exit(1)
	}
}

func main() {
	ns := djup.NewNamespace(nil, "demo")

	intType := djup.Scalar("int")
	x := djup.Identifier(intType, "x")
	zero := djup.Int(0)

	lhs, err := djup.Call("add", x, zero)
	must(err)
	rhs := x
	_, err = ns.AddSubstitutionAxiom(lhs, rhs, false, false)
	must(err)

	five := djup.Int(5)
	target, err := djup.Call("add", five, zero)
	must(err)

	result, err := ns.Canonicalize(target)
	must(err)

	opts := printer.AutoOptions(os.Stdout)
	fmt.Printf("canonicalize(add(5, 0)) = %s\n", printer.Print(result, opts))

	xs := djup.Identifier(djup.Scalar(""), "xs")
	ys := djup.Identifier(djup.Scalar(""), "ys")
	xsRep, err := djup.Call("$zero_or_more", xs)
	must(err)
	ysRep, err := djup.Call("$zero_or_more", ys)
	must(err)
	variadicPattern, err := djup.Call("f", xsRep, ysRep)
	must(err)

	pat, err := djup.NewPattern(nil, variadicPattern, false, false)
	must(err)

	a, b, c := djup.Int(1), djup.Int(2), djup.Int(3)
	call, err := djup.Call("f", a, b, c)
	must(err)

	matches := pat.MatchAll(call, "")
	fmt.Printf("f(1,2,3) matched by f(xs..., ys...) in %d way(s):\n", len(matches))
	for i, m := range matches {
		fmt.Printf("  solution %d: xs=%s ys=%s\n",
			i, printer.Print(m.Bindings["xs"], opts), printer.Print(m.Bindings["ys"], opts))
	}
}
