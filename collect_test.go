package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func collect(t *testing.T, input string) *Analyzer {
	t.Helper()
	a := NewAnalyzer()
	CollectSignatures(NewLexer([]byte(input)).Tokenize(), a)
	return a
}

func TestCollectSignatures_RegistersAllFunctions(t *testing.T) {
	a := collect(t, `fn main() {}

fn add(a: i32, b: i32) -> i32 { a + b }

fn flip(mut v: bool) -> bool { !v }`)

	main := a.Symbols.Lookup("main")
	be.True(t, main != nil)
	be.Equal(t, main.Kind, SymFunction)
	be.Equal(t, main.Result, UnitType)
	be.True(t, !main.Defined)

	add := a.Symbols.Lookup("add")
	be.True(t, add != nil)
	be.Equal(t, len(add.Params), 2)
	be.Equal(t, add.Params[0].Name, "a")
	be.Equal(t, add.Params[0].Type, I32Type)
	be.Equal(t, add.Result, I32Type)

	flip := a.Symbols.Lookup("flip")
	be.True(t, flip != nil)
	be.True(t, flip.Params[0].Mutable)
}

func TestCollectSignatures_SkipsNestedBraces(t *testing.T) {
	// Only top-level fn tokens start a signature.
	a := collect(t, `fn outer() {
    let x = 1;
}`)
	be.True(t, a.Symbols.Lookup("outer") != nil)
	be.Equal(t, a.Symbols.Lookup("x"), nil)
}

func TestCollectSignatures_DuplicateKeepsFirst(t *testing.T) {
	// The pre-pass keeps the first signature and stays silent; the
	// definition pass reports the duplicate.
	a := collect(t, `fn f() -> i32 { 1 }
fn f() -> bool { true }`)

	be.True(t, !a.Diags.HasErrors())
	be.Equal(t, a.Symbols.Lookup("f").Result, I32Type)
}

func TestCollectSignatures_CompoundParamTypes(t *testing.T) {
	a := collect(t, "fn f(r: &mut i32, a: [bool; 3], t: (i32, bool), u: ()) {}")

	f := a.Symbols.Lookup("f")
	be.True(t, f != nil)
	be.Equal(t, TypeString(f.Params[0].Type), "&mut i32")
	be.Equal(t, TypeString(f.Params[1].Type), "[bool; 3]")
	be.Equal(t, TypeString(f.Params[2].Type), "(i32, bool)")
	be.Equal(t, TypeString(f.Params[3].Type), "()")
}

func TestCollectSignatures_MalformedHeaderIgnored(t *testing.T) {
	// The parser reports the syntax error; the pre-pass just skips it.
	a := collect(t, "fn (x: i32) {}")
	be.True(t, !a.Diags.HasErrors())
	be.Equal(t, len(a.Symbols.Symbols()), 0)
}
