package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func parseSource(t *testing.T, input string) (*Node, *Analyzer) {
	t.Helper()
	toks := NewLexer([]byte(input)).Tokenize()
	a := NewAnalyzer()
	CollectSignatures(toks, a)
	root, err := NewParser(toks, a).ParseProgram()
	be.Err(t, err, nil)
	return root, a
}

func TestParser_Precedence(t *testing.T) {
	root, _ := parseSource(t, "fn main() { let a = 1 + 2 * 3; }")
	be.Equal(t, ToSExpr(root),
		`(program (fn (fn-header "main") (block (let (bind "a") (binary "+" (int 1) (binary "*" (int 2) (int 3)))))))`)
}

func TestParser_GroupingParens(t *testing.T) {
	root, _ := parseSource(t, "fn main() { let a = (1 + 2) * 3; }")
	be.Equal(t, ToSExpr(root),
		`(program (fn (fn-header "main") (block (let (bind "a") (binary "*" (binary "+" (int 1) (int 2)) (int 3))))))`)
}

func TestParser_ShortCircuitBelowComparisons(t *testing.T) {
	root, _ := parseSource(t, "fn main() { let a = 1 < 2 && 3 < 4; }")
	be.Equal(t, ToSExpr(root),
		`(program (fn (fn-header "main") (block (let (bind "a") (binary "&&" (binary "<" (int 1) (int 2)) (binary "<" (int 3) (int 4)))))))`)
}

func TestParser_UnaryChain(t *testing.T) {
	root, _ := parseSource(t, "fn main() { let f = true; let a = !!f; }")
	be.True(t, strings.Contains(ToSExpr(root), `(not (not (ident "f")))`))
}

func TestParser_CallIndexField(t *testing.T) {
	root, _ := parseSource(t, `fn f() -> i32 { 1 }

fn main() {
    let x = f();
    let arr = [1, 2];
    let y = arr[0];
    let t = (1, 2);
    let z = t.1;
}`)
	dump := ToSExpr(root)
	be.True(t, strings.Contains(dump, `(call (ident "f"))`))
	be.True(t, strings.Contains(dump, `(idx (ident "arr") (int 0))`))
	be.True(t, strings.Contains(dump, `(field (ident "t") (int 1))`))
}

func TestParser_TupleTrailingComma(t *testing.T) {
	root, _ := parseSource(t, "fn main() { let t = (1, 2,); }")
	be.True(t, strings.Contains(ToSExpr(root), `(tuple (int 1) (int 2))`))
}

func TestParser_RefTypes(t *testing.T) {
	root, _ := parseSource(t, "fn f(r: &mut i32, s: &bool) {}")
	dump := ToSExpr(root)
	be.True(t, strings.Contains(dump, `(param "r" (type &mut i32))`))
	be.True(t, strings.Contains(dump, `(param "s" (type &bool))`))
}

func TestParser_StraySemicolons(t *testing.T) {
	root, a := parseSource(t, "fn main() { ;; let a = 1; ; }")
	be.True(t, root != nil)
	be.True(t, !a.Diags.HasErrors())
}

func syntaxDiag(t *testing.T, input string) string {
	t.Helper()
	toks := NewLexer([]byte(input)).Tokenize()
	a := NewAnalyzer()
	CollectSignatures(toks, a)
	root, err := NewParser(toks, a).ParseProgram()
	be.Err(t, err, nil)
	be.Equal(t, root, nil)
	be.True(t, a.Diags.HasErrors())
	return a.Diags.String()
}

func TestParser_SyntaxErrors(t *testing.T) {
	be.Equal(t, syntaxDiag(t, "let a = 1;"),
		"line 1: syntax error: expected 'fn', found 'let'")
	be.Equal(t, syntaxDiag(t, "fn main() { let a = ; }"),
		"line 1: syntax error: expected an expression, found ';'")
	be.Equal(t, syntaxDiag(t, "fn main() { for x 1..2 {} }"),
		"line 1: syntax error: expected 'IN', found '1'")
	be.Equal(t, syntaxDiag(t, "fn main() { let a = if true { 1 }; }"),
		"line 1: syntax error: if expression requires 'else', found ';'")
	be.Equal(t, syntaxDiag(t, "fn main() { let a = []; }"),
		"line 1: syntax error: array literal needs at least one element, found ';'")
	be.Equal(t, syntaxDiag(t, "fn main() {"),
		"line 1: syntax error: expected '}', found 'end of input'")
}

func TestParser_StopsAtFirstSyntaxError(t *testing.T) {
	diags := syntaxDiag(t, "fn main() { let = 1; let = 2; }")
	be.Equal(t, strings.Count(diags, "\n"), 0)
}
