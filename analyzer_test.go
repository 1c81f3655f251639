package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func analyzeOK(t *testing.T, input string) *Result {
	t.Helper()
	res, err := AnalyzeProgram([]byte(input))
	be.Err(t, err, nil)
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%s", res.Diags)
	}
	return res
}

func TestAnalyzeProgram_NoQuadsUnderDiagnostics(t *testing.T) {
	res, err := AnalyzeProgram([]byte("fn main() { let a = 1 + true; }"))
	be.Err(t, err, nil)
	be.True(t, res.Diags.HasErrors())
	be.Equal(t, res.Quads, nil)
	be.True(t, res.AST != nil)
	be.True(t, res.Symbols != nil)
}

func TestAnalyzeProgram_SyntaxFailureHasNoAST(t *testing.T) {
	res, err := AnalyzeProgram([]byte("fn main() { let = 1; }"))
	be.Err(t, err, nil)
	be.Equal(t, res.AST, nil)
	be.Equal(t, res.Quads, nil)
	be.Equal(t, res.Diags.Count(), 1)
	be.Equal(t, res.Diags.Diagnostics()[0].Kind, DiagSyntax)
}

func TestAnalyzeProgram_LoopExpressionInfersType(t *testing.T) {
	res := analyzeOK(t, `fn main() {
    let mut a = loop { break 2; };
    a = a + 1;
}`)
	var a *Symbol
	for _, sym := range res.Symbols.Symbols() {
		if sym.Name == "a" {
			a = sym
		}
	}
	be.True(t, a != nil)
	be.Equal(t, a.Type, I32Type)
	be.True(t, a.Mutable)
}

func TestAnalyzeProgram_DeferredInference(t *testing.T) {
	res := analyzeOK(t, `fn main() {
    let mut a;
    a = true;
    let b = a;
}`)
	var a *Symbol
	for _, sym := range res.Symbols.Symbols() {
		if sym.Name == "a" {
			a = sym
		}
	}
	be.True(t, a != nil)
	be.Equal(t, a.Type, BoolType)
}

func TestAnalyzeProgram_RecursionResolves(t *testing.T) {
	analyzeOK(t, `fn fib(n: i32) -> i32 {
    if n < 2 {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}`)
}

// All jumps in a finished sequence point at real instruction indices;
// Finalize would have failed on any dropped patch list.
func TestAnalyzeProgram_AllJumpsResolved(t *testing.T) {
	res := analyzeOK(t, `fn classify(n: i32) -> i32 {
    if n < 0 {
        return -1;
    } else if n == 0 {
        return 0;
    }
    return 1;
}

fn main() {
    let mut total = 0;
    for i in 0..10 {
        if i == 3 && total > 0 {
            continue;
        }
        let mut j = i;
        while j > 0 {
            total = total + classify(j);
            j = j - 1;
        }
    }
    let parity = loop {
        if total == 0 || total == 1 {
            break total;
        }
        total = total - 2;
    };
}`)
	for i, q := range res.Quads {
		switch q.Op {
		case OpJump, OpIfTrue, OpIfFalse:
			be.Equal(t, q.Result.Kind, IndexOperand)
			if q.Result.Val < 0 || q.Result.Val > int64(len(res.Quads)) {
				t.Errorf("quad %d jumps to %d, outside the sequence", i, q.Result.Val)
			}
		}
	}
}

// A boolean in statement position has its value dropped, but its jump
// lists must still land somewhere or finalization fails.
func TestAnalyzeProgram_BooleanStatementJumpsResolved(t *testing.T) {
	res := analyzeOK(t, `fn main() {
    let a = true;
    let b = false;
    a && b;
    a || b;
    !a;
}`)
	for i, q := range res.Quads {
		switch q.Op {
		case OpJump, OpIfTrue, OpIfFalse:
			if q.Result.Kind != IndexOperand {
				t.Errorf("quad %d has an unresolved target: %s", i, q)
			}
		}
	}
}

func TestAnalyzeProgram_DuplicateFunctionReported(t *testing.T) {
	res, err := AnalyzeProgram([]byte("fn f() {}\nfn f() {}"))
	be.Err(t, err, nil)
	be.Equal(t, res.Diags.String(),
		"line 2: declaration error: function 'f' already declared at line 1")
}

func TestAnalyzeProgram_TempsNeverReset(t *testing.T) {
	res := analyzeOK(t, `fn f() -> i32 { 1 + 2 }

fn g() -> i32 { 3 + 4 }`)
	var temps []int64
	for _, q := range res.Quads {
		if q.Op == OpAdd {
			temps = append(temps, q.Result.Val)
		}
	}
	be.Equal(t, len(temps), 2)
	be.True(t, temps[0] != temps[1])
}

func TestAnalyzeProgram_DiagnosticsKeepOrder(t *testing.T) {
	res, err := AnalyzeProgram([]byte(`fn main() {
    let a = x;
    let b: bool = 1;
    break;
}`))
	be.Err(t, err, nil)
	diags := res.Diags.Diagnostics()
	be.Equal(t, res.Diags.Count(), 3)
	be.Equal(t, diags[0].Kind, DiagDeclaration)
	be.Equal(t, diags[0].Line, 2)
	be.Equal(t, diags[1].Kind, DiagType)
	be.Equal(t, diags[1].Line, 3)
	be.Equal(t, diags[2].Kind, DiagControlFlow)
	be.Equal(t, diags[2].Line, 4)
}

func TestAnalyzeProgram_ScopeEndsWithBlock(t *testing.T) {
	res, err := AnalyzeProgram([]byte(`fn main() {
    {
        let inner = 1;
    }
    let x = inner;
}`))
	be.Err(t, err, nil)
	be.Equal(t, res.Diags.String(), "line 5: declaration error: undefined name 'inner'")
}

func TestAnalyzeProgram_ParamsAreInScope(t *testing.T) {
	analyzeOK(t, "fn id(x: i32) -> i32 { x }")
}

func TestAnalyzeProgram_MutParamAssignable(t *testing.T) {
	analyzeOK(t, `fn clamp(mut x: i32) -> i32 {
    if x > 10 {
        x = 10;
    }
    x
}`)
}

func TestAnalyzeProgram_ImmutableParamRejected(t *testing.T) {
	res, err := AnalyzeProgram([]byte(`fn f(x: i32) {
    x = 1;
}`))
	be.Err(t, err, nil)
	be.Equal(t, res.Diags.String(),
		"line 2: type error: cannot assign twice to immutable parameter 'x'")
}

func TestAnalyzeProgram_LetSeesOuterBinding(t *testing.T) {
	// The initializer is evaluated before the new name is declared.
	res := analyzeOK(t, `fn main() {
    let x = 1;
    {
        let x = x + 1;
    }
}`)
	be.True(t, len(res.Quads) > 0)
}
