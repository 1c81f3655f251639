package main

// Result bundles the artifacts of one analysis run. Quads is nil when
// diagnostics were recorded; a program that failed analysis has no
// meaningful IR.
type Result struct {
	AST     *Node
	Quads   []Quad
	Symbols *SymbolTable
	Diags   *ErrorCollection
}

// AnalyzeProgram runs the full pipeline over one source text: lex,
// signature pre-pass, parse with per-reduction semantic actions, and
// jump resolution. User-facing findings land in Result.Diags; a
// non-nil error means a bug in the analyzer itself and the run's
// artifacts must be discarded.
func AnalyzeProgram(input []byte) (*Result, error) {
	toks := NewLexer(input).Tokenize()

	a := NewAnalyzer()
	CollectSignatures(toks, a)

	p := NewParser(toks, a)
	root, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	res := &Result{AST: root, Symbols: a.Symbols, Diags: a.Diags}
	if a.Diags.HasErrors() {
		return res, nil
	}
	quads, err := a.Emitter.Finalize()
	if err != nil {
		return nil, err
	}
	res.Quads = quads
	return res, nil
}
