package main

// CollectSignatures is the first of the two analysis passes: it scans
// the top-level token stream, skipping function bodies, and registers
// every `fn` signature in the global scope. Body analysis then runs as
// the second pass, so calls to functions defined later in the file
// (and self-recursion) resolve against a complete global scope.
//
// Malformed signatures are left for the parser to report. A duplicate
// name keeps the first signature; the definition pass reports the
// duplicate when its body begins.
func CollectSignatures(toks []Token, a *Analyzer) {
	depth := 0
	for i := 0; i < len(toks); i++ {
		switch toks[i].Type {
		case LBRACE:
			depth++
		case RBRACE:
			if depth > 0 {
				depth--
			}
		case FN:
			if depth != 0 {
				continue
			}
			sig, next := scanSignature(toks, i)
			if sig != nil && a.Symbols.LookupLocal(sig.Name) == nil {
				a.Symbols.Declare(sig)
			}
			if next > i {
				i = next - 1
			}
		}
	}
}

// scanSignature reads one `fn name(params) [-> type]` header starting
// at the FN token. It returns the function symbol and the index just
// past the header, or nil if the header is malformed.
func scanSignature(toks []Token, i int) (*Symbol, int) {
	j := i + 1
	if toks[j].Type != IDENT {
		return nil, j
	}
	sym := &Symbol{
		Name:        toks[j].Literal,
		Kind:        SymFunction,
		Result:      UnitType,
		Initialized: true,
		Line:        toks[j].Line,
	}
	j++
	if toks[j].Type != LPAREN {
		return nil, j
	}
	j++
	for toks[j].Type != RPAREN {
		param := &Symbol{Kind: SymParameter, Line: toks[j].Line}
		if toks[j].Type == MUT {
			param.Mutable = true
			j++
		}
		if toks[j].Type != IDENT {
			return nil, j
		}
		param.Name = toks[j].Literal
		j++
		if toks[j].Type != COLON {
			return nil, j
		}
		j++
		typ, next, ok := scanType(toks, j)
		if !ok {
			return nil, next
		}
		param.Type = typ
		j = next
		sym.Params = append(sym.Params, param)
		if toks[j].Type == COMMA {
			j++
		} else if toks[j].Type != RPAREN {
			return nil, j
		}
	}
	j++ // past ')'
	if toks[j].Type == ARROW {
		typ, next, ok := scanType(toks, j+1)
		if !ok {
			return nil, next
		}
		sym.Result = typ
		j = next
	}
	return sym, j
}

// scanType reads a type from the token stream without building parse
// nodes; the pre-pass needs only the descriptor.
func scanType(toks []Token, j int) (*Type, int, bool) {
	switch toks[j].Type {
	case I32KW:
		return I32Type, j + 1, true
	case BOOLKW:
		return BoolType, j + 1, true
	case AMP:
		j++
		mutable := false
		if toks[j].Type == MUT {
			mutable = true
			j++
		}
		elem, next, ok := scanType(toks, j)
		if !ok {
			return nil, next, false
		}
		return RefType(elem, mutable), next, true
	case LBRACKET:
		j++
		elem, next, ok := scanType(toks, j)
		if !ok {
			return nil, next, false
		}
		j = next
		if toks[j].Type != SEMICOLON || toks[j+1].Type != INT || toks[j+2].Type != RBRACKET {
			return nil, j, false
		}
		return ArrayType(elem, int(toks[j+1].Int)), j + 3, true
	case LPAREN:
		j++
		if toks[j].Type == RPAREN {
			return UnitType, j + 1, true
		}
		var elems []*Type
		for {
			elem, next, ok := scanType(toks, j)
			if !ok {
				return nil, next, false
			}
			elems = append(elems, elem)
			j = next
			if toks[j].Type == COMMA {
				j++
				continue
			}
			break
		}
		if toks[j].Type != RPAREN {
			return nil, j, false
		}
		return TupleType(elems), j + 1, true
	default:
		return nil, j, false
	}
}
