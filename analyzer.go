package main

import "fmt"

// Analyzer holds all state for one semantic analysis run: symbol
// table, quad emitter, loop stack, and the diagnostic collection.
// Nothing lives at package level; concurrent runs get separate
// analyzers.
type Analyzer struct {
	Symbols *SymbolTable
	Emitter *Emitter
	Loops   *LoopStack
	Diags   *ErrorCollection

	fn   *Symbol // function whose body is being analyzed
	line int     // current source line, maintained by the parser
}

// NewAnalyzer creates an analyzer with empty state.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Symbols: NewSymbolTable(),
		Emitter: NewEmitter(),
		Loops:   &LoopStack{},
		Diags:   &ErrorCollection{},
	}
}

// Shift wraps a terminal token in a leaf node.
func (a *Analyzer) Shift(tok Token) *Node {
	a.line = tok.Line
	return &Node{Tok: tok}
}

// Reduce runs the semantic action for one completed production and
// returns the parent node with its synthesized attributes filled in.
// Diagnostics (declaration, type, control-flow) are collected and the
// error type is synthesized upward; a non-nil error is a bug in the
// analyzer or its driver and aborts the run.
func (a *Analyzer) Reduce(prod Production, children []*Node) (*Node, error) {
	n := &Node{Prod: prod, Children: children}
	if len(children) > 0 && children[0] != nil {
		n.Tok = children[0].Tok
	} else {
		n.Tok = Token{Line: a.line}
	}

	var err error
	switch prod {
	case ProdProgram:
		n.Type = UnitType

	case ProdFnHeader:
		err = a.fnHeader(n)
	case ProdFnDecl:
		err = a.fnDecl(n)
	case ProdParam:
		err = a.param(n)
	case ProdBindName:
		err = a.bindName(n)
	case ProdLetDecl:
		err = a.letDecl(n)
	case ProdLetInit:
		err = a.letInit(n)

	case ProdTypeI32, ProdTypeBool, ProdTypeUnit, ProdTypeRef, ProdTypeArray, ProdTypeTuple:
		err = a.typeNode(n)

	case ProdBlockBegin:
		a.Symbols.EnterScope()
	case ProdBlock:
		err = a.block(n)
	case ProdBlockExpr:
		err = a.blockExpr(n)
	case ProdAssign:
		err = a.assign(n)
	case ProdExprStmt:
		err = a.exprStmt(n)
	case ProdReturn:
		err = a.returnStmt(n)
	case ProdBreak:
		err = a.breakStmt(n)
	case ProdContinue:
		err = a.continueStmt(n)

	case ProdIfHeader:
		err = a.ifHeader(n)
	case ProdElseMarker:
		err = a.elseMarker(n)
	case ProdIfStmt:
		err = a.ifStmt(n)
	case ProdIfExprThen:
		err = a.ifExprThen(n)
	case ProdIfExpr:
		err = a.ifExpr(n)
	case ProdWhileBegin:
		err = a.whileBegin(n)
	case ProdWhileCond:
		err = a.whileCond(n)
	case ProdWhileStmt:
		err = a.whileStmt(n)
	case ProdForRange:
		err = a.forRange(n)
	case ProdForHeader:
		err = a.forHeader(n)
	case ProdForStmt:
		err = a.forStmt(n)
	case ProdLoopStmtBegin:
		err = a.loopBegin(n, false)
	case ProdLoopStmt:
		err = a.loopEnd(n)
	case ProdLoopExprBegin:
		err = a.loopBegin(n, true)
	case ProdLoopExpr:
		err = a.loopEnd(n)

	case ProdIntLit:
		n.Tok = children[0].Tok
		n.Place = ConstOp(n.Tok.Int)
		n.Type = I32Type
	case ProdBoolLit:
		n.Tok = children[0].Tok
		if n.Tok.Type == TRUE {
			n.Place = ConstOp(1)
		} else {
			n.Place = ConstOp(0)
		}
		n.Type = BoolType
	case ProdName:
		err = a.name(n)
	case ProdNeg:
		err = a.neg(n)
	case ProdNot:
		err = a.not(n)
	case ProdBinary:
		err = a.binary(n)
	case ProdAndMarker:
		err = a.andMarker(n)
	case ProdAnd:
		err = a.and(n)
	case ProdOrMarker:
		err = a.orMarker(n)
	case ProdOr:
		err = a.or(n)
	case ProdCall:
		err = a.call(n)
	case ProdIndex:
		err = a.index(n)
	case ProdField:
		err = a.field(n)
	case ProdRef:
		err = a.ref(n)
	case ProdDeref:
		err = a.deref(n)
	case ProdArrayLit:
		err = a.arrayLit(n)
	case ProdTupleLit:
		err = a.tupleLit(n)

	default:
		err = fmt.Errorf("internal error: no semantic action for production %s", prod)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// rvalue turns an expression node into a value operand, loading
// through addresses, materializing boolean jump lists, and rejecting
// value-less expressions. Diagnostics for an already ill-typed child
// are suppressed.
func (a *Analyzer) rvalue(n *Node) (Operand, *Type, error) {
	if IsErrorType(n.Type) {
		return n.Place, ErrorType, nil
	}
	if len(n.TrueList) > 0 || len(n.FalseList) > 0 {
		return a.materializeBool(n)
	}
	if n.Prod == ProdName && n.Sym != nil {
		sym := n.Sym
		if sym.Kind == SymFunction {
			a.Diags.Add(DiagType, n.Line(), "function '%s' is not a value", sym.Name)
			return Operand{}, ErrorType, nil
		}
		if !sym.Initialized {
			a.Diags.Add(DiagDeclaration, n.Line(), "variable '%s' used before initialization", sym.Name)
			if sym.Type == nil {
				return Operand{}, ErrorType, nil
			}
		}
	}
	if n.Type == nil {
		return Operand{}, ErrorType, nil
	}
	if n.Type.Kind == TypeUnit {
		if n.Prod == ProdCall {
			a.Diags.Add(DiagType, n.Line(), "function '%s' returns no value and cannot be used as a value", n.Name)
		} else {
			a.Diags.Add(DiagType, n.Line(), "expression has no value")
		}
		return Operand{}, ErrorType, nil
	}
	if n.IsAddr {
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(OpLoad, n.Place, Operand{}, t)
		return t, n.Type, nil
	}
	return n.Place, n.Type, nil
}

// materializeBool converts short-circuit jump lists into a 0/1 temp.
func (a *Analyzer) materializeBool(n *Node) (Operand, *Type, error) {
	e := a.Emitter
	t := e.NewTemp()
	if len(n.TrueList) > 0 {
		ltrue := e.NewLabel()
		if err := e.Bind(ltrue); err != nil {
			return Operand{}, nil, err
		}
		if err := e.Patch(n.TrueList, ltrue); err != nil {
			return Operand{}, nil, err
		}
	}
	e.Emit(OpAssign, ConstOp(1), Operand{}, t)
	j := e.Emit(OpJump, Operand{}, Operand{}, Operand{})
	if len(n.FalseList) > 0 {
		lfalse := e.NewLabel()
		if err := e.Bind(lfalse); err != nil {
			return Operand{}, nil, err
		}
		if err := e.Patch(n.FalseList, lfalse); err != nil {
			return Operand{}, nil, err
		}
	}
	e.Emit(OpAssign, ConstOp(0), Operand{}, t)
	lend := e.NewLabel()
	if err := e.Bind(lend); err != nil {
		return Operand{}, nil, err
	}
	if err := e.Patch([]int{j}, lend); err != nil {
		return Operand{}, nil, err
	}
	return t, BoolType, nil
}

// cond converts an expression into true/false jump lists. A node that
// already carries lists (&&, ||, !) passes them through; a plain bool
// or i32 value gets an IF_TRUE/JUMP pair. On an ill-typed or
// suppressed condition both lists come back empty.
func (a *Analyzer) cond(n *Node) (trueList, falseList []int, err error) {
	if IsErrorType(n.Type) {
		return nil, nil, nil
	}
	if len(n.TrueList) > 0 || len(n.FalseList) > 0 {
		return n.TrueList, n.FalseList, nil
	}
	if n.Type == nil || (n.Type.Kind != TypeBool && n.Type.Kind != TypeI32) {
		a.Diags.Add(DiagType, n.Line(), "condition must be bool or i32, got %s", TypeString(n.Type))
		return nil, nil, nil
	}
	place, typ, err := a.rvalue(n)
	if err != nil {
		return nil, nil, err
	}
	if IsErrorType(typ) {
		return nil, nil, nil
	}
	jt := a.Emitter.Emit(OpIfTrue, place, Operand{}, Operand{})
	jf := a.Emitter.Emit(OpJump, Operand{}, Operand{}, Operand{})
	return []int{jt}, []int{jf}, nil
}

// bindHere binds a fresh label at the current position and points the
// given open jumps at it. No-op for an empty list.
func (a *Analyzer) bindHere(jumps []int) error {
	if len(jumps) == 0 {
		return nil
	}
	l := a.Emitter.NewLabel()
	if err := a.Emitter.Bind(l); err != nil {
		return err
	}
	return a.Emitter.Patch(jumps, l)
}
