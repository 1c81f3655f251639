package main

import "fmt"

// fnHeader opens a function: the signature itself was registered by
// the pre-declaration pass, so the header only marks it defined, opens
// the body scope, and declares the parameters.
func (a *Analyzer) fnHeader(n *Node) error {
	n.Name = n.Children[0].Tok.Literal
	sym := a.Symbols.Lookup(n.Name)
	if sym == nil || sym.Kind != SymFunction {
		return fmt.Errorf("internal error: function '%s' missing from the signature pre-pass", n.Name)
	}
	// A duplicate definition's body is still analyzed, against the
	// first signature.
	if sym.Defined {
		a.Diags.Add(DiagDeclaration, n.Line(),
			"function '%s' already declared at line %d", sym.Name, sym.Line)
	}
	sym.Defined = true
	n.Sym = sym
	n.Type = sym.Result

	a.Emitter.Emit(OpFuncBegin, NameOp(sym.Name), Operand{}, Operand{})
	a.Symbols.EnterScope()
	for _, p := range sym.Params {
		p.Initialized = true
		a.Symbols.Declare(p)
	}
	a.fn = sym
	return nil
}

// fnDecl closes a function body: a trailing block expression is the
// implicit return value.
func (a *Analyzer) fnDecl(n *Node) error {
	header, body := n.Children[0], n.Children[1]
	sym := header.Sym
	n.Sym = sym
	n.Name = sym.Name
	n.Type = UnitType

	if body.Prod == ProdBlockExpr && body.Type != nil &&
		body.Type.Kind != TypeUnit && !IsErrorType(body.Type) {
		if sym.Result.Kind == TypeUnit {
			a.Diags.Add(DiagType, body.Line(),
				"function '%s' returns no value but its body yields %s", sym.Name, TypeString(body.Type))
		} else if !TypesEqual(body.Type, sym.Result) {
			a.Diags.Add(DiagType, body.Line(),
				"function '%s' returns %s but its body yields %s",
				sym.Name, TypeString(sym.Result), TypeString(body.Type))
		} else {
			a.Emitter.Emit(OpReturnVal, body.Place, Operand{}, Operand{})
		}
	}
	a.Emitter.Emit(OpFuncEnd, NameOp(sym.Name), Operand{}, Operand{})
	a.fn = nil
	return a.Symbols.ExitScope()
}

// param synthesizes the name, mutability, and type of one parameter.
func (a *Analyzer) param(n *Node) error {
	i := 0
	if len(n.Children) == 3 { // [mut leaf, name, type]
		n.Mutable = true
		i = 1
	}
	n.Name = n.Children[i].Tok.Literal
	n.Type = n.Children[i+1].Type
	return nil
}

// bindName synthesizes the name and mutability of a let binding.
func (a *Analyzer) bindName(n *Node) error {
	i := 0
	if len(n.Children) == 2 { // [mut leaf, name]
		n.Mutable = true
		i = 1
	}
	n.Name = n.Children[i].Tok.Literal
	return nil
}

// letDecl handles `let x;` and `let x: T;` (no initializer). The
// variable stays uninitialized; its type may be inferred at the first
// assignment.
func (a *Analyzer) letDecl(n *Node) error {
	bind := n.Children[0]
	var declared *Type
	if len(n.Children) == 2 {
		declared = n.Children[1].Type
	}
	sym := &Symbol{
		Name:    bind.Name,
		Kind:    SymVariable,
		Type:    declared,
		Mutable: bind.Mutable,
		Line:    n.Line(),
	}
	a.Symbols.Declare(sym)
	n.Sym = sym
	n.Type = UnitType
	return nil
}

// letInit handles `let x = e;` and `let x: T = e;`. The initializer is
// evaluated before the name is declared, so `let x = x;` sees an outer
// binding, not itself.
func (a *Analyzer) letInit(n *Node) error {
	bind := n.Children[0]
	expr := n.Children[len(n.Children)-1]
	var declared *Type
	if len(n.Children) == 3 {
		declared = n.Children[1].Type
	}

	place, typ, err := a.rvalue(expr)
	if err != nil {
		return err
	}
	if declared != nil && !IsErrorType(typ) && !TypesEqual(declared, typ) {
		a.Diags.Add(DiagType, n.Line(),
			"cannot initialize '%s' of type %s with a value of type %s",
			bind.Name, TypeString(declared), TypeString(typ))
		typ = ErrorType
	}
	symType := typ
	if declared != nil {
		symType = declared
	}
	sym := &Symbol{
		Name:        bind.Name,
		Kind:        SymVariable,
		Type:        symType,
		Mutable:     bind.Mutable,
		Initialized: true,
		Line:        n.Line(),
	}
	a.Symbols.Declare(sym)
	n.Sym = sym
	n.Type = UnitType
	if !IsErrorType(typ) {
		a.Emitter.Emit(OpAssign, place, Operand{}, NameOp(sym.Name))
	}
	return nil
}

// typeNode builds the type descriptor for a type production.
func (a *Analyzer) typeNode(n *Node) error {
	switch n.Prod {
	case ProdTypeI32:
		n.Type = I32Type
	case ProdTypeBool:
		n.Type = BoolType
	case ProdTypeUnit:
		n.Type = UnitType
	case ProdTypeRef:
		mutable := len(n.Children) == 2 // [mut leaf, element type]
		elem := n.Children[len(n.Children)-1].Type
		n.Type = RefType(elem, mutable)
	case ProdTypeArray:
		elem := n.Children[0].Type
		length := int(n.Children[1].Tok.Int)
		if length <= 0 {
			a.Diags.Add(DiagType, n.Line(), "array length must be positive, got %d", length)
			n.Type = ErrorType
			return nil
		}
		n.Type = ArrayType(elem, length)
	case ProdTypeTuple:
		elems := make([]*Type, len(n.Children))
		for i, c := range n.Children {
			elems[i] = c.Type
		}
		n.Type = TupleType(elems)
	}
	return nil
}

// block closes a statement block. A BlockBegin marker as the first
// child means the block opened its own scope.
func (a *Analyzer) block(n *Node) error {
	n.Type = UnitType
	if len(n.Children) > 0 && n.Children[0].Prod == ProdBlockBegin {
		return a.Symbols.ExitScope()
	}
	return nil
}

// blockExpr closes an expression block: the value of the block is its
// trailing expression.
func (a *Analyzer) blockExpr(n *Node) error {
	tail := n.Children[len(n.Children)-1]
	if tail.Type != nil && tail.Type.Kind == TypeUnit {
		// A unit-typed tail (e.g. a value-less call) makes a unit block.
		n.Type = UnitType
	} else {
		place, typ, err := a.rvalue(tail)
		if err != nil {
			return err
		}
		n.Place = place
		n.Type = typ
	}
	if len(n.Children) > 0 && n.Children[0].Prod == ProdBlockBegin {
		return a.Symbols.ExitScope()
	}
	return nil
}
