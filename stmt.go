package main

// assign handles `lhs = rhs;`. The left-hand side was reduced first,
// so any address computation is already emitted; plain names assign
// with ASSIGN, element and deref targets with STORE.
func (a *Analyzer) assign(n *Node) error {
	lhs, rhs := n.Children[0], n.Children[1]
	n.Type = UnitType

	place, typ, err := a.rvalue(rhs)
	if err != nil {
		return err
	}

	if !lhs.IsLValue {
		if !IsErrorType(lhs.Type) {
			a.Diags.Add(DiagType, lhs.Line(), "expression is not assignable")
		}
		return nil
	}

	if lhs.Prod == ProdName {
		sym := lhs.Sym
		if sym == nil {
			return nil // undefined name, already reported
		}
		if !sym.Mutable && sym.Initialized {
			a.Diags.Add(DiagType, n.Line(), "cannot assign twice to immutable %s '%s'", sym.Kind, sym.Name)
			return nil
		}
		if IsErrorType(typ) {
			sym.Initialized = true
			return nil
		}
		if sym.Type == nil {
			sym.Type = typ // deferred inference for `let x;`
		} else if !TypesEqual(sym.Type, typ) {
			a.Diags.Add(DiagType, n.Line(), "cannot assign %s to '%s' of type %s",
				TypeString(typ), sym.Name, TypeString(sym.Type))
			sym.Initialized = true
			return nil
		}
		sym.Initialized = true
		a.Emitter.Emit(OpAssign, place, Operand{}, NameOp(sym.Name))
		return nil
	}

	// Element or dereference target: lhs.Place is an address.
	if IsErrorType(lhs.Type) {
		return nil
	}
	if !lhs.Mutable {
		a.Diags.Add(DiagType, n.Line(), "assignment target is not mutable")
		return nil
	}
	if IsErrorType(typ) {
		return nil
	}
	if !TypesEqual(lhs.Type, typ) {
		a.Diags.Add(DiagType, n.Line(), "cannot assign %s to a target of type %s",
			TypeString(typ), TypeString(lhs.Type))
		return nil
	}
	a.Emitter.Emit(OpStore, place, Operand{}, lhs.Place)
	return nil
}

// exprStmt drops an expression's value. A short-circuit boolean in
// statement position still carries open jump lists; both land on the
// fall-through point so every jump gets a target.
func (a *Analyzer) exprStmt(n *Node) error {
	c := n.Children[0]
	n.Type = UnitType
	if len(c.TrueList) == 0 && len(c.FalseList) == 0 {
		return nil
	}
	open := make([]int, 0, len(c.TrueList)+len(c.FalseList))
	open = append(open, c.TrueList...)
	open = append(open, c.FalseList...)
	return a.bindHere(open)
}

// returnStmt checks the returned value against the enclosing
// function's declared result type.
func (a *Analyzer) returnStmt(n *Node) error {
	n.Type = UnitType
	fn := a.fn
	if fn == nil {
		a.Diags.Add(DiagControlFlow, n.Line(), "'return' outside of a function")
		return nil
	}

	if len(n.Children) == 0 {
		if fn.Result.Kind != TypeUnit {
			a.Diags.Add(DiagType, n.Line(), "function '%s' must return a value of type %s",
				fn.Name, TypeString(fn.Result))
		}
		a.Emitter.Emit(OpReturn, Operand{}, Operand{}, Operand{})
		return nil
	}

	place, typ, err := a.rvalue(n.Children[0])
	if err != nil {
		return err
	}
	if fn.Result.Kind == TypeUnit {
		a.Diags.Add(DiagType, n.Line(), "function '%s' returns no value", fn.Name)
		return nil
	}
	if !IsErrorType(typ) && !TypesEqual(typ, fn.Result) {
		a.Diags.Add(DiagType, n.Line(), "function '%s' returns %s, got %s",
			fn.Name, TypeString(fn.Result), TypeString(typ))
		return nil
	}
	if !IsErrorType(typ) {
		a.Emitter.Emit(OpReturnVal, place, Operand{}, Operand{})
	}
	return nil
}
