package main

// name resolves an identifier. Functions resolve too; using one as a
// value is rejected later, at the point of use.
func (a *Analyzer) name(n *Node) error {
	n.Name = n.Children[0].Tok.Literal
	sym := a.Symbols.Lookup(n.Name)
	if sym == nil {
		a.Diags.Add(DiagDeclaration, n.Line(), "undefined name '%s'", n.Name)
		n.Type = ErrorType
		return nil
	}
	n.Sym = sym
	n.Mutable = sym.Mutable
	if sym.Kind == SymFunction {
		n.Type = sym.FuncType()
		return nil
	}
	n.IsLValue = true
	n.Place = NameOp(sym.Name)
	n.Type = sym.Type // nil until inferred for `let x;`
	return nil
}

// neg emits 0 - x.
func (a *Analyzer) neg(n *Node) error {
	place, typ, err := a.rvalue(n.Children[0])
	if err != nil {
		return err
	}
	if IsErrorType(typ) {
		n.Type = ErrorType
		return nil
	}
	if typ.Kind != TypeI32 {
		a.Diags.Add(DiagType, n.Line(), "unary '-' requires i32, got %s", TypeString(typ))
		n.Type = ErrorType
		return nil
	}
	t := a.Emitter.NewTemp()
	a.Emitter.Emit(OpSub, ConstOp(0), place, t)
	n.Place = t
	n.Type = I32Type
	return nil
}

// not swaps the operand's jump lists.
func (a *Analyzer) not(n *Node) error {
	tl, fl, err := a.cond(n.Children[0])
	if err != nil {
		return err
	}
	if len(tl) == 0 && len(fl) == 0 {
		n.Type = ErrorType // ill-typed or suppressed operand
		return nil
	}
	n.TrueList = fl
	n.FalseList = tl
	n.Type = BoolType
	return nil
}

// binary handles arithmetic and comparison operators.
// Children: [left, operator leaf, right].
func (a *Analyzer) binary(n *Node) error {
	left, right := n.Children[0], n.Children[2]
	n.Op = n.Children[1].Tok.Literal

	lp, lt, err := a.rvalue(left)
	if err != nil {
		return err
	}
	rp, rt, err := a.rvalue(right)
	if err != nil {
		return err
	}
	if IsErrorType(lt) || IsErrorType(rt) {
		n.Type = ErrorType
		return nil
	}

	switch n.Op {
	case "+", "-", "*", "/":
		if lt.Kind != TypeI32 || rt.Kind != TypeI32 {
			a.Diags.Add(DiagType, n.Line(), "operator '%s' requires i32 operands, got %s and %s",
				n.Op, TypeString(lt), TypeString(rt))
			n.Type = ErrorType
			return nil
		}
		if n.Op == "/" && rp.Kind == ConstOperand && rp.Val == 0 {
			a.Diags.Add(DiagType, n.Line(), "division by zero")
			n.Type = ErrorType
			return nil
		}
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(arithOp(n.Op), lp, rp, t)
		n.Place = t
		n.Type = I32Type

	case "==", "!=":
		if !TypesEqual(lt, rt) || (lt.Kind != TypeI32 && lt.Kind != TypeBool) {
			a.Diags.Add(DiagType, n.Line(), "operator '%s' requires matching i32 or bool operands, got %s and %s",
				n.Op, TypeString(lt), TypeString(rt))
			n.Type = ErrorType
			return nil
		}
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(compareOp(n.Op), lp, rp, t)
		n.Place = t
		n.Type = BoolType

	case "<", "<=", ">", ">=":
		if lt.Kind != TypeI32 || rt.Kind != TypeI32 {
			a.Diags.Add(DiagType, n.Line(), "operator '%s' requires i32 operands, got %s and %s",
				n.Op, TypeString(lt), TypeString(rt))
			n.Type = ErrorType
			return nil
		}
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(compareOp(n.Op), lp, rp, t)
		n.Place = t
		n.Type = BoolType
	}
	return nil
}

func arithOp(op string) Op {
	switch op {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	default:
		return OpDiv
	}
}

func compareOp(op string) Op {
	switch op {
	case "==":
		return OpEq
	case "!=":
		return OpNe
	case "<":
		return OpLt
	case "<=":
		return OpLe
	case ">":
		return OpGt
	default:
		return OpGe
	}
}

// andMarker runs between the operands of &&: the left side's true
// exits fall into the right operand, its false exits short-circuit.
func (a *Analyzer) andMarker(n *Node) error {
	tl, fl, err := a.cond(n.Children[0])
	if err != nil {
		return err
	}
	if err := a.bindHere(tl); err != nil {
		return err
	}
	n.FalseList = fl
	return nil
}

// and merges the jump lists of both operands.
func (a *Analyzer) and(n *Node) error {
	marker, right := n.Children[0], n.Children[1]
	tl, fl, err := a.cond(right)
	if err != nil {
		return err
	}
	n.TrueList = tl
	n.FalseList = append(append([]int{}, marker.FalseList...), fl...)
	n.Type = BoolType
	return nil
}

// orMarker runs between the operands of ||: the left side's false
// exits fall into the right operand, its true exits short-circuit.
func (a *Analyzer) orMarker(n *Node) error {
	tl, fl, err := a.cond(n.Children[0])
	if err != nil {
		return err
	}
	if err := a.bindHere(fl); err != nil {
		return err
	}
	n.TrueList = tl
	return nil
}

// or merges the jump lists of both operands.
func (a *Analyzer) or(n *Node) error {
	marker, right := n.Children[0], n.Children[1]
	tl, fl, err := a.cond(right)
	if err != nil {
		return err
	}
	n.TrueList = append(append([]int{}, marker.TrueList...), tl...)
	n.FalseList = fl
	n.Type = BoolType
	return nil
}

// call checks arity and argument types against the callee's signature
// and emits PARAM/CALL. A unit function call is a valid statement; it
// only becomes an error when its (missing) value is consumed.
func (a *Analyzer) call(n *Node) error {
	callee := n.Children[0]
	args := n.Children[1:]

	if callee.Prod != ProdName {
		if !IsErrorType(callee.Type) {
			a.Diags.Add(DiagType, n.Line(), "called expression is not a function")
		}
		n.Type = ErrorType
		return nil
	}
	n.Name = callee.Name
	sym := callee.Sym
	if sym == nil {
		n.Type = ErrorType // undefined name, already reported
		return nil
	}
	if sym.Kind != SymFunction {
		a.Diags.Add(DiagType, n.Line(), "'%s' is not a function", sym.Name)
		n.Type = ErrorType
		return nil
	}

	if len(args) != len(sym.Params) {
		a.Diags.Add(DiagType, n.Line(), "function '%s' expects %d argument(s), got %d",
			sym.Name, len(sym.Params), len(args))
		n.Type = ErrorType
		return nil
	}

	places := make([]Operand, len(args))
	for i, arg := range args {
		place, typ, err := a.rvalue(arg)
		if err != nil {
			return err
		}
		if !IsErrorType(typ) && !TypesEqual(typ, sym.Params[i].Type) {
			a.Diags.Add(DiagType, arg.Line(), "argument %d to '%s' must be %s, got %s",
				i+1, sym.Name, TypeString(sym.Params[i].Type), TypeString(typ))
		}
		places[i] = place
	}
	for _, place := range places {
		a.Emitter.Emit(OpParam, place, Operand{}, Operand{})
	}

	if sym.Result.Kind == TypeUnit {
		a.Emitter.Emit(OpCall, NameOp(sym.Name), ConstOp(int64(len(args))), Operand{})
		n.Type = UnitType
	} else {
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(OpCall, NameOp(sym.Name), ConstOp(int64(len(args))), t)
		n.Place = t
		n.Type = sym.Result
	}
	return nil
}

// index computes the address of an array element; reads load through
// it, assignments store through it.
func (a *Analyzer) index(n *Node) error {
	base, idx := n.Children[0], n.Children[1]

	basePlace, baseType, err := a.rvalue(base)
	if err != nil {
		return err
	}
	idxPlace, idxType, err := a.rvalue(idx)
	if err != nil {
		return err
	}
	if IsErrorType(baseType) || IsErrorType(idxType) {
		n.Type = ErrorType
		return nil
	}
	if baseType.Kind != TypeArray {
		a.Diags.Add(DiagType, n.Line(), "cannot index into a value of type %s", TypeString(baseType))
		n.Type = ErrorType
		return nil
	}
	if idxType.Kind != TypeI32 {
		a.Diags.Add(DiagType, idx.Line(), "array index must be i32, got %s", TypeString(idxType))
	}
	if idxPlace.Kind == ConstOperand && (idxPlace.Val < 0 || idxPlace.Val >= int64(baseType.Len)) {
		a.Diags.Add(DiagType, idx.Line(), "index %d out of bounds for %s",
			idxPlace.Val, TypeString(baseType))
	}

	addr := a.Emitter.NewTemp()
	a.Emitter.Emit(OpArrayAddr, basePlace, idxPlace, addr)
	n.Place = addr
	n.IsAddr = true
	n.IsLValue = true
	n.Mutable = base.Mutable
	n.Type = baseType.Elem
	return nil
}

// field computes the address of a tuple element (t.0, t.1, ...). The
// position is a constant, so bounds are checked here.
func (a *Analyzer) field(n *Node) error {
	base := n.Children[0]
	pos := int(n.Children[1].Tok.Int)

	basePlace, baseType, err := a.rvalue(base)
	if err != nil {
		return err
	}
	if IsErrorType(baseType) {
		n.Type = ErrorType
		return nil
	}
	if baseType.Kind != TypeTuple {
		a.Diags.Add(DiagType, n.Line(), "cannot access field %d of a value of type %s",
			pos, TypeString(baseType))
		n.Type = ErrorType
		return nil
	}
	if pos >= len(baseType.Elems) {
		a.Diags.Add(DiagType, n.Line(), "tuple of %d element(s) has no field %d",
			len(baseType.Elems), pos)
		n.Type = ErrorType
		return nil
	}

	addr := a.Emitter.NewTemp()
	a.Emitter.Emit(OpTupleAddr, basePlace, ConstOp(int64(pos)), addr)
	n.Place = addr
	n.IsAddr = true
	n.IsLValue = true
	n.Mutable = base.Mutable
	n.Type = baseType.Elems[pos]
	return nil
}

// ref takes a reference to an assignable place. &mut requires the
// place itself to be mutable. Children: [mut leaf?, target].
func (a *Analyzer) ref(n *Node) error {
	target := n.Children[len(n.Children)-1]
	n.Mutable = len(n.Children) == 2 // [mut leaf, target]

	if IsErrorType(target.Type) {
		n.Type = ErrorType
		return nil
	}
	if !target.IsLValue {
		a.Diags.Add(DiagType, n.Line(), "cannot take a reference to this expression")
		n.Type = ErrorType
		return nil
	}
	if n.Mutable && !target.Mutable {
		if target.Sym != nil {
			a.Diags.Add(DiagType, n.Line(), "cannot borrow immutable variable '%s' as mutable", target.Sym.Name)
		} else {
			a.Diags.Add(DiagType, n.Line(), "cannot borrow an immutable place as mutable")
		}
		n.Type = ErrorType
		return nil
	}

	if target.IsAddr {
		// An element address is already a reference to the place.
		n.Place = target.Place
	} else {
		t := a.Emitter.NewTemp()
		a.Emitter.Emit(OpRef, target.Place, Operand{}, t)
		n.Place = t
	}
	n.Type = RefType(target.Type, n.Mutable)
	return nil
}

// deref makes the referenced place usable as a value or assignment
// target; mutability comes from the reference type.
func (a *Analyzer) deref(n *Node) error {
	place, typ, err := a.rvalue(n.Children[0])
	if err != nil {
		return err
	}
	if IsErrorType(typ) {
		n.Type = ErrorType
		return nil
	}
	if typ.Kind != TypeRef {
		a.Diags.Add(DiagType, n.Line(), "cannot dereference a value of type %s", TypeString(typ))
		n.Type = ErrorType
		return nil
	}
	n.Place = place // the reference value is the address
	n.IsAddr = true
	n.IsLValue = true
	n.Mutable = typ.Mutable
	n.Type = typ.Elem
	return nil
}

// arrayLit builds a fixed-size array from its elements; all elements
// must share the first element's type.
func (a *Analyzer) arrayLit(n *Node) error {
	var elemType *Type
	places := make([]Operand, len(n.Children))
	for i, el := range n.Children {
		place, typ, err := a.rvalue(el)
		if err != nil {
			return err
		}
		if IsErrorType(typ) {
			elemType = ErrorType
		} else if elemType == nil {
			elemType = typ
		} else if !IsErrorType(elemType) && !TypesEqual(elemType, typ) {
			a.Diags.Add(DiagType, el.Line(), "array element %d is %s, expected %s",
				i, TypeString(typ), TypeString(elemType))
			elemType = ErrorType
		}
		places[i] = place
	}
	if IsErrorType(elemType) {
		n.Type = ErrorType
		return nil
	}

	arr := a.Emitter.NewTemp()
	a.Emitter.Emit(OpArrayInit, ConstOp(int64(len(places))), Operand{}, arr)
	for i, place := range places {
		a.Emitter.Emit(OpArraySet, ConstOp(int64(i)), place, arr)
	}
	n.Place = arr
	n.Type = ArrayType(elemType, len(places))
	return nil
}

// tupleLit builds a tuple from its elements.
func (a *Analyzer) tupleLit(n *Node) error {
	elems := make([]*Type, len(n.Children))
	places := make([]Operand, len(n.Children))
	failed := false
	for i, el := range n.Children {
		place, typ, err := a.rvalue(el)
		if err != nil {
			return err
		}
		if IsErrorType(typ) {
			failed = true
		}
		elems[i] = typ
		places[i] = place
	}
	if failed {
		n.Type = ErrorType
		return nil
	}

	tup := a.Emitter.NewTemp()
	a.Emitter.Emit(OpTupleInit, ConstOp(int64(len(places))), Operand{}, tup)
	for i, place := range places {
		a.Emitter.Emit(OpTupleSet, ConstOp(int64(i)), place, tup)
	}
	n.Place = tup
	n.Type = TupleType(elems)
	return nil
}
