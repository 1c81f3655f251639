package main

import "fmt"

// breakStmt emits an open jump and hangs it on the innermost loop
// frame. `break <expr>` is only meaningful inside a loop expression,
// where it writes the loop's result temporary and pins (or checks) the
// loop's inferred type.
func (a *Analyzer) breakStmt(n *Node) error {
	n.Type = UnitType
	f := a.Loops.Top()
	if f == nil {
		a.Diags.Add(DiagControlFlow, n.Line(), "'break' outside of a loop")
		return nil
	}

	if len(n.Children) == 1 {
		if !f.IsExpr {
			a.Diags.Add(DiagControlFlow, n.Line(),
				"'break' with a value is only allowed inside a loop expression")
		} else {
			place, typ, err := a.rvalue(n.Children[0])
			if err != nil {
				return err
			}
			if !IsErrorType(typ) {
				if f.ResultType == nil {
					f.ResultType = typ
				} else if !TypesEqual(f.ResultType, typ) {
					a.Diags.Add(DiagType, n.Line(),
						"loop expression breaks with %s here but with %s before",
						TypeString(typ), TypeString(f.ResultType))
				}
				a.Emitter.Emit(OpAssign, place, Operand{}, f.Result)
			}
		}
	} else if f.IsExpr {
		a.Diags.Add(DiagType, n.Line(), "loop expression requires 'break' with a value")
	}

	j := a.Emitter.Emit(OpJump, Operand{}, Operand{}, Operand{})
	f.Breaks = append(f.Breaks, j)
	return nil
}

// continueStmt jumps to the innermost loop's continue label.
func (a *Analyzer) continueStmt(n *Node) error {
	n.Type = UnitType
	f := a.Loops.Top()
	if f == nil {
		a.Diags.Add(DiagControlFlow, n.Line(), "'continue' outside of a loop")
		return nil
	}
	a.Emitter.Emit(OpJump, Operand{}, Operand{}, LabelOp(f.ContinueLabel))
	return nil
}

// ifHeader consumes the condition: true falls into the then block,
// the false list waits on the header for the else marker or the end of
// the statement.
func (a *Analyzer) ifHeader(n *Node) error {
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

// elseMarker runs between the then and else blocks: the then block
// jumps over the else, and the condition's false list lands here.
func (a *Analyzer) elseMarker(n *Node) error {
	header := n.Children[0]
	j := a.Emitter.Emit(OpJump, Operand{}, Operand{}, Operand{})
	n.EndJumps = []int{j}
	return a.bindHere(header.FalseList)
}

// ifStmt closes an if statement, landing all open exits here.
func (a *Analyzer) ifStmt(n *Node) error {
	n.Type = UnitType
	if len(n.Children) == 2 {
		return a.bindHere(n.Children[0].FalseList)
	}
	return a.bindHere(n.Children[2].EndJumps)
}

// ifExprThen closes the then branch of an if expression: it owns the
// shared result temporary, stores the branch value, jumps to the end,
// and lands the false list at the start of the else branch.
func (a *Analyzer) ifExprThen(n *Node) error {
	header, thenBlock := n.Children[0], n.Children[1]
	n.Place = a.Emitter.NewTemp()
	n.Type = thenBlock.Type

	if thenBlock.Type != nil && thenBlock.Type.Kind != TypeUnit && !IsErrorType(thenBlock.Type) {
		place, typ, err := a.rvalue(thenBlock)
		if err != nil {
			return err
		}
		n.Type = typ
		if !IsErrorType(typ) {
			a.Emitter.Emit(OpAssign, place, Operand{}, n.Place)
		}
	}
	j := a.Emitter.Emit(OpJump, Operand{}, Operand{}, Operand{})
	n.EndJumps = []int{j}
	return a.bindHere(header.FalseList)
}

// ifExpr closes an if expression: stores the else value into the
// shared temporary and unifies the branch types.
func (a *Analyzer) ifExpr(n *Node) error {
	thenMarker, elseNode := n.Children[0], n.Children[1]
	n.Place = thenMarker.Place

	elseType := elseNode.Type
	if elseType != nil && elseType.Kind != TypeUnit && !IsErrorType(elseType) {
		place, typ, err := a.rvalue(elseNode)
		if err != nil {
			return err
		}
		elseType = typ
		if !IsErrorType(typ) {
			a.Emitter.Emit(OpAssign, place, Operand{}, n.Place)
		}
	}

	thenType := thenMarker.Type
	switch {
	case IsErrorType(thenType) || IsErrorType(elseType):
		n.Type = ErrorType
	case !TypesEqual(thenType, elseType):
		a.Diags.Add(DiagType, n.Line(), "if branches have mismatched types: %s and %s",
			TypeString(thenType), TypeString(elseType))
		n.Type = ErrorType
	default:
		n.Type = thenType
	}
	return a.bindHere(thenMarker.EndJumps)
}

// whileBegin binds the loop's start label ahead of the condition so
// every iteration re-evaluates it.
func (a *Analyzer) whileBegin(n *Node) error {
	n.Label = a.Emitter.NewLabel()
	return a.Emitter.Bind(n.Label)
}

// whileCond consumes the condition and pushes the loop frame at body
// entry: true falls into the body, false exits through the frame's
// break list.
func (a *Analyzer) whileCond(n *Node) error {
	begin, cond := n.Children[0], n.Children[1]
	tl, fl, err := a.cond(cond)
	if err != nil {
		return err
	}
	if err := a.bindHere(tl); err != nil {
		return err
	}
	f := &LoopFrame{
		ContinueLabel: begin.Label,
		Breaks:        fl,
		Line:          n.Line(),
	}
	a.Loops.Push(f)
	n.Frame = f
	return nil
}

// whileStmt closes the loop: jump back to the condition, land every
// break (and the condition's false exits) here, pop the frame.
func (a *Analyzer) whileStmt(n *Node) error {
	n.Type = UnitType
	f := n.Children[0].Frame
	popped, err := a.Loops.Pop()
	if err != nil {
		return err
	}
	if popped != f {
		return fmt.Errorf("internal error: while loop frames unbalanced")
	}
	a.Emitter.Emit(OpJump, Operand{}, Operand{}, LabelOp(f.ContinueLabel))
	return a.bindHere(f.Breaks)
}

// forRange evaluates the range bounds once, into dedicated temps.
func (a *Analyzer) forRange(n *Node) error {
	lo, hi := n.Children[0], n.Children[1]
	loPlace, loType, err := a.rvalue(lo)
	if err != nil {
		return err
	}
	hiPlace, hiType, err := a.rvalue(hi)
	if err != nil {
		return err
	}
	if (!IsErrorType(loType) && loType.Kind != TypeI32) ||
		(!IsErrorType(hiType) && hiType.Kind != TypeI32) {
		a.Diags.Add(DiagType, n.Line(), "range bounds must be i32, got %s..%s",
			TypeString(loType), TypeString(hiType))
	}
	iter := a.Emitter.NewTemp()
	a.Emitter.Emit(OpAssign, loPlace, Operand{}, iter)
	limit := a.Emitter.NewTemp()
	a.Emitter.Emit(OpAssign, hiPlace, Operand{}, limit)
	n.Place = iter
	n.Place2 = limit
	n.Type = UnitType
	return nil
}

// forHeader emits the bound check, opens the loop-variable scope, and
// pushes the frame at body entry. The continue label is bound later at
// the increment, so `continue` never skips it.
func (a *Analyzer) forHeader(n *Node) error {
	bind, rng := n.Children[0], n.Children[1]

	n.Label = a.Emitter.NewLabel()
	if err := a.Emitter.Bind(n.Label); err != nil {
		return err
	}
	done := a.Emitter.NewTemp()
	a.Emitter.Emit(OpGe, rng.Place, rng.Place2, done)
	exit := a.Emitter.Emit(OpIfTrue, done, Operand{}, Operand{})

	a.Symbols.EnterScope()
	sym := &Symbol{
		Name:        bind.Name,
		Kind:        SymVariable,
		Type:        I32Type,
		Initialized: true,
		Line:        bind.Line(),
	}
	a.Symbols.Declare(sym)
	a.Emitter.Emit(OpAssign, rng.Place, Operand{}, NameOp(sym.Name))

	f := &LoopFrame{
		ContinueLabel: a.Emitter.NewLabel(), // bound at the increment
		Breaks:        []int{exit},
		Line:          n.Line(),
	}
	a.Loops.Push(f)
	n.Frame = f
	n.Place = rng.Place
	n.Sym = sym
	return nil
}

// forStmt closes the loop: increment, jump back to the bound check,
// land breaks and the exhausted-range exit here, pop frame and scope.
func (a *Analyzer) forStmt(n *Node) error {
	n.Type = UnitType
	header := n.Children[0]
	f := header.Frame
	popped, err := a.Loops.Pop()
	if err != nil {
		return err
	}
	if popped != f {
		return fmt.Errorf("internal error: for loop frames unbalanced")
	}

	if err := a.Emitter.Bind(f.ContinueLabel); err != nil {
		return err
	}
	next := a.Emitter.NewTemp()
	a.Emitter.Emit(OpAdd, header.Place, ConstOp(1), next)
	a.Emitter.Emit(OpAssign, next, Operand{}, header.Place)
	a.Emitter.Emit(OpJump, Operand{}, Operand{}, LabelOp(header.Label))
	if err := a.bindHere(f.Breaks); err != nil {
		return err
	}
	return a.Symbols.ExitScope()
}

// loopBegin binds the start label and pushes the frame at body entry.
// Expression loops additionally get a result temporary for
// `break <expr>` to write.
func (a *Analyzer) loopBegin(n *Node, isExpr bool) error {
	n.Label = a.Emitter.NewLabel()
	if err := a.Emitter.Bind(n.Label); err != nil {
		return err
	}
	f := &LoopFrame{
		ContinueLabel: n.Label,
		IsExpr:        isExpr,
		Line:          n.Line(),
	}
	if isExpr {
		f.Result = a.Emitter.NewTemp()
	}
	a.Loops.Push(f)
	n.Frame = f
	return nil
}

// loopEnd closes a loop statement or loop expression: jump back to
// the start and land all breaks here. A loop expression's type is
// inferred from its first valued break; with no break it never yields
// a value.
func (a *Analyzer) loopEnd(n *Node) error {
	begin := n.Children[0]
	f := begin.Frame
	popped, err := a.Loops.Pop()
	if err != nil {
		return err
	}
	if popped != f {
		return fmt.Errorf("internal error: loop frames unbalanced")
	}

	a.Emitter.Emit(OpJump, Operand{}, Operand{}, LabelOp(f.ContinueLabel))
	if err := a.bindHere(f.Breaks); err != nil {
		return err
	}

	if f.IsExpr {
		if f.ResultType != nil {
			n.Type = f.ResultType
		} else {
			n.Type = UnitType
		}
		n.Place = f.Result
	} else {
		n.Type = UnitType
	}
	return nil
}
