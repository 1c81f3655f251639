package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a quadruple opcode.
type Op string

const (
	OpAdd Op = "ADD"
	OpSub Op = "SUB"
	OpMul Op = "MUL"
	OpDiv Op = "DIV"

	OpLt Op = "LT"
	OpLe Op = "LE"
	OpGt Op = "GT"
	OpGe Op = "GE"
	OpEq Op = "EQ"
	OpNe Op = "NE"

	OpAssign Op = "ASSIGN"

	OpJump    Op = "JUMP"
	OpIfTrue  Op = "IF_TRUE"
	OpIfFalse Op = "IF_FALSE"

	OpParam     Op = "PARAM"
	OpCall      Op = "CALL"
	OpReturn    Op = "RETURN"
	OpReturnVal Op = "RETURN_VAL"
	OpFuncBegin Op = "FUNC_BEGIN"
	OpFuncEnd   Op = "FUNC_END"

	OpRef   Op = "REF"
	OpDeref Op = "DEREF"
	OpLoad  Op = "LOAD"
	OpStore Op = "STORE"

	OpArrayInit Op = "ARRAY_INIT"
	OpArraySet  Op = "ARRAY_SET"
	OpArrayAddr Op = "ARRAY_ADDR"
	OpTupleInit Op = "TUPLE_INIT"
	OpTupleSet  Op = "TUPLE_SET"
	OpTupleAddr Op = "TUPLE_ADDR"
)

// OperandKind discriminates quadruple operands.
type OperandKind int

const (
	NoOperand OperandKind = iota
	TempOperand
	ConstOperand
	NameOperand
	LabelOperand // jump target awaiting Finalize
	IndexOperand // resolved jump target (quad index)
)

// Operand is one slot of a quadruple.
type Operand struct {
	Kind OperandKind
	Val  int64  // temp id, constant value, label id, or quad index
	Name string // NameOperand only
}

func TempOp(id int) Operand      { return Operand{Kind: TempOperand, Val: int64(id)} }
func ConstOp(v int64) Operand    { return Operand{Kind: ConstOperand, Val: v} }
func NameOp(name string) Operand { return Operand{Kind: NameOperand, Name: name} }
func LabelOp(id int) Operand     { return Operand{Kind: LabelOperand, Val: int64(id)} }
func IndexOp(i int) Operand      { return Operand{Kind: IndexOperand, Val: int64(i)} }

func (o Operand) String() string {
	switch o.Kind {
	case TempOperand:
		return "t" + strconv.FormatInt(o.Val, 10)
	case ConstOperand:
		return strconv.FormatInt(o.Val, 10)
	case NameOperand:
		return o.Name
	case LabelOperand:
		return "L" + strconv.FormatInt(o.Val, 10)
	case IndexOperand:
		return strconv.FormatInt(o.Val, 10)
	default:
		return "_"
	}
}

// Quad is one three-address instruction.
type Quad struct {
	Op     Op
	Arg1   Operand
	Arg2   Operand
	Result Operand
}

func (q Quad) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", q.Op, q.Arg1, q.Arg2, q.Result)
}

// DumpQuads renders a quad sequence with indices, one per line.
func DumpQuads(quads []Quad) string {
	var sb strings.Builder
	for i, q := range quads {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d: %s", i, q.String())
	}
	return sb.String()
}

// Emitter owns the growing quad sequence plus the temp and label
// allocators. Allocators are monotonic for the life of one analysis
// and are never reset between functions.
type Emitter struct {
	quads     []Quad
	nextTemp  int
	nextLabel int
	bound     map[int]int // label id -> quad index
}

func NewEmitter() *Emitter {
	return &Emitter{bound: make(map[int]int)}
}

// NewTemp allocates a fresh temporary (t1, t2, ...).
func (e *Emitter) NewTemp() Operand {
	e.nextTemp++
	return TempOp(e.nextTemp)
}

// NewLabel allocates a fresh, unbound label id (L1, L2, ...).
func (e *Emitter) NewLabel() int {
	e.nextLabel++
	return e.nextLabel
}

// Next returns the index the next emitted quad will get.
func (e *Emitter) Next() int {
	return len(e.quads)
}

// Emit appends a quad and returns its index.
func (e *Emitter) Emit(op Op, arg1, arg2, result Operand) int {
	e.quads = append(e.quads, Quad{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
	return len(e.quads) - 1
}

// Bind fixes a label to the position of the next quad. Binding the
// same label twice is a bug in the emitting code.
func (e *Emitter) Bind(label int) error {
	if at, ok := e.bound[label]; ok {
		return fmt.Errorf("internal error: label L%d bound at %d and again at %d", label, at, e.Next())
	}
	e.bound[label] = e.Next()
	return nil
}

// Patch points every jump quad in indices at label. The jumps must
// still be open (emitted with no target).
func (e *Emitter) Patch(indices []int, label int) error {
	for _, i := range indices {
		if i < 0 || i >= len(e.quads) {
			return fmt.Errorf("internal error: patching quad %d outside sequence of %d", i, len(e.quads))
		}
		q := &e.quads[i]
		if q.Op != OpJump && q.Op != OpIfTrue && q.Op != OpIfFalse {
			return fmt.Errorf("internal error: patching non-jump quad %d (%s)", i, q.Op)
		}
		if q.Result.Kind != NoOperand {
			return fmt.Errorf("internal error: jump quad %d already targets %s", i, q.Result)
		}
		q.Result = LabelOp(label)
	}
	return nil
}

// Quads returns the sequence emitted so far, unresolved.
func (e *Emitter) Quads() []Quad {
	return e.quads
}

// Finalize resolves every label operand to its bound quad index and
// returns the finished sequence. A jump with no target, or a target
// label that was never bound, means the emitting code dropped a patch
// list and the sequence must not be used.
func (e *Emitter) Finalize() ([]Quad, error) {
	out := make([]Quad, len(e.quads))
	copy(out, e.quads)
	for i := range out {
		q := &out[i]
		switch q.Op {
		case OpJump, OpIfTrue, OpIfFalse:
			if q.Result.Kind != LabelOperand {
				return nil, fmt.Errorf("internal error: jump quad %d has no target", i)
			}
			target, ok := e.bound[int(q.Result.Val)]
			if !ok {
				return nil, fmt.Errorf("internal error: jump quad %d targets unbound label L%d", i, q.Result.Val)
			}
			q.Result = IndexOp(target)
		}
	}
	return out, nil
}
