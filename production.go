package main

import "strconv"

// Production identifies one grammar production. The set is closed:
// the dispatcher switches exhaustively over it, and a value outside
// the set is a bug in the parser, not a user error.
type Production int

const (
	ProdInvalid Production = iota

	// Declarations
	ProdProgram
	ProdFnHeader
	ProdFnDecl
	ProdParam
	ProdBindName
	ProdLetDecl
	ProdLetInit

	// Types
	ProdTypeI32
	ProdTypeBool
	ProdTypeUnit
	ProdTypeRef
	ProdTypeArray
	ProdTypeTuple

	// Statements
	ProdBlockBegin
	ProdBlock
	ProdBlockExpr
	ProdAssign
	ProdExprStmt
	ProdReturn
	ProdBreak
	ProdContinue

	// Control flow
	ProdIfHeader
	ProdElseMarker
	ProdIfStmt
	ProdIfExprThen
	ProdIfExpr
	ProdWhileBegin
	ProdWhileCond
	ProdWhileStmt
	ProdForRange
	ProdForHeader
	ProdForStmt
	ProdLoopStmtBegin
	ProdLoopStmt
	ProdLoopExprBegin
	ProdLoopExpr

	// Expressions
	ProdIntLit
	ProdBoolLit
	ProdName
	ProdNeg
	ProdNot
	ProdBinary
	ProdAndMarker
	ProdAnd
	ProdOrMarker
	ProdOr
	ProdCall
	ProdIndex
	ProdField
	ProdRef
	ProdDeref
	ProdArrayLit
	ProdTupleLit
)

var productionNames = map[Production]string{
	ProdProgram:       "Program",
	ProdFnHeader:      "FnHeader",
	ProdFnDecl:        "FnDecl",
	ProdParam:         "Param",
	ProdBindName:      "BindName",
	ProdLetDecl:       "LetDecl",
	ProdLetInit:       "LetInit",
	ProdTypeI32:       "TypeI32",
	ProdTypeBool:      "TypeBool",
	ProdTypeUnit:      "TypeUnit",
	ProdTypeRef:       "TypeRef",
	ProdTypeArray:     "TypeArray",
	ProdTypeTuple:     "TypeTuple",
	ProdBlockBegin:    "BlockBegin",
	ProdBlock:         "Block",
	ProdBlockExpr:     "BlockExpr",
	ProdAssign:        "Assign",
	ProdExprStmt:      "ExprStmt",
	ProdReturn:        "Return",
	ProdBreak:         "Break",
	ProdContinue:      "Continue",
	ProdIfHeader:      "IfHeader",
	ProdElseMarker:    "ElseMarker",
	ProdIfStmt:        "IfStmt",
	ProdIfExprThen:    "IfExprThen",
	ProdIfExpr:        "IfExpr",
	ProdWhileBegin:    "WhileBegin",
	ProdWhileCond:     "WhileCond",
	ProdWhileStmt:     "WhileStmt",
	ProdForRange:      "ForRange",
	ProdForHeader:     "ForHeader",
	ProdForStmt:       "ForStmt",
	ProdLoopStmtBegin: "LoopStmtBegin",
	ProdLoopStmt:      "LoopStmt",
	ProdLoopExprBegin: "LoopExprBegin",
	ProdLoopExpr:      "LoopExpr",
	ProdIntLit:        "IntLit",
	ProdBoolLit:       "BoolLit",
	ProdName:          "Name",
	ProdNeg:           "Neg",
	ProdNot:           "Not",
	ProdBinary:        "Binary",
	ProdAndMarker:     "AndMarker",
	ProdAnd:           "And",
	ProdOrMarker:      "OrMarker",
	ProdOr:            "Or",
	ProdCall:          "Call",
	ProdIndex:         "Index",
	ProdField:         "Field",
	ProdRef:           "Ref",
	ProdDeref:         "Deref",
	ProdArrayLit:      "ArrayLit",
	ProdTupleLit:      "TupleLit",
}

func (p Production) String() string {
	if name, ok := productionNames[p]; ok {
		return name
	}
	return "Production(" + strconv.Itoa(int(p)) + ")"
}

// Node is a parse-tree node. Terminals come from Shift and carry only
// Tok; every other node is built by one Reduce call, which fills the
// synthesized attributes exactly once.
type Node struct {
	Prod     Production // ProdInvalid for terminals
	Tok      Token      // terminal token, or first token of the production
	Children []*Node

	// Synthesized attributes
	Type      *Type
	Place     Operand
	Sym       *Symbol
	TrueList  []int // open jumps taken when the condition is true
	FalseList []int // open jumps taken when the condition is false
	IsLValue  bool
	IsAddr    bool // Place holds an address; reads go through LOAD
	Mutable   bool
	Name      string
	Op        string // ProdBinary

	// Marker bookkeeping
	Label    int        // bound label (loop/while start)
	EndJumps []int      // open jumps waiting for an end label
	Frame    *LoopFrame // loop begin markers
	Place2   Operand    // ProdForRange: range limit operand
}

// Line returns the source line this node is anchored to.
func (n *Node) Line() int {
	return n.Tok.Line
}

// isMarker reports whether a production exists only to sequence
// emission and scope changes; markers never show up in AST dumps.
func isMarker(p Production) bool {
	switch p {
	case ProdBlockBegin, ProdIfHeader, ProdElseMarker, ProdIfExprThen,
		ProdWhileBegin, ProdWhileCond, ProdForHeader,
		ProdLoopStmtBegin, ProdLoopExprBegin, ProdAndMarker, ProdOrMarker:
		return true
	default:
		return false
	}
}

// ToSExpr converts a parse-tree node to its s-expression dump.
// Marker children are unwrapped so the dump reflects the surface
// syntax, not the reduction schedule.
func ToSExpr(node *Node) string {
	if node == nil {
		return "()"
	}
	switch node.Prod {
	case ProdInvalid:
		// Terminal leaf
		switch node.Tok.Type {
		case IDENT:
			return "(ident \"" + node.Tok.Literal + "\")"
		case INT:
			return "(int " + strconv.FormatInt(node.Tok.Int, 10) + ")"
		case TRUE, FALSE:
			return "(bool " + node.Tok.Literal + ")"
		case MUT:
			return "(mut)"
		default:
			return "(token \"" + node.Tok.Literal + "\")"
		}
	case ProdProgram:
		return sexprList("program", node.Children)
	case ProdFnHeader:
		out := "(fn-header \"" + node.Name + "\""
		for _, c := range node.Children[1:] {
			out += " " + ToSExpr(c)
		}
		return out + ")"
	case ProdFnDecl:
		return sexprList("fn", node.Children)
	case ProdParam:
		out := "(param \"" + node.Name + "\""
		if node.Mutable {
			out += " (mut)"
		}
		return out + " " + ToSExpr(typeChild(node)) + ")"
	case ProdBindName:
		out := "(bind \"" + node.Name + "\""
		if node.Mutable {
			out += " (mut)"
		}
		return out + ")"
	case ProdLetDecl:
		return sexprList("let", nonMarkers(node.Children))
	case ProdLetInit:
		return sexprList("let", nonMarkers(node.Children))
	case ProdTypeI32, ProdTypeBool, ProdTypeUnit, ProdTypeRef, ProdTypeArray, ProdTypeTuple:
		return "(type " + TypeString(node.Type) + ")"
	case ProdBlock, ProdBlockExpr:
		return sexprList("block", nonMarkers(node.Children))
	case ProdAssign:
		return sexprList("assign", node.Children)
	case ProdExprStmt:
		return sexprList("expr-stmt", node.Children)
	case ProdReturn:
		return sexprList("return", node.Children)
	case ProdBreak:
		return sexprList("break", node.Children)
	case ProdContinue:
		return "(continue)"
	case ProdIfStmt, ProdIfExpr:
		return sexprList("if", unwrapIf(node))
	case ProdWhileStmt:
		// Children: [cond marker, body]
		cond := node.Children[0].Children[1]
		return sexprList("while", []*Node{cond, node.Children[1]})
	case ProdForStmt:
		header := node.Children[0]
		return sexprList("for", append(append([]*Node{}, header.Children...), node.Children[1]))
	case ProdForRange:
		return sexprList("range", node.Children)
	case ProdLoopStmt, ProdLoopExpr:
		return sexprList("loop", nonMarkers(node.Children))
	case ProdIntLit:
		return "(int " + strconv.FormatInt(node.Tok.Int, 10) + ")"
	case ProdBoolLit:
		return "(bool " + node.Tok.Literal + ")"
	case ProdName:
		return "(ident \"" + node.Name + "\")"
	case ProdNeg:
		return sexprList("neg", node.Children)
	case ProdNot:
		return sexprList("not", node.Children)
	case ProdBinary:
		// Children: [left, operator leaf, right]
		return "(binary \"" + node.Op + "\" " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[2]) + ")"
	case ProdAnd:
		// Children: [and marker wrapping left, right]
		return "(binary \"&&\" " + ToSExpr(node.Children[0].Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case ProdOr:
		return "(binary \"||\" " + ToSExpr(node.Children[0].Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case ProdCall:
		return sexprList("call", node.Children)
	case ProdIndex:
		return sexprList("idx", node.Children)
	case ProdField:
		return sexprList("field", node.Children)
	case ProdRef:
		if node.Mutable {
			return sexprList("ref-mut", nonMarkers(node.Children))
		}
		return sexprList("ref", nonMarkers(node.Children))
	case ProdDeref:
		return sexprList("deref", node.Children)
	case ProdArrayLit:
		return sexprList("array", node.Children)
	case ProdTupleLit:
		return sexprList("tuple", node.Children)
	default:
		return "(" + node.Prod.String() + ")"
	}
}

func sexprList(name string, children []*Node) string {
	out := "(" + name
	for _, c := range children {
		out += " " + ToSExpr(c)
	}
	return out + ")"
}

// nonMarkers filters out marker and mut-leaf children for dumping.
func nonMarkers(children []*Node) []*Node {
	var out []*Node
	for _, c := range children {
		if c == nil || isMarker(c.Prod) {
			continue
		}
		if c.Prod == ProdInvalid && c.Tok.Type == MUT {
			continue
		}
		out = append(out, c)
	}
	return out
}

func typeChild(node *Node) *Node {
	for _, c := range node.Children {
		switch c.Prod {
		case ProdTypeI32, ProdTypeBool, ProdTypeUnit, ProdTypeRef, ProdTypeArray, ProdTypeTuple:
			return c
		}
	}
	return nil
}

// unwrapIf flattens an if node into (cond then [else]) children for
// dumping, looking through the header and else markers.
func unwrapIf(node *Node) []*Node {
	var out []*Node
	if node.Prod == ProdIfExpr {
		// Children: [then marker [header, then-block], else]
		thenMarker := node.Children[0]
		out = append(out, thenMarker.Children[0].Children[0]) // condition
		out = append(out, thenMarker.Children[1])             // then block
		out = append(out, node.Children[1])                   // else
		return out
	}
	// ProdIfStmt: [header, then] or [header, then, else marker, else]
	out = append(out, node.Children[0].Children[0])
	out = append(out, node.Children[1])
	if len(node.Children) == 4 {
		out = append(out, node.Children[3])
	}
	return out
}
