package main

import "fmt"

// Parser is the driver for the analyzer: a recursive-descent walk
// over the token slice that performs reductions bottom-up, calling
// Analyzer.Reduce once per completed production with the ordered
// child nodes. Marker productions (loop begins, condition headers)
// are reduced at their structural position so emission and scope
// changes happen mid-construct, the way an LR reduce loop would fire
// them.
type Parser struct {
	toks []Token
	pos  int
	an   *Analyzer

	failed bool  // a syntax diagnostic was recorded; parse unwinds
	err    error // internal error from a semantic action; aborts
}

// NewParser creates a parser over an already-lexed token slice.
func NewParser(toks []Token, an *Analyzer) *Parser {
	if len(toks) == 0 {
		toks = []Token{{Type: EOF, Line: 1}}
	}
	p := &Parser{toks: toks, an: an}
	an.line = p.cur().Line
	return p
}

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) next() {
	if p.toks[p.pos].Type != EOF {
		p.pos++
	}
	p.an.line = p.cur().Line
}

func (p *Parser) bad() bool {
	return p.failed || p.err != nil
}

// shift consumes the current token into a leaf node.
func (p *Parser) shift() *Node {
	n := p.an.Shift(p.cur())
	p.next()
	return n
}

// reduce fires the semantic action for a completed production.
func (p *Parser) reduce(prod Production, children ...*Node) *Node {
	if p.bad() {
		return nil
	}
	n, err := p.an.Reduce(prod, children)
	if err != nil {
		p.err = err
		return nil
	}
	return n
}

func (p *Parser) syntaxErr(format string, args ...interface{}) {
	if p.bad() {
		return
	}
	p.failed = true
	tok := p.cur()
	found := tok.Literal
	if tok.Type == EOF {
		found = "end of input"
	}
	p.an.Diags.Add(DiagSyntax, tok.Line, "%s, found '%s'", fmt.Sprintf(format, args...), found)
}

func (p *Parser) expect(t TokenType) {
	if p.bad() {
		return
	}
	if p.cur().Type != t {
		p.syntaxErr("expected '%s'", t)
		return
	}
	p.next()
}

func (p *Parser) expectShift(t TokenType) *Node {
	if p.bad() {
		return nil
	}
	if p.cur().Type != t {
		p.syntaxErr("expected '%s'", t)
		return nil
	}
	return p.shift()
}

// ParseProgram parses a whole program. A syntax error is recorded as
// a diagnostic and aborts the parse with a nil root; a non-nil error
// is an analyzer bug.
func (p *Parser) ParseProgram() (*Node, error) {
	var fns []*Node
	for !p.bad() && p.cur().Type != EOF {
		if p.cur().Type != FN {
			p.syntaxErr("expected 'fn'")
			break
		}
		fn := p.parseFnDecl()
		if p.bad() {
			break
		}
		fns = append(fns, fn)
	}
	root := p.reduce(ProdProgram, fns...)
	if p.err != nil {
		return nil, p.err
	}
	if p.failed {
		return nil, nil
	}
	return root, nil
}

func (p *Parser) parseFnDecl() *Node {
	p.expect(FN)
	children := []*Node{p.expectShift(IDENT)}
	p.expect(LPAREN)
	for !p.bad() && p.cur().Type != RPAREN {
		children = append(children, p.parseParam())
		if p.cur().Type == COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(RPAREN)
	if p.cur().Type == ARROW {
		p.next()
		children = append(children, p.parseType())
	}
	header := p.reduce(ProdFnHeader, children...)
	body := p.parseBlockBody(false) // the header opened the body scope
	return p.reduce(ProdFnDecl, header, body)
}

func (p *Parser) parseParam() *Node {
	var children []*Node
	if p.cur().Type == MUT {
		children = append(children, p.shift())
	}
	children = append(children, p.expectShift(IDENT))
	p.expect(COLON)
	children = append(children, p.parseType())
	return p.reduce(ProdParam, children...)
}

func (p *Parser) parseType() *Node {
	if p.bad() {
		return nil
	}
	switch p.cur().Type {
	case I32KW:
		return p.reduce(ProdTypeI32, p.shift())
	case BOOLKW:
		return p.reduce(ProdTypeBool, p.shift())
	case AMP:
		p.next()
		var children []*Node
		if p.cur().Type == MUT {
			children = append(children, p.shift())
		}
		children = append(children, p.parseType())
		return p.reduce(ProdTypeRef, children...)
	case LBRACKET:
		p.next()
		elem := p.parseType()
		p.expect(SEMICOLON)
		length := p.expectShift(INT)
		p.expect(RBRACKET)
		return p.reduce(ProdTypeArray, elem, length)
	case LPAREN:
		p.next()
		if p.cur().Type == RPAREN {
			p.next()
			return p.reduce(ProdTypeUnit)
		}
		var elems []*Node
		for !p.bad() {
			elems = append(elems, p.parseType())
			if p.cur().Type == COMMA {
				p.next()
			} else {
				break
			}
		}
		p.expect(RPAREN)
		return p.reduce(ProdTypeTuple, elems...)
	default:
		p.syntaxErr("expected a type")
		return nil
	}
}

// parseBlockBody parses `{ ... }`. With scoped set, a BlockBegin
// marker opens a scope that the closing reduction exits. A trailing
// expression without a semicolon makes the block an expression block.
func (p *Parser) parseBlockBody(scoped bool) *Node {
	p.expect(LBRACE)
	var children []*Node
	if scoped {
		children = append(children, p.reduce(ProdBlockBegin))
	}
	var tail *Node
	for !p.bad() && p.cur().Type != RBRACE && p.cur().Type != EOF {
		if p.cur().Type == SEMICOLON {
			p.next() // stray semicolon
			continue
		}
		if isStatementStart(p.cur().Type) {
			if stmt := p.parseStatement(); stmt != nil {
				children = append(children, stmt)
			}
			continue
		}
		expr := p.parseExpression()
		if p.bad() {
			break
		}
		switch p.cur().Type {
		case SEMICOLON:
			p.next()
			children = append(children, p.reduce(ProdExprStmt, expr))
		case ASSIGN:
			p.next()
			rhs := p.parseExpression()
			p.expect(SEMICOLON)
			children = append(children, p.reduce(ProdAssign, expr, rhs))
		case RBRACE:
			tail = expr
		default:
			p.syntaxErr("expected ';'")
		}
		if tail != nil {
			break
		}
	}
	p.expect(RBRACE)
	if tail != nil {
		return p.reduce(ProdBlockExpr, append(children, tail)...)
	}
	return p.reduce(ProdBlock, children...)
}

// isStatementStart reports tokens that always begin a statement.
// Block-bearing constructs (if, while, for, loop, bare blocks) at
// statement position are statements, never trailing expressions.
func isStatementStart(t TokenType) bool {
	switch t {
	case LET, RETURN, BREAK, CONTINUE, IF, WHILE, FOR, LOOP, LBRACE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseStatement() *Node {
	if p.bad() {
		return nil
	}
	switch p.cur().Type {
	case LET:
		return p.parseLet()

	case RETURN:
		p.next()
		if p.cur().Type != SEMICOLON {
			expr := p.parseExpression()
			p.expect(SEMICOLON)
			return p.reduce(ProdReturn, expr)
		}
		// Reduce before the semicolon so the action sees this line.
		n := p.reduce(ProdReturn)
		p.expect(SEMICOLON)
		return n

	case BREAK:
		p.next()
		if p.cur().Type != SEMICOLON {
			expr := p.parseExpression()
			p.expect(SEMICOLON)
			return p.reduce(ProdBreak, expr)
		}
		n := p.reduce(ProdBreak)
		p.expect(SEMICOLON)
		return n

	case CONTINUE:
		p.next()
		n := p.reduce(ProdContinue)
		p.expect(SEMICOLON)
		return n

	case IF:
		return p.parseIfStmt()

	case WHILE:
		p.next()
		begin := p.reduce(ProdWhileBegin)
		cond := p.parseExpression()
		condMarker := p.reduce(ProdWhileCond, begin, cond)
		body := p.parseBlockBody(true)
		return p.reduce(ProdWhileStmt, condMarker, body)

	case FOR:
		return p.parseFor()

	case LOOP:
		p.next()
		begin := p.reduce(ProdLoopStmtBegin)
		body := p.parseBlockBody(true)
		return p.reduce(ProdLoopStmt, begin, body)

	case LBRACE:
		return p.parseBlockBody(true)

	default:
		p.syntaxErr("expected a statement")
		return nil
	}
}

func (p *Parser) parseLet() *Node {
	p.expect(LET)
	var bindChildren []*Node
	if p.cur().Type == MUT {
		bindChildren = append(bindChildren, p.shift())
	}
	bindChildren = append(bindChildren, p.expectShift(IDENT))
	bind := p.reduce(ProdBindName, bindChildren...)

	var typ *Node
	if p.cur().Type == COLON {
		p.next()
		typ = p.parseType()
	}

	if p.cur().Type == ASSIGN {
		p.next()
		expr := p.parseExpression()
		p.expect(SEMICOLON)
		children := []*Node{bind}
		if typ != nil {
			children = append(children, typ)
		}
		return p.reduce(ProdLetInit, append(children, expr)...)
	}

	p.expect(SEMICOLON)
	children := []*Node{bind}
	if typ != nil {
		children = append(children, typ)
	}
	return p.reduce(ProdLetDecl, children...)
}

func (p *Parser) parseIfStmt() *Node {
	p.expect(IF)
	cond := p.parseExpression()
	header := p.reduce(ProdIfHeader, cond)
	thenBlock := p.parseBlockBody(true)
	if p.cur().Type != ELSE {
		return p.reduce(ProdIfStmt, header, thenBlock)
	}
	p.next()
	marker := p.reduce(ProdElseMarker, header)
	var elseNode *Node
	if p.cur().Type == IF {
		elseNode = p.parseIfStmt()
	} else {
		elseNode = p.parseBlockBody(true)
	}
	return p.reduce(ProdIfStmt, header, thenBlock, marker, elseNode)
}

func (p *Parser) parseFor() *Node {
	p.expect(FOR)
	bind := p.reduce(ProdBindName, p.expectShift(IDENT))
	p.expect(IN)
	lo := p.parseExpression()
	p.expect(DOTDOT)
	hi := p.parseExpression()
	rng := p.reduce(ProdForRange, lo, hi)
	header := p.reduce(ProdForHeader, bind, rng)
	body := p.parseBlockBody(true)
	return p.reduce(ProdForStmt, header, body)
}

// Binary operator precedence. Short-circuit operators sit below
// comparisons so `a < b && c < d` groups as expected.
func binPrec(t TokenType) int {
	switch t {
	case OR:
		return 1
	case AND:
		return 2
	case EQ, NOT_EQ, LT, LE, GT, GE:
		return 3
	case PLUS, MINUS:
		return 4
	case ASTERISK, SLASH:
		return 5
	default:
		return 0
	}
}

func (p *Parser) parseExpression() *Node {
	return p.parseBinary(1)
}

// parseBinary implements precedence climbing. The short-circuit
// operators reduce a marker between their operands so the left side's
// jump lists are landed before the right side emits.
func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for !p.bad() {
		t := p.cur().Type
		prec := binPrec(t)
		if prec == 0 || prec < minPrec {
			break
		}
		switch t {
		case AND:
			p.next()
			marker := p.reduce(ProdAndMarker, left)
			right := p.parseBinary(prec + 1)
			left = p.reduce(ProdAnd, marker, right)
		case OR:
			p.next()
			marker := p.reduce(ProdOrMarker, left)
			right := p.parseBinary(prec + 1)
			left = p.reduce(ProdOr, marker, right)
		default:
			opLeaf := p.shift()
			right := p.parseBinary(prec + 1)
			left = p.reduce(ProdBinary, left, opLeaf, right)
		}
	}
	return left
}

func (p *Parser) parseUnary() *Node {
	if p.bad() {
		return nil
	}
	switch p.cur().Type {
	case BANG:
		p.next()
		return p.reduce(ProdNot, p.parseUnary())
	case MINUS:
		p.next()
		return p.reduce(ProdNeg, p.parseUnary())
	case AMP:
		p.next()
		var children []*Node
		if p.cur().Type == MUT {
			children = append(children, p.shift())
		}
		children = append(children, p.parseUnary())
		return p.reduce(ProdRef, children...)
	case ASTERISK:
		p.next()
		return p.reduce(ProdDeref, p.parseUnary())
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() *Node {
	n := p.parsePrimary()
	for !p.bad() {
		switch p.cur().Type {
		case LPAREN:
			p.next()
			children := []*Node{n}
			for !p.bad() && p.cur().Type != RPAREN {
				children = append(children, p.parseExpression())
				if p.cur().Type == COMMA {
					p.next()
				} else {
					break
				}
			}
			p.expect(RPAREN)
			n = p.reduce(ProdCall, children...)
		case LBRACKET:
			p.next()
			idx := p.parseExpression()
			p.expect(RBRACKET)
			n = p.reduce(ProdIndex, n, idx)
		case DOT:
			p.next()
			pos := p.expectShift(INT)
			n = p.reduce(ProdField, n, pos)
		default:
			return n
		}
	}
	return n
}

func (p *Parser) parsePrimary() *Node {
	if p.bad() {
		return nil
	}
	switch p.cur().Type {
	case INT:
		return p.reduce(ProdIntLit, p.shift())
	case TRUE, FALSE:
		return p.reduce(ProdBoolLit, p.shift())
	case IDENT:
		return p.reduce(ProdName, p.shift())

	case LPAREN:
		p.next()
		first := p.parseExpression()
		if p.cur().Type != COMMA {
			p.expect(RPAREN)
			return first // grouping parentheses
		}
		elems := []*Node{first}
		for p.cur().Type == COMMA {
			p.next()
			if p.cur().Type == RPAREN {
				break // trailing comma
			}
			elems = append(elems, p.parseExpression())
		}
		p.expect(RPAREN)
		return p.reduce(ProdTupleLit, elems...)

	case LBRACKET:
		p.next()
		var elems []*Node
		for !p.bad() && p.cur().Type != RBRACKET {
			elems = append(elems, p.parseExpression())
			if p.cur().Type == COMMA {
				p.next()
			} else {
				break
			}
		}
		p.expect(RBRACKET)
		if len(elems) == 0 {
			p.syntaxErr("array literal needs at least one element")
			return nil
		}
		return p.reduce(ProdArrayLit, elems...)

	case IF:
		return p.parseIfExpr()

	case LOOP:
		p.next()
		begin := p.reduce(ProdLoopExprBegin)
		body := p.parseBlockBody(true)
		return p.reduce(ProdLoopExpr, begin, body)

	case LBRACE:
		return p.parseBlockBody(true)

	default:
		p.syntaxErr("expected an expression")
		return nil
	}
}

// parseIfExpr parses `if c { v1 } else { v2 }` in expression position;
// the else branch is mandatory because the expression must always
// produce a value.
func (p *Parser) parseIfExpr() *Node {
	p.expect(IF)
	cond := p.parseExpression()
	header := p.reduce(ProdIfHeader, cond)
	thenBlock := p.parseBlockBody(true)
	thenMarker := p.reduce(ProdIfExprThen, header, thenBlock)
	if p.cur().Type != ELSE {
		p.syntaxErr("if expression requires 'else'")
		return nil
	}
	p.next()
	var elseNode *Node
	if p.cur().Type == IF {
		elseNode = p.parseIfExpr()
	} else {
		elseNode = p.parseBlockBody(true)
	}
	return p.reduce(ProdIfExpr, thenMarker, elseNode)
}
