package main

import "strconv"

// TokenType is the type of token (identifier, keyword, operator, literal).
type TokenType string

// Definition of token types
const (
	// Special tokens
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT = "IDENT" // main, foo, _bar
	INT   = "INT"   // 12345

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LE     = "<="
	GE     = ">="

	AND = "&&"
	OR  = "||"
	AMP = "&"

	ARROW  = "->"
	DOTDOT = ".."

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	DOT       = "."

	// Keywords
	FN       = "FN"
	LET      = "LET"
	MUT      = "MUT"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	IN       = "IN"
	LOOP     = "LOOP"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	RETURN   = "RETURN"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	I32KW    = "I32"
	BOOLKW   = "BOOL"
)

// Token is one lexed token with its source line.
type Token struct {
	Type    TokenType
	Literal string
	Int     int64 // only meaningful when Type == INT
	Line    int
}

// Lexer scans a NUL-terminated byte slice into tokens.
type Lexer struct {
	input []byte
	pos   int
	line  int
}

// NewLexer creates a lexer for the given source. A trailing 0 byte is
// appended if the source does not already end with one.
func NewLexer(input []byte) *Lexer {
	if len(input) == 0 || input[len(input)-1] != 0 {
		input = append(input, 0)
	}
	return &Lexer{input: input, line: 1}
}

// Tokenize scans the whole input and returns the token slice,
// including the trailing EOF token.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) next() Token {
	l.skipWhitespace()

	c := l.input[l.pos]
	line := l.line

	switch c {
	case '=':
		if l.input[l.pos+1] == '=' {
			l.pos += 2
			return Token{Type: EQ, Literal: "==", Line: line}
		}
		l.pos++
		return Token{Type: ASSIGN, Literal: "=", Line: line}

	case '+':
		l.pos++
		return Token{Type: PLUS, Literal: "+", Line: line}

	case '-':
		if l.input[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: ARROW, Literal: "->", Line: line}
		}
		l.pos++
		return Token{Type: MINUS, Literal: "-", Line: line}

	case '!':
		if l.input[l.pos+1] == '=' {
			l.pos += 2
			return Token{Type: NOT_EQ, Literal: "!=", Line: line}
		}
		l.pos++
		return Token{Type: BANG, Literal: "!", Line: line}

	case '*':
		l.pos++
		return Token{Type: ASTERISK, Literal: "*", Line: line}

	case '/':
		nxt := l.input[l.pos+1]
		if nxt == '/' {
			l.skipLineComment()
			return l.next()
		} else if nxt == '*' {
			l.skipBlockComment()
			return l.next()
		}
		l.pos++
		return Token{Type: SLASH, Literal: "/", Line: line}

	case '<':
		if l.input[l.pos+1] == '=' {
			l.pos += 2
			return Token{Type: LE, Literal: "<=", Line: line}
		}
		l.pos++
		return Token{Type: LT, Literal: "<", Line: line}

	case '>':
		if l.input[l.pos+1] == '=' {
			l.pos += 2
			return Token{Type: GE, Literal: ">=", Line: line}
		}
		l.pos++
		return Token{Type: GT, Literal: ">", Line: line}

	case '&':
		if l.input[l.pos+1] == '&' {
			l.pos += 2
			return Token{Type: AND, Literal: "&&", Line: line}
		}
		l.pos++
		return Token{Type: AMP, Literal: "&", Line: line}

	case '|':
		if l.input[l.pos+1] == '|' {
			l.pos += 2
			return Token{Type: OR, Literal: "||", Line: line}
		}
		l.pos++
		return Token{Type: ILLEGAL, Literal: "|", Line: line}

	case ',':
		l.pos++
		return Token{Type: COMMA, Literal: ",", Line: line}

	case ';':
		l.pos++
		return Token{Type: SEMICOLON, Literal: ";", Line: line}

	case ':':
		l.pos++
		return Token{Type: COLON, Literal: ":", Line: line}

	case '(':
		l.pos++
		return Token{Type: LPAREN, Literal: "(", Line: line}

	case ')':
		l.pos++
		return Token{Type: RPAREN, Literal: ")", Line: line}

	case '{':
		l.pos++
		return Token{Type: LBRACE, Literal: "{", Line: line}

	case '}':
		l.pos++
		return Token{Type: RBRACE, Literal: "}", Line: line}

	case '[':
		l.pos++
		return Token{Type: LBRACKET, Literal: "[", Line: line}

	case ']':
		l.pos++
		return Token{Type: RBRACKET, Literal: "]", Line: line}

	case '.':
		if l.input[l.pos+1] == '.' {
			l.pos += 2
			return Token{Type: DOTDOT, Literal: "..", Line: line}
		}
		l.pos++
		return Token{Type: DOT, Literal: ".", Line: line}

	case 0:
		return Token{Type: EOF, Line: line}
	}

	if isLetter(c) {
		lit := l.readIdentifier()
		return Token{Type: keywordType(lit), Literal: lit, Line: line}
	}
	if isDigit(c) {
		lit, val, ok := l.readNumber()
		if !ok {
			// Out of range for int64.
			return Token{Type: ILLEGAL, Literal: lit, Line: line}
		}
		return Token{Type: INT, Literal: lit, Int: val, Line: line}
	}

	l.pos++
	return Token{Type: ILLEGAL, Literal: string(c), Line: line}
}

func keywordType(lit string) TokenType {
	switch lit {
	case "fn":
		return FN
	case "let":
		return LET
	case "mut":
		return MUT
	case "if":
		return IF
	case "else":
		return ELSE
	case "while":
		return WHILE
	case "for":
		return FOR
	case "in":
		return IN
	case "loop":
		return LOOP
	case "break":
		return BREAK
	case "continue":
		return CONTINUE
	case "return":
		return RETURN
	case "true":
		return TRUE
	case "false":
		return FALSE
	case "i32":
		return I32KW
	case "bool":
		return BOOLKW
	default:
		return IDENT
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		c := l.input[l.pos]
		if c == '\n' {
			l.line++
		} else if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		l.pos++
	}
}

func (l *Lexer) skipLineComment() {
	for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
		l.pos++
	}
}

// skipBlockComment handles nested /* */ comments.
func (l *Lexer) skipBlockComment() {
	l.pos += 2 // skip /*
	depth := 1
	for depth > 0 && l.input[l.pos] != 0 {
		if l.input[l.pos] == '/' && l.input[l.pos+1] == '*' {
			depth++
			l.pos += 2
		} else if l.input[l.pos] == '*' && l.input[l.pos+1] == '/' {
			depth--
			l.pos += 2
		} else {
			if l.input[l.pos] == '\n' {
				l.line++
			}
			l.pos++
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() (string, int64, bool) {
	start := l.pos
	for isDigit(l.input[l.pos]) {
		l.pos++
	}
	lit := string(l.input[start:l.pos])
	val, err := strconv.ParseInt(lit, 10, 64)
	return lit, val, err == nil
}
