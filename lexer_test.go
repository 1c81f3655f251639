package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func lexTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	toks := NewLexer([]byte(input)).Tokenize()
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_Operators(t *testing.T) {
	got := lexTypes(t, "= == ! != < <= > >= && || & -> .. . + - * /")
	want := []TokenType{
		ASSIGN, EQ, BANG, NOT_EQ, LT, LE, GT, GE, AND, OR, AMP,
		ARROW, DOTDOT, DOT, PLUS, MINUS, ASTERISK, SLASH, EOF,
	}
	be.Equal(t, got, want)
}

func TestLexer_Keywords(t *testing.T) {
	got := lexTypes(t, "fn let mut if else while for in loop break continue return true false i32 bool")
	want := []TokenType{
		FN, LET, MUT, IF, ELSE, WHILE, FOR, IN, LOOP, BREAK, CONTINUE,
		RETURN, TRUE, FALSE, I32KW, BOOLKW, EOF,
	}
	be.Equal(t, got, want)
}

func TestLexer_IdentifiersAndInts(t *testing.T) {
	toks := NewLexer([]byte("foo _bar x1 42 007")).Tokenize()
	be.Equal(t, toks[0].Type, TokenType(IDENT))
	be.Equal(t, toks[0].Literal, "foo")
	be.Equal(t, toks[1].Literal, "_bar")
	be.Equal(t, toks[2].Literal, "x1")
	be.Equal(t, toks[3].Type, TokenType(INT))
	be.Equal(t, toks[3].Int, int64(42))
	be.Equal(t, toks[4].Int, int64(7))
}

func TestLexer_Lines(t *testing.T) {
	toks := NewLexer([]byte("fn main() {\n    let a = 1;\n}\n")).Tokenize()
	be.Equal(t, toks[0].Line, 1) // fn
	be.Equal(t, toks[5].Line, 2) // let
	be.Equal(t, toks[len(toks)-2].Line, 3) // }
}

func TestLexer_LineComments(t *testing.T) {
	got := lexTypes(t, "let a = 1; // trailing\n// whole line\nlet b = 2;")
	want := []TokenType{LET, IDENT, ASSIGN, INT, SEMICOLON, LET, IDENT, ASSIGN, INT, SEMICOLON, EOF}
	be.Equal(t, got, want)
}

func TestLexer_NestedBlockComments(t *testing.T) {
	toks := NewLexer([]byte("a /* outer /* inner */ still outer */ b")).Tokenize()
	be.Equal(t, len(toks), 3)
	be.Equal(t, toks[0].Literal, "a")
	be.Equal(t, toks[1].Literal, "b")
}

func TestLexer_RangeVsDot(t *testing.T) {
	got := lexTypes(t, "0..3 t.0")
	want := []TokenType{INT, DOTDOT, INT, IDENT, DOT, INT, EOF}
	be.Equal(t, got, want)
}

func TestLexer_IntLiteralRange(t *testing.T) {
	toks := NewLexer([]byte("9223372036854775807")).Tokenize()
	be.Equal(t, toks[0].Type, TokenType(INT))
	be.Equal(t, toks[0].Int, int64(9223372036854775807))

	toks = NewLexer([]byte("9223372036854775808")).Tokenize()
	be.Equal(t, toks[0].Type, TokenType(ILLEGAL))
	be.Equal(t, toks[0].Literal, "9223372036854775808")
}

func TestLexer_LonePipeIsIllegal(t *testing.T) {
	toks := NewLexer([]byte("a | b")).Tokenize()
	be.Equal(t, toks[1].Type, TokenType(ILLEGAL))
	be.Equal(t, toks[1].Literal, "|")
}

func TestLexer_EmptyInput(t *testing.T) {
	toks := NewLexer(nil).Tokenize()
	be.Equal(t, len(toks), 1)
	be.Equal(t, toks[0].Type, TokenType(EOF))
}
