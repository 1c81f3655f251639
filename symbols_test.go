package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestSymbolTable_DeclareAndLookup(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "a", Kind: SymVariable, Type: I32Type})

	sym := st.Lookup("a")
	be.True(t, sym != nil)
	be.Equal(t, sym.Depth, 0)
	be.Equal(t, st.Lookup("missing"), nil)
}

func TestSymbolTable_LookupWalksOutward(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "a", Kind: SymVariable, Type: I32Type})
	st.EnterScope()
	st.EnterScope()

	sym := st.Lookup("a")
	be.True(t, sym != nil)
	be.Equal(t, sym.Depth, 0)
}

func TestSymbolTable_InnerShadowsOuter(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "x", Kind: SymVariable, Type: I32Type})
	st.EnterScope()
	st.Declare(&Symbol{Name: "x", Kind: SymVariable, Type: BoolType})

	be.Equal(t, st.Lookup("x").Type, BoolType)
	be.Err(t, st.ExitScope(), nil)
	be.Equal(t, st.Lookup("x").Type, I32Type)
}

func TestSymbolTable_SameScopeShadowingKeepsBoth(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "x", Kind: SymVariable, Type: I32Type})
	st.Declare(&Symbol{Name: "x", Kind: SymVariable, Type: BoolType})

	be.Equal(t, st.Lookup("x").Type, BoolType)
	be.Equal(t, len(st.Symbols()), 2)
}

func TestSymbolTable_LookupLocal(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "a", Kind: SymVariable, Type: I32Type})
	st.EnterScope()

	be.Equal(t, st.LookupLocal("a"), nil)
	be.True(t, st.Lookup("a") != nil)
}

func TestSymbolTable_ExitGlobalIsAnError(t *testing.T) {
	st := NewSymbolTable()
	st.EnterScope()
	be.Err(t, st.ExitScope(), nil)
	be.Err(t, st.ExitScope())
}

func TestSymbolTable_ExitedScopesStayInDump(t *testing.T) {
	st := NewSymbolTable()
	st.Declare(&Symbol{Name: "f", Kind: SymFunction, Result: UnitType})
	st.EnterScope()
	st.Declare(&Symbol{Name: "a", Kind: SymVariable, Type: I32Type})
	be.Err(t, st.ExitScope(), nil)

	all := st.Symbols()
	be.Equal(t, len(all), 2)
	be.Equal(t, all[0].Name, "f")
	be.Equal(t, all[1].Name, "a")
	be.Equal(t, all[1].Depth, 1)
}

func TestSymbol_String(t *testing.T) {
	v := &Symbol{Name: "a", Kind: SymVariable, Type: I32Type, Mutable: true, Depth: 1}
	be.Equal(t, v.String(), "1 variable a: i32 (mut)")

	f := &Symbol{
		Name:   "add",
		Kind:   SymFunction,
		Params: []*Symbol{{Type: I32Type}, {Type: I32Type}},
		Result: I32Type,
	}
	be.Equal(t, f.String(), "0 function add: fn(i32, i32) -> i32")
}
