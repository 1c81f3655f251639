package main

import (
	"fmt"
	"strings"
)

// SymbolKind discriminates symbol table entries.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymParameter:
		return "parameter"
	case SymFunction:
		return "function"
	default:
		return "symbol"
	}
}

// Symbol is one symbol table entry.
type Symbol struct {
	Name        string
	Kind        SymbolKind
	Type        *Type // variables/parameters; nil until inferred for `let x;`
	Mutable     bool
	Initialized bool
	Depth       int
	Line        int

	// SymFunction:
	Params  []*Symbol
	Result  *Type
	Defined bool // body has been analyzed
}

// FuncType returns the function type descriptor for a function symbol.
func (s *Symbol) FuncType() *Type {
	params := make([]*Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type
	}
	return &Type{Kind: TypeFunc, Params: params, Result: s.Result}
}

func (s *Symbol) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s %s: ", s.Depth, s.Kind, s.Name)
	if s.Kind == SymFunction {
		sb.WriteString(TypeString(s.FuncType()))
	} else {
		sb.WriteString(TypeString(s.Type))
		if s.Mutable {
			sb.WriteString(" (mut)")
		}
	}
	return sb.String()
}

// Scope is one lexical scope: a name map plus declaration order.
type Scope struct {
	Depth  int
	Parent *Scope

	names map[string]*Symbol
	order []*Symbol
}

// SymbolTable is a scope stack. Exited scopes stay reachable through
// the scopes slice so the final table can be dumped after analysis.
type SymbolTable struct {
	Global  *Scope
	current *Scope
	scopes  []*Scope
}

// NewSymbolTable creates a table holding only the global scope.
func NewSymbolTable() *SymbolTable {
	global := &Scope{names: make(map[string]*Symbol)}
	return &SymbolTable{
		Global:  global,
		current: global,
		scopes:  []*Scope{global},
	}
}

// Depth returns the current scope depth (0 = global).
func (st *SymbolTable) Depth() int {
	return st.current.Depth
}

// EnterScope pushes a fresh scope.
func (st *SymbolTable) EnterScope() {
	s := &Scope{
		Depth:  st.current.Depth + 1,
		Parent: st.current,
		names:  make(map[string]*Symbol),
	}
	st.scopes = append(st.scopes, s)
	st.current = s
}

// ExitScope pops the current scope. Popping the global scope is a bug
// in the caller, not a user error.
func (st *SymbolTable) ExitScope() error {
	if st.current == st.Global {
		return fmt.Errorf("internal error: exiting the global scope")
	}
	st.current = st.current.Parent
	return nil
}

// Declare records a symbol in the current scope. Redeclaring a name in
// the same scope shadows the previous entry; the old symbol stays in
// the declaration-order list.
func (st *SymbolTable) Declare(sym *Symbol) {
	sym.Depth = st.current.Depth
	st.current.names[sym.Name] = sym
	st.current.order = append(st.current.order, sym)
}

// Lookup resolves a name, walking from the current scope outward.
// Returns nil if the name is not in scope.
func (st *SymbolTable) Lookup(name string) *Symbol {
	for s := st.current; s != nil; s = s.Parent {
		if sym, ok := s.names[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves a name in the current scope only.
func (st *SymbolTable) LookupLocal(name string) *Symbol {
	return st.current.names[name]
}

// Symbols returns every declared symbol across all scopes, dead ones
// included, in declaration order per scope.
func (st *SymbolTable) Symbols() []*Symbol {
	var all []*Symbol
	for _, s := range st.scopes {
		all = append(all, s.order...)
	}
	return all
}

// String dumps the whole table, one symbol per line.
func (st *SymbolTable) String() string {
	var sb strings.Builder
	for i, sym := range st.Symbols() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(sym.String())
	}
	return sb.String()
}
