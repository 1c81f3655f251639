package main

import (
	"strconv"
	"strings"
)

// TypeKind discriminates the closed set of type descriptors.
type TypeKind int

const (
	TypeI32 TypeKind = iota
	TypeBool
	TypeUnit
	TypeError // synthesized for ill-typed subtrees; compatible with nothing, reported once
	TypeRef
	TypeArray
	TypeTuple
	TypeFunc
)

// Type is a structural type descriptor.
type Type struct {
	Kind TypeKind
	// TypeRef:
	Mutable bool
	// TypeRef element, TypeArray element:
	Elem *Type
	// TypeArray:
	Len int
	// TypeTuple:
	Elems []*Type
	// TypeFunc:
	Params []*Type
	Result *Type
}

// Shared descriptors for the scalar types. Compound types are
// allocated per use; equality is structural, not pointer-based.
var (
	I32Type   = &Type{Kind: TypeI32}
	BoolType  = &Type{Kind: TypeBool}
	UnitType  = &Type{Kind: TypeUnit}
	ErrorType = &Type{Kind: TypeError}
)

// RefType builds a reference type descriptor.
func RefType(elem *Type, mutable bool) *Type {
	return &Type{Kind: TypeRef, Elem: elem, Mutable: mutable}
}

// ArrayType builds a fixed-size array type descriptor.
func ArrayType(elem *Type, n int) *Type {
	return &Type{Kind: TypeArray, Elem: elem, Len: n}
}

// TupleType builds a tuple type descriptor.
func TupleType(elems []*Type) *Type {
	return &Type{Kind: TypeTuple, Elems: elems}
}

// IsErrorType reports whether t is the error type (nil-safe). Checks
// against a subtree that already failed are suppressed.
func IsErrorType(t *Type) bool {
	return t != nil && t.Kind == TypeError
}

// TypesEqual compares two type descriptors structurally.
func TypesEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypeI32, TypeBool, TypeUnit, TypeError:
		return true
	case TypeRef:
		return a.Mutable == b.Mutable && TypesEqual(a.Elem, b.Elem)
	case TypeArray:
		return a.Len == b.Len && TypesEqual(a.Elem, b.Elem)
	case TypeTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !TypesEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case TypeFunc:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !TypesEqual(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return TypesEqual(a.Result, b.Result)
	default:
		return false
	}
}

// TypeString renders a type descriptor in source syntax.
func TypeString(t *Type) string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case TypeI32:
		return "i32"
	case TypeBool:
		return "bool"
	case TypeUnit:
		return "()"
	case TypeError:
		return "<error>"
	case TypeRef:
		if t.Mutable {
			return "&mut " + TypeString(t.Elem)
		}
		return "&" + TypeString(t.Elem)
	case TypeArray:
		return "[" + TypeString(t.Elem) + "; " + strconv.Itoa(t.Len) + "]"
	case TypeTuple:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(TypeString(e))
		}
		sb.WriteByte(')')
		return sb.String()
	case TypeFunc:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(TypeString(p))
		}
		sb.WriteByte(')')
		if t.Result != nil && t.Result.Kind != TypeUnit {
			sb.WriteString(" -> ")
			sb.WriteString(TypeString(t.Result))
		}
		return sb.String()
	default:
		return "<unknown>"
	}
}
