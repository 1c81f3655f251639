package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypeString(t *testing.T) {
	be.Equal(t, TypeString(I32Type), "i32")
	be.Equal(t, TypeString(BoolType), "bool")
	be.Equal(t, TypeString(UnitType), "()")
	be.Equal(t, TypeString(ErrorType), "<error>")
	be.Equal(t, TypeString(nil), "<unknown>")
	be.Equal(t, TypeString(RefType(I32Type, false)), "&i32")
	be.Equal(t, TypeString(RefType(I32Type, true)), "&mut i32")
	be.Equal(t, TypeString(ArrayType(BoolType, 4)), "[bool; 4]")
	be.Equal(t, TypeString(TupleType([]*Type{I32Type, BoolType})), "(i32, bool)")
	be.Equal(t, TypeString(RefType(ArrayType(I32Type, 2), true)), "&mut [i32; 2]")
}

func TestTypeString_Functions(t *testing.T) {
	be.Equal(t, TypeString(&Type{Kind: TypeFunc, Result: UnitType}), "fn()")
	be.Equal(t, TypeString(&Type{
		Kind:   TypeFunc,
		Params: []*Type{I32Type, BoolType},
		Result: I32Type,
	}), "fn(i32, bool) -> i32")
}

func TestTypesEqual_Structural(t *testing.T) {
	// Compound descriptors are allocated per use; equality must not
	// depend on pointer identity.
	be.True(t, TypesEqual(RefType(I32Type, true), RefType(I32Type, true)))
	be.True(t, !TypesEqual(RefType(I32Type, true), RefType(I32Type, false)))
	be.True(t, TypesEqual(ArrayType(I32Type, 3), ArrayType(I32Type, 3)))
	be.True(t, !TypesEqual(ArrayType(I32Type, 3), ArrayType(I32Type, 4)))
	be.True(t, TypesEqual(
		TupleType([]*Type{I32Type, BoolType}),
		TupleType([]*Type{I32Type, BoolType})))
	be.True(t, !TypesEqual(
		TupleType([]*Type{I32Type}),
		TupleType([]*Type{I32Type, I32Type})))
	be.True(t, !TypesEqual(I32Type, BoolType))
	be.True(t, TypesEqual(nil, nil))
	be.True(t, !TypesEqual(I32Type, nil))
}

func TestIsErrorType(t *testing.T) {
	be.True(t, IsErrorType(ErrorType))
	be.True(t, !IsErrorType(I32Type))
	be.True(t, !IsErrorType(nil))
}
