package translate

import (
	"fmt"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// readPrimitive reads e as a scalar value, reporting expressions without a
// primitive value as UnsupportedOperandType.
func readPrimitive(ctx *FunctionContext, e Expr) (jimple.Expr, error) {
	if !e.Capabilities().Has(CapRead) {
		return "", &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{e.Type()}, Detail: e.String() + " has no primitive value"}
	}
	return e.TranslateToPrimitive(ctx)
}

// AssignPrimitive is the single place where a value is converted for a
// scalar destination: rhs is read, cast when the JVM representations of the
// two types differ, and stored verbatim otherwise.
func AssignPrimitive(ctx *FunctionContext, lhs, rhs Expr) error {
	if !lhs.Capabilities().Has(CapWritePrimitive) {
		return fmt.Errorf("%w: primitive store into %s", ErrNotSupported, lhs)
	}
	value, err := readPrimitive(ctx, rhs)
	if err != nil {
		return err
	}
	value, err = coerce(value, rhs.Type(), lhs.Type())
	if err != nil {
		return err
	}
	return lhs.WritePrimitiveAssignment(ctx, value)
}

func coerce(v jimple.Expr, from, to gimple.Type) (jimple.Expr, error) {
	if from == to {
		return v, nil
	}
	fromName, err := storageName(from)
	if err != nil {
		return "", err
	}
	toName, err := storageName(to)
	if err != nil {
		return "", err
	}
	if fromName == toName {
		return v, nil
	}
	return jimple.Cast(toName, v), nil
}
