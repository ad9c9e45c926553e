package translate

import (
	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// PrimitiveStackVar stores a single primitive numeric value in a local JVM
// variable. The local is declared when the variable is created, so it always
// precedes every statement that mentions it.
type PrimitiveStackVar struct {
	baseExpr
	typ        gimple.Type
	jimpleName string
}

// NewPrimitiveStackVar declares the backing local for gimpleName.
func NewPrimitiveStackVar(ctx *FunctionContext, t gimple.Type, gimpleName string) (*PrimitiveStackVar, error) {
	typeName, err := PrimitiveTargetName(t)
	if err != nil {
		return nil, err
	}
	return &PrimitiveStackVar{
		typ:        t,
		jimpleName: ctx.DeclareLocal(typeName, gimpleName),
	}, nil
}

func (v *PrimitiveStackVar) String() string { return "stack:" + v.jimpleName }

// Name returns the Jimple local name.
func (v *PrimitiveStackVar) Name() string { return v.jimpleName }

func (v *PrimitiveStackVar) Type() gimple.Type { return v.typ }

func (v *PrimitiveStackVar) Capabilities() Capability {
	return CapRead | CapWritePrimitive | CapWriteGeneral
}

func (v *PrimitiveStackVar) TranslateToPrimitive(*FunctionContext) (jimple.Expr, error) {
	return jimple.Expr(v.jimpleName), nil
}

func (v *PrimitiveStackVar) WritePrimitiveAssignment(ctx *FunctionContext, value jimple.Expr) error {
	ctx.Builder().AddStatement(v.jimpleName + " = " + string(value))
	return nil
}

func (v *PrimitiveStackVar) WriteAssignment(ctx *FunctionContext, rhs Expr) error {
	return AssignPrimitive(ctx, v, rhs)
}
