package translate

import (
	"fmt"

	"gccbridge/internal/gimple"
)

// VarTable resolves operand references against the locals of one function.
// Every local gets its storage when the table is built.
type VarTable struct {
	vars map[string]Expr
}

// NewVarTable declares storage for locals in declaration order.
func NewVarTable(ctx *FunctionContext, locals []gimple.LocalDecl) (*VarTable, error) {
	vt := &VarTable{vars: make(map[string]Expr, len(locals))}
	for _, decl := range locals {
		if _, err := vt.Declare(ctx, decl); err != nil {
			return nil, err
		}
	}
	return vt, nil
}

// Declare creates the storage for one local.
func (vt *VarTable) Declare(ctx *FunctionContext, decl gimple.LocalDecl) (Expr, error) {
	if _, dup := vt.vars[decl.Name]; dup {
		return nil, errorf(UnresolvedOperand, "local %s declared twice", decl.Name)
	}
	var (
		v   Expr
		err error
	)
	switch {
	case decl.Type.IsPointer():
		v, err = NewPointerVar(ctx, decl.Type, decl.Name)
	case decl.Type.IsPrimitive():
		v, err = NewPrimitiveStackVar(ctx, decl.Type, decl.Name)
	default:
		err = typeError(UnsupportedOperandType, decl.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("local %s: %w", decl.Name, err)
	}
	vt.vars[decl.Name] = v
	return v, nil
}

// Lookup returns the storage of a declared local.
func (vt *VarTable) Lookup(name string) (Expr, bool) {
	v, ok := vt.vars[name]
	return v, ok
}

// Resolve implements Resolver.
func (vt *VarTable) Resolve(op gimple.Operand) (Expr, error) {
	switch op.Kind {
	case gimple.OperandVar:
		v, ok := vt.vars[op.Name]
		if !ok {
			return nil, errorf(UnresolvedOperand, "unknown local %s", op.Name)
		}
		if v.Type() != op.Type {
			return nil, &Error{Kind: TypeMismatch, Types: []gimple.Type{v.Type(), op.Type}, Detail: "reference to " + op.Name}
		}
		return v, nil

	case gimple.OperandInt:
		if !op.Type.IsPrimitive() || IsReal(op.Type) {
			return nil, &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{op.Type}, Detail: "integer constant"}
		}
		n, err := jvmIntLiteral(op.Type, op.Int)
		if err != nil {
			return nil, &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{op.Type}, Detail: "integer constant out of range", Err: err}
		}
		return NewIntConstant(op.Type, n), nil

	case gimple.OperandReal:
		if !IsReal(op.Type) {
			return nil, &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{op.Type}, Detail: "real constant"}
		}
		return NewRealConstant(op.Type, op.Real), nil

	case gimple.OperandDeref:
		ptr, ok := vt.vars[op.Name]
		if !ok {
			return nil, errorf(UnresolvedOperand, "unknown pointer %s", op.Name)
		}
		d, err := NewDeref(ptr, op.Offset)
		if err != nil {
			return nil, err
		}
		if d.Type() != op.Type {
			return nil, &Error{Kind: TypeMismatch, Types: []gimple.Type{d.Type(), op.Type}, Detail: "dereference of " + op.Name}
		}
		return d, nil

	default:
		return nil, errorf(UnresolvedOperand, "operand kind %s", op.Kind)
	}
}
