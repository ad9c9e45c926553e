package translate

import (
	"fmt"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// PointerVar holds a T* as a T[] local plus an int element offset, the
// layout the runtime uses for every pointer to primitive data.
type PointerVar struct {
	baseExpr
	typ        gimple.Type
	elem       gimple.Type
	arrayName  string
	offsetName string
}

// NewPointerVar declares the array and offset locals backing gimpleName.
func NewPointerVar(ctx *FunctionContext, t gimple.Type, gimpleName string) (*PointerVar, error) {
	elem, ok := t.Pointee()
	if !ok || elem.IsPointer() {
		return nil, &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{t}, Detail: "only pointers to primitives are supported"}
	}
	elemName, err := PrimitiveTargetName(elem)
	if err != nil {
		return nil, err
	}
	return &PointerVar{
		typ:        t,
		elem:       elem,
		arrayName:  ctx.DeclareLocal(elemName+"[]", gimpleName+"$array"),
		offsetName: ctx.DeclareLocal("int", gimpleName+"$offset"),
	}, nil
}

func (p *PointerVar) String() string           { return "ptr:" + p.arrayName }
func (p *PointerVar) Type() gimple.Type        { return p.typ }
func (p *PointerVar) Capabilities() Capability { return CapWriteGeneral | CapPointer }

func (p *PointerVar) PointerParts(*FunctionContext) (jimple.Expr, jimple.Expr, error) {
	return jimple.Expr(p.arrayName), jimple.Expr(p.offsetName), nil
}

// WriteAssignment copies another pointer's array and offset.
func (p *PointerVar) WriteAssignment(ctx *FunctionContext, rhs Expr) error {
	if !rhs.Capabilities().Has(CapPointer) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{rhs.Type()}, Detail: rhs.String() + " is not a pointer"}
	}
	if rhs.Type() != p.typ {
		return typeError(TypeMismatch, p.typ, rhs.Type())
	}
	array, offset, err := rhs.PointerParts(ctx)
	if err != nil {
		return err
	}
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s", p.arrayName, array))
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s", p.offsetName, offset))
	return nil
}

func (p *PointerVar) PointerPlus(ctx *FunctionContext, bytes Expr) (Expr, error) {
	delta, err := elementOffset(ctx, p.elem, bytes)
	if err != nil {
		return nil, err
	}
	return &pointerOffset{
		typ:    p.typ,
		elem:   p.elem,
		array:  jimple.Expr(p.arrayName),
		offset: jimple.BinaryInfix("+", jimple.Expr(p.offsetName), delta),
	}, nil
}

// pointerOffset is the result of advancing a pointer; it is only ever
// assigned to another pointer or advanced again.
type pointerOffset struct {
	baseExpr
	typ    gimple.Type
	elem   gimple.Type
	array  jimple.Expr
	offset jimple.Expr
}

func (p *pointerOffset) String() string           { return fmt.Sprintf("ptr:%s+(%s)", p.array, p.offset) }
func (p *pointerOffset) Type() gimple.Type        { return p.typ }
func (p *pointerOffset) Capabilities() Capability { return CapPointer }

func (p *pointerOffset) PointerParts(*FunctionContext) (jimple.Expr, jimple.Expr, error) {
	return p.array, p.offset, nil
}

func (p *pointerOffset) PointerPlus(ctx *FunctionContext, bytes Expr) (Expr, error) {
	delta, err := elementOffset(ctx, p.elem, bytes)
	if err != nil {
		return nil, err
	}
	base := materialize(ctx, "int", p.offset)
	return &pointerOffset{
		typ:    p.typ,
		elem:   p.elem,
		array:  p.array,
		offset: jimple.BinaryInfix("+", base, delta),
	}, nil
}

// elementOffset converts a byte offset into an element count for elem.
func elementOffset(ctx *FunctionContext, elem gimple.Type, bytes Expr) (jimple.Expr, error) {
	size := int64(elem.SizeBytes())
	if c, ok := bytes.(*PrimitiveConstant); ok {
		if n, isInt := c.IntValue(); isInt {
			if n%size != 0 {
				return "", &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{elem}, Detail: fmt.Sprintf("byte offset %d is not a multiple of %d", n, size)}
			}
			return jimple.IntConst(n / size), nil
		}
	}
	if !IsInteger(bytes.Type()) {
		return "", &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{bytes.Type()}, Detail: "pointer offset must be an integer"}
	}
	v, err := readPrimitive(ctx, bytes)
	if err != nil {
		return "", err
	}
	if bytes.Type().Width == gimple.Width64 {
		v = materialize(ctx, "int", jimple.Cast("int", v))
	}
	if size == 1 {
		return v, nil
	}
	return materialize(ctx, "int", jimple.BinaryInfix("/", v, jimple.IntConst(size))), nil
}

// materialize stores e in a fresh temporary unless it is already immediate.
func materialize(ctx *FunctionContext, typeName string, e jimple.Expr) jimple.Expr {
	if jimple.IsImmediate(e) {
		return e
	}
	tmp := ctx.NewTemp(typeName)
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s", tmp, e))
	return jimple.Expr(tmp)
}

// Deref is the primitive stored at a pointer plus a constant byte offset
// (MEM_REF). It is a general lvalue: stores become array element stores.
type Deref struct {
	baseExpr
	ptr    Expr
	elem   gimple.Type
	offset int64
}

// NewDeref dereferences ptr at the given byte offset.
func NewDeref(ptr Expr, offset int64) (*Deref, error) {
	if !ptr.Capabilities().Has(CapPointer) {
		return nil, &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{ptr.Type()}, Detail: ptr.String() + " is not a pointer"}
	}
	elem, ok := ptr.Type().Pointee()
	if !ok {
		return nil, typeError(UnsupportedOperandType, ptr.Type())
	}
	return &Deref{ptr: ptr, elem: elem, offset: offset}, nil
}

func (d *Deref) String() string {
	if d.offset != 0 {
		return fmt.Sprintf("mem:%s+%d", d.ptr, d.offset)
	}
	return "mem:" + d.ptr.String()
}

func (d *Deref) Type() gimple.Type        { return d.elem }
func (d *Deref) Capabilities() Capability { return CapRead | CapWriteGeneral }

func (d *Deref) element(ctx *FunctionContext) (jimple.Expr, error) {
	array, offset, err := d.ptr.PointerParts(ctx)
	if err != nil {
		return "", err
	}
	index := offset
	if d.offset != 0 {
		delta, err := elementOffset(ctx, d.elem, NewIntConstant(gimple.MakeInt(gimple.Width32), d.offset))
		if err != nil {
			return "", err
		}
		index = jimple.BinaryInfix("+", offset, delta)
	}
	index = materialize(ctx, "int", index)
	return jimple.ArrayRef(string(array), index), nil
}

// TranslateToPrimitive loads the element into a temporary, since Jimple
// does not accept array references as operands of compound expressions.
func (d *Deref) TranslateToPrimitive(ctx *FunctionContext) (jimple.Expr, error) {
	ref, err := d.element(ctx)
	if err != nil {
		return "", err
	}
	typeName, err := PrimitiveTargetName(d.elem)
	if err != nil {
		return "", err
	}
	tmp := ctx.NewTemp(typeName)
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s", tmp, ref))
	return jimple.Expr(tmp), nil
}

func (d *Deref) WriteAssignment(ctx *FunctionContext, rhs Expr) error {
	value, err := readPrimitive(ctx, rhs)
	if err != nil {
		return err
	}
	value, err = coerce(value, rhs.Type(), d.elem)
	if err != nil {
		return err
	}
	typeName, err := PrimitiveTargetName(d.elem)
	if err != nil {
		return err
	}
	value = materialize(ctx, typeName, value)
	ref, err := d.element(ctx)
	if err != nil {
		return err
	}
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s", ref, value))
	return nil
}
