package translate

import (
	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// Capability is the set of operations an expression supports.
type Capability uint8

const (
	// CapRead: TranslateToPrimitive yields the value.
	CapRead Capability = 1 << iota
	// CapWritePrimitive: WritePrimitiveAssignment stores a scalar directly.
	CapWritePrimitive
	// CapWriteGeneral: WriteAssignment stores any compatible expression.
	CapWriteGeneral
	// CapPointer: PointerParts and PointerPlus are available.
	CapPointer
)

// Has reports whether all bits of want are set.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Expr is a resolved operand or destination. Every variant implements every
// method; the ones outside its Capabilities return an error wrapping
// ErrNotSupported. TranslateToPrimitive may append index temporaries but
// never writes to the expression's own storage.
type Expr interface {
	String() string
	Type() gimple.Type
	Capabilities() Capability

	TranslateToPrimitive(ctx *FunctionContext) (jimple.Expr, error)
	WritePrimitiveAssignment(ctx *FunctionContext, value jimple.Expr) error
	WriteAssignment(ctx *FunctionContext, rhs Expr) error

	// PointerParts returns the backing array and element offset of a pointer.
	PointerParts(ctx *FunctionContext) (array, offset jimple.Expr, err error)
	// PointerPlus advances a pointer by a byte offset.
	PointerPlus(ctx *FunctionContext, bytes Expr) (Expr, error)
}

// Resolver turns source operand references into expressions. Resolution must
// not emit anything.
type Resolver interface {
	Resolve(op gimple.Operand) (Expr, error)
}

// baseExpr supplies the unsupported results; variants embed it and override
// what they can do.
type baseExpr struct{}

func (baseExpr) Capabilities() Capability { return 0 }

func (baseExpr) TranslateToPrimitive(*FunctionContext) (jimple.Expr, error) {
	return "", ErrNotSupported
}

func (baseExpr) WritePrimitiveAssignment(*FunctionContext, jimple.Expr) error {
	return ErrNotSupported
}

func (baseExpr) WriteAssignment(*FunctionContext, Expr) error {
	return ErrNotSupported
}

func (baseExpr) PointerParts(*FunctionContext) (jimple.Expr, jimple.Expr, error) {
	return "", "", ErrNotSupported
}

func (baseExpr) PointerPlus(*FunctionContext, Expr) (Expr, error) {
	return nil, ErrNotSupported
}

// primitiveValue is an already lowered rvalue, used to hand computed results
// to general lvalues.
type primitiveValue struct {
	baseExpr
	typ   gimple.Type
	value jimple.Expr
}

func (v primitiveValue) String() string           { return "value:" + string(v.value) }
func (v primitiveValue) Type() gimple.Type        { return v.typ }
func (v primitiveValue) Capabilities() Capability { return CapRead }

func (v primitiveValue) TranslateToPrimitive(*FunctionContext) (jimple.Expr, error) {
	return v.value, nil
}
