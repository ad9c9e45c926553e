package translate

import (
	"fmt"

	"fortio.org/safecast"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// PrimitiveConstant is an integer or real literal operand.
type PrimitiveConstant struct {
	baseExpr
	typ   gimple.Type
	value jimple.Expr

	isInt bool
	i     int64
}

// NewIntConstant wraps an integer (or boolean) literal of type t.
func NewIntConstant(t gimple.Type, v int64) *PrimitiveConstant {
	return &PrimitiveConstant{typ: t, value: jimple.Constant(t, v), isInt: true, i: v}
}

// NewRealConstant wraps a floating-point literal of type t.
func NewRealConstant(t gimple.Type, v float64) *PrimitiveConstant {
	return &PrimitiveConstant{typ: t, value: jimple.RealConst(t, v)}
}

func (c *PrimitiveConstant) String() string           { return "const:" + string(c.value) }
func (c *PrimitiveConstant) Type() gimple.Type        { return c.typ }
func (c *PrimitiveConstant) Capabilities() Capability { return CapRead }

func (c *PrimitiveConstant) TranslateToPrimitive(*FunctionContext) (jimple.Expr, error) {
	return c.value, nil
}

// IntValue returns the literal when the constant is an integer.
func (c *PrimitiveConstant) IntValue() (int64, bool) {
	return c.i, c.isInt
}

// jvmIntLiteral checks v against the range of t and returns the value the JVM
// slot holds. Unsigned byte and int widths wrap into their signed backing
// type; uint16 is a char and keeps its value; booleans are 0 or 1.
func jvmIntLiteral(t gimple.Type, v int64) (int64, error) {
	if t.Kind == gimple.KindBoolean {
		if v != 0 && v != 1 {
			return 0, fmt.Errorf("boolean literal %d", v)
		}
		return v, nil
	}
	if t.Kind != gimple.KindInteger {
		return 0, fmt.Errorf("integer literal of type %s", t)
	}
	if t.Unsigned {
		switch t.Width {
		case gimple.Width8:
			u, err := safecast.Conv[uint8](v)
			return int64(int8(u)), err //nolint:gosec // two's-complement wrap into byte
		case gimple.Width16:
			u, err := safecast.Conv[uint16](v)
			return int64(u), err
		case gimple.Width32:
			u, err := safecast.Conv[uint32](v)
			return int64(int32(u)), err //nolint:gosec // two's-complement wrap into int
		}
		return v, nil
	}
	switch t.Width {
	case gimple.Width8:
		n, err := safecast.Conv[int8](v)
		return int64(n), err
	case gimple.Width16:
		n, err := safecast.Conv[int16](v)
		return int64(n), err
	case gimple.Width32:
		n, err := safecast.Conv[int32](v)
		return int64(n), err
	}
	return v, nil
}
