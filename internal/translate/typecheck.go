package translate

import (
	"gccbridge/internal/gimple"
)

// AssertSameType fails with TypeMismatch unless every expression reports the
// same type.
func AssertSameType(exprs ...Expr) error {
	if len(exprs) < 2 {
		return nil
	}
	first := exprs[0].Type()
	for _, e := range exprs[1:] {
		if e.Type() != first {
			types := make([]gimple.Type, len(exprs))
			for i, x := range exprs {
				types[i] = x.Type()
			}
			return typeError(TypeMismatch, types...)
		}
	}
	return nil
}

// IsDouble reports a 64-bit real.
func IsDouble(t gimple.Type) bool {
	return t.IsPrimitive() && t.Kind == gimple.KindReal && t.Width == gimple.Width64
}

// IsInt32 reports a 32-bit integer of either signedness.
func IsInt32(t gimple.Type) bool {
	return t.IsPrimitive() && t.Kind == gimple.KindInteger && t.Width == gimple.Width32
}

func IsReal(t gimple.Type) bool    { return t.IsPrimitive() && t.Kind == gimple.KindReal }
func IsInteger(t gimple.Type) bool { return t.IsPrimitive() && t.Kind == gimple.KindInteger }
func IsBoolean(t gimple.Type) bool { return t.IsPrimitive() && t.Kind == gimple.KindBoolean }

// PrimitiveTargetName maps a primitive type to the JVM primitive that stores
// it. Unsigned integers share the signed representation except uint16, which
// is the JVM's unsigned char.
func PrimitiveTargetName(t gimple.Type) (string, error) {
	if !t.IsPrimitive() {
		return "", typeError(UnsupportedOperandType, t)
	}
	switch t.Kind {
	case gimple.KindBoolean:
		return "boolean", nil
	case gimple.KindReal:
		switch t.Width {
		case gimple.Width32:
			return "float", nil
		case gimple.Width64:
			return "double", nil
		}
	case gimple.KindInteger:
		switch t.Width {
		case gimple.Width8:
			return "byte", nil
		case gimple.Width16:
			if t.Unsigned {
				return "char", nil
			}
			return "short", nil
		case gimple.Width32:
			return "int", nil
		case gimple.Width64:
			return "long", nil
		}
	}
	return "", typeError(UnsupportedOperandType, t)
}

// storageName is the target name used for casts; booleans travel as ints.
func storageName(t gimple.Type) (string, error) {
	if IsBoolean(t) {
		return "int", nil
	}
	return PrimitiveTargetName(t)
}
