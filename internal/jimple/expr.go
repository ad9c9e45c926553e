package jimple

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gccbridge/internal/gimple"
)

// Expr is a fragment of Jimple text usable as an operand or right-hand side.
type Expr string

func (e Expr) String() string { return string(e) }

// IntConst formats an int-typed constant.
func IntConst(v int64) Expr {
	return Expr(strconv.FormatInt(v, 10))
}

// Constant formats v as a literal of the Jimple type that backs t.
func Constant(t gimple.Type, v int64) Expr {
	if t.IsPointer() {
		return IntConst(v)
	}
	switch t.Kind {
	case gimple.KindReal:
		return RealConst(t, float64(v))
	case gimple.KindInteger:
		if t.Width == gimple.Width64 {
			return Expr(strconv.FormatInt(v, 10) + "L")
		}
	}
	return IntConst(v)
}

// RealConst formats a floating-point literal. Jimple spells non-finite values
// with the #Infinity / #NaN forms.
func RealConst(t gimple.Type, v float64) Expr {
	var suffix string
	if t.Width == gimple.Width32 {
		suffix = "F"
	}
	switch {
	case math.IsNaN(v):
		return Expr("#NaN" + suffix)
	case math.IsInf(v, 1):
		return Expr("#Infinity" + suffix)
	case math.IsInf(v, -1):
		return Expr("#-Infinity" + suffix)
	}
	bits := 64
	if t.Width == gimple.Width32 {
		bits = 32
	}
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Expr(s + suffix)
}

// BinaryInfix joins two operands with an infix operator.
func BinaryInfix(op string, a, b Expr) Expr {
	return Expr(fmt.Sprintf("%s %s %s", a, op, b))
}

// Neg is the unary negation expression.
func Neg(e Expr) Expr {
	return Expr("neg " + string(e))
}

// Cast converts e to the named Jimple primitive type.
func Cast(typeName string, e Expr) Expr {
	return Expr(fmt.Sprintf("(%s) %s", typeName, e))
}

// StaticInvoke calls a static method identified by class and signature,
// e.g. StaticInvoke("java.lang.Math", "int abs(int)", x).
func StaticInvoke(class, signature string, args ...Expr) Expr {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = string(a)
	}
	return Expr(fmt.Sprintf("staticinvoke <%s: %s>(%s)", class, signature, strings.Join(parts, ", ")))
}

// ArrayRef indexes an array local.
func ArrayRef(array string, index Expr) Expr {
	return Expr(fmt.Sprintf("%s[%s]", array, index))
}

// IsImmediate reports whether e is a single local or constant, the only
// operand form Jimple accepts inside compound expressions and array stores.
func IsImmediate(e Expr) bool {
	s := string(e)
	return s != "" && !strings.ContainsAny(s, " ([")
}
