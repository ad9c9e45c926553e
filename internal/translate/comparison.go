package translate

import (
	"fmt"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

// Comparison is a relational operator applied to two resolved operands.
type Comparison struct {
	op   gimple.Operator
	x, y Expr
}

// NewComparison pairs a relational operator with its operands.
func NewComparison(op gimple.Operator, x, y Expr) *Comparison {
	return &Comparison{op: op, x: x, y: y}
}

// Condition returns a branch predicate that holds exactly when x op y.
//
// Integers of up to 32 bits and booleans compare directly. Longs and reals go
// through a cmp temporary; for reals the cmpg/cmpl variant is chosen so that
// a NaN operand makes every ordered comparison false and != true.
func (c *Comparison) Condition(ctx *FunctionContext) (jimple.Expr, error) {
	if !c.op.IsRelational() {
		return "", &Error{Kind: UnsupportedOperator, Op: c.op}
	}
	if err := AssertSameType(c.x, c.y); err != nil {
		return "", err
	}
	t := c.x.Type()
	if !t.IsPrimitive() {
		return "", typeError(UnsupportedOperandType, t)
	}
	a, err := readPrimitive(ctx, c.x)
	if err != nil {
		return "", err
	}
	b, err := readPrimitive(ctx, c.y)
	if err != nil {
		return "", err
	}

	var cmp string
	switch {
	case IsReal(t):
		cmp = "cmpl"
		if c.op == gimple.OpLt || c.op == gimple.OpLe {
			cmp = "cmpg"
		}
	case IsInteger(t) && t.Width == gimple.Width64:
		cmp = "cmp"
	default:
		return jimple.BinaryInfix(c.op.Symbol(), a, b), nil
	}

	tmp := ctx.NewTemp("int")
	ctx.Builder().AddStatement(fmt.Sprintf("%s = %s %s, %s", tmp, cmp, a, b))
	return jimple.BinaryInfix(c.op.Symbol(), jimple.Expr(tmp), jimple.IntConst(0)), nil
}
