package translate

import (
	"errors"
	"fmt"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
	"gccbridge/internal/trace"
)

// AssignmentTranslator lowers GIMPLE assignments into Jimple statements.
type AssignmentTranslator struct {
	ctx      *FunctionContext
	resolver Resolver
}

// NewAssignmentTranslator binds a translator to one function.
func NewAssignmentTranslator(ctx *FunctionContext, resolver Resolver) *AssignmentTranslator {
	return &AssignmentTranslator{ctx: ctx, resolver: resolver}
}

// Translate lowers one instruction. Either every statement for it reaches the
// method body or, on error, none does.
func (t *AssignmentTranslator) Translate(assign gimple.Instruction) error {
	t.ctx.beginInstr()
	err := t.translate(assign)
	t.ctx.endInstr(err == nil)

	if err != nil {
		var te *Error
		if errors.As(err, &te) {
			if te.Op == gimple.OpInvalid {
				te.Op = assign.Op
			}
			if te.Dest == "" {
				te.Dest = assign.Dest.String()
			}
		}
		trace.Point(t.ctx.tracer, trace.ScopeInstr, "lower.fail", err.Error())
		return err
	}
	trace.Point(t.ctx.tracer, trace.ScopeInstr, "lower", assign.String())
	return nil
}

func (t *AssignmentTranslator) translate(assign gimple.Instruction) error {
	if assign.Op.Class() == gimple.ClassInvalid {
		return &Error{Kind: UnsupportedOperator, Op: assign.Op}
	}
	if err := assign.Validate(); err != nil {
		return &Error{Kind: ArityMismatch, Op: assign.Op, Err: err}
	}
	lhs, err := t.resolve(assign.Dest)
	if err != nil {
		return err
	}
	operands := make([]Expr, len(assign.Operands))
	for i, op := range assign.Operands {
		if operands[i], err = t.resolve(op); err != nil {
			return err
		}
	}

	switch assign.Op.Class() {
	case gimple.ClassPassthrough:
		return t.assign(lhs, operands[0])

	case gimple.ClassPointerPlus:
		if !operands[0].Capabilities().Has(CapPointer) {
			return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{operands[0].Type()}, Detail: operands[0].String() + " is not a pointer"}
		}
		advanced, err := operands[0].PointerPlus(t.ctx, operands[1])
		if err != nil {
			return err
		}
		return t.assign(lhs, advanced)

	case gimple.ClassRelational:
		return t.assignComparison(lhs, NewComparison(assign.Op, operands[0], operands[1]))

	case gimple.ClassArithmetic:
		return t.assignBinaryOp(lhs, assign.Op.Symbol(), operands)

	case gimple.ClassDivide:
		return t.assignDiv(lhs, operands)

	case gimple.ClassBitNot:
		return t.assignBitNot(lhs, operands[0])

	case gimple.ClassNegate:
		return t.assignNegated(lhs, operands[0])

	case gimple.ClassAbs:
		return t.assignAbs(lhs, operands[0])

	case gimple.ClassMax:
		return t.assignMax(lhs, operands)

	case gimple.ClassUnordered:
		return t.assignUnordered(lhs, operands)

	case gimple.ClassTruthNot:
		return t.assignTruthNot(lhs, operands[0])

	case gimple.ClassTruthOr:
		return t.assignTruthOr(lhs, operands)

	default:
		return &Error{Kind: UnsupportedOperator, Op: assign.Op}
	}
}

func (t *AssignmentTranslator) resolve(op gimple.Operand) (Expr, error) {
	e, err := t.resolver.Resolve(op)
	if err != nil {
		var te *Error
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &Error{Kind: UnresolvedOperand, Detail: op.String(), Err: err}
	}
	return e, nil
}

// assign stores an expression through the destination's own write path.
func (t *AssignmentTranslator) assign(lhs, rhs Expr) error {
	caps := lhs.Capabilities()
	switch {
	case caps.Has(CapWritePrimitive):
		return AssignPrimitive(t.ctx, lhs, rhs)
	case caps.Has(CapWriteGeneral):
		return lhs.WriteAssignment(t.ctx, rhs)
	default:
		return &Error{Kind: UnsupportedDestination, Detail: fmt.Sprintf("cannot assign %s to %s", rhs, lhs)}
	}
}

// assignPrimitive stores an already lowered value of type typ.
func (t *AssignmentTranslator) assignPrimitive(lhs Expr, typ gimple.Type, value jimple.Expr) error {
	caps := lhs.Capabilities()
	switch {
	case caps.Has(CapWritePrimitive):
		return lhs.WritePrimitiveAssignment(t.ctx, value)
	case caps.Has(CapWriteGeneral):
		return lhs.WriteAssignment(t.ctx, primitiveValue{typ: typ, value: value})
	default:
		return &Error{Kind: UnsupportedDestination, Detail: fmt.Sprintf("cannot assign %s to %s", value, lhs)}
	}
}

func (t *AssignmentTranslator) assignDiv(lhs Expr, operands []Expr) error {
	x, y := operands[0], operands[1]
	if x.Type() != y.Type() {
		return typeError(TypeMismatch, x.Type(), y.Type())
	}
	if !IsReal(x.Type()) && !IsInteger(x.Type()) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{x.Type()}, Detail: "unsupported type for div"}
	}
	return t.assignBinaryOp(lhs, "/", operands)
}

func (t *AssignmentTranslator) assignBinaryOp(lhs Expr, operator string, operands []Expr) error {
	if err := AssertSameType(lhs, operands[0], operands[1]); err != nil {
		return err
	}
	a, err := readPrimitive(t.ctx, operands[0])
	if err != nil {
		return err
	}
	b, err := readPrimitive(t.ctx, operands[1])
	if err != nil {
		return err
	}
	return t.assignPrimitive(lhs, lhs.Type(), jimple.BinaryInfix(operator, a, b))
}

func (t *AssignmentTranslator) assignNegated(lhs, expr Expr) error {
	if err := AssertSameType(lhs, expr); err != nil {
		return err
	}
	v, err := readPrimitive(t.ctx, expr)
	if err != nil {
		return err
	}
	return t.assignPrimitive(lhs, lhs.Type(), jimple.Neg(v))
}

func (t *AssignmentTranslator) assignBitNot(lhs, op Expr) error {
	if err := AssertSameType(lhs, op); err != nil {
		return err
	}
	if !IsInteger(op.Type()) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{op.Type()}, Detail: "bitwise not needs an integer"}
	}
	v, err := readPrimitive(t.ctx, op)
	if err != nil {
		return err
	}
	return t.assignPrimitive(lhs, lhs.Type(), jimple.BinaryInfix("^", v, jimple.Constant(op.Type(), -1)))
}

func (t *AssignmentTranslator) assignAbs(lhs, expr Expr) error {
	if err := AssertSameType(lhs, expr); err != nil {
		return err
	}
	signature, err := absMethodForType(expr.Type())
	if err != nil {
		return err
	}
	v, err := readPrimitive(t.ctx, expr)
	if err != nil {
		return err
	}
	return t.assignPrimitive(lhs, lhs.Type(), jimple.StaticInvoke(t.ctx.Runtime().MathClass, signature, v))
}

func absMethodForType(typ gimple.Type) (string, error) {
	switch {
	case IsDouble(typ):
		return "double abs(double)", nil
	case IsInt32(typ) && !typ.Unsigned:
		return "int abs(int)", nil
	}
	return "", &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{typ}, Detail: "abs is only available for real64 and signed int32"}
}

func (t *AssignmentTranslator) assignMax(lhs Expr, operands []Expr) error {
	if err := AssertSameType(lhs, operands[0], operands[1]); err != nil {
		return err
	}
	name, err := PrimitiveTargetName(lhs.Type())
	if err != nil {
		return err
	}
	signature := fmt.Sprintf("%[1]s max(%[1]s, %[1]s)", name)

	a, err := readPrimitive(t.ctx, operands[0])
	if err != nil {
		return err
	}
	b, err := readPrimitive(t.ctx, operands[1])
	if err != nil {
		return err
	}
	return t.assignPrimitive(lhs, lhs.Type(), jimple.StaticInvoke(t.ctx.Runtime().MathClass, signature, a, b))
}

func (t *AssignmentTranslator) assignUnordered(lhs Expr, operands []Expr) error {
	x, y := operands[0], operands[1]
	if err := AssertSameType(x, y); err != nil {
		return err
	}
	if !IsDouble(x.Type()) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{x.Type()}, Detail: "unordered needs real64 operands"}
	}
	a, err := readPrimitive(t.ctx, x)
	if err != nil {
		return err
	}
	b, err := readPrimitive(t.ctx, y)
	if err != nil {
		return err
	}
	call := jimple.StaticInvoke(t.ctx.Runtime().BuiltinsClass, "boolean unordered(double, double)", a, b)
	return t.assignPrimitive(lhs, gimple.MakeBool(), call)
}

func (t *AssignmentTranslator) assignComparison(lhs Expr, comparison *Comparison) error {
	condition, err := comparison.Condition(t.ctx)
	if err != nil {
		return err
	}
	return t.assignBoolean(lhs, condition)
}

func (t *AssignmentTranslator) assignTruthNot(lhs, op Expr) error {
	if !IsBoolean(op.Type()) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{op.Type()}, Detail: "truth not needs a boolean"}
	}
	v, err := readPrimitive(t.ctx, op)
	if err != nil {
		return err
	}
	return t.assignBoolean(lhs, jimple.BinaryInfix("==", v, jimple.IntConst(0)))
}

func (t *AssignmentTranslator) assignBoolean(lhs Expr, condition jimple.Expr) error {
	return t.assignIfElse(lhs, condition, jimple.Constant(lhs.Type(), 1), jimple.Constant(lhs.Type(), 0))
}

// assignIfElse materialises a condition as one of two values:
//
//	if cond goto T; lhs = ifFalse; goto D; T: lhs = ifTrue; goto D; D:
func (t *AssignmentTranslator) assignIfElse(lhs Expr, condition, ifTrue, ifFalse jimple.Expr) error {
	trueLabel := t.ctx.NewLabel()
	doneLabel := t.ctx.NewLabel()
	b := t.ctx.Builder()

	b.AddStatement(fmt.Sprintf("if %s goto %s", condition, trueLabel))

	if err := t.assignPrimitive(lhs, lhs.Type(), ifFalse); err != nil {
		return err
	}
	b.AddStatement("goto " + doneLabel)

	b.AddLabel(trueLabel)
	if err := t.assignPrimitive(lhs, lhs.Type(), ifTrue); err != nil {
		return err
	}
	b.AddStatement("goto " + doneLabel)

	b.AddLabel(doneLabel)
	return nil
}

// assignTruthOr reads both operands before branching; it does not
// short-circuit.
func (t *AssignmentTranslator) assignTruthOr(lhs Expr, ops []Expr) error {
	if !IsBoolean(ops[0].Type()) || !IsBoolean(ops[1].Type()) {
		return &Error{Kind: UnsupportedOperandType, Types: []gimple.Type{ops[0].Type(), ops[1].Type()}, Detail: "truth or needs booleans"}
	}
	a, err := readPrimitive(t.ctx, ops[0])
	if err != nil {
		return err
	}
	b, err := readPrimitive(t.ctx, ops[1])
	if err != nil {
		return err
	}

	checkB := t.ctx.NewLabel()
	noneIsTrue := t.ctx.NewLabel()
	doneLabel := t.ctx.NewLabel()
	one, zero := jimple.Constant(lhs.Type(), 1), jimple.Constant(lhs.Type(), 0)
	out := t.ctx.Builder()

	out.AddStatement(fmt.Sprintf("if %s == 0 goto %s", a, checkB))
	if err := t.assignPrimitive(lhs, lhs.Type(), one); err != nil {
		return err
	}
	out.AddStatement("goto " + doneLabel)

	out.AddLabel(checkB)
	out.AddStatement(fmt.Sprintf("if %s == 0 goto %s", b, noneIsTrue))
	if err := t.assignPrimitive(lhs, lhs.Type(), one); err != nil {
		return err
	}
	out.AddStatement("goto " + doneLabel)

	out.AddLabel(noneIsTrue)
	if err := t.assignPrimitive(lhs, lhs.Type(), zero); err != nil {
		return err
	}

	out.AddLabel(doneLabel)
	return nil
}
