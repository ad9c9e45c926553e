package gimple

import (
	"fmt"
	"strings"
)

// Operator is the tag of a GIMPLE assignment right-hand side.
type Operator uint8

const (
	OpInvalid Operator = iota

	// passthrough
	OpIntegerCst
	OpRealCst
	OpVarDecl
	OpNop
	OpFloat
	OpParen
	OpComponentRef
	OpArrayRef
	OpAddr
	OpMemRef

	OpPointerPlus

	// relational
	OpEq
	OpNe
	OpLe
	OpLt
	OpGt
	OpGe

	// arithmetic
	OpMult
	OpPlus
	OpMinus
	OpTruncMod
	OpRDiv
	OpTruncDiv

	OpBitNot
	OpNegate
	OpAbs
	OpMax
	OpUnordered
	OpTruthNot
	OpTruthOr

	opCount
)

// Class groups operators that share a lowering strategy.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassPassthrough
	ClassPointerPlus
	ClassRelational
	ClassArithmetic
	ClassDivide
	ClassBitNot
	ClassNegate
	ClassAbs
	ClassMax
	ClassUnordered
	ClassTruthNot
	ClassTruthOr
)

type opInfo struct {
	name  string
	arity int
	class Class
}

var opTable = [opCount]opInfo{
	OpInvalid:      {"invalid", 0, ClassInvalid},
	OpIntegerCst:   {"integer_cst", 1, ClassPassthrough},
	OpRealCst:      {"real_cst", 1, ClassPassthrough},
	OpVarDecl:      {"var_decl", 1, ClassPassthrough},
	OpNop:          {"nop_expr", 1, ClassPassthrough},
	OpFloat:        {"float_expr", 1, ClassPassthrough},
	OpParen:        {"paren_expr", 1, ClassPassthrough},
	OpComponentRef: {"component_ref", 1, ClassPassthrough},
	OpArrayRef:     {"array_ref", 1, ClassPassthrough},
	OpAddr:         {"addr_expr", 1, ClassPassthrough},
	OpMemRef:       {"mem_ref", 1, ClassPassthrough},
	OpPointerPlus:  {"pointer_plus_expr", 2, ClassPointerPlus},
	OpEq:           {"eq_expr", 2, ClassRelational},
	OpNe:           {"ne_expr", 2, ClassRelational},
	OpLe:           {"le_expr", 2, ClassRelational},
	OpLt:           {"lt_expr", 2, ClassRelational},
	OpGt:           {"gt_expr", 2, ClassRelational},
	OpGe:           {"ge_expr", 2, ClassRelational},
	OpMult:         {"mult_expr", 2, ClassArithmetic},
	OpPlus:         {"plus_expr", 2, ClassArithmetic},
	OpMinus:        {"minus_expr", 2, ClassArithmetic},
	OpTruncMod:     {"trunc_mod_expr", 2, ClassArithmetic},
	OpRDiv:         {"rdiv_expr", 2, ClassDivide},
	OpTruncDiv:     {"trunc_div_expr", 2, ClassDivide},
	OpBitNot:       {"bit_not_expr", 1, ClassBitNot},
	OpNegate:       {"negate_expr", 1, ClassNegate},
	OpAbs:          {"abs_expr", 1, ClassAbs},
	OpMax:          {"max_expr", 2, ClassMax},
	OpUnordered:    {"unordered_expr", 2, ClassUnordered},
	OpTruthNot:     {"truth_not_expr", 1, ClassTruthNot},
	OpTruthOr:      {"truth_or_expr", 2, ClassTruthOr},
}

func (op Operator) valid() bool {
	return op > OpInvalid && op < opCount
}

// String returns the GCC tree-code spelling in upper case.
func (op Operator) String() string {
	if op < opCount {
		return strings.ToUpper(opTable[op].name)
	}
	return fmt.Sprintf("Operator(%d)", op)
}

// Arity reports how many source operands the operator consumes.
func (op Operator) Arity() int {
	if !op.valid() {
		return 0
	}
	return opTable[op].arity
}

// Class reports the lowering class, ClassInvalid for unknown tags.
func (op Operator) Class() Class {
	if !op.valid() {
		return ClassInvalid
	}
	return opTable[op].class
}

// IsPassthrough reports whether the operator copies its single operand as is.
func (op Operator) IsPassthrough() bool { return op.Class() == ClassPassthrough }

// IsRelational reports whether the operator is one of the six comparisons.
func (op Operator) IsRelational() bool { return op.Class() == ClassRelational }

// Symbol returns the infix spelling for relational and arithmetic operators.
func (op Operator) Symbol() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLe:
		return "<="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpMult:
		return "*"
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTruncMod:
		return "%"
	case OpRDiv, OpTruncDiv:
		return "/"
	default:
		return ""
	}
}

// ParseOperator maps a tree-code name such as "plus_expr" or "PLUS_EXPR".
func ParseOperator(s string) (Operator, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for op := OpInvalid + 1; op < opCount; op++ {
		if opTable[op].name == name {
			return op, nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown operator %q", s)
}

// AllOperators lists every dispatchable operator in declaration order.
func AllOperators() []Operator {
	ops := make([]Operator, 0, opCount-1)
	for op := OpInvalid + 1; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// MarshalText implements encoding.TextMarshaler.
func (op Operator) MarshalText() ([]byte, error) {
	if !op.valid() {
		return nil, fmt.Errorf("cannot marshal %s", op)
	}
	return []byte(opTable[op].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Operator) UnmarshalText(b []byte) error {
	parsed, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
