package gimple

import (
	"fmt"
	"strconv"
	"strings"
)

// OperandKind says how an operand reference is resolved.
type OperandKind uint8

const (
	OperandInvalid OperandKind = iota
	OperandVar                 // named local variable
	OperandInt                 // integer constant
	OperandReal                // real constant
	OperandDeref               // *(name + offset), MEM_REF
)

var operandKindNames = [...]string{
	OperandInvalid: "invalid",
	OperandVar:     "var",
	OperandInt:     "int",
	OperandReal:    "real",
	OperandDeref:   "deref",
}

func (k OperandKind) String() string {
	if int(k) < len(operandKindNames) {
		return operandKindNames[k]
	}
	return fmt.Sprintf("OperandKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k OperandKind) MarshalText() ([]byte, error) {
	if k == OperandInvalid || int(k) >= len(operandKindNames) {
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
	return []byte(operandKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OperandKind) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range operandKindNames {
		if i != int(OperandInvalid) && name == s {
			*k = OperandKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown operand kind %q", s)
}

// Operand is an unresolved source-level reference. Only the fields relevant to
// Kind are meaningful.
type Operand struct {
	Kind   OperandKind `json:"kind" msgpack:"kind"`
	Name   string      `json:"name,omitempty" msgpack:"name,omitempty"`
	Type   Type        `json:"type" msgpack:"type"`
	Int    int64       `json:"int,omitempty" msgpack:"int,omitempty"`
	Real   float64     `json:"real,omitempty" msgpack:"real,omitempty"`
	Offset int64       `json:"offset,omitempty" msgpack:"offset,omitempty"` // byte offset for OperandDeref
}

// Var references a local variable.
func Var(name string, t Type) Operand {
	return Operand{Kind: OperandVar, Name: name, Type: t}
}

// IntConst is an integer literal of type t.
func IntConst(v int64, t Type) Operand {
	return Operand{Kind: OperandInt, Type: t, Int: v}
}

// RealConst is a floating-point literal of type t.
func RealConst(v float64, t Type) Operand {
	return Operand{Kind: OperandReal, Type: t, Real: v}
}

// Deref references the value stored at pointer variable name plus offset bytes.
// t is the pointee type.
func Deref(name string, t Type, offset int64) Operand {
	return Operand{Kind: OperandDeref, Name: name, Type: t, Offset: offset}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandVar:
		return o.Name
	case OperandInt:
		return strconv.FormatInt(o.Int, 10)
	case OperandReal:
		return strconv.FormatFloat(o.Real, 'g', -1, 64)
	case OperandDeref:
		if o.Offset != 0 {
			return fmt.Sprintf("MEM[%s + %d]", o.Name, o.Offset)
		}
		return fmt.Sprintf("MEM[%s]", o.Name)
	default:
		return "<invalid>"
	}
}

// Instruction is one GIMPLE assignment: Dest = Op(Operands...).
type Instruction struct {
	Op       Operator  `json:"op" msgpack:"op"`
	Dest     Operand   `json:"dest" msgpack:"dest"`
	Operands []Operand `json:"operands" msgpack:"operands"`
}

// Assign builds an instruction.
func Assign(op Operator, dest Operand, operands ...Operand) Instruction {
	return Instruction{Op: op, Dest: dest, Operands: operands}
}

// Validate checks the operand count against the operator arity. Unknown
// operators are left to the translator, which owns that diagnostic.
func (in Instruction) Validate() error {
	if in.Op.Class() == ClassInvalid {
		return nil
	}
	if got, want := len(in.Operands), in.Op.Arity(); got != want {
		return fmt.Errorf("%s expects %d operand(s), got %d", in.Op, want, got)
	}
	return nil
}

func (in Instruction) String() string {
	ops := make([]string, len(in.Operands))
	for i, o := range in.Operands {
		ops[i] = o.String()
	}
	return fmt.Sprintf("%s = %s(%s)", in.Dest, in.Op, strings.Join(ops, ", "))
}

// LocalDecl declares one local variable of a function.
type LocalDecl struct {
	Name string `json:"name" msgpack:"name"`
	Type Type   `json:"type" msgpack:"type"`
}

// Function is the slice of a GIMPLE function body handled by the bridge:
// its locals and its assignment instructions in program order.
type Function struct {
	Name   string        `json:"name" msgpack:"name"`
	Locals []LocalDecl   `json:"locals" msgpack:"locals"`
	Body   []Instruction `json:"body" msgpack:"body"`
}

// Unit is one compilation unit.
type Unit struct {
	Source    string     `json:"source" msgpack:"source"`
	Functions []Function `json:"functions" msgpack:"functions"`
}
