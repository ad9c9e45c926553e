package translate

import (
	"errors"
	"fmt"
	"strings"

	"gccbridge/internal/gimple"
)

// ErrorKind classifies lowering failures. Each kind is itself an error so
// callers can test with errors.Is(err, translate.TypeMismatch).
type ErrorKind uint8

const (
	UnsupportedOperator ErrorKind = iota + 1
	TypeMismatch
	UnsupportedOperandType
	UnsupportedDestination
	UnresolvedOperand
	ArityMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedOperator:
		return "unsupported operator"
	case TypeMismatch:
		return "type mismatch"
	case UnsupportedOperandType:
		return "unsupported operand type"
	case UnsupportedDestination:
		return "unsupported destination"
	case UnresolvedOperand:
		return "unresolved operand"
	case ArityMismatch:
		return "arity mismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

func (k ErrorKind) Error() string { return k.String() }

// ErrNotSupported is returned by an expression asked for a capability it does
// not have (e.g. a constant asked to accept an assignment).
var ErrNotSupported = errors.New("operation not supported")

// Error describes why one instruction could not be lowered.
type Error struct {
	Kind   ErrorKind
	Op     gimple.Operator
	Types  []gimple.Type
	Dest   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Op != gimple.OpInvalid {
		sb.WriteString(" in ")
		sb.WriteString(e.Op.String())
	}
	if len(e.Types) > 0 {
		names := make([]string, len(e.Types))
		for i, t := range e.Types {
			names[i] = t.String()
		}
		sb.WriteString(": ")
		sb.WriteString(strings.Join(names, " vs "))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Dest != "" {
		sb.WriteString(" (dest ")
		sb.WriteString(e.Dest)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error against its ErrorKind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func typeError(kind ErrorKind, types ...gimple.Type) *Error {
	return &Error{Kind: kind, Types: types}
}
