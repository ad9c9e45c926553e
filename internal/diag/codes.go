package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// IO
	IOReadFailed  Code = 1001
	IOWriteFailed Code = 1002

	// input units
	InputInvalid        Code = 2001
	InputDuplicateLocal Code = 2002
	InputBadLocalType   Code = 2003

	// lowering
	LowUnsupportedOperator    Code = 3001
	LowTypeMismatch           Code = 3002
	LowUnsupportedOperandType Code = 3003
	LowUnsupportedDestination Code = 3004
	LowUnresolvedOperand      Code = 3005
	LowArityMismatch          Code = 3006
	LowInternal               Code = 3099
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	IOReadFailed:              "Cannot read input",
	IOWriteFailed:             "Cannot write output",
	InputInvalid:              "Malformed unit",
	InputDuplicateLocal:       "Local declared twice",
	InputBadLocalType:         "Unsupported local type",
	LowUnsupportedOperator:    "Unsupported operator",
	LowTypeMismatch:           "Operand types differ",
	LowUnsupportedOperandType: "Operand type not supported by operator",
	LowUnsupportedDestination: "Destination cannot be assigned",
	LowUnresolvedOperand:      "Operand does not resolve",
	LowArityMismatch:          "Wrong number of operands",
	LowInternal:               "Internal lowering error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
