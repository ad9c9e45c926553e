package gimple

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Kind enumerates primitive type families.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindReal
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers and reals in bits.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact structural descriptor. Two types are equal iff their
// descriptors compare equal with ==; there is no implicit widening.
type Type struct {
	Kind        Kind
	Width       Width
	Unsigned    bool  // integers only
	Indirection uint8 // pointer depth, 0 for primitives
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInteger, Width: width}
}

// MakeUint describes an unsigned integer.
func MakeUint(width Width) Type {
	return Type{Kind: KindInteger, Width: width, Unsigned: true}
}

// MakeReal describes a floating-point type.
func MakeReal(width Width) Type {
	return Type{Kind: KindReal, Width: width}
}

// MakeBool describes the GIMPLE boolean type. GCC stores booleans in 8 bits.
func MakeBool() Type {
	return Type{Kind: KindBoolean, Width: Width8}
}

// PointerTo adds one level of indirection.
func PointerTo(t Type) Type {
	t.Indirection++
	return t
}

// Pointee strips one level of indirection.
func (t Type) Pointee() (Type, bool) {
	if t.Indirection == 0 {
		return Type{}, false
	}
	t.Indirection--
	return t, true
}

// IsPointer reports whether t has at least one level of indirection.
func (t Type) IsPointer() bool { return t.Indirection > 0 }

// IsPrimitive reports whether t is a scalar integer, real or boolean.
func (t Type) IsPrimitive() bool {
	return t.Indirection == 0 && t.Kind != KindInvalid
}

// IsValid reports whether the descriptor names a supported type.
func (t Type) IsValid() bool {
	switch t.Kind {
	case KindInteger, KindReal:
		return validWidth(t.Width) && !(t.Kind == KindReal && (t.Width < Width32 || t.Unsigned))
	case KindBoolean:
		return !t.Unsigned
	default:
		return false
	}
}

// SizeBytes returns the storage size of the pointee-free type.
func (t Type) SizeBytes() int {
	if t.Indirection > 0 {
		return 8
	}
	return int(t.Width) / 8
}

func validWidth(w Width) bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// String renders the type as it is spelled in unit files: int32, uint8,
// real64, bool, with one trailing '*' per indirection level.
func (t Type) String() string {
	var sb strings.Builder
	switch t.Kind {
	case KindInteger:
		if t.Unsigned {
			sb.WriteString("u")
		}
		sb.WriteString("int")
		sb.WriteString(strconv.Itoa(int(t.Width)))
	case KindReal:
		sb.WriteString("real")
		sb.WriteString(strconv.Itoa(int(t.Width)))
	case KindBoolean:
		sb.WriteString("bool")
	default:
		sb.WriteString("invalid")
	}
	for i := uint8(0); i < t.Indirection; i++ {
		sb.WriteByte('*')
	}
	return sb.String()
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	base := strings.TrimRight(s, "*")
	depth, err := safecast.Conv[uint8](len(s) - len(base))
	if err != nil {
		return Type{}, fmt.Errorf("type %q: indirection overflow: %w", s, err)
	}

	var t Type
	switch {
	case base == "bool" || base == "boolean":
		t = MakeBool()
	case strings.HasPrefix(base, "uint"):
		w, err := parseWidth(base[len("uint"):])
		if err != nil {
			return Type{}, fmt.Errorf("type %q: %w", s, err)
		}
		t = MakeUint(w)
	case strings.HasPrefix(base, "int"):
		w, err := parseWidth(base[len("int"):])
		if err != nil {
			return Type{}, fmt.Errorf("type %q: %w", s, err)
		}
		t = MakeInt(w)
	case strings.HasPrefix(base, "real"):
		w, err := parseWidth(base[len("real"):])
		if err != nil {
			return Type{}, fmt.Errorf("type %q: %w", s, err)
		}
		t = MakeReal(w)
	default:
		return Type{}, fmt.Errorf("unknown type %q", s)
	}
	if !t.IsValid() {
		return Type{}, fmt.Errorf("unsupported type %q", s)
	}
	t.Indirection = depth
	return t, nil
}

func parseWidth(s string) (Width, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad width %q", s)
	}
	w, err := safecast.Conv[uint8](n)
	if err != nil {
		return 0, fmt.Errorf("width %d overflow: %w", n, err)
	}
	if !validWidth(Width(w)) {
		return 0, fmt.Errorf("unsupported width %d", n)
	}
	return Width(w), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid type")
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
