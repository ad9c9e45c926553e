package gimple

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the packed unit layout changes.
const unitSchemaVersion uint16 = 1

// PackedExt is the file extension of msgpack-encoded units.
const PackedExt = ".gimple"

type unitPayload struct {
	Schema uint16
	Unit   Unit
}

// EncodeMsgpack writes the operator by name so packed units survive reordering
// of the enum.
func (op Operator) EncodeMsgpack(enc *msgpack.Encoder) error {
	text, err := op.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(text))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (op *Operator) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return op.UnmarshalText([]byte(s))
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t Type) EncodeMsgpack(enc *msgpack.Encoder) error {
	text, err := t.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(text))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *Type) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (k OperandKind) EncodeMsgpack(enc *msgpack.Encoder) error {
	text, err := k.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(text))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (k *OperandKind) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// EncodeUnit writes u in the packed msgpack form.
func EncodeUnit(w io.Writer, u *Unit) error {
	if u == nil {
		return fmt.Errorf("nil unit")
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(&unitPayload{Schema: unitSchemaVersion, Unit: *u}); err != nil {
		return fmt.Errorf("encode unit %q: %w", u.Source, err)
	}
	return nil
}

// DecodeUnit reads a packed unit written by EncodeUnit.
func DecodeUnit(r io.Reader) (*Unit, error) {
	var payload unitPayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode packed unit: %w", err)
	}
	if payload.Schema != unitSchemaVersion {
		return nil, fmt.Errorf("packed unit schema %d, want %d", payload.Schema, unitSchemaVersion)
	}
	return &payload.Unit, nil
}

// DecodeUnitJSON reads the human-editable JSON form of a unit.
func DecodeUnitJSON(r io.Reader) (*Unit, error) {
	var u Unit
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode json unit: %w", err)
	}
	return &u, nil
}

// ReadUnitFile loads a unit, choosing the codec by file extension. The unit's
// Source defaults to the file's base name.
func ReadUnitFile(path string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var u *Unit
	switch strings.ToLower(filepath.Ext(path)) {
	case PackedExt, ".msgpack":
		u, err = DecodeUnit(f)
	case ".json":
		u, err = DecodeUnitJSON(f)
	default:
		return nil, fmt.Errorf("%s: unrecognised unit extension (want .json or %s)", path, PackedExt)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if u.Source == "" {
		u.Source = filepath.Base(path)
	}
	return u, nil
}
