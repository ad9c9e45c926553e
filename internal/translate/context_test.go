package translate

import (
	"errors"
	"testing"

	"gccbridge/internal/gimple"
	"gccbridge/internal/jimple"
)

func TestStackVarDeclaresOnConstruction(t *testing.T) {
	body := jimple.NewBuilder()
	ctx, err := NewFunctionContext("f", body, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sv, err := NewPrimitiveStackVar(ctx, gimple.MakeUint(gimple.Width16), "x.1")
	if err != nil {
		t.Fatal(err)
	}
	decls := body.Decls()
	if len(decls) != 1 || decls[0].Type != "char" || decls[0].Name != "x$1" {
		t.Fatalf("decls = %+v", decls)
	}
	if body.Len() != 0 {
		t.Fatalf("construction emitted statements")
	}
	if sv.Name() != "x$1" {
		t.Fatalf("Name = %s", sv.Name())
	}

	if err := sv.WritePrimitiveAssignment(ctx, "65"); err != nil {
		t.Fatal(err)
	}
	if got := body.Lines()[0].String(); got != "x$1 = 65;" {
		t.Fatalf("store = %q", got)
	}
}

func TestDeclareLocalIsCollisionFree(t *testing.T) {
	ctx, err := NewFunctionContext("f", jimple.NewBuilder(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{
		ctx.DeclareLocal("int", "x.1"),
		ctx.DeclareLocal("int", "x$1"),
		ctx.DeclareLocal("int", "x$1"),
		ctx.DeclareLocal("int", "if"),
	}
	want := []string{"x$1", "x$1_1", "x$1_2", "if_"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DeclareLocal #%d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTempsAvoidLocals(t *testing.T) {
	ctx, err := NewFunctionContext("f", jimple.NewBuilder(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx.DeclareLocal("int", "$t0")
	if got := ctx.NewTemp("int"); got != "$t1" {
		t.Fatalf("NewTemp = %s, want $t1", got)
	}
}

func TestNewFunctionContextRejectsBadInput(t *testing.T) {
	if _, err := NewFunctionContext("f", nil, Options{}); err == nil {
		t.Errorf("nil builder accepted")
	}
	if _, err := NewFunctionContext("f", jimple.NewBuilder(), Options{LabelStart: -1}); err == nil {
		t.Errorf("negative label start accepted")
	}
}

func TestFailedInstructionKeepsNamesReserved(t *testing.T) {
	h := newHarness(t, Options{})
	// The comparison allocates labels before the constant destination is
	// rejected.
	err := h.tr.Translate(gimple.Assign(gimple.OpGt, gimple.IntConst(0, boo), v("a", i32), v("b", i32)))
	if !errors.Is(err, UnsupportedDestination) {
		t.Fatalf("err = %v", err)
	}
	h.translate(t, gimple.Assign(gimple.OpGt, v("r", boo), v("a", i32), v("b", i32)))
	if l := h.labels(); len(l) != 2 || l[0] != "label2" {
		t.Fatalf("labels after a failed instruction = %v", l)
	}
}

func TestConstantCapabilities(t *testing.T) {
	c := NewIntConstant(i32, 7)
	if c.Capabilities().Has(CapWritePrimitive) || c.Capabilities().Has(CapWriteGeneral) {
		t.Fatalf("constants are not writable")
	}
	ctx, err := NewFunctionContext("f", jimple.NewBuilder(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.WritePrimitiveAssignment(ctx, "1"); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := c.PointerParts(ctx); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("err = %v", err)
	}
	if err := AssignPrimitive(ctx, c, NewIntConstant(i32, 1)); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("err = %v", err)
	}
}

func TestPrimitiveTargetName(t *testing.T) {
	cases := map[gimple.Type]string{
		gimple.MakeBool():               "boolean",
		gimple.MakeInt(gimple.Width8):   "byte",
		gimple.MakeUint(gimple.Width8):  "byte",
		gimple.MakeInt(gimple.Width16):  "short",
		gimple.MakeUint(gimple.Width16): "char",
		gimple.MakeInt(gimple.Width32):  "int",
		gimple.MakeInt(gimple.Width64):  "long",
		gimple.MakeReal(gimple.Width32): "float",
		gimple.MakeReal(gimple.Width64): "double",
	}
	for typ, want := range cases {
		got, err := PrimitiveTargetName(typ)
		if err != nil || got != want {
			t.Errorf("PrimitiveTargetName(%s) = %q, %v; want %q", typ, got, err, want)
		}
	}
	if _, err := PrimitiveTargetName(pi32); !errors.Is(err, UnsupportedOperandType) {
		t.Errorf("pointer: err = %v", err)
	}
}

func TestAssertSameType(t *testing.T) {
	a, b := NewIntConstant(i32, 1), NewIntConstant(i32, 2)
	if err := AssertSameType(a, b, a); err != nil {
		t.Fatal(err)
	}
	err := AssertSameType(a, b, NewIntConstant(gimple.MakeUint(gimple.Width32), 3))
	var te *Error
	if !errors.As(err, &te) || te.Kind != TypeMismatch || len(te.Types) != 3 {
		t.Fatalf("err = %#v", err)
	}
	if !IsDouble(f64) || IsDouble(f32) || !IsInt32(gimple.MakeUint(gimple.Width32)) || IsInt32(i64) {
		t.Fatalf("width predicates")
	}
}
