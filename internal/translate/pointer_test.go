package translate

import (
	"errors"
	"strings"
	"testing"

	"gccbridge/internal/gimple"
)

func TestPointerLocals(t *testing.T) {
	h := newHarness(t, Options{}, gimple.LocalDecl{Name: "s", Type: pi32}, gimple.LocalDecl{Name: "d", Type: gimple.PointerTo(f64)})
	var decls []string
	for _, d := range h.body.Decls() {
		decls = append(decls, d.Type+" "+d.Name)
	}
	want := "int[] s$array|int s$offset|double[] d$array|int d$offset"
	if got := strings.Join(decls, "|"); got != want {
		t.Fatalf("decls = %s, want %s", got, want)
	}
}

func TestPointerPlus(t *testing.T) {
	cases := []struct {
		name  string
		bytes gimple.Operand
		want  []string
	}{
		{
			name:  "constant",
			bytes: gimple.IntConst(8, i32),
			want:  []string{"s$array = u$array;", "s$offset = u$offset + 2;"},
		},
		{
			name:  "variable",
			bytes: v("a", i32),
			want:  []string{"$t0 = a / 4;", "s$array = u$array;", "s$offset = u$offset + $t0;"},
		},
		{
			name:  "long variable",
			bytes: v("l", i64),
			want:  []string{"$t0 = (int) l;", "$t1 = $t0 / 4;", "s$array = u$array;", "s$offset = u$offset + $t1;"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.translate(t, gimple.Assign(gimple.OpPointerPlus, v("s", pi32), v("u", pi32), tc.bytes))
			if got := h.text(); strings.Join(got, "\n") != strings.Join(tc.want, "\n") {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPointerPlusErrors(t *testing.T) {
	h := newHarness(t, Options{})
	cases := []struct {
		in   gimple.Instruction
		want error
	}{
		{gimple.Assign(gimple.OpPointerPlus, v("c", i32), v("a", i32), gimple.IntConst(4, i32)), UnsupportedOperandType},
		{gimple.Assign(gimple.OpPointerPlus, v("s", pi32), v("u", pi32), gimple.IntConst(3, i32)), UnsupportedOperandType},
		{gimple.Assign(gimple.OpPointerPlus, v("s", pi32), v("u", pi32), v("x", f64)), UnsupportedOperandType},
		{gimple.Assign(gimple.OpPointerPlus, v("c", i32), v("u", pi32), gimple.IntConst(4, i32)), UnsupportedOperandType},
	}
	for _, tc := range cases {
		if err := h.tr.Translate(tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.in, err, tc.want)
		}
	}
	if h.body.Len() != 0 {
		t.Fatalf("failed lowerings emitted %q", h.text())
	}
}

func TestDerefRead(t *testing.T) {
	h := newHarness(t, Options{})
	h.translate(t, gimple.Assign(gimple.OpMemRef, v("c", i32), gimple.Deref("s", i32, 8)))
	want := []string{"$t0 = s$offset + 2;", "$t1 = s$array[$t0];", "c = $t1;"}
	if got := h.text(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDerefWrite(t *testing.T) {
	h := newHarness(t, Options{})
	h.translate(t, gimple.Assign(gimple.OpVarDecl, gimple.Deref("s", i32, 0), v("a", i32)))
	h.translate(t, gimple.Assign(gimple.OpPlus, gimple.Deref("s", i32, 4), v("a", i32), v("b", i32)))
	want := []string{
		"s$array[s$offset] = a;",
		"$t0 = a + b;",
		"$t1 = s$offset + 1;",
		"s$array[$t1] = $t0;",
	}
	if got := h.text(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestDerefComparisonStore(t *testing.T) {
	h := newHarness(t, Options{}, gimple.LocalDecl{Name: "flags", Type: gimple.PointerTo(boo)},
		gimple.LocalDecl{Name: "a", Type: i32}, gimple.LocalDecl{Name: "b", Type: i32})
	h.translate(t, gimple.Assign(gimple.OpLt, gimple.Deref("flags", boo, 0), v("a", i32), v("b", i32)))
	got := strings.Join(h.text(), "\n")
	for _, want := range []string{"flags$array[flags$offset] = 0;", "flags$array[flags$offset] = 1;"} {
		if !strings.Contains(got, want) {
			t.Errorf("body lacks %q:\n%s", want, got)
		}
	}
}

func TestDerefTypeChecked(t *testing.T) {
	h := newHarness(t, Options{})
	cases := []struct {
		op   gimple.Operand
		want error
	}{
		{gimple.Deref("s", f64, 0), TypeMismatch},
		{gimple.Deref("a", i32, 0), UnsupportedOperandType},
		{gimple.Deref("nope", i32, 0), UnresolvedOperand},
	}
	for _, tc := range cases {
		err := h.tr.Translate(gimple.Assign(gimple.OpMemRef, v("c", i32), tc.op))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.op, err, tc.want)
		}
	}
}

func TestPointerCopy(t *testing.T) {
	h := newHarness(t, Options{})
	h.translate(t, gimple.Assign(gimple.OpVarDecl, v("s", pi32), v("u", pi32)))
	want := []string{"s$array = u$array;", "s$offset = u$offset;"}
	if got := h.text(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %q", got)
	}
	err := h.tr.Translate(gimple.Assign(gimple.OpVarDecl, v("s", pi32), v("a", i32)))
	if !errors.Is(err, UnsupportedOperandType) {
		t.Fatalf("err = %v", err)
	}
}
