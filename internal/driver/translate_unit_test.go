package driver

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gccbridge/internal/config"
	"gccbridge/internal/diag"
	"gccbridge/internal/gimple"
)

var (
	i32 = gimple.MakeInt(gimple.Width32)
	f64 = gimple.MakeReal(gimple.Width64)
)

func addFunction(name string) gimple.Function {
	return gimple.Function{
		Name: name,
		Locals: []gimple.LocalDecl{
			{Name: "a", Type: i32},
			{Name: "b", Type: i32},
			{Name: "c", Type: i32},
		},
		Body: []gimple.Instruction{
			gimple.Assign(gimple.OpPlus, gimple.Var("c", i32), gimple.Var("a", i32), gimple.Var("b", i32)),
		},
	}
}

func testConfig(jobs int) config.Config {
	cfg := config.Default()
	cfg.Translate.Jobs = jobs
	return cfg
}

func TestTranslateUnitKeepsSourceOrder(t *testing.T) {
	u := &gimple.Unit{Source: "order.json"}
	names := []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7"}
	for _, n := range names {
		u.Functions = append(u.Functions, addFunction(n))
	}

	res, err := TranslateUnit(context.Background(), u, testConfig(4))
	if err != nil {
		t.Fatalf("TranslateUnit: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	for i, fr := range res.Functions {
		if fr.Name != names[i] {
			t.Errorf("Functions[%d] = %s, want %s", i, fr.Name, names[i])
		}
		if fr.Failed || fr.Lowered != 1 {
			t.Errorf("%s: failed=%v lowered=%d", fr.Name, fr.Failed, fr.Lowered)
		}
	}
}

func TestTranslateUnitIsolatesFailures(t *testing.T) {
	bad := gimple.Function{
		Name: "bad",
		Locals: []gimple.LocalDecl{
			{Name: "x", Type: i32},
			{Name: "d", Type: f64},
		},
		Body: []gimple.Instruction{
			gimple.Assign(gimple.OpIntegerCst, gimple.Var("x", i32), gimple.IntConst(3, i32)),
			gimple.Assign(gimple.OpMax, gimple.Var("d", f64), gimple.Var("x", i32), gimple.Var("x", i32)),
			gimple.Assign(gimple.OpIntegerCst, gimple.Var("x", i32), gimple.IntConst(4, i32)),
		},
	}
	u := &gimple.Unit{Source: "mixed.json", Functions: []gimple.Function{bad, addFunction("good")}}

	res, err := TranslateUnit(context.Background(), u, testConfig(2))
	if err != nil {
		t.Fatalf("TranslateUnit: %v", err)
	}

	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("want 1 diagnostic, got %v", items)
	}
	d := items[0]
	if d.Code != diag.LowTypeMismatch || d.Function != "bad" || d.Instr != 1 || d.Source != "mixed.json" {
		t.Errorf("diagnostic = %+v", d)
	}
	if !strings.Contains(d.Text, "MAX_EXPR") {
		t.Errorf("diagnostic text %q lacks the instruction", d.Text)
	}

	if fr := res.Functions[0]; !fr.Failed || fr.Lowered != 1 {
		t.Errorf("bad: failed=%v lowered=%d", fr.Failed, fr.Lowered)
	}
	// The failed instruction leaves nothing behind.
	if got := res.Functions[0].Body.Len(); got != 1 {
		t.Errorf("bad body has %d lines, want 1", got)
	}
	if res.Functions[1].Failed {
		t.Errorf("good failed")
	}
	if res.Emitted() != 1 {
		t.Errorf("Emitted = %d, want 1", res.Emitted())
	}

	var out bytes.Buffer
	if err := res.WriteClass(&out, "Mixed"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "bad()") {
		t.Errorf("failed function emitted:\n%s", out.String())
	}
}

func TestTranslateUnitLocalErrors(t *testing.T) {
	cases := []struct {
		name   string
		locals []gimple.LocalDecl
		want   diag.Code
	}{
		{
			name:   "duplicate",
			locals: []gimple.LocalDecl{{Name: "a", Type: i32}, {Name: "a", Type: i32}},
			want:   diag.InputDuplicateLocal,
		},
		{
			name:   "pointer to pointer",
			locals: []gimple.LocalDecl{{Name: "pp", Type: gimple.PointerTo(gimple.PointerTo(i32))}},
			want:   diag.InputBadLocalType,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &gimple.Unit{Functions: []gimple.Function{{Name: "f", Locals: tc.locals}}}
			res, err := TranslateUnit(context.Background(), u, testConfig(1))
			if err != nil {
				t.Fatal(err)
			}
			items := res.Bag.Items()
			if len(items) != 1 {
				t.Fatalf("want 1 diagnostic, got %v", items)
			}
			if items[0].Code != tc.want {
				t.Errorf("code = %s, want %s", items[0].Code.ID(), tc.want.ID())
			}
			if items[0].Instr != diag.NoInstr {
				t.Errorf("instr = %d, want none", items[0].Instr)
			}
		})
	}
}

func TestTranslateUnitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := &gimple.Unit{Functions: []gimple.Function{addFunction("f")}}
	_, err := TranslateUnit(ctx, u, testConfig(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWriteClass(t *testing.T) {
	u := &gimple.Unit{Functions: []gimple.Function{addFunction("add")}}
	res, err := TranslateUnit(context.Background(), u, testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := res.WriteClass(&out, "Demo"); err != nil {
		t.Fatal(err)
	}
	want := `public class Demo extends java.lang.Object
{
public static void add()
{
    int a;
    int b;
    int c;

    c = a + b;
}
}
`
	if out.String() != want {
		t.Errorf("WriteClass:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestTranslateUnitCached(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	u := &gimple.Unit{Functions: []gimple.Function{addFunction("add"), addFunction("sum")}}
	cfg := testConfig(2)

	first, err := TranslateUnitCached(context.Background(), u, cfg, cache)
	if err != nil {
		t.Fatal(err)
	}
	second, err := TranslateUnitCached(context.Background(), u, cfg, cache)
	if err != nil {
		t.Fatal(err)
	}
	for i := range second.Functions {
		if first.Functions[i].Cached || !second.Functions[i].Cached {
			t.Errorf("%s: cached first=%v second=%v", u.Functions[i].Name, first.Functions[i].Cached, second.Functions[i].Cached)
		}
	}

	var a, b bytes.Buffer
	if err := first.WriteClass(&a, "C"); err != nil {
		t.Fatal(err)
	}
	if err := second.WriteClass(&b, "C"); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Fatalf("cached output differs:\n%s\nvs\n%s", b.String(), a.String())
	}

	// Different naming produces different bodies and must miss.
	cfg.Naming.LabelPrefix = "L"
	third, err := TranslateUnitCached(context.Background(), u, cfg, cache)
	if err != nil {
		t.Fatal(err)
	}
	if third.Functions[0].Cached {
		t.Errorf("config change still hit the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	key, err := FunctionKey(&u.Functions[0], cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("entry survived DropAll: ok=%v err=%v", ok, err)
	}
}

func TestFailedFunctionsAreNotCached(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fn := addFunction("f")
	fn.Body = append(fn.Body, gimple.Assign(gimple.OpAbs, gimple.Var("c", i32), gimple.Var("x", f64)))
	u := &gimple.Unit{Functions: []gimple.Function{fn}}

	for i := 0; i < 2; i++ {
		res, err := TranslateUnitCached(context.Background(), u, testConfig(1), cache)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Functions[0].Failed || res.Functions[0].Cached {
			t.Fatalf("run %d: failed=%v cached=%v", i, res.Functions[0].Failed, res.Functions[0].Cached)
		}
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestTranslateUnitReportsProgress(t *testing.T) {
	bad := addFunction("bad")
	bad.Body[0].Operands[1] = gimple.Var("b", f64)
	u := &gimple.Unit{Source: "progress.json", Functions: []gimple.Function{addFunction("ok"), bad}}

	sink := &recordingSink{}
	if _, err := TranslateUnitWith(context.Background(), u, testConfig(2), Options{Progress: sink}); err != nil {
		t.Fatal(err)
	}

	final := map[int]Status{}
	for _, ev := range sink.events {
		if prev, seen := final[ev.Index]; seen && prev.Finished() {
			t.Fatalf("event %+v after %s", ev, prev)
		}
		final[ev.Index] = ev.Status
	}
	if final[0] != StatusDone || final[1] != StatusError {
		t.Fatalf("final statuses = %v", final)
	}
	if got := len(sink.events); got != 6 {
		t.Fatalf("got %d events, want queued, lowering and a result per function", got)
	}
}
