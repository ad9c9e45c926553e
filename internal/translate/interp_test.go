package translate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"gccbridge/internal/jimple"
)

// run executes a lowered body over env and returns the final locals. It
// understands the statement forms the translator emits and nothing more.
func run(t *testing.T, lines []jimple.Line, env map[string]float64) map[string]float64 {
	t.Helper()
	vars := make(map[string]float64, len(env))
	for k, v := range env {
		vars[k] = v
	}
	labels := make(map[string]int)
	for i, l := range lines {
		if l.Kind == jimple.LineLabel {
			labels[l.Text] = i
		}
	}

	jump := func(label string) int {
		target, ok := labels[label]
		if !ok {
			t.Fatalf("jump to undefined label %q", label)
		}
		return target
	}

	for pc, steps := 0, 0; pc < len(lines); steps++ {
		if steps > 10_000 {
			t.Fatalf("body does not terminate")
		}
		l := lines[pc]
		pc++
		if l.Kind == jimple.LineLabel {
			continue
		}
		stmt := l.Text
		switch {
		case strings.HasPrefix(stmt, "if "):
			cond, label, ok := strings.Cut(strings.TrimPrefix(stmt, "if "), " goto ")
			if !ok {
				t.Fatalf("malformed branch %q", stmt)
			}
			if eval(t, vars, cond) != 0 {
				pc = jump(label)
			}
		case strings.HasPrefix(stmt, "goto "):
			pc = jump(strings.TrimPrefix(stmt, "goto "))
		default:
			lhs, rhs, ok := strings.Cut(stmt, " = ")
			if !ok {
				t.Fatalf("unknown statement %q", stmt)
			}
			vars[lhs] = eval(t, vars, rhs)
		}
	}
	return vars
}

var invokeRE = regexp.MustCompile(`^staticinvoke <[^:]+: \S+ (\w+)\([^)]*\)>\((.*)\)$`)

func eval(t *testing.T, vars map[string]float64, expr string) float64 {
	t.Helper()
	if m := invokeRE.FindStringSubmatch(expr); m != nil {
		var args []float64
		for _, a := range strings.Split(m[2], ", ") {
			args = append(args, operand(t, vars, a))
		}
		switch m[1] {
		case "abs":
			return math.Abs(args[0])
		case "max":
			return math.Max(args[0], args[1])
		case "unordered":
			return boolValue(math.IsNaN(args[0]) || math.IsNaN(args[1]))
		}
		t.Fatalf("unknown runtime method %q", m[1])
	}

	f := strings.Fields(expr)
	switch {
	case len(f) == 1:
		return operand(t, vars, f[0])
	case len(f) == 2 && f[0] == "neg":
		return -operand(t, vars, f[1])
	case len(f) == 2 && strings.HasPrefix(f[0], "("):
		v := operand(t, vars, f[1])
		switch f[0] {
		case "(float)", "(double)":
			return v
		}
		return math.Trunc(v)
	case len(f) == 3 && strings.HasPrefix(f[0], "cmp"):
		a := operand(t, vars, strings.TrimSuffix(f[1], ","))
		b := operand(t, vars, f[2])
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			if f[0] == "cmpg" {
				return 1
			}
			return -1
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case len(f) == 3:
		a, b := operand(t, vars, f[0]), operand(t, vars, f[2])
		switch f[1] {
		case "+":
			return a + b
		case "-":
			return a - b
		case "*":
			return a * b
		case "/":
			return a / b
		case "%":
			return math.Mod(a, b)
		case "^":
			return float64(int64(a) ^ int64(b))
		case "==":
			return boolValue(a == b)
		case "!=":
			return boolValue(a != b)
		case "<":
			return boolValue(a < b)
		case "<=":
			return boolValue(a <= b)
		case ">":
			return boolValue(a > b)
		case ">=":
			return boolValue(a >= b)
		}
	}
	t.Fatalf("cannot evaluate %q", expr)
	return 0
}

func operand(t *testing.T, vars map[string]float64, tok string) float64 {
	t.Helper()
	if v, ok := vars[tok]; ok {
		return v
	}
	lit := strings.TrimRight(tok, "LF")
	switch lit {
	case "#NaN":
		return math.NaN()
	case "#Infinity":
		return math.Inf(1)
	case "#-Infinity":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		t.Fatalf("unbound operand %q", tok)
	}
	return v
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
