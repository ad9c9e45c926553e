package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	read := tm.Begin("read")
	tm.End(read, "3 functions")
	lower := tm.Begin("lower")
	tm.End(lower, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 || report.Phases[0].Name != "read" || report.Phases[1].Name != "lower" {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %v below a phase", report.TotalMS)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "read", "// 3 functions", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
