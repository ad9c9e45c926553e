package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"gccbridge/internal/driver"
)

func TestApplyEventCountsFinishedOnce(t *testing.T) {
	m := NewProgressModel("unit.c", []string{"f", "g"}, nil).(*progressModel)
	m.applyEvent(driver.Event{Index: 0, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Index: 0, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Index: 0, Status: driver.StatusError})
	m.applyEvent(driver.Event{Index: 1, Status: driver.StatusError})
	m.applyEvent(driver.Event{Index: 7, Status: driver.StatusDone})

	if m.finished != 2 || m.failed != 1 {
		t.Fatalf("finished=%d failed=%d", m.finished, m.failed)
	}
	if m.items[0].status != driver.StatusDone {
		t.Fatalf("finished status overwritten: %s", m.items[0].status)
	}
	view := m.View()
	for _, want := range []string{"unit.c (2/2), 1 failed", "f", "g"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"averyveryverylongname", 10, "averyve..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.width)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
		if tc.width > 0 && runewidth.StringWidth(got) > tc.width {
			t.Errorf("truncate(%q, %d) too wide", tc.in, tc.width)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	model := NewProgressModel("unit.c", []string{"f"}, nil)
	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd != nil || Interrupted(model) {
		t.Fatalf("plain key should be ignored")
	}
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !Interrupted(model) {
		t.Fatalf("ctrl+c should quit the view")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c command is not tea.Quit")
	}
}
