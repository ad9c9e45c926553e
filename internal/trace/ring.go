package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the most recent events of a translation in memory so they
// can be printed when a function fails to lower.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	next   int    // slot the next event goes to
	seen   uint64 // events accepted since creation
	level  Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.next] = stored
	t.next = (t.next + 1) % len(t.events)
	t.seen++
}

// Snapshot returns the kept events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.seen < uint64(len(t.events)) {
		return append([]Event(nil), t.events[:t.next]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// Overwritten reports how many events were pushed out of the ring.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.seen <= uint64(len(t.events)) {
		return 0
	}
	return t.seen - uint64(len(t.events))
}

// Dump writes the kept events. The text form starts with a note when older
// events were lost.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if lost := t.Overwritten(); lost > 0 && format == FormatText {
		if _, err := fmt.Fprintf(w, "# %d earlier event(s) dropped\n", lost); err != nil {
			return err
		}
	}
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
