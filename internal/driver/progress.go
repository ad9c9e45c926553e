package driver

import "time"

// Status captures the progress state of one function.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "lowering"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Finished reports whether no further events follow for the function.
func (s Status) Finished() bool {
	return s == StatusCached || s == StatusDone || s == StatusError
}

// Event reports progress for the function at Index within its unit.
type Event struct {
	Index    int
	Function string
	Status   Status
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines at once.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
