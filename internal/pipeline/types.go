// Package pipeline describes the stages a file goes through in a formatting
// run and the progress events the driver reports about them.
package pipeline

import (
	"sync"
	"time"
)

// Stage describes a step of the per-file pipeline.
type Stage string

const (
	// StageRead loads the file and resolves its settings.
	StageRead Stage = "read"
	// StageParse tokenizes and parses the file.
	StageParse Stage = "parse"
	// StageFormat prints and renders the layout document.
	StageFormat Stage = "format"
	// StageWrite writes the result back to disk.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is in the given stage.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished and unchanged or rewritten.
	StatusDone Status = "done"
	// StatusChanged indicates that formatting would change the file (check mode).
	StatusChanged Status = "changed"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	switch s {
	case StatusDone, StatusChanged, StatusCached, StatusError:
		return true
	}
	return false
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: the driver emits from several workers.
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

// Emit sends evt to sink when it is set.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Timings accumulates durations per stage across files.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
}

// Add adds dur to the total of stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t *Timings) Has(stage Stage) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded total for stage.
func (t *Timings) Duration(stage Stage) time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}
