// Package transcript is the run log of the automation: every send,
// detection, timeout and failure is recorded as a timestamped event.
// The Recorder is injected into the workflow so the core carries no
// process-wide logging state and tests can capture events in memory.
package transcript

import (
	"log/slog"
	"sync"
	"time"
)

// Kind classifies a transcript event.
type Kind string

const (
	KindInfo    Kind = "info"    // lifecycle notes (boot, phase changes)
	KindSend    Kind = "send"    // a line written to the target
	KindDetect  Kind = "detect"  // a prompt pattern matched
	KindTimeout Kind = "timeout" // a bounded wait elapsed without a match
	KindError   Kind = "error"   // a channel or record failure
	KindSummary Kind = "summary" // final success/total line
)

// Event is one transcript entry. Detail carries the pattern, sent value
// or output preview depending on Kind; it may be empty.
type Event struct {
	Time    time.Time
	Kind    Kind
	Message string
	Detail  string
}

// Recorder receives transcript events. Implementations must tolerate
// being called from the single workflow goroutine only.
type Recorder interface {
	Record(e Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Record(Event) {}

// Memory collects events for inspection in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(e Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Kinds returns the recorded kinds in order.
func (m *Memory) Kinds() []Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Kind, len(m.events))
	for i, e := range m.events {
		out[i] = e.Kind
	}
	return out
}

// Slog adapts a *slog.Logger into a Recorder. Timeouts log at Warn,
// errors at Error, everything else at Info.
type Slog struct {
	l *slog.Logger
}

func NewSlog(l *slog.Logger) *Slog { return &Slog{l: l} }

func (s *Slog) Record(e Event) {
	attrs := make([]any, 0, 4)
	attrs = append(attrs, "kind", string(e.Kind))
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}
	switch e.Kind {
	case KindTimeout:
		s.l.Warn(e.Message, attrs...)
	case KindError:
		s.l.Error(e.Message, attrs...)
	default:
		s.l.Info(e.Message, attrs...)
	}
}

// Tee fans one event out to several recorders.
type Tee []Recorder

func (t Tee) Record(e Event) {
	for _, r := range t {
		r.Record(e)
	}
}
