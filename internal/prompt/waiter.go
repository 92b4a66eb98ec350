package prompt

import (
	"errors"
	"time"

	"github.com/loykin/hallfill/internal/console"
	"github.com/loykin/hallfill/internal/transcript"
)

// Result classifies the outcome of one bounded wait.
type Result int

const (
	Matched Result = iota
	TimedOut
	ChannelFailed
)

func (r Result) String() string {
	switch r {
	case Matched:
		return "matched"
	case TimedOut:
		return "timed-out"
	case ChannelFailed:
		return "channel-failed"
	default:
		return "unknown"
	}
}

// previewLen bounds the trailing output attached to a detection.
const previewLen = 200

// Detection is the outcome of Waiter.WaitFor. When Result is Matched,
// Index and Pattern identify the winning pattern within the set. Preview
// carries trailing output for diagnostics in every case. Err is set only
// for ChannelFailed.
type Detection struct {
	Result  Result
	Index   int
	Pattern string
	Preview string
	Err     error
}

// OK reports whether the expected prompt was observed.
func (d Detection) OK() bool { return d.Result == Matched }

// Waiter absorbs external timing nondeterminism: it performs one bounded
// wait per call, records the outcome to the transcript, and never retries.
// Callers decide locally whether to retry, proceed anyway, or abort.
type Waiter struct {
	ch  console.Channel
	rec transcript.Recorder
}

func NewWaiter(ch console.Channel, rec transcript.Recorder) *Waiter {
	if rec == nil {
		rec = transcript.Nop{}
	}
	return &Waiter{ch: ch, rec: rec}
}

// WaitFor consumes channel output until a pattern in set matches or
// timeout elapses. Timeouts and channel failures are reported in the
// Detection, never as errors.
func (w *Waiter) WaitFor(set Set, timeout time.Duration) Detection {
	m, err := w.ch.ReadUntil(set.Patterns(), timeout)
	switch {
	case err == nil:
		d := Detection{
			Result:  Matched,
			Index:   m.Index,
			Pattern: set.exprs[m.Index],
			Preview: runeTail(m.Before, previewLen),
		}
		w.rec.Record(transcript.Event{
			Time:    time.Now(),
			Kind:    transcript.KindDetect,
			Message: "prompt detected: " + set.name,
			Detail:  d.Pattern,
		})
		return d
	default:
		var te *console.TimeoutError
		if errors.As(err, &te) {
			w.rec.Record(transcript.Event{
				Time:    time.Now(),
				Kind:    transcript.KindTimeout,
				Message: "prompt wait timed out: " + set.name,
				Detail:  te.Preview,
			})
			return Detection{Result: TimedOut, Preview: te.Preview}
		}
		w.rec.Record(transcript.Event{
			Time:    time.Now(),
			Kind:    transcript.KindError,
			Message: "channel failed while waiting: " + set.name,
			Detail:  err.Error(),
		})
		return Detection{Result: ChannelFailed, Err: err}
	}
}

// runeTail returns the last n bytes of s without splitting a UTF-8
// sequence.
func runeTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && s[cut]&0xC0 == 0x80 {
		cut++
	}
	return s[cut:]
}
