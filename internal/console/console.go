// Package console owns the byte channel to the target program: a spawned
// child on a pseudo-terminal whose output is decoded with a single fixed
// legacy double-byte encoding (GBK). There is no encoding detection; the
// one target program runs in a GBK locale and nothing else is supported.
//
// The Channel interface is deliberately narrow (read-with-timeout,
// write-line, close) so the workflow above it is platform-agnostic and
// testable against in-memory streams.
package console

import (
	"io"
	"regexp"
	"sync"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Match describes a successful ReadUntil: which pattern hit, the decoded
// text preceding the match, and the matched text itself.
type Match struct {
	Index  int
	Before string
	Text   string
}

// Channel is a line-oriented interactive channel to the target program.
// Operations are strictly sequential; there is a single consumer.
type Channel interface {
	// ReadUntil consumes output until one of patterns matches or timeout
	// elapses. First match by stream position wins; simultaneous matches
	// are tie-broken by list order. On timeout it returns *TimeoutError
	// carrying the trailing output captured so far.
	ReadUntil(patterns []*regexp.Regexp, timeout time.Duration) (Match, error)
	// SendLine writes text plus a line terminator, encoded for the target.
	SendLine(text string) error
	Close() error
}

const (
	// maxPending caps the retained decoded output between matches.
	maxPending = 64 * 1024
	// previewLen is how much trailing output a TimeoutError carries.
	previewLen = 200
)

var gbk = simplifiedchinese.GBK

// Stream implements Channel over any io.ReadWriteCloser. A background
// reader pumps decoded chunks into a queue; ReadUntil is the only
// consumer, so all externally visible blocking is bounded by its timeout.
type Stream struct {
	rw     io.ReadWriteCloser
	enc    *encoding.Encoder
	chunks chan string
	errs   chan error
	done   chan struct{}
	once   sync.Once
	buf    string

	// readErr latches the pump's terminal error. Once set, every later
	// ReadUntil reports it immediately instead of waiting out a timeout
	// on a stream that can never produce more output. Only the ReadUntil
	// goroutine touches it.
	readErr error
}

// New wraps rw in a GBK-decoded, GBK-encoded line channel and starts the
// reader pump. The caller keeps ownership of rw's lifetime through Close.
func New(rw io.ReadWriteCloser) *Stream {
	s := &Stream{
		rw:     rw,
		enc:    gbk.NewEncoder(),
		chunks: make(chan string, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump delivers the error into errs before closing chunks, so a consumer
// that observes the closed channel can always collect it without blocking.
func (s *Stream) pump() {
	r := transform.NewReader(s.rw, gbk.NewDecoder())
	tmp := make([]byte, 4096)
	for {
		n, err := r.Read(tmp)
		if n > 0 {
			select {
			case s.chunks <- string(tmp[:n]):
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.errs <- err
			close(s.chunks)
			return
		}
	}
}

// terminal collects the pump's final error on first use and returns the
// latched value thereafter.
func (s *Stream) terminal() error {
	if s.readErr == nil {
		s.readErr = <-s.errs
	}
	return s.readErr
}

// ReadUntil implements Channel.
func (s *Stream) ReadUntil(patterns []*regexp.Regexp, timeout time.Duration) (Match, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if m, ok := s.scan(patterns); ok {
			return m, nil
		}
		if s.readErr != nil {
			return Match{}, &ReadError{Err: s.readErr}
		}
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return Match{}, &ReadError{Err: s.terminal()}
			}
			s.append(chunk)
		case <-timer.C:
			// Drain anything already decoded so the preview is current.
			for {
				select {
				case chunk, ok := <-s.chunks:
					if !ok {
						if m, ok := s.scan(patterns); ok {
							return m, nil
						}
						return Match{}, &ReadError{Err: s.terminal()}
					}
					s.append(chunk)
				default:
					if m, ok := s.scan(patterns); ok {
						return m, nil
					}
					return Match{}, &TimeoutError{Preview: tail(s.buf, previewLen)}
				}
			}
		}
	}
}

// scan looks for the leftmost match across all patterns, tie-broken by
// list order, and consumes the buffer through the end of the match.
func (s *Stream) scan(patterns []*regexp.Regexp) (Match, bool) {
	best := -1
	var loc []int
	for i, p := range patterns {
		if l := p.FindStringIndex(s.buf); l != nil {
			if best == -1 || l[0] < loc[0] {
				best, loc = i, l
			}
		}
	}
	if best == -1 {
		return Match{}, false
	}
	m := Match{Index: best, Before: s.buf[:loc[0]], Text: s.buf[loc[0]:loc[1]]}
	s.buf = s.buf[loc[1]:]
	return m, true
}

func (s *Stream) append(chunk string) {
	s.buf += chunk
	if len(s.buf) > maxPending {
		s.buf = tail(s.buf, maxPending)
	}
}

// SendLine implements Channel. The line terminator is "\n"; the pty line
// discipline delivers the platform form to the child.
func (s *Stream) SendLine(text string) error {
	encoded, err := s.enc.String(text + "\n")
	if err != nil {
		return &WriteError{Err: err}
	}
	if _, err := io.WriteString(s.rw, encoded); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Close implements Channel. Closing the done channel releases a pump that
// is parked on a full chunk queue; closing rw releases one parked in Read.
func (s *Stream) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.rw.Close()
}

// tail returns the last n bytes of s without splitting a UTF-8 sequence.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && s[cut]&0xC0 == 0x80 {
		cut++
	}
	return s[cut:]
}
