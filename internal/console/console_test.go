package console

import (
	"bytes"
	"io"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// duplex is an in-memory stand-in for the pty master: reads come from a
// pipe the test writes GBK bytes into, writes are captured for assertions.
type duplex struct {
	pr *io.PipeReader
	pw *io.PipeWriter

	mu     sync.Mutex
	closed bool
	sent   bytes.Buffer
}

func newDuplex() *duplex {
	pr, pw := io.Pipe()
	return &duplex{pr: pr, pw: pw}
}

func (d *duplex) Read(p []byte) (int, error) { return d.pr.Read(p) }

func (d *duplex) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, io.ErrClosedPipe
	}
	return d.sent.Write(p)
}

func (d *duplex) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	_ = d.pw.Close()
	return d.pr.Close()
}

func (d *duplex) sentBytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.sent.Bytes()...)
}

// emit writes s to the read side encoded as GBK.
func (d *duplex) emit(t *testing.T, s string) {
	t.Helper()
	raw, err := simplifiedchinese.GBK.NewEncoder().String(s)
	require.NoError(t, err)
	_, err = io.WriteString(d.pw, raw)
	require.NoError(t, err)
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func TestReadUntilMatchesAcrossChunks(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	// Split a multi-byte GBK sequence over two writes.
	raw, err := simplifiedchinese.GBK.NewEncoder().String("系统就绪 请输入姓名：")
	require.NoError(t, err)
	half := len(raw) / 2
	go func() {
		_, _ = d.pw.Write([]byte(raw[:half]))
		time.Sleep(20 * time.Millisecond)
		_, _ = d.pw.Write([]byte(raw[half:]))
	}()

	m, err := s.ReadUntil(patterns(`请输入.*姓名`), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, "请输入姓名", m.Text)
	assert.Contains(t, m.Before, "系统就绪")
}

func TestReadUntilFirstMatchByPosition(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	d.emit(t, "second first")
	m, err := s.ReadUntil(patterns(`first`, `second`), time.Second)
	require.NoError(t, err)
	// "second" appears earlier in the stream even though it is listed later.
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, "second", m.Text)
}

func TestReadUntilTieBrokenByListOrder(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	d.emit(t, "xy")
	m, err := s.ReadUntil(patterns(`x.`, `xy`), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)
}

func TestReadUntilConsumesThroughMatch(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	d.emit(t, "alpha beta gamma")
	m, err := s.ReadUntil(patterns(`beta`), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "alpha ", m.Before)

	// The remainder is still available for the next wait.
	m, err = s.ReadUntil(patterns(`gamma`), time.Second)
	require.NoError(t, err)
	assert.Equal(t, " ", m.Before)
}

func TestReadUntilTimeoutCarriesPreview(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	long := strings.Repeat("噪", 150) + " 尾部输出"
	d.emit(t, long)
	time.Sleep(50 * time.Millisecond)

	_, err := s.ReadUntil(patterns(`永远不会出现`), 100*time.Millisecond)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Preview, "尾部输出")
	assert.LessOrEqual(t, len(te.Preview), 203) // ~200 bytes, rune-aligned
}

func TestReadUntilReadError(t *testing.T) {
	d := newDuplex()
	s := New(d)

	require.NoError(t, d.pw.Close())
	_, err := s.ReadUntil(patterns(`anything`), time.Second)
	var re *ReadError
	require.ErrorAs(t, err, &re)
}

func TestReadUntilAfterStreamEndReturnsImmediately(t *testing.T) {
	d := newDuplex()
	s := New(d)

	require.NoError(t, d.pw.Close())
	_, err := s.ReadUntil(patterns(`anything`), time.Second)
	var re *ReadError
	require.ErrorAs(t, err, &re)

	// A dead stream can never produce more output, so later waits must
	// report the same failure at once rather than sit out their timeout.
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err = s.ReadUntil(patterns(`anything`), 500*time.Millisecond)
		require.ErrorAs(t, err, &re)
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestSendLineEncodesGBK(t *testing.T) {
	d := newDuplex()
	s := New(d)
	defer s.Close()

	require.NoError(t, s.SendLine("男"))
	want, err := simplifiedchinese.GBK.NewEncoder().String("男\n")
	require.NoError(t, err)
	assert.Equal(t, []byte(want), d.sentBytes())
}

func TestCloseReleasesBackloggedPump(t *testing.T) {
	base := runtime.NumGoroutine()

	d := newDuplex()
	s := New(d)

	// Flood well past the queue capacity with no consumer so the reader
	// pump parks on a full queue.
	go func() {
		chunk := strings.Repeat("x", 4096)
		for i := 0; i < 80; i++ {
			if _, err := io.WriteString(d.pw, chunk); err != nil {
				return
			}
		}
	}()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Close())
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= base
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSendLineAfterClose(t *testing.T) {
	d := newDuplex()
	s := New(d)
	require.NoError(t, s.Close())

	err := s.SendLine("1")
	var we *WriteError
	require.ErrorAs(t, err, &we)
}
