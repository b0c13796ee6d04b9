package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type timers struct {
	all []*fakeTimer
}

func (ts *timers) factory(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	ts.all = append(ts.all, t)
	return t
}

func (ts *timers) fireLast() {
	ts.all[len(ts.all)-1].f()
}

type recordingWriter struct {
	err   error
	calls []string
}

func (w *recordingWriter) WriteText(text string) error {
	w.calls = append(w.calls, text)
	return w.err
}

func TestCopier_Primary(t *testing.T) {
	primary := &recordingWriter{}
	fallback := &recordingWriter{}

	m, err := NewCopier(primary, fallback).Copy("https://x.test/widget/clock")
	require.NoError(t, err)
	assert.Equal(t, MethodPrimary, m)
	assert.Equal(t, []string{"https://x.test/widget/clock"}, primary.calls)
	assert.Empty(t, fallback.calls)
}

func TestCopier_FallbackShowsOnce(t *testing.T) {
	primary := &recordingWriter{err: errors.New("permission denied")}
	fallback := &recordingWriter{}
	ts := &timers{}

	var changes []bool
	ind := NewIndicator(RevertDelay, func(c bool) { changes = append(changes, c) }).WithTimerFactory(ts.factory)

	m, err := NewCopier(primary, fallback).CopyAndShow("url", ind)
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, m)
	assert.Len(t, primary.calls, 1)
	assert.Len(t, fallback.calls, 1)

	assert.True(t, ind.Copied())
	assert.Equal(t, 1, ind.Shows())
	require.Len(t, ts.all, 1)
	assert.Equal(t, 2*time.Second, ts.all[0].d)

	ts.fireLast()
	assert.False(t, ind.Copied())
	assert.Equal(t, 1, ind.Shows())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestCopier_BothFail(t *testing.T) {
	primary := &recordingWriter{err: errors.New("a")}
	fallback := &recordingWriter{err: errors.New("b")}
	ind := NewIndicator(0, nil).WithTimerFactory((&timers{}).factory)

	_, err := NewCopier(primary, fallback).CopyAndShow("url", ind)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.False(t, ind.Copied())
	assert.Zero(t, ind.Shows())
}

func TestCopier_NoFallback(t *testing.T) {
	_, err := NewCopier(&recordingWriter{err: ErrUnsupported}, nil).Copy("x")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestIndicator_ShowWhileVisibleRestarts(t *testing.T) {
	ts := &timers{}
	var changes []bool
	ind := NewIndicator(0, func(c bool) { changes = append(changes, c) }).WithTimerFactory(ts.factory)
	assert.Equal(t, RevertDelay, ind.Delay())

	ind.Show()
	ind.Show()
	require.Len(t, ts.all, 2)
	assert.True(t, ts.all[0].stopped)

	ts.all[0].f()
	assert.True(t, ind.Copied(), "stale timer must not revert")

	ts.fireLast()
	assert.False(t, ind.Copied())
	assert.Equal(t, 2, ind.Shows())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestIndicator_RealTimer(t *testing.T) {
	ind := NewIndicator(10*time.Millisecond, nil)
	ind.Show()
	assert.True(t, ind.Copied())
	assert.Eventually(t, func() bool { return !ind.Copied() }, time.Second, 5*time.Millisecond)
}

func TestOSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	require.NoError(t, OSC52(&buf).WriteText("hello"))

	out := buf.String()
	assert.Contains(t, out, "\x1b]52;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("hello")))
}

func TestWriterFunc(t *testing.T) {
	var got string
	w := WriterFunc(func(s string) error { got = s; return nil })
	require.NoError(t, w.WriteText("x"))
	assert.Equal(t, "x", got)
}
