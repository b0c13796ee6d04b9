package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/widget"
)

type recorder struct {
	mu     sync.Mutex
	states []DisplayState
}

func (r *recorder) sink(s DisplayState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestTicker_Lifecycle(t *testing.T) {
	rec := &recorder{}
	tk, err := NewTicker(widget.KindClock, DefaultParams(), rec.sink)
	require.NoError(t, err)
	tk.WithClock(fixedClock()).WithInterval(5 * time.Millisecond)

	assert.Equal(t, StateUninitialized, tk.State())
	assert.Equal(t, 5*time.Millisecond, tk.Interval())

	require.NoError(t, tk.Start(context.Background()))
	assert.Equal(t, StateRunning, tk.State())
	assert.ErrorIs(t, tk.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return rec.count() >= 3 }, time.Second, time.Millisecond)

	tk.Stop()
	assert.Equal(t, StateStopped, tk.State())
	after := rec.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, rec.count(), "no delivery after stop")

	assert.ErrorIs(t, tk.Start(context.Background()), ErrStopped)
	tk.Stop()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "12:00:00", rec.states[0].Clock.String())
}

func TestTicker_ComputesImmediately(t *testing.T) {
	rec := &recorder{}
	tk, err := NewTicker(widget.KindYearProgress, DefaultParams(), rec.sink)
	require.NoError(t, err)
	tk.WithClock(fixedClock())
	assert.Equal(t, time.Minute, tk.Interval())

	require.NoError(t, tk.Start(context.Background()))
	defer tk.Stop()

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
}

func TestTicker_ContextCancel(t *testing.T) {
	rec := &recorder{}
	tk, err := NewTicker(widget.KindCountdown, DefaultParams(), rec.sink)
	require.NoError(t, err)
	tk.WithInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))
	cancel()

	select {
	case <-tk.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop on cancel")
	}
	assert.Equal(t, StateStopped, tk.State())
	tk.Stop()
}

func TestTicker_StopBeforeStart(t *testing.T) {
	tk, err := NewTicker(widget.KindQuote, DefaultParams(), func(DisplayState) {})
	require.NoError(t, err)

	tk.Stop()
	assert.Equal(t, StateStopped, tk.State())
	assert.ErrorIs(t, tk.Start(context.Background()), ErrStopped)
}

func TestNewTicker_Errors(t *testing.T) {
	_, err := NewTicker(widget.KindWeather, DefaultParams(), func(DisplayState) {})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewTicker(widget.KindClock, DefaultParams(), nil)
	assert.Error(t, err)

	assert.Equal(t, "running", StateRunning.String())
}
