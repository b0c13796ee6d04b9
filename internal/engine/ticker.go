package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/widgetd/internal/widget"
)

// Ticker errors.
var (
	ErrAlreadyStarted = errors.New("ticker already started")
	ErrStopped        = errors.New("ticker stopped")
)

// State is the lifecycle position of a Ticker.
type State int

// Ticker states. The only transitions are Uninitialized to Running and
// Running to Stopped.
const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sink receives each computed state. It runs on the ticker goroutine and
// must not call Stop.
type Sink func(DisplayState)

// Ticker calls Compute for one widget kind on a fixed interval and hands
// the result to a sink.
type Ticker struct {
	mu sync.Mutex

	kind     widget.Kind
	params   Params
	interval time.Duration
	now      func() time.Time
	sink     Sink
	logger   *slog.Logger

	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a ticker for kind using the kind's default interval.
func NewTicker(kind widget.Kind, params Params, sink Sink) (*Ticker, error) {
	interval, err := Interval(kind)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errors.New("ticker sink is required")
	}
	return &Ticker{
		kind:     kind,
		params:   params,
		interval: interval,
		now:      time.Now,
		sink:     sink,
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}, nil
}

// WithLogger sets a custom logger.
func (t *Ticker) WithLogger(logger *slog.Logger) *Ticker {
	t.logger = logger
	return t
}

// WithClock replaces time.Now.
func (t *Ticker) WithClock(now func() time.Time) *Ticker {
	if now != nil {
		t.now = now
	}
	return t
}

// WithInterval overrides the kind's interval.
func (t *Ticker) WithInterval(d time.Duration) *Ticker {
	if d > 0 {
		t.interval = d
	}
	return t
}

// Interval returns the tick interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start computes once immediately and then once per interval until ctx is
// cancelled or Stop is called. A ticker can be started only once.
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrStopped
	}

	ctx, t.cancel = context.WithCancel(ctx)
	t.state = StateRunning

	go t.loop(ctx)

	t.logger.Debug("ticker started",
		slog.String("kind", string(t.kind)),
		slog.Duration("interval", t.interval))

	return nil
}

// Stop cancels the ticker and waits for its goroutine to exit. Stopping a
// ticker that never started moves it straight to Stopped.
func (t *Ticker) Stop() {
	t.mu.Lock()
	switch t.state {
	case StateUninitialized:
		t.state = StateStopped
		close(t.done)
		t.mu.Unlock()
		return
	case StateStopped:
		t.mu.Unlock()
		<-t.done
		return
	}
	t.cancel()
	t.mu.Unlock()

	<-t.done
}

// State returns the current lifecycle state.
func (t *Ticker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed once the ticker has stopped.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

func (t *Ticker) loop(ctx context.Context) {
	defer func() {
		t.mu.Lock()
		t.state = StateStopped
		t.cancel()
		t.mu.Unlock()
		close(t.done)

		t.logger.Debug("ticker stopped", slog.String("kind", string(t.kind)))
	}()

	t.tick(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Ticker) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	state, err := Compute(t.kind, t.now(), t.params)
	if err != nil {
		t.logger.Error("computing display state",
			slog.String("kind", string(t.kind)),
			slog.Any("error", err))
		return
	}

	t.sink(state)
}
