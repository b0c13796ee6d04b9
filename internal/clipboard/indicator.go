package clipboard

import (
	"sync"
	"time"
)

// RevertDelay is how long the acknowledgement stays visible.
const RevertDelay = 2 * time.Second

// Timer is the part of *time.Timer the indicator needs.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f after d.
type TimerFactory func(d time.Duration, f func()) Timer

func realTimer(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Indicator is a "copied" flag that reverts on its own. Each Show counts
// as one acknowledgement; a Show while visible restarts the delay.
type Indicator struct {
	mu       sync.Mutex
	delay    time.Duration
	after    TimerFactory
	onChange func(copied bool)

	copied bool
	shows  int
	timer  Timer
	gen    int
}

// NewIndicator creates an indicator. onChange, when set, is called on
// every visibility change outside the indicator's lock.
func NewIndicator(delay time.Duration, onChange func(copied bool)) *Indicator {
	if delay <= 0 {
		delay = RevertDelay
	}
	return &Indicator{delay: delay, after: realTimer, onChange: onChange}
}

// WithTimerFactory replaces time.AfterFunc.
func (i *Indicator) WithTimerFactory(f TimerFactory) *Indicator {
	if f != nil {
		i.after = f
	}
	return i
}

// Show sets the flag and schedules the revert.
func (i *Indicator) Show() {
	i.mu.Lock()
	if i.timer != nil {
		i.timer.Stop()
	}
	changed := !i.copied
	i.copied = true
	i.shows++
	i.gen++
	gen := i.gen
	i.timer = i.after(i.delay, func() { i.revert(gen) })
	i.mu.Unlock()

	if changed {
		i.notify(true)
	}
}

func (i *Indicator) revert(gen int) {
	i.mu.Lock()
	if gen != i.gen || !i.copied {
		i.mu.Unlock()
		return
	}
	i.copied = false
	i.timer = nil
	i.mu.Unlock()

	i.notify(false)
}

func (i *Indicator) notify(copied bool) {
	if i.onChange != nil {
		i.onChange(copied)
	}
}

// Copied reports whether the acknowledgement is visible.
func (i *Indicator) Copied() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.copied
}

// Shows returns how many acknowledgements have been shown.
func (i *Indicator) Shows() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.shows
}

// Delay returns the revert delay.
func (i *Indicator) Delay() time.Duration {
	return i.delay
}
