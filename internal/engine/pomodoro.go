package engine

import (
	"fmt"
	"time"
)

// PomodoroMode selects the session length.
type PomodoroMode string

// Pomodoro modes.
const (
	ModeWork       PomodoroMode = "work"
	ModeShortBreak PomodoroMode = "shortBreak"
	ModeLongBreak  PomodoroMode = "longBreak"
)

// Modes lists the pomodoro modes in display order.
func Modes() []PomodoroMode {
	return []PomodoroMode{ModeWork, ModeShortBreak, ModeLongBreak}
}

// Duration is the full length of a session in mode.
func (m PomodoroMode) Duration() time.Duration {
	switch m {
	case ModeShortBreak:
		return 5 * time.Minute
	case ModeLongBreak:
		return 15 * time.Minute
	default:
		return 25 * time.Minute
	}
}

// Seconds is Duration in whole seconds.
func (m PomodoroMode) Seconds() int {
	return int(m.Duration() / time.Second)
}

// Key is the translation key of the mode label.
func (m PomodoroMode) Key() string {
	return "pomodoro." + string(m)
}

// Valid reports whether m is one of the known modes.
func (m PomodoroMode) Valid() bool {
	return m == ModeWork || m == ModeShortBreak || m == ModeLongBreak
}

// Pomodoro is a focus timer. It is not safe for concurrent use.
type Pomodoro struct {
	mode      PomodoroMode
	remaining time.Duration
	active    bool
}

// NewPomodoro returns an idle work session.
func NewPomodoro() *Pomodoro {
	return &Pomodoro{mode: ModeWork, remaining: ModeWork.Duration()}
}

// Toggle starts or pauses the timer. A finished session cannot be started
// again until Reset or SetMode.
func (p *Pomodoro) Toggle() {
	if p.remaining <= 0 {
		p.active = false
		return
	}
	p.active = !p.active
}

// Reset stops the timer and refills the current mode.
func (p *Pomodoro) Reset() {
	p.active = false
	p.remaining = p.mode.Duration()
}

// SetMode switches mode, stopping and refilling the timer.
func (p *Pomodoro) SetMode(m PomodoroMode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown pomodoro mode %q", m)
	}
	p.mode = m
	p.Reset()
	return nil
}

// Tick counts elapsed time down while active. Reaching zero deactivates.
func (p *Pomodoro) Tick(elapsed time.Duration) {
	if !p.active || elapsed <= 0 {
		return
	}
	p.remaining -= elapsed
	if p.remaining <= 0 {
		p.remaining = 0
		p.active = false
	}
}

// Mode returns the current mode.
func (p *Pomodoro) Mode() PomodoroMode { return p.mode }

// Remaining returns the time left in the session.
func (p *Pomodoro) Remaining() time.Duration { return p.remaining }

// Active reports whether the timer is running.
func (p *Pomodoro) Active() bool { return p.active }

// Progress is 100 - remaining/total*100.
func (p *Pomodoro) Progress() float64 {
	total := p.mode.Duration()
	return 100 - float64(p.remaining)/float64(total)*100
}

// PomodoroView is the serializable snapshot of a Pomodoro.
type PomodoroView struct {
	Mode             PomodoroMode `json:"mode"`
	RemainingSeconds int          `json:"remaining_seconds"`
	TotalSeconds     int          `json:"total_seconds"`
	Display          string       `json:"display"`
	Active           bool         `json:"active"`
	Progress         float64      `json:"progress"`
}

// View snapshots the timer.
func (p *Pomodoro) View() PomodoroView {
	secs := int(p.remaining / time.Second)
	return PomodoroView{
		Mode:             p.mode,
		RemainingSeconds: secs,
		TotalSeconds:     int(p.mode.Duration() / time.Second),
		Display:          pad2(secs/60) + ":" + pad2(secs%60),
		Active:           p.active,
		Progress:         p.Progress(),
	}
}
