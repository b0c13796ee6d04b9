package engine

import "time"

// CountdownState is the time left until a target. Once Expired it is all
// zeros.
type CountdownState struct {
	Target  time.Time `json:"target"`
	Days    int64     `json:"days"`
	Hours   int64     `json:"hours"`
	Minutes int64     `json:"minutes"`
	Seconds int64     `json:"seconds"`
	Expired bool      `json:"expired"`
}

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Countdown splits target-now into days/hours/minutes/seconds by integer
// division on milliseconds. A delta <= 0 is the expired state.
func Countdown(now, target time.Time) CountdownState {
	delta := target.Sub(now).Milliseconds()
	if delta <= 0 {
		return CountdownState{Target: target, Expired: true}
	}
	return CountdownState{
		Target:  target,
		Days:    delta / msPerDay,
		Hours:   (delta / msPerHour) % 24,
		Minutes: (delta / msPerMinute) % 60,
		Seconds: (delta / msPerSecond) % 60,
	}
}

// Padded returns the four fields zero-padded to two digits.
func (c CountdownState) Padded() [4]string {
	return [4]string{
		pad2(int(c.Days)), pad2(int(c.Hours)), pad2(int(c.Minutes)), pad2(int(c.Seconds)),
	}
}
