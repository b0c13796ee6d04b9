package engine

import "time"

// ClockState is the zero-padded local wall clock.
type ClockState struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// Clock reads now in its own location; no conversion is applied.
func Clock(now time.Time) ClockState {
	return ClockState{
		Hours:   pad2(now.Hour()),
		Minutes: pad2(now.Minute()),
		Seconds: pad2(now.Second()),
	}
}

// String renders HH:MM:SS.
func (c ClockState) String() string {
	return c.Hours + ":" + c.Minutes + ":" + c.Seconds
}
