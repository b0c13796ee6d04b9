package engine

import (
	"math"
	"time"
)

// ProgressState reports how far now is through its year, month and day.
// Percent is exact; the Floor fields are what the widget displays.
type ProgressState struct {
	Year          int     `json:"year"`
	Percent       float64 `json:"percent"`
	DaysElapsed   int     `json:"days_elapsed"`
	DaysRemaining int     `json:"days_remaining"`
	DaysInYear    int     `json:"days_in_year"`
	MonthPercent  float64 `json:"month_percent"`
	DayPercent    float64 `json:"day_percent"`

	YearFloor  int `json:"year_floor"`
	MonthFloor int `json:"month_floor"`
	DayFloor   int `json:"day_floor"`
}

// IsLeap applies the Gregorian leap year rule.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear is 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// YearProgress measures the actual elapsed time between local midnight on
// January 1st of now's year and of the next year, so DST shifts and leap
// days are accounted for.
func YearProgress(now time.Time) ProgressState {
	loc := now.Location()
	y, m, d := now.Date()

	startYear := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	endYear := time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
	startMonth := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	endMonth := time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	startDay := time.Date(y, m, d, 0, 0, 0, 0, loc)
	endDay := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	days := DaysInYear(y)
	elapsed := int(now.Sub(startYear) / (24 * time.Hour))

	s := ProgressState{
		Year:          y,
		Percent:       fraction(now, startYear, endYear) * 100,
		DaysElapsed:   elapsed,
		DaysRemaining: days - elapsed,
		DaysInYear:    days,
		MonthPercent:  fraction(now, startMonth, endMonth) * 100,
		DayPercent:    fraction(now, startDay, endDay) * 100,
	}
	s.YearFloor = int(math.Floor(s.Percent))
	s.MonthFloor = int(math.Floor(s.MonthPercent))
	s.DayFloor = int(math.Floor(s.DayPercent))
	return s
}

func fraction(now, start, end time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}
	return float64(now.Sub(start)) / float64(total)
}
