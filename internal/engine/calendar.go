package engine

import (
	"strings"
	"time"
)

// CalendarState is a month laid out in weeks of seven cells starting on
// Sunday. Nil cells are padding.
type CalendarState struct {
	Year           int      `json:"year"`
	Month          int      `json:"month"`
	MonthKey       string   `json:"month_key"`
	FirstDayOffset int      `json:"first_day_offset"`
	DaysInMonth    int      `json:"days_in_month"`
	Today          int      `json:"today"`
	Weeks          [][]*int `json:"weeks"`
}

// WeekdayKeys are the translation keys of the header row, Sunday first.
var WeekdayKeys = [7]string{
	"calendar.sunday", "calendar.monday", "calendar.tuesday", "calendar.wednesday",
	"calendar.thursday", "calendar.friday", "calendar.saturday",
}

// DaysIn returns the number of days in month using the day-zero trick:
// day 0 of the following month normalizes to the last day of this one.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calendar builds the grid for year/month. Today is marked only when today
// falls inside that month.
func Calendar(year int, month time.Month, today time.Time) CalendarState {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := DaysIn(year, month)

	cells := make([]*int, 0, offset+days+6)
	for range offset {
		cells = append(cells, nil)
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, &d)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	weeks := make([][]*int, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}

	s := CalendarState{
		Year:           year,
		Month:          int(month),
		MonthKey:       "calendar." + strings.ToLower(month.String()),
		FirstDayOffset: offset,
		DaysInMonth:    days,
		Weeks:          weeks,
	}
	if !today.IsZero() && today.Year() == year && today.Month() == month {
		s.Today = today.Day()
	}
	return s
}

// IsToday reports whether cell holds the marked day.
func (c CalendarState) IsToday(cell *int) bool {
	return cell != nil && c.Today != 0 && *cell == c.Today
}
