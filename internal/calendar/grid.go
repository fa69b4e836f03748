// Package calendar assembles day cells for the dashboard's month and week
// views, combining occupancy samples with the bookings visible on each day.
package calendar

import (
	"time"

	"hotelier/internal/models"
	"hotelier/internal/occupancy"
)

// DayCell is one calendar cell: a date, its occupancy sample, and the
// bookings whose stay covers that date. Truncating the booking list for
// display is the presentation layer's concern.
type DayCell struct {
	Date     time.Time        `json:"date"`
	Sample   occupancy.Sample `json:"sample"`
	Bookings []models.Booking `json:"bookings"`
}

// BuildGrid enumerates every calendar day in [windowStart, windowEnd]
// (inclusive day boundaries) and attaches the aggregator's sample plus the
// overlapping bookings for each day.
func BuildGrid(windowStart, windowEnd time.Time, bookings []models.Booking, rooms []models.Room, agg occupancy.Aggregator) []DayCell {
	days := EnumerateDays(windowStart, windowEnd)
	if len(days) == 0 {
		return nil
	}
	samples := agg.Aggregate(days, bookings, rooms)

	cells := make([]DayCell, 0, len(days))
	for i, day := range days {
		var visible []models.Booking
		for j := range bookings {
			if occupancy.OverlapsDay(day, bookings[j].Stay) {
				visible = append(visible, bookings[j])
			}
		}
		cells = append(cells, DayCell{
			Date:     day,
			Sample:   samples[i],
			Bookings: visible,
		})
	}
	return cells
}

// EnumerateDays returns each calendar day from start through end inclusive,
// normalized to midnight. Returns nil when start is after end.
func EnumerateDays(start, end time.Time) []time.Time {
	start = models.Midnight(start)
	end = models.Midnight(end)
	if start.After(end) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthWindow returns the first and last day of the given month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
