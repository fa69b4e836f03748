// Package occupancy computes per-day occupancy statistics from booking and
// room snapshots. All functions are pure: they never mutate their inputs and
// carry no state between calls, so they are safe to invoke concurrently for
// independent date windows.
package occupancy

import (
	"time"

	"hotelier/internal/models"
)

// OverlapsDay reports whether the given calendar day is occupied by the stay.
// Half-open [check_in, check_out) semantics: the check-in day counts as
// occupied, the check-out day does not, matching the hotel convention that a
// departing guest frees the room the same day. Zero-length or inverted
// intervals never overlap anything.
func OverlapsDay(day time.Time, stay models.StayInterval) bool {
	return stay.Contains(day)
}

// ClipToWindow intersects a stay interval with a rendering window and returns
// the clipped span. ok is false when the stay lies entirely outside the
// window or the interval is degenerate.
func ClipToWindow(windowStart, windowEnd time.Time, stay models.StayInterval) (start, end time.Time, ok bool) {
	if !stay.Valid() || !windowStart.Before(windowEnd) {
		return time.Time{}, time.Time{}, false
	}

	start = stay.CheckIn
	if start.Before(windowStart) {
		start = windowStart
	}
	end = stay.CheckOut
	if end.After(windowEnd) {
		end = windowEnd
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
