package occupancy

import (
	"math"
	"sort"
	"time"

	"hotelier/internal/models"
)

const (
	// DefaultTotalRooms is the fallback property size used when the room
	// inventory is empty or not yet loaded, so percentages stay defined.
	DefaultTotalRooms = 5
)

// TypeOccupancy is the per-room-type slice of a day's sample.
type TypeOccupancy struct {
	Total      int `json:"total"`
	Occupied   int `json:"occupied"`
	Percentage int `json:"percentage"`
}

// Sample holds the derived occupancy statistics for a single calendar day.
// Samples are rebuilt wholesale on every aggregation; they are never mutated
// in place.
type Sample struct {
	Date           time.Time                `json:"date"`
	OccupiedCount  int                      `json:"occupied_count"`
	AvailableCount int                      `json:"available_count"`
	Percentage     int                      `json:"percentage"`
	ByRoomType     map[string]TypeOccupancy `json:"by_room_type"`

	// SynthesizedTypes lists room types that appeared in bookings but not in
	// the inventory snapshot. For those, capacity was assumed equal to the
	// occupied count, so their percentage reads 100. Callers should log them
	// as a data-quality signal.
	SynthesizedTypes []string `json:"synthesized_types,omitempty"`
}

// Aggregator computes per-day occupancy samples from booking and room lists.
type Aggregator struct {
	// DefaultTotalRooms substitutes the property size when the room list is
	// empty. Zero means DefaultTotalRooms.
	DefaultTotalRooms int
}

// Aggregate produces one Sample per input day, in the same order. Bookings
// are considered regardless of status; callers wanting status-scoped numbers
// filter the booking list first. Bookings with invalid stay intervals are
// treated as non-overlapping rather than rejected, so one bad record cannot
// blank the whole calendar.
func (a Aggregator) Aggregate(days []time.Time, bookings []models.Booking, rooms []models.Room) []Sample {
	samples := make([]Sample, 0, len(days))
	for _, day := range days {
		samples = append(samples, a.aggregateDay(day, bookings, rooms))
	}
	return samples
}

func (a Aggregator) aggregateDay(day time.Time, bookings []models.Booking, rooms []models.Room) Sample {
	byType := make(map[string]TypeOccupancy)
	totalKnown := 0
	for _, r := range rooms {
		if !r.Active {
			continue
		}
		t := byType[r.Type]
		t.Total++
		byType[r.Type] = t
		totalKnown++
	}
	if totalKnown == 0 {
		totalKnown = a.DefaultTotalRooms
		if totalKnown <= 0 {
			totalKnown = DefaultTotalRooms
		}
	}

	var synthesized []string
	for i := range bookings {
		b := &bookings[i]
		if !OverlapsDay(day, b.Stay) {
			continue
		}
		for _, claim := range ResolveAssignments(b) {
			t, known := byType[claim.RoomType]
			// The requested count drives occupancy: a confirmed claim
			// removes inventory from availability even before concrete
			// rooms are assigned.
			t.Occupied += claim.Requested
			if !known || t.Total == 0 {
				if !containsString(synthesized, claim.RoomType) {
					synthesized = append(synthesized, claim.RoomType)
				}
			}
			byType[claim.RoomType] = t
		}
	}

	occupied := 0
	for name, t := range byType {
		if t.Total < t.Occupied && containsString(synthesized, name) {
			// Unknown type: assume exactly enough unseen capacity so the
			// percentage stays defined (and reads 100).
			t.Total = t.Occupied
		}
		t.Percentage = percentage(t.Occupied, t.Total)
		byType[name] = t
		occupied += t.Occupied
	}
	sort.Strings(synthesized)

	available := totalKnown - occupied
	if available < 0 {
		available = 0
	}

	return Sample{
		Date:             models.Midnight(day),
		OccupiedCount:    occupied,
		AvailableCount:   available,
		Percentage:       percentage(occupied, totalKnown),
		ByRoomType:       byType,
		SynthesizedTypes: synthesized,
	}
}

// percentage computes round(occupied/total*100), with 0 for an empty total so
// the result is never NaN. Clamped to 100 so overbooked inventory still
// reports a bounded figure.
func percentage(occupied, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(occupied) / float64(total) * 100))
	if p > 100 {
		p = 100
	}
	return p
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
