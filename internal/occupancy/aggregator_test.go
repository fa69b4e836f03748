package occupancy

import (
	"reflect"
	"testing"
	"time"

	"hotelier/internal/models"
)

func standardRooms(n int) []models.Room {
	rooms := make([]models.Room, 0, n)
	for i := 0; i < n; i++ {
		rooms = append(rooms, models.Room{
			ID:     int64(101 + i),
			Type:   "STANDARD",
			Floor:  1,
			Status: models.RoomAvailable,
			Active: true,
		})
	}
	return rooms
}

func TestAggregate_SingleBookingAmongFiveRooms(t *testing.T) {
	// Day 2025-06-15, one booking [2025-06-13, 2025-06-16), one STANDARD room
	// claimed among 5 total rooms.
	agg := Aggregator{}
	bookings := []models.Booking{
		{
			ID:     1,
			Status: models.StatusConfirmed,
			Stay:   stay(day(2025, 6, 13), day(2025, 6, 16)),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 1, RoomIDs: []int64{101}}},
		},
	}

	samples := agg.Aggregate([]time.Time{day(2025, 6, 15)}, bookings, standardRooms(5))
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}

	s := samples[0]
	if s.OccupiedCount != 1 {
		t.Errorf("occupied = %d, want 1", s.OccupiedCount)
	}
	if s.AvailableCount != 4 {
		t.Errorf("available = %d, want 4", s.AvailableCount)
	}
	if s.Percentage != 20 {
		t.Errorf("percentage = %d, want 20", s.Percentage)
	}
	if got := s.ByRoomType["STANDARD"]; got.Total != 5 || got.Occupied != 1 || got.Percentage != 20 {
		t.Errorf("STANDARD breakdown = %+v, want {5 1 20}", got)
	}
	if len(s.SynthesizedTypes) != 0 {
		t.Errorf("unexpected synthesized types: %v", s.SynthesizedTypes)
	}
}

func TestAggregate_CheckoutDayNotOccupied(t *testing.T) {
	agg := Aggregator{}
	queryDay := day(2025, 6, 16)
	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 13), queryDay),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 1}},
		},
	}

	samples := agg.Aggregate([]time.Time{queryDay}, bookings, standardRooms(5))
	if samples[0].OccupiedCount != 0 {
		t.Errorf("booking checking out on the query day must not occupy it, got occupied = %d", samples[0].OccupiedCount)
	}
	if samples[0].AvailableCount != 5 {
		t.Errorf("available = %d, want 5", samples[0].AvailableCount)
	}
}

func TestAggregate_EmptyInventoryFallback(t *testing.T) {
	// Empty room inventory, default fallback 5, one booking occupying 2 rooms.
	agg := Aggregator{DefaultTotalRooms: 5}
	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 10), day(2025, 6, 12)),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 2}},
		},
	}

	samples := agg.Aggregate([]time.Time{day(2025, 6, 10)}, bookings, nil)
	s := samples[0]
	if s.OccupiedCount != 2 {
		t.Errorf("occupied = %d, want 2", s.OccupiedCount)
	}
	if s.AvailableCount != 3 {
		t.Errorf("available = %d, want 3", s.AvailableCount)
	}
	if s.Percentage != 40 {
		t.Errorf("percentage = %d, want 40", s.Percentage)
	}
}

func TestAggregate_RequestedCountDrivesOccupancy(t *testing.T) {
	// A claim for 3 rooms with only 1 assigned still removes 3 rooms from
	// availability.
	agg := Aggregator{}
	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 10), day(2025, 6, 12)),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 3, RoomIDs: []int64{101}}},
		},
	}

	samples := agg.Aggregate([]time.Time{day(2025, 6, 10)}, bookings, standardRooms(10))
	if got := samples[0].OccupiedCount; got != 3 {
		t.Errorf("occupied = %d, want 3 (requested count, not assigned count)", got)
	}
}

func TestAggregate_UnknownRoomTypeSynthesized(t *testing.T) {
	agg := Aggregator{}
	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 10), day(2025, 6, 12)),
			Claims: []models.RoomTypeClaim{{RoomType: "PENTHOUSE", NumberOfRooms: 2}},
		},
	}

	samples := agg.Aggregate([]time.Time{day(2025, 6, 10)}, bookings, standardRooms(5))
	s := samples[0]

	pent, ok := s.ByRoomType["PENTHOUSE"]
	if !ok {
		t.Fatal("expected a synthesized PENTHOUSE entry")
	}
	if pent.Total != 2 || pent.Occupied != 2 {
		t.Errorf("synthesized entry = %+v, want total == occupied == 2", pent)
	}
	if pent.Percentage != 100 {
		t.Errorf("synthesized percentage = %d, want exactly 100", pent.Percentage)
	}
	if !reflect.DeepEqual(s.SynthesizedTypes, []string{"PENTHOUSE"}) {
		t.Errorf("synthesized flags = %v, want [PENTHOUSE]", s.SynthesizedTypes)
	}
}

func TestAggregate_ConservationLaw(t *testing.T) {
	agg := Aggregator{}
	rooms := standardRooms(8)
	rooms = append(rooms, models.Room{ID: 301, Type: "SUITE", Floor: 3, Status: models.RoomAvailable, Active: true})
	rooms = append(rooms, models.Room{ID: 302, Type: "SUITE", Floor: 3, Status: models.RoomCleaning, Active: true})

	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 1), day(2025, 6, 20)),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 4}},
		},
		{
			ID:     2,
			Stay:   stay(day(2025, 6, 5), day(2025, 6, 8)),
			Claims: []models.RoomTypeClaim{{RoomType: "SUITE", NumberOfRooms: 1, RoomIDs: []int64{301}}},
		},
	}

	days := []time.Time{day(2025, 6, 1), day(2025, 6, 5), day(2025, 6, 7), day(2025, 6, 8), day(2025, 6, 25)}
	totalKnown := 10

	for _, s := range agg.Aggregate(days, bookings, rooms) {
		if s.AvailableCount < 0 {
			t.Errorf("%s: negative available count %d", s.Date.Format("2006-01-02"), s.AvailableCount)
		}
		if s.OccupiedCount+s.AvailableCount != totalKnown {
			t.Errorf("%s: occupied %d + available %d != total %d",
				s.Date.Format("2006-01-02"), s.OccupiedCount, s.AvailableCount, totalKnown)
		}
		if s.Percentage < 0 || s.Percentage > 100 {
			t.Errorf("%s: percentage %d out of bounds", s.Date.Format("2006-01-02"), s.Percentage)
		}
		for name, byType := range s.ByRoomType {
			if byType.Percentage < 0 || byType.Percentage > 100 {
				t.Errorf("%s: %s percentage %d out of bounds", s.Date.Format("2006-01-02"), name, byType.Percentage)
			}
		}
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	agg := Aggregator{DefaultTotalRooms: 5}
	bookings := []models.Booking{
		{
			ID:   1,
			Stay: stay(day(2025, 6, 1), day(2025, 6, 10)),
			Claims: []models.RoomTypeClaim{
				{RoomType: "STANDARD", NumberOfRooms: 2, RoomIDs: []int64{101}},
				{RoomType: "SUITE", NumberOfRooms: 1},
			},
		},
		{
			ID:     2,
			Stay:   stay(day(2025, 6, 4), day(2025, 6, 6)),
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 1}},
		},
	}
	rooms := standardRooms(6)
	days := EnumerateTestDays(day(2025, 6, 1), day(2025, 6, 10))

	first := agg.Aggregate(days, bookings, rooms)
	second := agg.Aggregate(days, bookings, rooms)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce deep-equal outputs")
	}
}

func TestAggregate_InvalidStaySkipped(t *testing.T) {
	agg := Aggregator{}
	bookings := []models.Booking{
		{
			ID:     1,
			Stay:   stay(day(2025, 6, 10), day(2025, 6, 10)), // zero-length
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 1}},
		},
		{
			ID:     2,
			Stay:   models.StayInterval{}, // unparseable upstream record
			Claims: []models.RoomTypeClaim{{RoomType: "STANDARD", NumberOfRooms: 2}},
		},
	}

	samples := agg.Aggregate([]time.Time{day(2025, 6, 10)}, bookings, standardRooms(5))
	if samples[0].OccupiedCount != 0 {
		t.Errorf("invalid stays must not occupy, got %d", samples[0].OccupiedCount)
	}
}

// EnumerateTestDays builds an inclusive day range for tests.
func EnumerateTestDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
