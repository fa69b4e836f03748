package models

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidStay     = errors.New("check_in must be before check_out")
	ErrNoClaims        = errors.New("booking must carry at least one room type claim")
	ErrClaimCountDrift = errors.New("sum of claim counts does not match declared room count")
)

// StayInterval is the half-open span [CheckIn, CheckOut) during which a
// booking consumes room-nights. The checkout day itself is free again.
type StayInterval struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Valid reports whether the interval consumes at least one night.
func (s StayInterval) Valid() bool {
	return s.CheckIn.Before(s.CheckOut)
}

// Nights returns the number of whole nights covered by the interval.
func (s StayInterval) Nights() int {
	if !s.Valid() {
		return 0
	}
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Contains reports whether the given calendar day falls inside the stay.
// Half-open semantics: the check-in day counts, the check-out day does not,
// even when the checkout instant carries a time of day (an 11:00 departure
// still frees the room for that calendar day).
func (s StayInterval) Contains(day time.Time) bool {
	if !s.Valid() {
		return false
	}
	d := Midnight(day)
	return !d.Before(Midnight(s.CheckIn)) && d.Before(Midnight(s.CheckOut))
}

// Midnight truncates a timestamp to its calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoomTypeClaim is a booking's request for NumberOfRooms rooms of a given
// type. RoomIDs lists the rooms concretely assigned so far; fewer IDs than
// NumberOfRooms means the claim is partially assigned, which is a valid
// intermediate state.
type RoomTypeClaim struct {
	RoomType      string  `json:"room_type"`
	NumberOfRooms int     `json:"number_of_rooms"`
	RoomIDs       []int64 `json:"room_ids,omitempty"`
}

// AssignedRoomIDs returns the claim's room identifiers deduplicated and in
// ascending order.
func (c RoomTypeClaim) AssignedRoomIDs() []int64 {
	if len(c.RoomIDs) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(c.RoomIDs))
	ids := make([]int64, 0, len(c.RoomIDs))
	for _, id := range c.RoomIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UnassignedCount is how many requested rooms still lack a concrete room.
func (c RoomTypeClaim) UnassignedCount() int {
	n := c.NumberOfRooms - len(c.AssignedRoomIDs())
	if n < 0 {
		return 0
	}
	return n
}

// Booking represents a hotel booking record.
type Booking struct {
	ID        int64           `json:"id"`
	HotelID   int64           `json:"hotel_id"`
	GuestName string          `json:"guest_name"`
	GuestRef  string          `json:"guest_ref,omitempty"`
	Status    BookingStatus   `json:"status"`
	Stay      StayInterval    `json:"stay"`
	RoomCount int             `json:"room_count"`
	Claims    []RoomTypeClaim `json:"claims"`
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate checks the structural invariants of a booking record.
func (b *Booking) Validate() error {
	if !b.Stay.Valid() {
		return ErrInvalidStay
	}
	if len(b.Claims) == 0 {
		return ErrNoClaims
	}
	total := 0
	for _, c := range b.Claims {
		total += c.NumberOfRooms
	}
	if b.RoomCount != 0 && total != b.RoomCount {
		return ErrClaimCountDrift
	}
	return nil
}

// TotalRoomsRequested sums the room counts across all claims.
func (b *Booking) TotalRoomsRequested() int {
	total := 0
	for _, c := range b.Claims {
		total += c.NumberOfRooms
	}
	return total
}

// OccupiesRoom reports whether the booking has the given room assigned in
// any of its claims.
func (b *Booking) OccupiesRoom(roomID int64) bool {
	for _, c := range b.Claims {
		for _, id := range c.RoomIDs {
			if id == roomID {
				return true
			}
		}
	}
	return false
}

// OverlapsWith checks if this booking's stay overlaps another booking's stay.
// Uses half-open interval [check_in, check_out) semantics, so back-to-back
// stays do not collide.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.Stay.CheckIn.Before(other.Stay.CheckOut) && other.Stay.CheckIn.Before(b.Stay.CheckOut)
}
