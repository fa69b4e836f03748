package upstream

import (
	"time"

	"github.com/rs/zerolog"

	"hotelier/internal/models"
)

// BookingRecord is the loosely-typed booking shape the remote API returns.
// Stay timestamps arrive as ISO-8601 strings and are validated exactly once,
// in Decode.
type BookingRecord struct {
	ID        int64         `json:"id"`
	HotelID   int64         `json:"hotel_id"`
	GuestName string        `json:"guest_name"`
	GuestRef  string        `json:"guest_ref,omitempty"`
	Status    string        `json:"status"`
	CheckIn   string        `json:"check_in"`
	CheckOut  string        `json:"check_out"`
	RoomCount int           `json:"room_count"`
	Claims    []ClaimRecord `json:"claims"`
	Comment   string        `json:"comment,omitempty"`
}

// ClaimRecord is the wire shape of one room type claim.
type ClaimRecord struct {
	RoomType      string  `json:"room_type"`
	NumberOfRooms int     `json:"number_of_rooms"`
	RoomIDs       []int64 `json:"room_ids,omitempty"`
}

// RoomRecord is the wire shape of one room inventory entry.
type RoomRecord struct {
	ID      int64  `json:"id"`
	HotelID int64  `json:"hotel_id"`
	Number  string `json:"number"`
	Type    string `json:"type"`
	Floor   int    `json:"floor"`
	Status  string `json:"status"`
	Active  bool   `json:"active"`
}

// timestampLayouts are tried in order when parsing stay boundaries. The
// source system has emitted both full timestamps and bare dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Decode converts a wire booking into the model struct. ok is false when the
// stay timestamps are unparseable or inverted; such records are dropped from
// aggregation rather than failing the whole snapshot.
func (r BookingRecord) Decode() (models.Booking, bool) {
	checkIn, okIn := parseTimestamp(r.CheckIn)
	checkOut, okOut := parseTimestamp(r.CheckOut)
	if !okIn || !okOut || !checkIn.Before(checkOut) {
		return models.Booking{}, false
	}

	status := models.BookingStatus(r.Status)
	if !models.ValidBookingStatus(status) {
		status = models.StatusPending
	}

	claims := make([]models.RoomTypeClaim, 0, len(r.Claims))
	for _, c := range r.Claims {
		if c.NumberOfRooms < 1 {
			continue
		}
		claims = append(claims, models.RoomTypeClaim{
			RoomType:      c.RoomType,
			NumberOfRooms: c.NumberOfRooms,
			RoomIDs:       c.RoomIDs,
		})
	}
	if len(claims) == 0 {
		return models.Booking{}, false
	}

	return models.Booking{
		ID:        r.ID,
		HotelID:   r.HotelID,
		GuestName: r.GuestName,
		GuestRef:  r.GuestRef,
		Status:    status,
		Stay:      models.StayInterval{CheckIn: checkIn, CheckOut: checkOut},
		RoomCount: r.RoomCount,
		Claims:    claims,
		Comment:   r.Comment,
	}, true
}

// Decode converts a wire room into the model struct.
func (r RoomRecord) Decode() models.Room {
	status := models.RoomStatus(r.Status)
	if !models.ValidRoomStatus(status) {
		status = models.RoomAvailable
	}
	floor := r.Floor
	if floor < 1 {
		floor = 1
	}
	return models.Room{
		ID:      r.ID,
		HotelID: r.HotelID,
		Number:  r.Number,
		Type:    r.Type,
		Floor:   floor,
		Status:  status,
		Active:  r.Active,
	}
}

// DecodeBookings converts a batch of wire bookings, logging and skipping the
// malformed ones so one bad record never blanks the calendar.
func DecodeBookings(records []BookingRecord, logger *zerolog.Logger) []models.Booking {
	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		b, ok := r.Decode()
		if !ok {
			if logger != nil {
				logger.Warn().Int64("booking_id", r.ID).
					Str("check_in", r.CheckIn).Str("check_out", r.CheckOut).
					Msg("Skipping malformed booking record")
			}
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings
}

// DecodeRooms converts a batch of wire rooms.
func DecodeRooms(records []RoomRecord) []models.Room {
	rooms := make([]models.Room, 0, len(records))
	for _, r := range records {
		rooms = append(rooms, r.Decode())
	}
	return rooms
}
