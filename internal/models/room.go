package models

import "time"

// RoomStatus describes the housekeeping state of a physical room.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "available"
	RoomOccupied     RoomStatus = "occupied"
	RoomCleaning     RoomStatus = "cleaning"
	RoomMaintenance  RoomStatus = "maintenance"
	RoomOutOfService RoomStatus = "out_of_service"
)

// ValidRoomStatus reports whether s is one of the known room statuses.
func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfService:
		return true
	}
	return false
}

// Room represents a physical room in the hotel inventory. Rooms are fetched
// independently of bookings; a booking may reference a room absent from the
// current inventory snapshot.
type Room struct {
	ID        int64      `json:"id"`
	HotelID   int64      `json:"hotel_id"`
	Number    string     `json:"number"`
	Type      string     `json:"type"`
	Floor     int        `json:"floor"`
	Status    RoomStatus `json:"status"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Hotel represents a property whose rooms and bookings the dashboard manages.
type Hotel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomsByType groups active rooms by their type label.
func RoomsByType(rooms []Room) map[string][]Room {
	byType := make(map[string][]Room)
	for _, r := range rooms {
		if !r.Active {
			continue
		}
		byType[r.Type] = append(byType[r.Type], r)
	}
	return byType
}
