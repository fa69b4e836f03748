// Package timeline lays out booking bars on a Gantt-style room timeline.
// Geometry is expressed as fractions of the visible date window so the
// presentation layer can scale bars to any pixel width.
package timeline

import (
	"time"

	"hotelier/internal/models"
	"hotelier/internal/occupancy"
)

// Bar is the horizontal segment representing one booking's clipped stay
// within the visible window. Left and Width are fractions in [0, 1].
// Recomputed per render; never persisted.
type Bar struct {
	BookingID int64                `json:"booking_id"`
	GuestName string               `json:"guest_name,omitempty"`
	Status    models.BookingStatus `json:"status"`
	Left      float64              `json:"left"`
	Width     float64              `json:"width"`
}

// Row is the set of bars for one physical room.
type Row struct {
	RoomID     int64  `json:"room_id"`
	RoomNumber string `json:"room_number,omitempty"`
	Bars       []Bar  `json:"bars"`
}

// Layout computes bar geometry for the bookings of a single room row,
// clipped to [windowStart, windowEnd). Bookings with no overlap are
// discarded; output order matches input order, no implicit sort.
//
// A row is assumed single-occupancy. If two bookings overlap on the same
// room the data is inconsistent upstream; both bars are still emitted so the
// conflict stays visible instead of being silently merged or dropped.
func Layout(windowStart, windowEnd time.Time, rowBookings []models.Booking) []Bar {
	span := windowEnd.Sub(windowStart)
	if span <= 0 {
		return nil
	}

	var bars []Bar
	for i := range rowBookings {
		b := &rowBookings[i]
		start, end, ok := occupancy.ClipToWindow(windowStart, windowEnd, b.Stay)
		if !ok {
			continue
		}
		left := clampFraction(float64(start.Sub(windowStart)) / float64(span))
		width := clampFraction(float64(end.Sub(start)) / float64(span))
		if left+width > 1 {
			width = 1 - left
		}
		bars = append(bars, Bar{
			BookingID: b.ID,
			GuestName: b.GuestName,
			Status:    b.Status,
			Left:      left,
			Width:     width,
		})
	}
	return bars
}

// LayoutByRoom produces one row per physical room, carrying the bars of every
// booking with that room assigned. Rooms keep the order of the input slice;
// bookings keep theirs within each row.
func LayoutByRoom(windowStart, windowEnd time.Time, bookings []models.Booking, rooms []models.Room) []Row {
	rows := make([]Row, 0, len(rooms))
	for _, room := range rooms {
		var forRoom []models.Booking
		for i := range bookings {
			if bookings[i].OccupiesRoom(room.ID) {
				forRoom = append(forRoom, bookings[i])
			}
		}
		rows = append(rows, Row{
			RoomID:     room.ID,
			RoomNumber: room.Number,
			Bars:       Layout(windowStart, windowEnd, forRoom),
		})
	}
	return rows
}

// clampFraction guards against floating-point drift at window boundaries.
func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
