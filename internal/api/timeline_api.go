package api

import (
	"encoding/json"
	"net/http"

	"hotelier/internal/metrics"
	"hotelier/internal/models"
	"hotelier/internal/timeline"
)

// TimelineRequest is the request body for POST /api/timeline.
type TimelineRequest struct {
	StartDate string  `json:"start_date"`         // Format: YYYY-MM-DD
	EndDate   string  `json:"end_date"`           // Format: YYYY-MM-DD
	RoomIDs   []int64 `json:"room_ids,omitempty"` // Optional: filter rows by room
}

// TimelineResponse is the response for POST /api/timeline.
type TimelineResponse struct {
	Rows   []timeline.Row `json:"rows"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleTimeline returns per-room bar geometry for a date window.
// POST /api/timeline
func (s *HTTPServer) handleTimeline(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("timeline")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req TimelineRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, end, err := s.parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The rendering window is half-open: the end date's day is included.
	windowEnd := end.AddDate(0, 0, 1)

	bookings, err := s.db.ListBookings(r.Context(), start, windowEnd)
	if err != nil {
		s.logger.Error().Err(err).Msg("Timeline booking load failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	rooms := s.db.GetRooms()
	if len(req.RoomIDs) > 0 {
		rooms = filterRooms(rooms, req.RoomIDs)
	}

	rows := timeline.LayoutByRoom(start, windowEnd, bookings, rooms)
	s.warnDoubleBookings(rows, bookings)

	response := TimelineResponse{Rows: rows}
	response.Period.Start = req.StartDate
	response.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, response)
}

func filterRooms(rooms []models.Room, ids []int64) []models.Room {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	filtered := make([]models.Room, 0, len(ids))
	for _, room := range rooms {
		if wanted[room.ID] {
			filtered = append(filtered, room)
		}
	}
	return filtered
}

// warnDoubleBookings logs rows whose bookings overlap in time. The layout
// engine emits both bars on purpose; the log line keeps the upstream data
// problem visible.
func (s *HTTPServer) warnDoubleBookings(rows []timeline.Row, bookings []models.Booking) {
	byID := make(map[int64]*models.Booking, len(bookings))
	for i := range bookings {
		byID[bookings[i].ID] = &bookings[i]
	}

	for _, row := range rows {
		for i := 0; i < len(row.Bars); i++ {
			for j := i + 1; j < len(row.Bars); j++ {
				a, b := byID[row.Bars[i].BookingID], byID[row.Bars[j].BookingID]
				if a == nil || b == nil {
					continue
				}
				if a.OverlapsWith(b) {
					s.logger.Warn().
						Int64("room_id", row.RoomID).
						Int64("booking_a", a.ID).
						Int64("booking_b", b.ID).
						Msg("Room is double-booked")
				}
			}
		}
	}
}
