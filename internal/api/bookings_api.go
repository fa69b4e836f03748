package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/metrics"
	"hotelier/internal/models"
)

// CreateBookingRequest is the body for POST /api/bookings.
type CreateBookingRequest struct {
	HotelID   int64              `json:"hotel_id"`
	GuestName string             `json:"guest_name"`
	GuestRef  string             `json:"guest_ref"`
	CheckIn   string             `json:"check_in"`
	CheckOut  string             `json:"check_out"`
	Claims    []BookingClaimBody `json:"claims"`
	Comment   string             `json:"comment"`
}

// BookingClaimBody mirrors models.RoomTypeClaim on the wire.
type BookingClaimBody struct {
	RoomType      string  `json:"room_type"`
	NumberOfRooms int     `json:"number_of_rooms"`
	RoomIDs       []int64 `json:"room_ids"`
}

// BookingStatusRequest is the body for PATCH /api/bookings/{id}/status.
type BookingStatusRequest struct {
	Status string `json:"status"`
}

// handleBookings lists bookings active on a given day or creates one.
// GET /api/bookings?date=2025-06-10 | POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings")

	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	bookings, err := s.db.ListBookings(r.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error().Err(err).Str("date", dateStr).Msg("Booking list failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":     dateStr,
		"bookings": bookings,
	})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.GuestName) == "" {
		writeError(w, http.StatusBadRequest, "guest_name is required")
		return
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_in format; expected YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_out format; expected YYYY-MM-DD")
		return
	}

	claims := make([]models.RoomTypeClaim, 0, len(req.Claims))
	for _, c := range req.Claims {
		if strings.TrimSpace(c.RoomType) == "" || c.NumberOfRooms <= 0 {
			writeError(w, http.StatusBadRequest, "each claim needs a room_type and a positive number_of_rooms")
			return
		}
		claims = append(claims, models.RoomTypeClaim{
			RoomType:      strings.TrimSpace(c.RoomType),
			NumberOfRooms: c.NumberOfRooms,
			RoomIDs:       c.RoomIDs,
		})
	}

	booking := &models.Booking{
		HotelID:   req.HotelID,
		GuestName: strings.TrimSpace(req.GuestName),
		GuestRef:  strings.TrimSpace(req.GuestRef),
		Status:    models.StatusPending,
		Stay:      models.StayInterval{CheckIn: checkIn, CheckOut: checkOut},
		Claims:    claims,
		Comment:   req.Comment,
	}

	id, err := s.db.CreateBooking(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStay):
			writeError(w, http.StatusBadRequest, "check_in must be before check_out")
		case errors.Is(err, models.ErrNoClaims):
			writeError(w, http.StatusBadRequest, "at least one room type claim is required")
		case errors.Is(err, database.ErrRoomNotFound):
			writeError(w, http.StatusBadRequest, "assigned room id does not exist")
		default:
			s.logger.Error().Err(err).Str("guest", booking.GuestName).Msg("Booking create failed")
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	s.dropMemo()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleBookingStatus transitions a booking through its lifecycle.
// PATCH /api/bookings/{id}/status
func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_status")

	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, ok := parseResourceID(r.URL.Path, "/api/bookings/", "status")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req BookingStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	to := models.BookingStatus(req.Status)
	if !models.ValidBookingStatus(to) {
		writeError(w, http.StatusBadRequest, "invalid booking status")
		return
	}

	if err := s.db.UpdateBookingStatus(r.Context(), id, to); err != nil {
		switch {
		case errors.Is(err, database.ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, database.ErrBadTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("Booking status update failed")
			writeError(w, http.StatusInternalServerError, "failed to update booking")
		}
		return
	}

	if s.bus != nil {
		payload, _ := json.Marshal(map[string]any{"booking_id": id, "status": req.Status})
		s.bus.Publish(events.Event{Type: events.TypeBookingStatusChange, Payload: payload})
	}

	s.dropMemo()
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
