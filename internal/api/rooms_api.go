package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hotelier/internal/database"
	"hotelier/internal/metrics"
	"hotelier/internal/models"
)

// CreateRoomRequest is the body for POST /api/rooms.
type CreateRoomRequest struct {
	HotelID int64  `json:"hotel_id"`
	Number  string `json:"number"`
	Type    string `json:"type"`
	Floor   int    `json:"floor"`
	Status  string `json:"status"`
}

// RoomStatusRequest is the body for PATCH /api/rooms/{id}/status.
type RoomStatusRequest struct {
	Status string `json:"status"`
}

// handleRooms lists the cached inventory or registers a new room.
func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rooms")

	switch r.Method {
	case http.MethodGet:
		rooms := s.db.GetRooms()
		writeJSON(w, http.StatusOK, map[string]any{
			"rooms":   rooms,
			"by_type": models.RoomsByType(rooms),
		})
	case http.MethodPost:
		s.createRoom(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Number) == "" {
		writeError(w, http.StatusBadRequest, "number is required")
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	status := models.RoomStatus(req.Status)
	if req.Status == "" {
		status = models.RoomAvailable
	}
	if !models.ValidRoomStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid room status")
		return
	}

	room := models.Room{
		HotelID: req.HotelID,
		Number:  strings.TrimSpace(req.Number),
		Type:    strings.TrimSpace(req.Type),
		Floor:   req.Floor,
		Status:  status,
		Active:  true,
	}

	id, err := s.db.CreateRoom(r.Context(), room)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateRoom) {
			writeError(w, http.StatusConflict, "room number already exists for this hotel")
			return
		}
		s.logger.Error().Err(err).Str("number", room.Number).Msg("Room create failed")
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	s.dropMemo()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleHotels lists the managed properties.
func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hotels")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	hotels, err := s.db.ListHotels(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Hotel list failed")
		writeError(w, http.StatusInternalServerError, "failed to list hotels")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

// handleRoomStatus updates the housekeeping status of a single room.
// PATCH /api/rooms/{id}/status
func (s *HTTPServer) handleRoomStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("room_status")

	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, ok := parseResourceID(r.URL.Path, "/api/rooms/", "status")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req RoomStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status := models.RoomStatus(req.Status)
	if !models.ValidRoomStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid room status")
		return
	}

	if err := s.db.UpdateRoomStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, database.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		s.logger.Error().Err(err).Int64("room_id", id).Msg("Room status update failed")
		writeError(w, http.StatusInternalServerError, "failed to update room")
		return
	}

	s.dropMemo()
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// parseResourceID extracts the numeric id from paths shaped like
// <prefix>{id}/<action>.
func parseResourceID(path, prefix, action string) (int64, bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != action {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
