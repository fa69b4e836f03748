package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"hotelier/internal/models"
)

func TestHandleRooms_ListAndCreate(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/api/rooms", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", w.Code, http.StatusOK)
	}
	var listResp struct {
		Rooms  []models.Room            `json:"rooms"`
		ByType map[string][]models.Room `json:"by_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(listResp.Rooms) != 0 {
		t.Errorf("rooms = %d, want 0", len(listResp.Rooms))
	}

	w = doJSON(t, srv.Handler, http.MethodPost, "/api/rooms", CreateRoomRequest{
		Number: "101",
		Type:   "standard",
		Floor:  1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	// Same number for the same hotel conflicts.
	w = doJSON(t, srv.Handler, http.MethodPost, "/api/rooms", CreateRoomRequest{
		Number: "101",
		Type:   "lux",
		Floor:  1,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = doJSON(t, srv.Handler, http.MethodGet, "/api/rooms", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(listResp.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(listResp.Rooms))
	}
	room := listResp.Rooms[0]
	if room.Number != "101" || room.Type != "standard" {
		t.Errorf("room = %s/%s, want 101/standard", room.Number, room.Type)
	}
	if room.Status != models.RoomAvailable {
		t.Errorf("status = %s, want %s", room.Status, models.RoomAvailable)
	}
	if got := len(listResp.ByType["standard"]); got != 1 {
		t.Errorf("by_type[standard] = %d rooms, want 1", got)
	}
}

func TestHandleHotels(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/api/hotels", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		Hotels []models.Hotel `json:"hotels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Hotels) != 1 {
		t.Fatalf("hotels = %d, want the default property", len(resp.Hotels))
	}
	if resp.Hotels[0].ID != 1 || resp.Hotels[0].Name == "" {
		t.Errorf("hotel = %+v, want id 1 with a name", resp.Hotels[0])
	}

	w = doJSON(t, srv.Handler, http.MethodPost, "/api/hotels", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestCreateRoom_Validation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid JSON",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON body",
		},
		{
			name:       "missing number",
			body:       CreateRoomRequest{Type: "standard"},
			wantStatus: http.StatusBadRequest,
			wantError:  "number is required",
		},
		{
			name:       "missing type",
			body:       CreateRoomRequest{Number: "101"},
			wantStatus: http.StatusBadRequest,
			wantError:  "type is required",
		},
		{
			name:       "bad status",
			body:       CreateRoomRequest{Number: "101", Type: "standard", Status: "flooded"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid room status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv.Handler, http.MethodPost, "/api/rooms", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err == nil {
				if resp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
				}
			}
		})
	}
}

func TestHandleRoomStatus(t *testing.T) {
	srv := setupTestServer(t)
	seedRooms(t, srv.DB)

	rooms := srv.DB.GetRooms()
	if len(rooms) == 0 {
		t.Fatal("no seeded rooms")
	}
	path := fmt.Sprintf("/api/rooms/%d/status", rooms[0].ID)

	w := doJSON(t, srv.Handler, http.MethodPatch, path, RoomStatusRequest{Status: "cleaning"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	updated, ok := srv.DB.GetRoom(rooms[0].ID)
	if !ok {
		t.Fatal("room vanished from cache")
	}
	if updated.Status != models.RoomCleaning {
		t.Errorf("room status = %s, want %s", updated.Status, models.RoomCleaning)
	}

	w = doJSON(t, srv.Handler, http.MethodPatch, path, RoomStatusRequest{Status: "broken"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status value: status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = doJSON(t, srv.Handler, http.MethodPatch, "/api/rooms/9999/status", RoomStatusRequest{Status: "cleaning"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing room: status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = doJSON(t, srv.Handler, http.MethodGet, path, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on status: status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
