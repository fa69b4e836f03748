package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"hotelier/internal/models"
)

func TestHandleCalendar_Validation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric year", "?year=abc&month=6"},
		{"year out of range", "?year=1867&month=6"},
		{"month zero", "?year=2025&month=0"},
		{"month thirteen", "?year=2025&month=13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv.Handler, http.MethodGet, "/api/calendar"+tt.query, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleCalendar_MonthGrid(t *testing.T) {
	srv := setupTestServer(t)
	seedRooms(t, srv.DB)
	seedBooking(t, srv.DB, "Ivanov", models.StatusConfirmed,
		day(2025, time.June, 10), day(2025, time.June, 12),
		models.RoomTypeClaim{RoomType: "standard", NumberOfRooms: 1})

	w := doJSON(t, srv.Handler, http.MethodGet, "/api/calendar?year=2025&month=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp CalendarResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Year != 2025 || resp.Month != 6 {
		t.Errorf("period = %d-%d, want 2025-6", resp.Year, resp.Month)
	}
	if len(resp.Cells) != 30 {
		t.Fatalf("cells = %d, want 30", len(resp.Cells))
	}

	for i, cell := range resp.Cells {
		wantDay := i + 1
		if cell.Date.Day() != wantDay {
			t.Fatalf("cell %d date = %s, want day %d", i, cell.Date, wantDay)
		}
	}

	// June 10 and 11 carry the booking; the checkout day June 12 does not.
	if got := len(resp.Cells[9].Bookings); got != 1 {
		t.Errorf("june 10 bookings = %d, want 1", got)
	}
	if got := len(resp.Cells[11].Bookings); got != 0 {
		t.Errorf("june 12 bookings = %d, want 0", got)
	}
	if resp.Cells[9].Sample.OccupiedCount != 1 {
		t.Errorf("june 10 occupied = %d, want 1", resp.Cells[9].Sample.OccupiedCount)
	}
}

func TestHandleCalendar_February(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/api/calendar?year=2024&month=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp CalendarResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Cells) != 29 {
		t.Errorf("leap february cells = %d, want 29", len(resp.Cells))
	}
}
