package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"hotelier/internal/models"
)

func TestHandleOccupancyReport(t *testing.T) {
	srv := setupTestServer(t)
	seedRooms(t, srv.DB)
	seedBooking(t, srv.DB, "Ivanov", models.StatusConfirmed,
		day(2025, time.June, 10), day(2025, time.June, 12),
		models.RoomTypeClaim{RoomType: "standard", NumberOfRooms: 1})

	w := doJSON(t, srv.Handler, http.MethodGet,
		"/api/reports/occupancy?start_date=2025-06-10&end_date=2025-06-12", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "occupancy_2025-06-10_2025-06-12_") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("empty report body")
	}
}

func TestHandleOccupancyReport_Validation(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/api/reports/occupancy", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing range: status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = doJSON(t, srv.Handler, http.MethodPost,
		"/api/reports/occupancy?start_date=2025-06-10&end_date=2025-06-12", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
