package api

import (
	"net/http"
	"strconv"
	"time"

	"hotelier/internal/calendar"
	"hotelier/internal/metrics"
)

// CalendarResponse is the response for GET /api/calendar.
type CalendarResponse struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Cells []calendar.DayCell `json:"cells"`
}

// handleCalendar returns the month grid with per-day occupancy and bookings.
// GET /api/calendar?year=2025&month=6
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2000 || parsed > 2200 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "invalid month; expected 1-12")
			return
		}
		month = parsed
	}

	first, last := calendar.MonthWindow(year, time.Month(month))

	bookings, err := s.db.ListBookings(r.Context(), first, last.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error().Err(err).Msg("Calendar booking load failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	cells := calendar.BuildGrid(first, last, bookings, s.db.GetRooms(), s.aggregator())
	metrics.IncAggregation()

	writeJSON(w, http.StatusOK, CalendarResponse{
		Year:  year,
		Month: month,
		Cells: cells,
	})
}
