package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hotelier/internal/calendar"
	"hotelier/internal/metrics"
	"hotelier/internal/models"
	"hotelier/internal/occupancy"
)

// OccupancyRequest is the request body for POST /api/occupancy.
type OccupancyRequest struct {
	StartDate string   `json:"start_date"`         // Format: YYYY-MM-DD
	EndDate   string   `json:"end_date"`           // Format: YYYY-MM-DD
	Statuses  []string `json:"statuses,omitempty"` // Optional: filter bookings by status
}

// OccupancyResponse is the response for POST /api/occupancy.
type OccupancyResponse struct {
	Samples []occupancy.Sample `json:"samples"`
	Period  struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleOccupancy returns per-day occupancy samples for a date range.
// POST /api/occupancy
func (s *HTTPServer) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("occupancy")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req OccupancyRequest
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

	for _, status := range req.Statuses {
		if !models.ValidBookingStatus(models.BookingStatus(status)) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
			return
		}
	}

	samples, err := s.computeSamples(r, start, end, req.Statuses)
	if err != nil {
		s.logger.Error().Err(err).Msg("Occupancy aggregation failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	response := OccupancyResponse{Samples: samples}
	response.Period.Start = req.StartDate
	response.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, response)
}

// computeSamples aggregates the requested range, memoizing per
// (range, status filter) until the snapshot changes.
func (s *HTTPServer) computeSamples(r *http.Request, start, end time.Time, statuses []string) ([]occupancy.Sample, error) {
	key := fmt.Sprintf("%s|%s|%v", start.Format("2006-01-02"), end.Format("2006-01-02"), statuses)
	if samples, ok := s.memoGet(key); ok {
		return samples, nil
	}

	// Half-open DB filter: checkout on `start` does not overlap, so the
	// lower bound is the day itself; the upper bound is the day after `end`.
	bookings, err := s.db.ListBookings(r.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	bookings = filterByStatus(bookings, statuses)

	days := calendar.EnumerateDays(start, end)
	samples := s.aggregator().Aggregate(days, bookings, s.db.GetRooms())

	metrics.IncAggregation()
	for _, sample := range samples {
		if len(sample.SynthesizedTypes) > 0 {
			metrics.AddSynthesizedTypes(len(sample.SynthesizedTypes))
			s.logger.Warn().
				Str("date", sample.Date.Format("2006-01-02")).
				Strs("room_types", sample.SynthesizedTypes).
				Msg("Bookings reference room types missing from inventory")
		}
	}

	s.memoPut(key, samples)
	return samples, nil
}

func filterByStatus(bookings []models.Booking, statuses []string) []models.Booking {
	if len(statuses) == 0 {
		return bookings
	}
	wanted := make(map[models.BookingStatus]bool, len(statuses))
	for _, status := range statuses {
		wanted[models.BookingStatus(status)] = true
	}
	filtered := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if wanted[b.Status] {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
