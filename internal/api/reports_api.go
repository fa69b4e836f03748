package api

import (
	"fmt"
	"net/http"

	"hotelier/internal/metrics"
	"hotelier/internal/report"
)

// handleOccupancyReport streams an xlsx occupancy report for the requested
// range. GET /api/reports/occupancy?start_date=...&end_date=...
func (s *HTTPServer) handleOccupancyReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("occupancy_report")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}

	q := r.URL.Query()
	start, end, err := s.parseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	samples, err := s.computeSamples(r, start, end, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Report aggregation failed")
		writeError(w, http.StatusInternalServerError, "failed to aggregate occupancy")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(start, end)))

	if err := s.reports.WriteOccupancy(w, samples); err != nil {
		// Headers are already sent; all we can do is log.
		s.logger.Error().Err(err).Msg("Report write failed")
	}
}
