package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/occupancy"
	"hotelier/internal/report"
)

const (
	// MaxDaysRange is the maximum number of days allowed in a single
	// occupancy/timeline request.
	MaxDaysRange = 90
)

// Options carries the server's tunables.
type Options struct {
	Port              int
	APIKey            string
	DefaultTotalRooms int
	MaxRangeDays      int
}

// HTTPServer exposes the dashboard API over plain net/http.
type HTTPServer struct {
	server  *http.Server
	db      *database.DB
	bus     *events.Bus
	opts    Options
	reports *report.Service
	logger  *zerolog.Logger

	// memo caches aggregation responses until the snapshot changes.
	memoMu sync.RWMutex
	memo   map[string][]occupancy.Sample
}

// NewHTTPServer wires routes and the snapshot-updated subscription.
func NewHTTPServer(db *database.DB, bus *events.Bus, reports *report.Service, opts Options, logger *zerolog.Logger) *HTTPServer {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = MaxDaysRange
	}
	s := &HTTPServer{
		db:      db,
		bus:     bus,
		opts:    opts,
		reports: reports,
		logger:  logger,
		memo:    make(map[string][]occupancy.Sample),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/occupancy", s.withAuth(s.handleOccupancy))
	mux.HandleFunc("/api/timeline", s.withAuth(s.handleTimeline))
	mux.HandleFunc("/api/calendar", s.withAuth(s.handleCalendar))
	mux.HandleFunc("/api/hotels", s.withAuth(s.handleHotels))
	mux.HandleFunc("/api/rooms", s.withAuth(s.handleRooms))
	mux.HandleFunc("/api/rooms/", s.withAuth(s.handleRoomStatus))
	mux.HandleFunc("/api/bookings", s.withAuth(s.handleBookings))
	mux.HandleFunc("/api/bookings/", s.withAuth(s.handleBookingStatus))
	mux.HandleFunc("/api/reports/occupancy", s.withAuth(s.handleOccupancyReport))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if bus != nil {
		bus.Subscribe(events.TypeSnapshotUpdated, func(events.Event) error {
			s.dropMemo()
			return nil
		})
	}
	return s
}

// Start serves until the context is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.APIKey != "" && r.Header.Get("x-api-key") != s.opts.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) aggregator() occupancy.Aggregator {
	return occupancy.Aggregator{DefaultTotalRooms: s.opts.DefaultTotalRooms}
}

func (s *HTTPServer) dropMemo() {
	s.memoMu.Lock()
	s.memo = make(map[string][]occupancy.Sample)
	s.memoMu.Unlock()
}

func (s *HTTPServer) memoGet(key string) ([]occupancy.Sample, bool) {
	s.memoMu.RLock()
	defer s.memoMu.RUnlock()
	samples, ok := s.memo[key]
	return samples, ok
}

func (s *HTTPServer) memoPut(key string, samples []occupancy.Sample) {
	s.memoMu.Lock()
	s.memo[key] = samples
	s.memoMu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseDateRange validates a YYYY-MM-DD pair against the configured window cap.
func (s *HTTPServer) parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	start, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}
	end, err = time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before or equal to end_date")
	}

	days := int(end.Sub(start).Hours() / 24)
	if days > s.opts.MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", s.opts.MaxRangeDays)
	}

	return start, end, nil
}
