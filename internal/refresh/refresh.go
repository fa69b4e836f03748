// Package refresh keeps the local booking/room snapshot in sync with the
// upstream booking source. The core computation layer is recomputed on
// demand from whatever snapshot is current; this loop only moves data.
package refresh

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hotelier/internal/database"
	"hotelier/internal/events"
	"hotelier/internal/metrics"
	"hotelier/internal/upstream"
)

// Source is the subset of the upstream client the refresher needs.
type Source interface {
	FetchBookings(ctx context.Context, from, to string) ([]upstream.BookingRecord, error)
	FetchRooms(ctx context.Context) ([]upstream.RoomRecord, error)
}

// Refresher periodically replaces the local snapshot with upstream data.
type Refresher struct {
	source   Source
	db       *database.DB
	bus      *events.Bus
	interval time.Duration
	// HorizonDays bounds how far into past and future bookings are fetched.
	HorizonDays int
	logger      *zerolog.Logger
}

func New(source Source, db *database.DB, bus *events.Bus, interval time.Duration, logger *zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Refresher{
		source:      source,
		db:          db,
		bus:         bus,
		interval:    interval,
		HorizonDays: 180,
		logger:      logger,
	}
}

// Start runs the refresh loop until the context is cancelled. The first
// refresh runs immediately.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("Snapshot refresher started")

	if err := r.RefreshOnce(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Initial snapshot refresh failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Error().Err(err).Msg("Snapshot refresh failed")
			}
		}
	}
}

// RefreshOnce fetches bookings and rooms upstream and swaps the local
// snapshot, publishing a snapshot.updated event on success.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	from := time.Now().AddDate(0, 0, -r.HorizonDays).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, r.HorizonDays).Format("2006-01-02")

	bookingRecords, err := r.source.FetchBookings(ctx, from, to)
	if err != nil {
		metrics.IncSnapshotRefresh("error")
		return err
	}
	roomRecords, err := r.source.FetchRooms(ctx)
	if err != nil {
		metrics.IncSnapshotRefresh("error")
		return err
	}

	bookings := upstream.DecodeBookings(bookingRecords, r.logger)
	rooms := upstream.DecodeRooms(roomRecords)

	if err := r.db.ReplaceRooms(ctx, rooms); err != nil {
		metrics.IncSnapshotRefresh("error")
		return err
	}
	if err := r.db.ReplaceBookings(ctx, bookings); err != nil {
		metrics.IncSnapshotRefresh("error")
		return err
	}

	metrics.IncSnapshotRefresh("ok")
	r.logger.Info().
		Int("bookings", len(bookings)).
		Int("rooms", len(rooms)).
		Msg("Snapshot refreshed")

	if r.bus != nil {
		r.bus.Publish(events.Event{Type: events.TypeSnapshotUpdated})
	}
	return nil
}
