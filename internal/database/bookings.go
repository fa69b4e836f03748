package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotelier/internal/models"
)

// CreateBooking inserts a booking with its room type claims.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if b.HotelID == 0 {
		b.HotelID = 1
	}
	if b.Status == "" {
		b.Status = models.StatusPending
	}

	// Dashboard-created bookings may only pin rooms that actually exist.
	// Snapshot imports stay tolerant of unknown ids (see ReplaceBookings).
	for _, c := range b.Claims {
		for _, roomID := range c.AssignedRoomIDs() {
			exists, err := db.roomExists(ctx, roomID)
			if err != nil {
				return 0, fmt.Errorf("check room %d: %w", roomID, err)
			}
			if !exists {
				return 0, fmt.Errorf("%w: assigned room %d", ErrRoomNotFound, roomID)
			}
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (hotel_id, guest_name, guest_ref, status, check_in, check_out, room_count, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.HotelID, b.GuestName, b.GuestRef, b.Status, b.Stay.CheckIn, b.Stay.CheckOut,
		b.TotalRoomsRequested(), b.Comment, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	bookingID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last id: %w", err)
	}

	if err := insertClaims(ctx, tx, bookingID, b.Claims); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return bookingID, nil
}

func insertClaims(ctx context.Context, tx *sql.Tx, bookingID int64, claims []models.RoomTypeClaim) error {
	for _, c := range claims {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO booking_claims (booking_id, room_type, number_of_rooms)
			VALUES (?, ?, ?)`,
			bookingID, c.RoomType, c.NumberOfRooms,
		)
		if err != nil {
			return fmt.Errorf("insert claim: %w", err)
		}
		claimID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("claim last id: %w", err)
		}
		for _, roomID := range c.AssignedRoomIDs() {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO claim_rooms (claim_id, room_id) VALUES (?, ?)`,
				claimID, roomID,
			); err != nil {
				return fmt.Errorf("insert claim room: %w", err)
			}
		}
	}
	return nil
}

// GetBooking loads one booking with its claims.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, hotel_id, guest_name, guest_ref, status, check_in, check_out, room_count, comment, created_at, updated_at
		FROM bookings WHERE id = ?`, id)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	if err := db.attachClaims(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns bookings whose stay overlaps [from, to) ordered by
// check-in. Zero from/to means no bound on that side.
func (db *DB) ListBookings(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	query := `
		SELECT id, hotel_id, guest_name, guest_ref, status, check_in, check_out, room_count, comment, created_at, updated_at
		FROM bookings`
	var args []any
	switch {
	case !from.IsZero() && !to.IsZero():
		// Half-open overlap: check_in < to AND check_out > from.
		query += ` WHERE check_in < ? AND check_out > ?`
		args = append(args, to, from)
	case !from.IsZero():
		query += ` WHERE check_out > ?`
		args = append(args, from)
	case !to.IsZero():
		query += ` WHERE check_in < ?`
		args = append(args, to)
	}
	query += ` ORDER BY check_in, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	for i := range bookings {
		if err := db.attachClaims(ctx, &bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// UpdateBookingStatus applies a lifecycle transition, rejecting moves the
// status table does not allow.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, to models.BookingStatus) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current models.BookingStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("load status: %w", err)
	}

	if !models.CanTransition(current, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, to)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		to, time.Now(), id,
	); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReplaceBookings swaps the booking snapshot for records fetched upstream.
func (db *DB) ReplaceBookings(ctx context.Context, bookings []models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"claim_rooms", "booking_claims", "bookings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	now := time.Now()
	for i := range bookings {
		b := &bookings[i]
		hotelID := b.HotelID
		if hotelID == 0 {
			hotelID = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (id, hotel_id, guest_name, guest_ref, status, check_in, check_out, room_count, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, hotelID, b.GuestName, b.GuestRef, b.Status, b.Stay.CheckIn, b.Stay.CheckOut,
			b.TotalRoomsRequested(), b.Comment, now, now,
		); err != nil {
			return fmt.Errorf("insert booking %d: %w", b.ID, err)
		}
		if err := insertClaims(ctx, tx, b.ID, b.Claims); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (db *DB) attachClaims(ctx context.Context, b *models.Booking) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, room_type, number_of_rooms FROM booking_claims WHERE booking_id = ? ORDER BY id`, b.ID)
	if err != nil {
		return fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	type claimRow struct {
		id    int64
		claim models.RoomTypeClaim
	}
	var claimRows []claimRow
	for rows.Next() {
		var cr claimRow
		if err := rows.Scan(&cr.id, &cr.claim.RoomType, &cr.claim.NumberOfRooms); err != nil {
			return fmt.Errorf("scan claim: %w", err)
		}
		claimRows = append(claimRows, cr)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate claims: %w", err)
	}

	for i := range claimRows {
		idRows, err := db.QueryContext(ctx,
			`SELECT room_id FROM claim_rooms WHERE claim_id = ? ORDER BY room_id`, claimRows[i].id)
		if err != nil {
			return fmt.Errorf("query claim rooms: %w", err)
		}
		for idRows.Next() {
			var roomID int64
			if err := idRows.Scan(&roomID); err != nil {
				idRows.Close()
				return fmt.Errorf("scan claim room: %w", err)
			}
			claimRows[i].claim.RoomIDs = append(claimRows[i].claim.RoomIDs, roomID)
		}
		if err := idRows.Err(); err != nil {
			idRows.Close()
			return fmt.Errorf("iterate claim rooms: %w", err)
		}
		idRows.Close()
	}

	b.Claims = make([]models.RoomTypeClaim, 0, len(claimRows))
	for _, cr := range claimRows {
		b.Claims = append(b.Claims, cr.claim)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.HotelID, &b.GuestName, &b.GuestRef, &b.Status,
		&b.Stay.CheckIn, &b.Stay.CheckOut, &b.RoomCount, &b.Comment, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
