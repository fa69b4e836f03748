package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"hotelier/internal/models"
)

// LoadRooms refreshes the in-memory room cache from the rooms table.
func (db *DB) LoadRooms(ctx context.Context) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, hotel_id, number, room_type, floor, status, is_active, created_at, updated_at
		FROM rooms`)
	if err != nil {
		return fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	cache := make(map[int64]models.Room)
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.HotelID, &r.Number, &r.Type, &r.Floor, &r.Status, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return fmt.Errorf("scan room: %w", err)
		}
		cache[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rooms: %w", err)
	}

	db.mu.Lock()
	db.roomsCache = cache
	db.cacheTime = time.Now()
	db.mu.Unlock()
	return nil
}

// GetRooms returns the cached room inventory sorted by id.
func (db *DB) GetRooms() []models.Room {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rooms := make([]models.Room, 0, len(db.roomsCache))
	for _, r := range db.roomsCache {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// GetRoom returns a single cached room.
func (db *DB) GetRoom(id int64) (models.Room, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := db.roomsCache[id]
	return r, ok
}

// CreateRoom inserts a new room and refreshes the cache.
func (db *DB) CreateRoom(ctx context.Context, room models.Room) (int64, error) {
	if room.HotelID == 0 {
		room.HotelID = 1
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	now := time.Now()
	result, err := db.ExecContext(ctx, `
		INSERT INTO rooms (hotel_id, number, room_type, floor, status, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.HotelID, room.Number, room.Type, room.Floor, room.Status, room.Active, now, now,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, ErrDuplicateRoom
		}
		return 0, fmt.Errorf("insert room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last id: %w", err)
	}

	if err := db.LoadRooms(ctx); err != nil {
		db.logger.Error().Err(err).Msg("Failed to refresh room cache after insert")
	}
	return id, nil
}

// UpdateRoomStatus sets the housekeeping status of a room.
func (db *DB) UpdateRoomStatus(ctx context.Context, roomID int64, status models.RoomStatus) error {
	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), roomID,
	)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}

	if err := db.LoadRooms(ctx); err != nil {
		db.logger.Error().Err(err).Msg("Failed to refresh room cache after update")
	}
	return nil
}

// ReplaceRooms swaps the whole room inventory for a snapshot fetched from the
// upstream source. Runs in a single transaction so readers never see a
// half-replaced inventory.
func (db *DB) ReplaceRooms(ctx context.Context, rooms []models.Room) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}

	now := time.Now()
	for _, r := range rooms {
		if r.HotelID == 0 {
			r.HotelID = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (id, hotel_id, number, room_type, floor, status, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.HotelID, r.Number, r.Type, r.Floor, r.Status, r.Active, now, now,
		); err != nil {
			return fmt.Errorf("insert room %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return db.LoadRooms(ctx)
}

// roomExists reports whether the room id is present, bypassing the cache.
func (db *DB) roomExists(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := db.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
