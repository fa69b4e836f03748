package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hotelier/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB represents the database connection and its room cache.
type DB struct {
	*sql.DB
	roomsCache map[int64]models.Room
	cacheTime  time.Time
	mu         sync.RWMutex
	logger     *zerolog.Logger
}

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBadTransition   = errors.New("status transition not allowed")
	ErrDuplicateRoom   = errors.New("room number already exists")
)

// NewDB initializes a new database connection and creates tables if they don't exist.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// SQLite parameters: WAL mode, busy timeout.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{
		DB:         db,
		roomsCache: make(map[int64]models.Room),
		logger:     logger,
	}

	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	// Load rooms into cache
	if err := instance.LoadRooms(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to load rooms into cache")
		// We don't return error here to allow the app to start even if rooms are missing
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS hotels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			address TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hotel_id INTEGER NOT NULL DEFAULT 1,
			number TEXT NOT NULL,
			room_type TEXT NOT NULL,
			floor INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'available',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(hotel_id, number),
			FOREIGN KEY(hotel_id) REFERENCES hotels(id)
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hotel_id INTEGER NOT NULL DEFAULT 1,
			guest_name TEXT NOT NULL,
			guest_ref TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			check_in DATETIME NOT NULL,
			check_out DATETIME NOT NULL,
			room_count INTEGER NOT NULL DEFAULT 1,
			comment TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(hotel_id) REFERENCES hotels(id)
		)`,

		`CREATE TABLE IF NOT EXISTS booking_claims (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			booking_id INTEGER NOT NULL,
			room_type TEXT NOT NULL,
			number_of_rooms INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY(booking_id) REFERENCES bookings(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS claim_rooms (
			claim_id INTEGER NOT NULL,
			room_id INTEGER NOT NULL,
			PRIMARY KEY (claim_id, room_id),
			FOREIGN KEY(claim_id) REFERENCES booking_claims(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rooms_type ON rooms(room_type)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_active ON rooms(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_check_in ON bookings(check_in)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_check_out ON bookings(check_out)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_hotel ON bookings(hotel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_booking ON booking_claims(booking_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}

	// Rooms and bookings default to hotel_id 1, so that property must exist.
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO hotels (id, name) VALUES (1, 'Main property')`,
	); err != nil {
		return fmt.Errorf("seed default hotel: %v", err)
	}
	return nil
}

// ListHotels returns all managed properties sorted by id.
func (db *DB) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, COALESCE(address, ''), created_at FROM hotels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}
	return hotels, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
