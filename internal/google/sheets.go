// Package google pushes dashboard data to a Google Spreadsheet, which the
// operations team uses as a shared read-only mirror of the local snapshot.
package google

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"hotelier/internal/metrics"
	"hotelier/internal/models"
	"hotelier/internal/occupancy"
)

// SheetsService appends booking and occupancy rows to a spreadsheet.
type SheetsService struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *zerolog.Logger
}

// NewSheetsService builds a service from a service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger *zerolog.Logger) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	if sheetName == "" {
		sheetName = "Dashboard"
	}

	return &SheetsService{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// SyncBookings replaces the sheet's booking rows with the active bookings of
// the current snapshot.
func (s *SheetsService) SyncBookings(ctx context.Context, bookings []models.Booking) error {
	active := s.filterActiveBookings(bookings)

	values := [][]interface{}{bookingHeader()}
	for i := range active {
		values = append(values, bookingRowValues(&active[i]))
	}

	rangeRef := fmt.Sprintf("%s!A1", s.sheetName)
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, rangeRef, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	metrics.IncReportExport("sheets")
	s.logger.Info().Int("bookings", len(active)).Msg("Bookings synced to spreadsheet")
	return nil
}

// AppendOccupancy appends one row per occupancy sample.
func (s *SheetsService) AppendOccupancy(ctx context.Context, samples []occupancy.Sample) error {
	values := make([][]interface{}, 0, len(samples))
	for _, sample := range samples {
		values = append(values, occupancyRowValues(sample))
	}

	rangeRef := fmt.Sprintf("%s!A1", s.sheetName)
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, rangeRef, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append occupancy rows: %w", err)
	}

	metrics.IncReportExport("sheets")
	return nil
}

// filterActiveBookings drops bookings whose status no longer holds inventory.
func (s *SheetsService) filterActiveBookings(bookings []models.Booking) []models.Booking {
	active := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.IsActive() {
			active = append(active, b)
		}
	}
	return active
}

func bookingHeader() []interface{} {
	return []interface{}{"ID", "Guest", "Status", "Check-in", "Check-out", "Rooms", "Updated"}
}

func bookingRowValues(b *models.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.GuestName,
		string(b.Status),
		b.Stay.CheckIn.Format("2006-01-02"),
		b.Stay.CheckOut.Format("2006-01-02"),
		b.TotalRoomsRequested(),
		b.UpdatedAt.Format(time.RFC3339),
	}
}

func occupancyRowValues(sample occupancy.Sample) []interface{} {
	return []interface{}{
		sample.Date.Format("2006-01-02"),
		sample.OccupiedCount,
		sample.AvailableCount,
		sample.Percentage,
	}
}
