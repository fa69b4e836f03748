package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hotelier/internal/metrics"
	"hotelier/internal/occupancy"
)

const dateLayout = "2006-01-02"

// Service renders occupancy samples into spreadsheet reports.
type Service struct {
	writerFactory func() ExcelWriter
	logger        *zerolog.Logger
}

// NewService creates a report service. A nil writerFactory defaults to the
// excelize implementation.
func NewService(writerFactory func() ExcelWriter, logger *zerolog.Logger) *Service {
	if writerFactory == nil {
		writerFactory = NewExcelizeWriter
	}
	return &Service{writerFactory: writerFactory, logger: logger}
}

// Filename builds a report file name like "occupancy_2025-06-01_2025-06-30_<id>.xlsx".
// The uuid suffix keeps concurrent exports from clobbering each other.
func Filename(start, end time.Time) string {
	return fmt.Sprintf("occupancy_%s_%s_%s.xlsx",
		start.Format(dateLayout), end.Format(dateLayout), uuid.NewString()[:8])
}

// WriteOccupancy renders the samples into a two-sheet workbook and writes it
// to w: a per-day "Occupancy" sheet and a "By room type" breakdown sheet.
func (s *Service) WriteOccupancy(w io.Writer, samples []occupancy.Sample) error {
	writer := s.writerFactory()

	if err := s.writeDailySheet(writer, samples); err != nil {
		return err
	}
	if err := s.writeByTypeSheet(writer, samples); err != nil {
		return err
	}

	if err := writer.Save(w); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	metrics.IncReportExport("excel")
	if s.logger != nil {
		s.logger.Info().Int("days", len(samples)).Msg("Occupancy report exported")
	}
	return nil
}

func (s *Service) writeDailySheet(writer ExcelWriter, samples []occupancy.Sample) error {
	if err := writer.AddSheet("Occupancy"); err != nil {
		return err
	}
	if err := writer.WriteHeader([]string{"Date", "Occupied", "Available", "Occupancy %", "Data quality"}); err != nil {
		return err
	}
	for _, sample := range samples {
		quality := ""
		if len(sample.SynthesizedTypes) > 0 {
			quality = fmt.Sprintf("unknown room types: %v", sample.SynthesizedTypes)
		}
		row := []interface{}{
			sample.Date.Format(dateLayout),
			sample.OccupiedCount,
			sample.AvailableCount,
			sample.Percentage,
			quality,
		}
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeByTypeSheet(writer ExcelWriter, samples []occupancy.Sample) error {
	if err := writer.AddSheet("By room type"); err != nil {
		return err
	}
	if err := writer.WriteHeader([]string{"Date", "Room type", "Total", "Occupied", "Occupancy %"}); err != nil {
		return err
	}
	for _, sample := range samples {
		types := make([]string, 0, len(sample.ByRoomType))
		for name := range sample.ByRoomType {
			types = append(types, name)
		}
		sort.Strings(types)

		for _, name := range types {
			t := sample.ByRoomType[name]
			row := []interface{}{
				sample.Date.Format(dateLayout),
				name,
				t.Total,
				t.Occupied,
				t.Percentage,
			}
			if err := writer.WriteRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}
