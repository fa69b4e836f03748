package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes tabular report data sheet by sheet.
type ExcelWriter interface {
	// AddSheet opens a new sheet and makes it current.
	AddSheet(name string) error

	// WriteHeader writes the header row of the current sheet.
	WriteHeader(columns []string) error

	// WriteRow appends a data row to the current sheet.
	WriteRow(row []interface{}) error

	// Save writes the workbook to w.
	Save(w io.Writer) error

	// SaveToFile writes the workbook to disk.
	SaveToFile(path string) error
}

// ExcelizeWriter implements ExcelWriter on top of excelize.
type ExcelizeWriter struct {
	file    *excelize.File
	sheet   string
	nextRow int
}

// NewExcelizeWriter creates an empty workbook.
func NewExcelizeWriter() ExcelWriter {
	return &ExcelizeWriter{file: excelize.NewFile()}
}

// AddSheet opens a new sheet and makes it current. The first call renames
// the default sheet instead of adding one, so exported workbooks never
// carry an empty "Sheet1".
func (w *ExcelizeWriter) AddSheet(name string) error {
	// Excel caps sheet names at 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.sheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.sheet = name
	w.nextRow = 1
	return nil
}

// WriteHeader writes a bold header row and freezes it, so the column names
// stay visible while scrolling long date ranges.
func (w *ExcelizeWriter) WriteHeader(columns []string) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}

	cells := make([]interface{}, len(columns))
	for i, col := range columns {
		cells[i] = col
	}
	if err := w.writeCells(cells); err != nil {
		return err
	}

	if style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = w.file.SetCellStyle(w.sheet, start, end, style)
	}
	_ = w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})

	return nil
}

// WriteRow appends a data row to the current sheet.
func (w *ExcelizeWriter) WriteRow(row []interface{}) error {
	if w.sheet == "" {
		return fmt.Errorf("no active sheet")
	}
	return w.writeCells(row)
}

func (w *ExcelizeWriter) writeCells(row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.nextRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", w.nextRow, err)
	}
	w.nextRow++
	return nil
}

// Save writes the workbook to w.
func (w *ExcelizeWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *ExcelizeWriter) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases the workbook's resources.
func (w *ExcelizeWriter) Close() error {
	return w.file.Close()
}
