// Package export writes run listings to spreadsheet files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clinscribe/clinscribe/internal/models"
)

const sheetName = "Runs"

var headers = []string{"ID", "Source", "Patient", "Diagnosis", "Severity", "Sentiment", "Processed At"}

// Writer exports flattened run rows as .xlsx files into a fixed directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer that places exports under dir. The directory is
// created on first use.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Export writes rows to a timestamped workbook and returns its path.
func (w *Writer) Export(rows []*models.RunSummaryRow) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("runs-%s.xlsx", w.now().Format("20060102-150405")))
	if err := WriteRuns(path, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRuns writes rows to an .xlsx workbook at path, one run per row under a
// header row.
func WriteRuns(path string, rows []*models.RunSummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Source,
			row.PatientName,
			row.Diagnosis,
			row.Severity,
			row.Sentiment,
			row.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
