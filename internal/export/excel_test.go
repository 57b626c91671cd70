package export

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clinscribe/clinscribe/internal/models"
)

func sampleRows() []*models.RunSummaryRow {
	created := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	return []*models.RunSummaryRow{
		{
			ID:          "r1",
			Source:      "intake/jones.txt",
			PatientName: "Ms. Jones",
			Diagnosis:   "whiplash",
			Severity:    "Mild",
			Sentiment:   "Anxious",
			CreatedAt:   created,
		},
		{
			ID:          "r2",
			Source:      "intake/smith.txt",
			PatientName: "Mr. Smith",
			Diagnosis:   "lower back strain",
			Severity:    "Moderate",
			Sentiment:   "Neutral",
			CreatedAt:   created.Add(time.Hour),
		},
	}
}

func TestWriteRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.xlsx")
	if err := WriteRuns(path, sampleRows()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2)", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][3] != "Diagnosis" {
		t.Errorf("header row: %v", rows[0])
	}
	if rows[1][2] != "Ms. Jones" || rows[1][3] != "whiplash" {
		t.Errorf("first data row: %v", rows[1])
	}
	if rows[2][4] != "Moderate" {
		t.Errorf("second data row: %v", rows[2])
	}
}

func TestWriteRuns_empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteRuns(path, nil); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should keep the header row only, got %d rows", len(rows))
	}
}

func TestWriter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) }

	path, err := w.Export(sampleRows())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("export landed in %s, want %s", filepath.Dir(path), dir)
	}
	if !strings.HasSuffix(path, "runs-20260827-120000.xlsx") {
		t.Errorf("export name = %s", filepath.Base(path))
	}
	if _, err := excelize.OpenFile(path); err != nil {
		t.Errorf("export not readable: %v", err)
	}
}
