// Package integration wires the full stack (pipeline, storage, index,
// suggester, exporter) the way the server does and exercises it end to end.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/clinscribe/clinscribe/internal/export"
	"github.com/clinscribe/clinscribe/internal/extract"
	"github.com/clinscribe/clinscribe/internal/ingest"
	"github.com/clinscribe/clinscribe/internal/pipeline"
	"github.com/clinscribe/clinscribe/internal/runindex"
	"github.com/clinscribe/clinscribe/internal/storage"
)

const whiplashTranscript = `Physician: Good morning, Ms. Jones. How are you feeling today?
Patient: I still have neck pain and stiffness, but it is improving.
Physician: You were diagnosed with whiplash. I recommend physiotherapy twice a week.`

const migraineTranscript = `Physician: Hello, Mr. Smith. What brings you in?
Patient: I keep getting throbbing headaches with sensitivity to light.
Physician: These are classic migraine symptoms. I am prescribing sumatriptan.`

func TestIntegration_ProcessSearchExport(t *testing.T) {
	dir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	idx, err := runindex.NewBleveIndex(filepath.Join(dir, "runs.bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	svc := ingest.NewService(pipeline.New(pipeline.Options{}), store, idx, extract.NewExtractor())
	suggester := runindex.NewSuggester(idx, 2)
	exporter := export.NewWriter(filepath.Join(dir, "exports"))
	ctx := context.Background()

	run1, err := svc.ProcessText(ctx, "", "intake/jones.txt", whiplashTranscript)
	if err != nil {
		t.Fatal(err)
	}
	run2, err := svc.ProcessText(ctx, "", "intake/smith.txt", migraineTranscript)
	if err != nil {
		t.Fatal(err)
	}

	// Keyword search distinguishes the two consultations.
	results, err := idx.Search(ctx, "whiplash", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != run1.ID {
		t.Errorf("whiplash results = %+v", results)
	}
	results, err = idx.Search(ctx, "migraine", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != run2.ID {
		t.Errorf("migraine results = %+v", results)
	}

	// A typo produces no hits but a usable correction.
	results, err = idx.Search(ctx, "whiplsh", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("typo query should miss, got %+v", results)
	}
	check, err := suggester.Check("whiplsh")
	if err != nil {
		t.Fatal(err)
	}
	if !check.HasCorrections || check.CorrectedQuery != "whiplash" {
		t.Errorf("suggestion = %+v", check)
	}

	// The export carries the flattened rows for both runs.
	rows, err := store.ListRuns(ctx, 0, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("listed %d rows, want 2", len(rows))
	}
	path, err := exporter.Export(rows)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheetRows, err := f.GetRows("Runs")
	if err != nil {
		t.Fatal(err)
	}
	if len(sheetRows) != 3 {
		t.Errorf("export has %d rows, want header + 2", len(sheetRows))
	}

	// Deleting a run removes it from storage and the index.
	if err := svc.DeleteRun(ctx, run2.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetRun(ctx, run2.ID); err == nil {
		t.Error("deleted run still in storage")
	}
	results, err = idx.Search(ctx, "migraine", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted run still indexed: %+v", results)
	}
}
