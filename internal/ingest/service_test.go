package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clinscribe/clinscribe/internal/extract"
	"github.com/clinscribe/clinscribe/internal/pipeline"
	"github.com/clinscribe/clinscribe/internal/runindex"
	"github.com/clinscribe/clinscribe/internal/storage"
)

const sampleTranscript = `Physician: Good morning, Ms. Jones. How are you feeling?
Patient: I still have some neck pain, but it is improving.
Physician: You were diagnosed with whiplash. I recommend physiotherapy.`

func newTestService(t *testing.T) (*Service, storage.Storage, runindex.Index) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	idx, err := runindex.NewBleveIndex(filepath.Join(dir, "runs.bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	svc := NewService(pipeline.New(pipeline.Options{}), store, idx, extract.NewExtractor())
	return svc, store, idx
}

func TestService_ProcessText(t *testing.T) {
	svc, store, idx := newTestService(t)
	ctx := context.Background()

	run, err := svc.ProcessText(ctx, "", "api", sampleTranscript)
	if err != nil {
		t.Fatal(err)
	}
	if run.ID == "" {
		t.Error("run should get a generated ID")
	}
	if run.Output == nil || run.SOAP == nil {
		t.Fatal("run missing output or soap note")
	}

	stored, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Output.Summary.PatientName != "Ms. Jones" {
		t.Errorf("stored patient name = %q", stored.Output.Summary.PatientName)
	}

	hits, err := idx.Search(ctx, "whiplash", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != run.ID {
		t.Errorf("index hits = %+v", hits)
	}
}

func TestService_ProcessText_emptyInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.ProcessText(context.Background(), "", "api", "   "); err == nil {
		t.Error("expected error for blank transcript")
	}
}

func TestService_ProcessFile_deterministicID(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "visit.txt")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0600); err != nil {
		t.Fatal(err)
	}

	first, err := svc.ProcessFile(ctx, path, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ProcessFile(ctx, path, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("same file should map to the same run: %q vs %q", first.ID, second.ID)
	}

	n, err := store.CountRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("run count = %d, want 1", n)
	}
}

func TestService_ProcessFile_extensionFilter(t *testing.T) {
	svc, _, _ := newTestService(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.xyz")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProcessFile(context.Background(), path, []string{".txt"}); err == nil {
		t.Error("expected error for disallowed extension")
	}
}

func TestService_ProcessDirectory(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "august"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"jones.txt":        sampleTranscript,
		"august/smith.md":  sampleTranscript,
		"ignore.xyz":       sampleTranscript,
		"august/empty.txt": "   ",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	// The blank transcript fails the pipeline and is skipped, not fatal.
	n, err := svc.ProcessDirectory(ctx, dir, []string{".txt", ".md"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("processed = %d, want 2", n)
	}
	count, err := store.CountRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("run count = %d, want 2", count)
	}
}

func TestService_RemoveFile(t *testing.T) {
	svc, store, idx := newTestService(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "visit.txt")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0600); err != nil {
		t.Fatal(err)
	}
	run, err := svc.ProcessFile(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetRun(ctx, run.ID); err == nil {
		t.Error("run should be gone from storage")
	}
	hits, err := idx.Search(ctx, "whiplash", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("run should be gone from index, got %+v", hits)
	}
}
