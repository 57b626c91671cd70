package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/clinscribe/clinscribe/internal/models"
)

const sampleTranscript = `Physician: Good morning, Ms. Jones. How are you feeling today?
Patient: Good morning, doctor. I'm doing better, but I still have some discomfort now and then.
Physician: I understand you were in a car accident last September.
Patient: Yes, it was on September 1st. I hit my head and felt pain in my neck right away.
[Physical Examination Conducted]
Physician: Everything looks good, full range of movement.
Physician: I recommend physiotherapy sessions. You were diagnosed with whiplash.
Patient: That's a relief, I'm glad it is nothing serious.`

func TestPipeline_ProcessEmptyInput(t *testing.T) {
	p := New(Options{})

	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := p.Process(context.Background(), in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Process(%q) error = %v, want ErrEmptyInput", in, err)
		}
	}
}

func TestPipeline_Process(t *testing.T) {
	p := New(Options{})

	out, err := p.Process(context.Background(), sampleTranscript)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if out.Metadata.PipelineVersion != Version {
		t.Errorf("version = %q", out.Metadata.PipelineVersion)
	}
	if out.Metadata.TotalDialogues != 7 {
		t.Errorf("total dialogues = %d, want 7", out.Metadata.TotalDialogues)
	}
	if out.Metadata.DoctorTurns != 4 || out.Metadata.PatientTurns != 3 {
		t.Errorf("turn counts = %d doctor / %d patient", out.Metadata.DoctorTurns, out.Metadata.PatientTurns)
	}
	if out.Metadata.ProcessedAt.IsZero() {
		t.Error("processed_at not set")
	}

	if out.Summary.PatientName != "Ms. Jones" {
		t.Errorf("patient name = %q", out.Summary.PatientName)
	}
	if !strings.Contains(out.Summary.Diagnosis, "whiplash") {
		t.Errorf("diagnosis = %q", out.Summary.Diagnosis)
	}

	if len(out.Entities["symptoms"]) == 0 {
		t.Error("no symptoms in entities")
	}
	if len(out.TemporalInfo.Dates) == 0 {
		t.Error("no dates extracted")
	}
	if len(out.Keywords.TopKeywords) == 0 {
		t.Error("no keywords extracted")
	}
	if len(out.Dialogues) != 7 {
		t.Errorf("dialogues = %d, want 7", len(out.Dialogues))
	}

	if out.SentimentAnalysis.Overall.TotalStatements != len(out.SentimentAnalysis.PerStatement) {
		t.Error("sentiment overall does not match per-statement count")
	}
	if len(out.SentimentAnalysis.Timeline) != len(out.SentimentAnalysis.PerStatement) {
		t.Error("timeline length does not match per-statement count")
	}
	if len(out.IntentAnalysis.Distribution) == 0 {
		t.Error("intent distribution empty")
	}
}

func TestPipeline_ProcessDeterministic(t *testing.T) {
	p := New(Options{})
	ctx := context.Background()

	first, err := p.Process(ctx, sampleTranscript)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	second, err := p.Process(ctx, sampleTranscript)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	// Timestamps differ; everything else must not.
	first.Metadata.ProcessedAt = second.Metadata.ProcessedAt
	assertEqualJSONShape(t, first, second)
}

func assertEqualJSONShape(t *testing.T, a, b *models.PipelineOutput) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Error("pipeline output differs between identical runs")
	}
}

func TestPipeline_ScenarioThreeTurns(t *testing.T) {
	p := New(Options{})

	out, err := p.Process(context.Background(), "Physician: Hello.\nPatient: I have pain.\nPhysician: I see.")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if out.Metadata.TotalDialogues != 3 {
		t.Errorf("total dialogues = %d, want 3", out.Metadata.TotalDialogues)
	}
	if out.Metadata.PatientTurns != 1 {
		t.Errorf("patient turns = %d, want 1", out.Metadata.PatientTurns)
	}
	speakers := []string{
		out.Dialogues[0].Speaker,
		out.Dialogues[1].Speaker,
		out.Dialogues[2].Speaker,
	}
	want := []string{models.RoleDoctor, models.RolePatient, models.RoleDoctor}
	for i := range want {
		if speakers[i] != want[i] {
			t.Errorf("speaker %d = %q, want %q", i, speakers[i], want[i])
		}
	}
}

func TestPipeline_BuildSOAP(t *testing.T) {
	p := New(Options{})

	note, err := p.BuildSOAP(sampleTranscript)
	if err != nil {
		t.Fatalf("BuildSOAP() error: %v", err)
	}
	if note.Assessment.Severity == "" {
		t.Error("severity empty")
	}
	if !strings.Contains(note.Assessment.PrimaryDiagnosis, "whiplash") {
		t.Errorf("diagnosis = %q", note.Assessment.PrimaryDiagnosis)
	}
	if len(note.Subjective.PatientStatements) != 3 {
		t.Errorf("patient statements = %d, want 3", len(note.Subjective.PatientStatements))
	}

	if _, err := p.BuildSOAP("  "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("BuildSOAP(blank) error = %v, want ErrEmptyInput", err)
	}
}
