package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/clinscribe/clinscribe/internal/models"
)

type fixedClassifier struct {
	result models.IntentResult
	err    error
}

func (f *fixedClassifier) Classify(_ context.Context, _ string) (models.IntentResult, error) {
	return f.result, f.err
}

func TestLexiconClassifier_Classify(t *testing.T) {
	c := NewLexiconClassifier()
	ctx := context.Background()

	tests := []struct {
		name       string
		in         string
		wantIntent string
	}{
		{
			name:       "expressing concern",
			in:         "I'm really worried and a bit nervous about this.",
			wantIntent: "expressing concern",
		},
		{
			name:       "reporting symptoms",
			in:         "The stiffness and discomfort in my neck are constant.",
			wantIntent: "reporting symptoms",
		},
		{
			name:       "describing history",
			in:         "The accident happened while I was driving home.",
			wantIntent: "describing history",
		},
		{
			name:       "expressing relief",
			in:         "That's a relief, I'm glad to hear it.",
			wantIntent: "expressing relief",
		},
		{
			name:       "no cues",
			in:         "The weather is lovely today.",
			wantIntent: models.IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(ctx, tt.in)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.in, got.Intent, tt.wantIntent)
			}
			if len(got.AllScores) != len(Labels) {
				t.Errorf("AllScores has %d labels, want %d", len(got.AllScores), len(Labels))
			}
		})
	}
}

func TestLexiconClassifier_Scores(t *testing.T) {
	c := NewLexiconClassifier()

	got, err := c.Classify(context.Background(), "I'm worried about the pain.")
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	// One concern cue and one symptom cue split the mass.
	if got.AllScores["expressing concern"] != 0.5 || got.AllScores["reporting symptoms"] != 0.5 {
		t.Errorf("scores = %v", got.AllScores)
	}
	// Ties resolve to the earlier label.
	if got.Intent != "reporting symptoms" {
		t.Errorf("intent = %q, want reporting symptoms on tie", got.Intent)
	}
	if got.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", got.Confidence)
	}
}

func TestScorer_ClassifyFallbacks(t *testing.T) {
	ctx := context.Background()

	blank := NewScorer(NewLexiconClassifier(), nil).Classify(ctx, "   ")
	if blank.Intent != models.IntentUnknown || blank.Confidence != 0 {
		t.Errorf("blank result = %+v", blank)
	}

	failing := NewScorer(&fixedClassifier{err: errors.New("model unavailable")}, nil)
	got := failing.Classify(ctx, "A statement long enough.")
	if got.Intent != models.IntentUnknown || got.Confidence != 0 {
		t.Errorf("failure result = %+v", got)
	}
	if got.Text != "A statement long enough." {
		t.Errorf("text = %q", got.Text)
	}
}

func TestScorer_ClassifyStatementsSkipsShort(t *testing.T) {
	s := NewScorer(NewLexiconClassifier(), nil)

	results := s.ClassifyStatements(context.Background(), []string{
		"Yes.",
		"The accident happened last week.",
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Intent != "describing history" {
		t.Errorf("intent = %q", results[0].Intent)
	}
}

func TestScorer_DistributionAndDominant(t *testing.T) {
	s := NewScorer(NewLexiconClassifier(), nil)

	results := []models.IntentResult{
		{Intent: "reporting symptoms"},
		{Intent: "reporting symptoms"},
		{Intent: "expressing relief"},
		{Intent: models.IntentUnknown},
	}

	distribution := s.Distribution(results)
	if len(distribution) != len(Labels) {
		t.Errorf("distribution has %d labels, want %d", len(distribution), len(Labels))
	}
	if distribution["reporting symptoms"] != 2 || distribution["expressing relief"] != 1 {
		t.Errorf("distribution = %v", distribution)
	}
	if _, ok := distribution[models.IntentUnknown]; ok {
		t.Error("unknown should not appear in distribution")
	}

	if got := s.Dominant(results); got != "reporting symptoms" {
		t.Errorf("Dominant = %q", got)
	}
	if got := s.Dominant(nil); got != models.IntentUnknown {
		t.Errorf("Dominant(nil) = %q", got)
	}
}
