package sentiment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/clinscribe/clinscribe/internal/models"
)

type fixedAnalyzer struct {
	result RawResult
	err    error
}

func (f *fixedAnalyzer) Classify(_ context.Context, _ string) (RawResult, error) {
	return f.result, f.err
}

func TestScorer_Analyze(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		analyzer Analyzer
		in       string
		want     models.SentimentResult
	}{
		{
			name:     "positive above threshold maps to reassured",
			analyzer: &fixedAnalyzer{result: RawResult{Label: LabelPositive, Score: 0.95}},
			in:       "That is a relief to hear",
			want: models.SentimentResult{
				Text:       "That is a relief to hear",
				Sentiment:  models.SentimentReassured,
				Confidence: 0.95,
				RawLabel:   LabelPositive,
			},
		},
		{
			name:     "negative above threshold maps to anxious",
			analyzer: &fixedAnalyzer{result: RawResult{Label: LabelNegative, Score: 0.9}},
			in:       "I am worried about the pain",
			want: models.SentimentResult{
				Text:       "I am worried about the pain",
				Sentiment:  models.SentimentAnxious,
				Confidence: 0.9,
				RawLabel:   LabelNegative,
			},
		},
		{
			name:     "below threshold becomes neutral",
			analyzer: &fixedAnalyzer{result: RawResult{Label: LabelNegative, Score: 0.55}},
			in:       "It comes and goes",
			want: models.SentimentResult{
				Text:       "It comes and goes",
				Sentiment:  models.SentimentNeutral,
				Confidence: 0.55,
				RawLabel:   LabelNegative,
			},
		},
		{
			name:     "blank input",
			analyzer: &fixedAnalyzer{result: RawResult{Label: LabelPositive, Score: 0.99}},
			in:       "   ",
			want: models.SentimentResult{
				Text:      "   ",
				Sentiment: models.SentimentNeutral,
				RawLabel:  LabelNeutral,
			},
		},
		{
			name:     "analyzer failure falls back to neutral",
			analyzer: &fixedAnalyzer{err: errors.New("model unavailable")},
			in:       "Some statement here",
			want: models.SentimentResult{
				Text:      "Some statement here",
				Sentiment: models.SentimentNeutral,
				RawLabel:  LabelError,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(tt.analyzer, 0.7, nil)
			got := s.Analyze(ctx, tt.in)
			if got != tt.want {
				t.Errorf("Analyze() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScorer_AnalyzeStatementsSkipsShort(t *testing.T) {
	s := NewScorer(&fixedAnalyzer{result: RawResult{Label: LabelPositive, Score: 0.9}}, 0.7, nil)

	results := s.AnalyzeStatements(context.Background(), []string{
		"Yes.",
		"That's a relief!",
		"I am feeling much better now",
	})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (statements under 3 words skipped)", len(results))
	}
	if results[0].Text != "That's a relief!" {
		t.Errorf("first scored statement = %q", results[0].Text)
	}
}

func TestScorer_Overall(t *testing.T) {
	s := NewScorer(NewLexiconAnalyzer(), 0.7, nil)

	results := []models.SentimentResult{
		{Sentiment: models.SentimentAnxious, Confidence: 0.9},
		{Sentiment: models.SentimentAnxious, Confidence: 0.8},
		{Sentiment: models.SentimentReassured, Confidence: 0.7},
	}
	overall := s.Overall(results)

	wantDist := map[string]int{
		models.SentimentAnxious:   2,
		models.SentimentNeutral:   0,
		models.SentimentReassured: 1,
	}
	if !reflect.DeepEqual(overall.Distribution, wantDist) {
		t.Errorf("distribution = %v, want %v", overall.Distribution, wantDist)
	}
	if overall.DominantSentiment != models.SentimentAnxious {
		t.Errorf("dominant = %q", overall.DominantSentiment)
	}
	if overall.TotalStatements != 3 {
		t.Errorf("total = %d", overall.TotalStatements)
	}
	if overall.AvgConfidence != 0.8 {
		t.Errorf("avg confidence = %v", overall.AvgConfidence)
	}
}

func TestScorer_OverallEmpty(t *testing.T) {
	s := NewScorer(NewLexiconAnalyzer(), 0.7, nil)

	overall := s.Overall(nil)
	if overall.DominantSentiment != models.SentimentNeutral {
		t.Errorf("dominant = %q, want Neutral", overall.DominantSentiment)
	}
	if overall.TotalStatements != 0 || overall.AvgConfidence != 0 {
		t.Errorf("empty overall = %+v", overall)
	}
}

func TestScorer_Timeline(t *testing.T) {
	s := NewScorer(NewLexiconAnalyzer(), 0.7, nil)

	results := []models.SentimentResult{
		{Sentiment: models.SentimentAnxious, Confidence: 0.9},
		{Sentiment: models.SentimentNeutral, Confidence: 0.5},
		{Sentiment: models.SentimentReassured, Confidence: 0.8},
	}
	timeline := s.Timeline(results)

	want := []models.SentimentPoint{
		{Position: 1, Sentiment: models.SentimentAnxious, Score: -1, Confidence: 0.9},
		{Position: 2, Sentiment: models.SentimentNeutral, Score: 0, Confidence: 0.5},
		{Position: 3, Sentiment: models.SentimentReassured, Score: 1, Confidence: 0.8},
	}
	if !reflect.DeepEqual(timeline, want) {
		t.Errorf("timeline = %+v, want %+v", timeline, want)
	}
}

func TestLexiconAnalyzer_Classify(t *testing.T) {
	a := NewLexiconAnalyzer()
	ctx := context.Background()

	tests := []struct {
		name      string
		in        string
		wantLabel string
		wantScore float64
	}{
		{
			name:      "negative statement",
			in:        "I am worried about my pain.",
			wantLabel: LabelNegative,
			wantScore: 1.0,
		},
		{
			name:      "positive statement",
			in:        "What a relief, I am feeling good.",
			wantLabel: LabelPositive,
			wantScore: 1.0,
		},
		{
			name:      "mixed statement ties to neutral",
			in:        "I feel better but the discomfort remains.",
			wantLabel: LabelNeutral,
			wantScore: 0.5,
		},
		{
			name:      "no lexicon hits",
			in:        "The appointment is on Tuesday.",
			wantLabel: LabelNeutral,
			wantScore: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Classify(ctx, tt.in)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if got.Label != tt.wantLabel || got.Score != tt.wantScore {
				t.Errorf("Classify(%q) = %+v, want {%s %v}", tt.in, got, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestLexiconScorerEndToEnd(t *testing.T) {
	s := NewScorer(NewLexiconAnalyzer(), 0.7, nil)

	got := s.Analyze(context.Background(), "I am worried about my pain.")
	if got.Sentiment != models.SentimentAnxious {
		t.Errorf("sentiment = %q, want Anxious", got.Sentiment)
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Confidence)
	}
}
