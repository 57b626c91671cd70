// Package intent classifies the communicative intent behind patient
// statements into a fixed label set.
package intent

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/clinscribe/clinscribe/internal/models"
)

// Labels is the fixed intent label set, in tie-break order.
var Labels = []string{
	"seeking reassurance",
	"reporting symptoms",
	"expressing concern",
	"asking questions",
	"describing history",
	"confirming understanding",
	"expressing relief",
}

const maxInputChars = 512

const minStatementWords = 3

// Classifier scores one statement against the label set. Implementations
// must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.IntentResult, error)
}

// Scorer runs a Classifier over patient statements and aggregates results.
type Scorer struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewScorer returns a Scorer around the given classifier.
func NewScorer(classifier Classifier, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{classifier: classifier, logger: logger}
}

// Classify labels one statement. Blank input and classifier failures both
// yield an unknown intent with zero confidence.
func (s *Scorer) Classify(ctx context.Context, text string) models.IntentResult {
	if strings.TrimSpace(text) == "" {
		return models.IntentResult{
			Text:      text,
			Intent:    models.IntentUnknown,
			AllScores: map[string]float64{},
		}
	}

	input := text
	if len(input) > maxInputChars {
		input = input[:maxInputChars]
	}

	result, err := s.classifier.Classify(ctx, input)
	if err != nil {
		s.logger.Warn("intent classification failed", zap.Error(err))
		return models.IntentResult{
			Text:      text,
			Intent:    models.IntentUnknown,
			AllScores: map[string]float64{},
		}
	}
	result.Text = text
	return result
}

// ClassifyStatements labels each statement with at least three words,
// preserving input order.
func (s *Scorer) ClassifyStatements(ctx context.Context, statements []string) []models.IntentResult {
	var results []models.IntentResult
	for _, statement := range statements {
		if len(strings.Fields(statement)) < minStatementWords {
			continue
		}
		results = append(results, s.Classify(ctx, statement))
	}
	return results
}

// Distribution counts results per label. Every label appears, zero-filled;
// unknown intents are not counted.
func (s *Scorer) Distribution(results []models.IntentResult) map[string]int {
	distribution := make(map[string]int, len(Labels))
	for _, label := range Labels {
		distribution[label] = 0
	}
	for _, r := range results {
		if _, ok := distribution[r.Intent]; ok {
			distribution[r.Intent]++
		}
	}
	return distribution
}

// Dominant returns the most common intent, or "unknown" for no results.
// Ties resolve to the earlier label in Labels.
func (s *Scorer) Dominant(results []models.IntentResult) string {
	if len(results) == 0 {
		return models.IntentUnknown
	}
	distribution := s.Distribution(results)
	dominant := Labels[0]
	for _, label := range Labels[1:] {
		if distribution[label] > distribution[dominant] {
			dominant = label
		}
	}
	return dominant
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
