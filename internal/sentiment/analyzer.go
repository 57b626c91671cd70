// Package sentiment classifies the emotional tone of patient statements and
// maps raw model labels to medical context (Anxious, Neutral, Reassured).
package sentiment

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/clinscribe/clinscribe/internal/models"
)

// Raw labels produced by analyzers before medical-context mapping.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
	LabelError    = "ERROR"
)

// maxInputChars bounds the text passed to an analyzer.
const maxInputChars = 512

// minStatementWords is the filter applied before scoring; shorter statements
// are skipped entirely.
const minStatementWords = 3

// RawResult is an analyzer's verdict on one statement.
type RawResult struct {
	Label string
	Score float64
}

// Analyzer classifies one statement. Implementations must be safe for
// concurrent use.
type Analyzer interface {
	Classify(ctx context.Context, text string) (RawResult, error)
}

// labelMapping translates raw labels to medical context.
var labelMapping = map[string]string{
	LabelPositive: models.SentimentReassured,
	LabelNegative: models.SentimentAnxious,
	LabelNeutral:  models.SentimentNeutral,
}

// sentimentScores gives each mapped sentiment a timeline score.
var sentimentScores = map[string]int{
	models.SentimentAnxious:   -1,
	models.SentimentNeutral:   0,
	models.SentimentReassured: 1,
}

// distributionOrder fixes the tie-break order for the dominant sentiment.
var distributionOrder = []string{
	models.SentimentAnxious,
	models.SentimentNeutral,
	models.SentimentReassured,
}

// Scorer runs an Analyzer over patient statements, applies the confidence
// threshold, and aggregates results.
type Scorer struct {
	analyzer  Analyzer
	threshold float64
	logger    *zap.Logger
}

// NewScorer returns a Scorer. Raw results under threshold map to Neutral.
func NewScorer(analyzer Analyzer, threshold float64, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{analyzer: analyzer, threshold: threshold, logger: logger}
}

// Analyze classifies one statement. Blank input and analyzer failures both
// yield a Neutral result with zero confidence.
func (s *Scorer) Analyze(ctx context.Context, text string) models.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{
			Text:      text,
			Sentiment: models.SentimentNeutral,
			RawLabel:  LabelNeutral,
		}
	}

	input := text
	if len(input) > maxInputChars {
		input = input[:maxInputChars]
	}

	raw, err := s.analyzer.Classify(ctx, input)
	if err != nil {
		s.logger.Warn("sentiment classification failed", zap.Error(err))
		return models.SentimentResult{
			Text:      text,
			Sentiment: models.SentimentNeutral,
			RawLabel:  LabelError,
		}
	}

	return models.SentimentResult{
		Text:       text,
		Sentiment:  s.mapToMedicalContext(raw),
		Confidence: round3(raw.Score),
		RawLabel:   raw.Label,
	}
}

// AnalyzeStatements classifies each statement with at least three words,
// preserving input order.
func (s *Scorer) AnalyzeStatements(ctx context.Context, statements []string) []models.SentimentResult {
	var results []models.SentimentResult
	for _, statement := range statements {
		if len(strings.Fields(statement)) < minStatementWords {
			continue
		}
		results = append(results, s.Analyze(ctx, statement))
	}
	return results
}

func (s *Scorer) mapToMedicalContext(raw RawResult) string {
	if raw.Score < s.threshold {
		return models.SentimentNeutral
	}
	if mapped, ok := labelMapping[raw.Label]; ok {
		return mapped
	}
	return models.SentimentNeutral
}

// Overall computes the sentiment distribution, the dominant sentiment, and
// average confidence across results.
func (s *Scorer) Overall(results []models.SentimentResult) models.SentimentOverall {
	distribution := map[string]int{
		models.SentimentAnxious:   0,
		models.SentimentNeutral:   0,
		models.SentimentReassured: 0,
	}
	if len(results) == 0 {
		return models.SentimentOverall{
			Distribution:      distribution,
			DominantSentiment: models.SentimentNeutral,
		}
	}

	var confidenceSum float64
	for _, r := range results {
		if _, ok := distribution[r.Sentiment]; ok {
			distribution[r.Sentiment]++
		}
		confidenceSum += r.Confidence
	}

	dominant := distributionOrder[0]
	for _, label := range distributionOrder[1:] {
		if distribution[label] > distribution[dominant] {
			dominant = label
		}
	}

	return models.SentimentOverall{
		Distribution:      distribution,
		DominantSentiment: dominant,
		TotalStatements:   len(results),
		AvgConfidence:     round3(confidenceSum / float64(len(results))),
	}
}

// Timeline converts results into 1-based progression points with scores
// -1/0/+1 for Anxious/Neutral/Reassured.
func (s *Scorer) Timeline(results []models.SentimentResult) []models.SentimentPoint {
	var timeline []models.SentimentPoint
	for i, r := range results {
		timeline = append(timeline, models.SentimentPoint{
			Position:   i + 1,
			Sentiment:  r.Sentiment,
			Score:      sentimentScores[r.Sentiment],
			Confidence: r.Confidence,
		})
	}
	return timeline
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
