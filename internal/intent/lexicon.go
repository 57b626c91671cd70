package intent

import (
	"context"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

// cueTable maps each label to the phrases that signal it. Matching is
// case-insensitive substring matching against the statement.
var cueTable = map[string][]string{
	"seeking reassurance": {
		"need to worry", "should i worry", "is it serious", "be okay",
		"nothing serious", "will it affect", "affecting me",
	},
	"reporting symptoms": {
		"pain", "ache", "discomfort", "stiffness", "sore", "hurts", "symptom",
	},
	"expressing concern": {
		"worried", "concerned", "anxious", "nervous", "afraid", "scared",
	},
	"asking questions": {
		"?", "what ", "when ", "how ", "why ", "can i", "could you",
	},
	"describing history": {
		"accident", "happened", "was driving", "went to", "hit me",
		"started", "ago", "sessions of",
	},
	"confirming understanding": {
		"i see", "understood", "makes sense", "got it", "that explains",
	},
	"expressing relief": {
		"relief", "relieved", "glad", "great to hear", "thank",
	},
}

// LexiconClassifier scores statements by counting cue-phrase hits per label.
// It is deterministic and needs no model runtime.
type LexiconClassifier struct{}

// NewLexiconClassifier returns a cue-phrase backed Classifier.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{}
}

// Classify counts cue hits per label and normalizes counts into scores
// summing to 1. The top label wins, ties resolving to the earlier label in
// Labels; with no hits the intent is unknown with all-zero scores.
func (c *LexiconClassifier) Classify(_ context.Context, text string) (models.IntentResult, error) {
	lower := strings.ToLower(text)

	hits := make(map[string]int, len(Labels))
	total := 0
	for _, label := range Labels {
		for _, cue := range cueTable[label] {
			if strings.Contains(lower, cue) {
				hits[label]++
				total++
			}
		}
	}

	scores := make(map[string]float64, len(Labels))
	if total == 0 {
		for _, label := range Labels {
			scores[label] = 0
		}
		return models.IntentResult{
			Text:      text,
			Intent:    models.IntentUnknown,
			AllScores: scores,
		}, nil
	}

	top := Labels[0]
	for _, label := range Labels {
		scores[label] = round3(float64(hits[label]) / float64(total))
		if hits[label] > hits[top] {
			top = label
		}
	}

	return models.IntentResult{
		Text:       text,
		Intent:     top,
		Confidence: scores[top],
		AllScores:  scores,
	}, nil
}
