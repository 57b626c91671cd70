package models

// Sentiment labels in medical context.
const (
	SentimentAnxious   = "Anxious"
	SentimentNeutral   = "Neutral"
	SentimentReassured = "Reassured"
)

// IntentUnknown is the intent returned when classification fails or input is empty.
const IntentUnknown = "unknown"

// SentimentResult is the sentiment of one statement.
type SentimentResult struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	RawLabel   string  `json:"raw_label"`
}

// SentimentOverall is the aggregate sentiment over a conversation.
type SentimentOverall struct {
	Distribution      map[string]int `json:"distribution"`
	DominantSentiment string         `json:"dominant_sentiment"`
	TotalStatements   int            `json:"total_statements"`
	AvgConfidence     float64        `json:"avg_confidence"`
}

// SentimentPoint is one point on the sentiment timeline.
// Score is -1 for Anxious, 0 for Neutral, +1 for Reassured.
type SentimentPoint struct {
	Position   int     `json:"position"`
	Sentiment  string  `json:"sentiment"`
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
}

// IntentResult is the classified intent of one statement.
type IntentResult struct {
	Text       string             `json:"text"`
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	AllScores  map[string]float64 `json:"all_scores"`
}

// ScoredKeyword is a keyphrase with its relevance score.
type ScoredKeyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}
