package models

import "time"

// OutputMetadata describes one pipeline run.
type OutputMetadata struct {
	ProcessedAt     time.Time `json:"processed_at"`
	PipelineVersion string    `json:"pipeline_version"`
	TotalDialogues  int       `json:"total_dialogues"`
	DoctorTurns     int       `json:"doctor_turns"`
	PatientTurns    int       `json:"patient_turns"`
}

// TemporalInfo is the flattened temporal block of the output envelope.
type TemporalInfo struct {
	Dates     []string `json:"dates"`
	Times     []string `json:"times"`
	Durations []string `json:"durations"`
}

// SentimentAnalysis groups per-statement and aggregate sentiment results.
type SentimentAnalysis struct {
	Overall      SentimentOverall  `json:"overall"`
	Timeline     []SentimentPoint  `json:"timeline"`
	PerStatement []SentimentResult `json:"per_statement"`
}

// IntentAnalysis groups per-statement and aggregate intent results.
type IntentAnalysis struct {
	Distribution map[string]int `json:"distribution"`
	PerStatement []IntentResult `json:"per_statement"`
}

// KeywordReport holds scored keyphrases and the medical-phrase subset.
type KeywordReport struct {
	TopKeywords    []ScoredKeyword `json:"top_keywords"`
	MedicalPhrases []string        `json:"medical_phrases"`
}

// PipelineOutput is the top-level envelope returned for every non-empty
// transcript. Field names and nesting are the wire contract: downstream
// consumers depend on these exact keys.
type PipelineOutput struct {
	Metadata          OutputMetadata      `json:"metadata"`
	Summary           Summary             `json:"summary"`
	Entities          map[string][]string `json:"entities"`
	TemporalInfo      TemporalInfo        `json:"temporal_info"`
	SentimentAnalysis SentimentAnalysis   `json:"sentiment_analysis"`
	IntentAnalysis    IntentAnalysis      `json:"intent_analysis"`
	Keywords          KeywordReport       `json:"keywords"`
	Dialogues         []DialogueTurn      `json:"dialogues"`
}
