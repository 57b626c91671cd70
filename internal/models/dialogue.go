// Package models defines core data structures for dialogue turns, temporal
// mentions, SOAP notes, summaries, and pipeline output.
package models

// Speaker roles produced by diarization. Unrecognized labels pass through
// lower-cased, so DialogueTurn.Speaker is a plain string rather than an enum.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
	RoleUnknown = "unknown"
)

// DialogueTurn is one contiguous block of text attributed to a single speaker.
// Text is non-empty and already normalized.
type DialogueTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// DialogueStats summarizes a parsed dialogue.
type DialogueStats struct {
	TotalTurns      int     `json:"total_turns"`
	DoctorTurns     int     `json:"doctor_turns"`
	PatientTurns    int     `json:"patient_turns"`
	TotalWords      int     `json:"total_words"`
	AvgWordsPerTurn float64 `json:"avg_words_per_turn"`
}
