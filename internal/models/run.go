package models

import "time"

// Run is one stored pipeline execution: the source transcript plus the
// structured output it produced.
type Run struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Transcript string          `json:"transcript"`
	Output     *PipelineOutput `json:"output"`
	SOAP       *SOAPNote       `json:"soap,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RunSummaryRow is the flattened view of a run used for listings and exports.
type RunSummaryRow struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	PatientName string    `json:"patient_name"`
	Diagnosis   string    `json:"diagnosis"`
	Severity    string    `json:"severity"`
	Sentiment   string    `json:"sentiment"`
	CreatedAt   time.Time `json:"created_at"`
}
