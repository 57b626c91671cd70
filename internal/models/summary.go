package models

// TemporalSummary is the temporal block inside a Summary.
type TemporalSummary struct {
	IncidentDate      string   `json:"incident_date"`
	TreatmentDuration string   `json:"treatment_duration"`
	Dates             []string `json:"dates"`
	Durations         []string `json:"durations"`
}

// SummaryMetadata carries counts and presence flags for a Summary.
type SummaryMetadata struct {
	TotalEntities int  `json:"total_entities"`
	HasDiagnosis  bool `json:"has_diagnosis"`
	HasPrognosis  bool `json:"has_prognosis"`
}

// Summary is the structured medical summary of one transcript.
// Diagnosis and Prognosis are empty strings when extraction found nothing;
// HasDiagnosis/HasPrognosis in Metadata record presence explicitly.
type Summary struct {
	PatientName      string          `json:"patient_name"`
	Symptoms         []string        `json:"symptoms"`
	Diagnosis        string          `json:"diagnosis"`
	Treatments       []string        `json:"treatments"`
	CurrentStatus    string          `json:"current_status"`
	Prognosis        string          `json:"prognosis"`
	TemporalInfo     TemporalSummary `json:"temporal_info"`
	MedicalKeywords  []string        `json:"medical_keywords"`
	AnatomyMentioned []string        `json:"anatomy_mentioned"`
	Metadata         SummaryMetadata `json:"metadata"`
}
