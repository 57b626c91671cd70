package models

// SOAPNote is a clinical note in the four-section SOAP format.
// Built once per transcript and never mutated after construction.
type SOAPNote struct {
	Subjective Subjective `json:"subjective"`
	Objective  Objective  `json:"objective"`
	Assessment Assessment `json:"assessment"`
	Plan       Plan       `json:"plan"`
}

// Subjective captures what the patient reports.
type Subjective struct {
	ChiefComplaint          string   `json:"chief_complaint"`
	HistoryOfPresentIllness string   `json:"history_of_present_illness"`
	ReviewOfSystems         string   `json:"review_of_systems"`
	PatientStatements       []string `json:"patient_statements"`
}

// Objective captures clinician observations and exam findings.
type Objective struct {
	PhysicalExamination string   `json:"physical_examination"`
	VitalSigns          string   `json:"vital_signs"`
	Observations        []string `json:"observations"`
}

// Assessment captures diagnosis, severity, and prognosis.
type Assessment struct {
	PrimaryDiagnosis string `json:"primary_diagnosis"`
	Severity         string `json:"severity"`
	Prognosis        string `json:"prognosis"`
}

// Plan captures treatment, medications, follow-up, and patient education.
type Plan struct {
	TreatmentPlan    string   `json:"treatment_plan"`
	Medications      []string `json:"medications"`
	FollowUp         string   `json:"follow_up"`
	PatientEducation []string `json:"patient_education"`
}
