package soapnote

import (
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

const (
	renderRule      = "============================================================"
	renderSeparator = "----------------------------------------"
)

// Render formats a SOAP note as plain text with fixed section headers and
// bullet-prefixed list items. It is a pure function of the note.
func Render(note *models.SOAPNote) string {
	var b strings.Builder

	b.WriteString(renderRule + "\n")
	b.WriteString("CLINICAL SOAP NOTE\n")
	b.WriteString(renderRule + "\n")

	b.WriteString("\nSUBJECTIVE\n")
	b.WriteString(renderSeparator + "\n")
	b.WriteString("Chief Complaint: " + note.Subjective.ChiefComplaint + "\n")
	b.WriteString("\nHistory: " + note.Subjective.HistoryOfPresentIllness + "\n")
	b.WriteString("\nReview of Systems: " + note.Subjective.ReviewOfSystems + "\n")

	b.WriteString("\n\nOBJECTIVE\n")
	b.WriteString(renderSeparator + "\n")
	b.WriteString("Physical Exam: " + note.Objective.PhysicalExamination + "\n")
	b.WriteString("\nVital Signs: " + note.Objective.VitalSigns + "\n")
	b.WriteString("\nObservations:\n")
	for _, obs := range note.Objective.Observations {
		b.WriteString("  - " + obs + "\n")
	}

	b.WriteString("\n\nASSESSMENT\n")
	b.WriteString(renderSeparator + "\n")
	b.WriteString("Diagnosis: " + note.Assessment.PrimaryDiagnosis + "\n")
	b.WriteString("Severity: " + note.Assessment.Severity + "\n")
	b.WriteString("Prognosis: " + note.Assessment.Prognosis + "\n")

	b.WriteString("\n\nPLAN\n")
	b.WriteString(renderSeparator + "\n")
	b.WriteString("Treatment: " + note.Plan.TreatmentPlan + "\n")
	b.WriteString("\nMedications:\n")
	for _, med := range note.Plan.Medications {
		b.WriteString("  - " + med + "\n")
	}
	b.WriteString("\nFollow-up: " + note.Plan.FollowUp + "\n")
	b.WriteString("\nPatient Education:\n")
	for _, edu := range note.Plan.PatientEducation {
		b.WriteString("  - " + edu + "\n")
	}

	b.WriteString("\n" + renderRule + "\n")

	return b.String()
}
