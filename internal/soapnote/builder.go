// Package soapnote builds clinical SOAP notes (Subjective, Objective,
// Assessment, Plan) from diarized transcripts using priority-ordered
// keyword and regex rules with section-specific fallbacks.
package soapnote

import (
	"regexp"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

var (
	complaintKeywords   = []string{"pain", "discomfort", "hurt", "ache", "problem", "issue"}
	historyKeywords     = []string{"accident", "happened", "was", "went", "hit", "started"}
	rosKeywords         = []string{"anxiety", "nervous", "sleep", "work", "daily", "emotional", "concentrate"}
	examKeywords        = []string{"examination", "range of movement", "tenderness", "looks good", "condition"}
	observationKeywords = []string{"normal", "good", "full range", "no sign", "appears", "noted"}
	treatmentKeywords   = []string{"treatment", "therapy", "physiotherapy", "medication", "recommend"}
	medicationKeywords  = []string{"painkillers", "medication", "medicine", "tablets", "prescription", "analgesic"}
	followUpKeywords    = []string{"follow-up", "come back", "return", "reach out", "if anything changes"}
	educationKeywords   = []string{"should", "don't", "if", "advised", "important", "make sure"}
	vitalSignPhrases    = []string{"blood pressure", "heart rate", "temperature", "oxygen"}
)

var (
	examDirection = regexp.MustCompile(`\[.*?[Ee]xam.*?\]`)

	severitySevere   = regexp.MustCompile(`(?i)\b(severe|critical|serious)\b`)
	severityModerate = regexp.MustCompile(`(?i)\bmoderate\b`)
	severityMild     = regexp.MustCompile(`(?i)\b(mild|minor|better|improving)\b`)

	diagnosisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:diagnosed with|diagnosis[:\s]+|it was (?:a|an))\s+(.*?)(?:\.|,|$)`),
		regexp.MustCompile(`(?i)(whiplash.*?)(?:\.|,|$)`),
	}

	prognosisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(full recovery.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)(expect.*?recovery.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)(don't foresee.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)(no.*?long.term.*?)(?:\.|$)`),
	}

	treatmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(physiotherapy.*?)(?:\.|$)`),
		regexp.MustCompile(`(?i)(treatment.*?)(?:\.|$)`),
	}
)

// Builder derives SOAP notes from diarized dialogue plus the full transcript.
// It is stateless and safe for concurrent use.
type Builder struct{}

// NewBuilder returns a SOAP note Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles all four sections. Every field is filled, falling back to
// fixed text when a rule finds nothing.
func (b *Builder) Build(transcript string, patientStatements, doctorStatements []string) *models.SOAPNote {
	return &models.SOAPNote{
		Subjective: models.Subjective{
			ChiefComplaint:          b.chiefComplaint(patientStatements),
			HistoryOfPresentIllness: b.history(patientStatements),
			ReviewOfSystems:         b.reviewOfSystems(patientStatements),
			PatientStatements:       patientStatements,
		},
		Objective: models.Objective{
			PhysicalExamination: b.examFindings(doctorStatements, transcript),
			VitalSigns:          b.vitalSigns(transcript),
			Observations:        b.observations(doctorStatements),
		},
		Assessment: models.Assessment{
			PrimaryDiagnosis: b.diagnosis(transcript),
			Severity:         b.severity(transcript),
			Prognosis:        b.prognosis(transcript),
		},
		Plan: models.Plan{
			TreatmentPlan:    b.treatmentPlan(transcript, doctorStatements),
			Medications:      b.medications(transcript),
			FollowUp:         b.followUp(doctorStatements),
			PatientEducation: b.patientEducation(doctorStatements),
		},
	}
}

// chiefComplaint picks the first of the first three patient statements
// containing a complaint keyword, else the very first statement.
func (b *Builder) chiefComplaint(patientStatements []string) string {
	head := patientStatements
	if len(head) > 3 {
		head = head[:3]
	}
	for _, s := range head {
		if containsAny(s, complaintKeywords) {
			return s
		}
	}
	if len(patientStatements) > 0 {
		return patientStatements[0]
	}
	return "Not reported"
}

func (b *Builder) history(patientStatements []string) string {
	var parts []string
	for _, s := range patientStatements {
		if containsAny(s, historyKeywords) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "History not explicitly described"
	}
	return strings.Join(parts, " ")
}

func (b *Builder) reviewOfSystems(patientStatements []string) string {
	var parts []string
	for _, s := range patientStatements {
		if containsAny(s, rosKeywords) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "No additional systems reported"
	}
	return strings.Join(parts, " ")
}

// examFindings returns the first doctor statement with an exam keyword. When
// none matches but the transcript carries a bracketed exam stage direction, a
// synthesized sentence is combined with the first doctor statement mentioning
// "look" or "good".
func (b *Builder) examFindings(doctorStatements []string, transcript string) string {
	for _, s := range doctorStatements {
		if containsAny(s, examKeywords) {
			return s
		}
	}

	if examDirection.MatchString(transcript) {
		finding := "Findings documented"
		for _, s := range doctorStatements {
			lower := strings.ToLower(s)
			if strings.Contains(lower, "look") || strings.Contains(lower, "good") {
				finding = s
				break
			}
		}
		return "Physical examination was conducted. " + finding
	}

	return "Examination findings not documented"
}

// vitalSigns scans the fixed phrase list in order and returns the first whole
// match of "<phrase>: value" up to a sentence delimiter.
func (b *Builder) vitalSigns(transcript string) string {
	lower := strings.ToLower(transcript)
	for _, phrase := range vitalSignPhrases {
		if !strings.Contains(lower, phrase) {
			continue
		}
		p := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase) + `[:\s]+(.*?)(?:\.|,|$)`)
		if m := p.FindString(transcript); m != "" {
			return m
		}
	}
	return "Vital signs not recorded in transcript"
}

func (b *Builder) observations(doctorStatements []string) []string {
	var observations []string
	for _, s := range doctorStatements {
		if containsAny(s, observationKeywords) {
			observations = append(observations, s)
		}
	}
	if len(observations) == 0 {
		return []string{"No specific observations documented"}
	}
	return observations
}

func (b *Builder) diagnosis(transcript string) string {
	for _, p := range diagnosisPatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return "Diagnosis not explicitly stated"
}

// severity applies tiers in order; the first matching tier wins.
func (b *Builder) severity(transcript string) string {
	switch {
	case severitySevere.MatchString(transcript):
		return "Severe"
	case severityModerate.MatchString(transcript):
		return "Moderate"
	case severityMild.MatchString(transcript):
		return "Mild"
	}
	return "Not specified"
}

func (b *Builder) prognosis(transcript string) string {
	for _, p := range prognosisPatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return "Prognosis not explicitly stated"
}

func (b *Builder) treatmentPlan(transcript string, doctorStatements []string) string {
	for _, s := range doctorStatements {
		if containsAny(s, treatmentKeywords) {
			return s
		}
	}
	for _, p := range treatmentPatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return "Treatment plan not explicitly stated"
}

// medications captures, per keyword present in the transcript, the sentence
// fragment containing it. Overlapping fragments are kept.
func (b *Builder) medications(transcript string) []string {
	lower := strings.ToLower(transcript)
	var medications []string
	for _, kw := range medicationKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		p := regexp.MustCompile(`(?i)(.*?` + regexp.QuoteMeta(kw) + `.*?)(?:\.|,|$)`)
		if m := p.FindStringSubmatch(transcript); m != nil {
			medications = append(medications, strings.TrimSpace(m[1]))
		}
	}
	if len(medications) == 0 {
		return []string{"No specific medications documented"}
	}
	return medications
}

func (b *Builder) followUp(doctorStatements []string) string {
	for _, s := range doctorStatements {
		if containsAny(s, followUpKeywords) {
			return s
		}
	}
	return "Follow-up as needed if symptoms worsen"
}

func (b *Builder) patientEducation(doctorStatements []string) []string {
	var education []string
	for _, s := range doctorStatements {
		if containsAny(s, educationKeywords) {
			education = append(education, s)
		}
	}
	if len(education) == 0 {
		return []string{"General health maintenance advised"}
	}
	return education
}

// containsAny reports whether the lower-cased statement contains any keyword
// as a substring.
func containsAny(statement string, keywords []string) bool {
	lower := strings.ToLower(statement)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
