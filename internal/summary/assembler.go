// Package summary assembles the structured medical summary from entity,
// temporal, and keyword outputs.
package summary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
	"github.com/clinscribe/clinscribe/internal/temporal"
)

// EntitySource provides categorized entities plus diagnosis and prognosis
// strings ("" when not found).
type EntitySource interface {
	Extract(text string) map[string][]string
	Diagnosis(text string) string
	Prognosis(text string) string
}

// PhraseSource provides medically relevant keyword phrases.
type PhraseSource interface {
	MedicalPhrases(text string, topN int) []string
}

// Curator runs the entity curation pass over all categories.
type Curator interface {
	Curate(entities map[string][]string) map[string][]string
}

// Titled-name patterns are case-sensitive on purpose; they target proper
// names, and the whole match (title included) is returned.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Ms\.\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`Mr\.\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`Mrs\.\s+([A-Z][a-z]+)`),
	regexp.MustCompile(`Patient\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
}

var statusKeywords = []string{"better", "improving", "occasional", "still", "now"}

var statusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(currently.*?)(?:\.|$)`),
	regexp.MustCompile(`(?i)(now.*?pain.*?)(?:\.|$)`),
	regexp.MustCompile(`(?i)(occasional.*?)(?:\.|$)`),
}

var treatmentDuration = regexp.MustCompile(`(?i)(\d+\s*(?:session|week|month)s?)`)

// Assembler combines extraction outputs into one Summary.
type Assembler struct {
	entities EntitySource
	curator  Curator
	temporal *temporal.Extractor
	phrases  PhraseSource
}

// NewAssembler wires the collaborators a summary needs.
func NewAssembler(entities EntitySource, curator Curator, te *temporal.Extractor, phrases PhraseSource) *Assembler {
	return &Assembler{entities: entities, curator: curator, temporal: te, phrases: phrases}
}

// Assemble builds the full summary for a transcript. patientStatements are
// the diarized patient turns in order; they drive current-status extraction.
func (a *Assembler) Assemble(transcript string, patientStatements []string) models.Summary {
	entities := a.entities.Extract(transcript)
	if a.curator != nil {
		entities = a.curator.Curate(entities)
	}

	diagnosis := a.entities.Diagnosis(transcript)
	prognosis := a.entities.Prognosis(transcript)
	mentions := a.temporal.Extract(transcript)

	totalEntities := 0
	for _, list := range entities {
		totalEntities += len(list)
	}

	return models.Summary{
		PatientName:   a.patientName(transcript),
		Symptoms:      entities["symptoms"],
		Diagnosis:     diagnosis,
		Treatments:    entities["treatments"],
		CurrentStatus: a.currentStatus(transcript, patientStatements),
		Prognosis:     prognosis,
		TemporalInfo: models.TemporalSummary{
			IncidentDate:      incidentDate(mentions),
			TreatmentDuration: a.treatmentDuration(transcript),
			Dates:             temporal.Texts(mentions.Dates),
			Durations:         temporal.Texts(mentions.Durations),
		},
		MedicalKeywords:  a.phrases.MedicalPhrases(transcript, 0),
		AnatomyMentioned: entities["anatomy"],
		Metadata: models.SummaryMetadata{
			TotalEntities: totalEntities,
			HasDiagnosis:  diagnosis != "",
			HasPrognosis:  prognosis != "",
		},
	}
}

// patientName tries the titled-name patterns in order and returns the whole
// match, defaulting to "Patient".
func (a *Assembler) patientName(text string) string {
	for _, p := range namePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return "Patient"
}

// currentStatus prefers the most recent patient statement containing a
// status keyword, then transcript-wide regex fallbacks.
func (a *Assembler) currentStatus(transcript string, patientStatements []string) string {
	for i := len(patientStatements) - 1; i >= 0; i-- {
		lower := strings.ToLower(patientStatements[i])
		for _, kw := range statusKeywords {
			if strings.Contains(lower, kw) {
				return patientStatements[i]
			}
		}
	}

	for _, p := range statusPatterns {
		if m := p.FindStringSubmatch(transcript); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	return "Status not explicitly mentioned"
}

func (a *Assembler) treatmentDuration(text string) string {
	return treatmentDuration.FindString(text)
}

func incidentDate(m models.TemporalMentions) string {
	if len(m.Dates) > 0 {
		return m.Dates[0].Text
	}
	return ""
}

// ShortSummary renders a one-line text digest of a summary.
func ShortSummary(s models.Summary) string {
	var parts []string

	if s.PatientName != "" {
		parts = append(parts, fmt.Sprintf("Patient: %s", s.PatientName))
	}
	if s.Diagnosis != "" {
		parts = append(parts, fmt.Sprintf("Diagnosis: %s", s.Diagnosis))
	}
	if len(s.Symptoms) > 0 {
		parts = append(parts, fmt.Sprintf("Symptoms: %s", strings.Join(capList(s.Symptoms, 3), ", ")))
	}
	if len(s.Treatments) > 0 {
		parts = append(parts, fmt.Sprintf("Treatment: %s", strings.Join(capList(s.Treatments, 2), ", ")))
	}
	if s.Prognosis != "" {
		parts = append(parts, fmt.Sprintf("Prognosis: %s", s.Prognosis))
	}

	return strings.Join(parts, ". ") + "."
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
