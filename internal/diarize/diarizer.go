// Package diarize splits a transcript into speaker-attributed dialogue turns
// using a line-oriented state machine.
package diarize

import (
	"regexp"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
	"github.com/clinscribe/clinscribe/internal/normalize"
)

// speakerLabel matches a speaker label at the start of a line, e.g.
// "Physician:", "Patient ", "Dr.", "Pt:".
var speakerLabel = regexp.MustCompile(`(?i)^(Physician|Patient|Doctor|Dr\.?|Pt\.?)[\s:]+`)

// roleMappings normalizes recognized speaker labels to canonical roles.
var roleMappings = map[string]string{
	"physician": models.RoleDoctor,
	"doctor":    models.RoleDoctor,
	"dr":        models.RoleDoctor,
	"patient":   models.RolePatient,
	"pt":        models.RolePatient,
}

// Diarizer parses transcripts into dialogue turns. It holds only a
// normalizer and is safe for concurrent use.
type Diarizer struct {
	normalizer *normalize.Normalizer
}

// New returns a Diarizer that normalizes each completed turn's text.
func New(n *normalize.Normalizer) *Diarizer {
	return &Diarizer{normalizer: n}
}

// Parse splits text into dialogue turns. Per line:
// blank lines and bracketed stage directions are skipped; a speaker label
// flushes the buffered turn and starts a new one (trailing text on the label
// line seeds the buffer); any other line continues the current turn, or is
// dropped when no speaker has been seen yet.
func (d *Diarizer) Parse(text string) []models.DialogueTurn {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var turns []models.DialogueTurn
	var currentSpeaker string
	var buffer []string

	flush := func() {
		if currentSpeaker == "" || len(buffer) == 0 {
			return
		}
		turns = append(turns, models.DialogueTurn{
			Speaker: currentSpeaker,
			Text:    d.normalizer.Normalize(strings.Join(buffer, " ")),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			continue
		}

		loc := speakerLabel.FindStringSubmatchIndex(line)
		if loc != nil {
			flush()
			label := line[loc[2]:loc[3]]
			currentSpeaker = normalizeRole(label)
			buffer = buffer[:0]
			if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
				buffer = append(buffer, rest)
			}
			continue
		}

		if currentSpeaker != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	return turns
}

// normalizeRole maps a raw speaker label to a canonical role. Unrecognized
// labels pass through lower-cased.
func normalizeRole(label string) string {
	label = strings.TrimRight(strings.TrimSpace(strings.ToLower(label)), ".:")
	if role, ok := roleMappings[label]; ok {
		return role
	}
	return label
}

// PatientStatements returns the text of patient turns, in order.
func (d *Diarizer) PatientStatements(turns []models.DialogueTurn) []string {
	return statementsByRole(turns, models.RolePatient)
}

// DoctorStatements returns the text of doctor turns, in order.
func (d *Diarizer) DoctorStatements(turns []models.DialogueTurn) []string {
	return statementsByRole(turns, models.RoleDoctor)
}

func statementsByRole(turns []models.DialogueTurn, role string) []string {
	var out []string
	for _, t := range turns {
		if t.Speaker == role && strings.TrimSpace(t.Text) != "" {
			out = append(out, t.Text)
		}
	}
	return out
}

// BySpeaker returns the turns attributed to the given speaker.
func (d *Diarizer) BySpeaker(turns []models.DialogueTurn, speaker string) []models.DialogueTurn {
	var out []models.DialogueTurn
	for _, t := range turns {
		if t.Speaker == speaker {
			out = append(out, t)
		}
	}
	return out
}

// Stats computes aggregate dialogue statistics. AvgWordsPerTurn is 0 when
// there are no turns.
func (d *Diarizer) Stats(turns []models.DialogueTurn) models.DialogueStats {
	stats := models.DialogueStats{TotalTurns: len(turns)}
	if len(turns) == 0 {
		return stats
	}
	for _, t := range turns {
		switch t.Speaker {
		case models.RoleDoctor:
			stats.DoctorTurns++
		case models.RolePatient:
			stats.PatientTurns++
		}
		stats.TotalWords += len(strings.Fields(t.Text))
	}
	stats.AvgWordsPerTurn = float64(stats.TotalWords) / float64(stats.TotalTurns)
	return stats
}
