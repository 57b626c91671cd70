// Package temporal extracts date, time, and duration mentions from
// transcript text using ordered regular expression families.
package temporal

import (
	"regexp"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

// Pattern families are applied in order within each kind. Later matches that
// duplicate an earlier match (case-insensitive) are dropped.
var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\w+\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`),
		regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`(?i)\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`(?i)last\s+(?:week|month|year|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`),
		regexp.MustCompile(`(?i)(?:this|next)\s+(?:week|month|year|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?`),
		regexp.MustCompile(`(?i)(?:morning|afternoon|evening|night)`),
		regexp.MustCompile(`(?i)\d{1,2}\s*(?:am|pm)`),
	}

	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\s*(?:week|month|day|year|hour|minute)s?`),
		regexp.MustCompile(`(?i)(?:first|last|past)\s+\d+\s*(?:week|month|day|year)s?`),
		regexp.MustCompile(`(?i)\d+\s*sessions?`),
		regexp.MustCompile(`(?i)\d+\s*times?`),
	}
)

// Extractor finds temporal mentions in text. The zero value is not usable;
// construct with New.
type Extractor struct{}

// New returns a temporal Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract collects date, time, and duration mentions from text. Mentions are
// deduplicated case-insensitively per kind, first occurrence wins, and keep
// their byte offsets into the input.
func (e *Extractor) Extract(text string) models.TemporalMentions {
	return models.TemporalMentions{
		Dates:     extractKind(text, datePatterns, models.KindDate),
		Times:     extractKind(text, timePatterns, models.KindTime),
		Durations: extractKind(text, durationPatterns, models.KindDuration),
	}
}

func extractKind(text string, patterns []*regexp.Regexp, kind models.TemporalKind) []models.TemporalMention {
	var mentions []models.TemporalMention
	seen := make(map[string]bool)
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			key := strings.ToLower(match)
			if seen[key] {
				continue
			}
			seen[key] = true
			mentions = append(mentions, models.TemporalMention{
				Text:  match,
				Start: loc[0],
				End:   loc[1],
				Kind:  kind,
			})
		}
	}
	return mentions
}

// Overview summarizes extracted mentions: counts per kind and the first
// mention of each kind, empty when none were found.
func (e *Extractor) Overview(m models.TemporalMentions) models.TemporalOverview {
	o := models.TemporalOverview{
		TotalDates:     len(m.Dates),
		TotalTimes:     len(m.Times),
		TotalDurations: len(m.Durations),
	}
	if len(m.Dates) > 0 {
		o.FirstDate = m.Dates[0].Text
	}
	if len(m.Times) > 0 {
		o.FirstTime = m.Times[0].Text
	}
	if len(m.Durations) > 0 {
		o.FirstDuration = m.Durations[0].Text
	}
	return o
}

// Texts returns just the mention strings, preserving order.
func Texts(mentions []models.TemporalMention) []string {
	if len(mentions) == 0 {
		return nil
	}
	out := make([]string, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, m.Text)
	}
	return out
}
