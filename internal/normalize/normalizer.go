// Package normalize cleans raw transcript text before further processing:
// markup removal, whitespace collapsing, punctuation normalization, and
// medical abbreviation expansion.
package normalize

import (
	"regexp"
	"strings"
)

var (
	emphasisRuns = regexp.MustCompile(`\*+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// punctuationReplacer maps dash, ellipsis, and quote variants to ASCII.
var punctuationReplacer = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"…", "...",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// Normalizer normalizes transcript text. It holds only the compiled
// abbreviation table and is safe for concurrent use.
type Normalizer struct {
	expansions []expansion
}

type expansion struct {
	pattern     *regexp.Regexp
	replacement string
}

// New returns a Normalizer with the default medical abbreviation table.
func New() *Normalizer {
	return NewWithAbbreviations(defaultAbbreviations)
}

// NewWithAbbreviations returns a Normalizer using the given table.
// Entries are applied in table order with whole-word, case-insensitive matching.
func NewWithAbbreviations(table []abbreviation) *Normalizer {
	exps := make([]expansion, 0, len(table))
	for _, a := range table {
		exps = append(exps, expansion{
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(a.Key) + `\b`),
			replacement: a.Expansion,
		})
	}
	return &Normalizer{expansions: exps}
}

// Normalize applies all cleaning steps in fixed order: emphasis-marker
// removal, whitespace collapsing, punctuation normalization, abbreviation
// expansion. It is total (blank input yields "") and idempotent.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = emphasisRuns.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = punctuationReplacer.Replace(text)
	for _, e := range n.expansions {
		text = e.pattern.ReplaceAllString(text, e.replacement)
	}
	return strings.TrimSpace(text)
}

// NormalizeForDisplay normalizes text and truncates it to maxLen characters,
// appending "..." when truncated.
func (n *Normalizer) NormalizeForDisplay(text string, maxLen int) string {
	cleaned := n.Normalize(text)
	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen] + "..."
	}
	return cleaned
}
