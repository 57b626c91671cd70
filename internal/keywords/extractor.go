// Package keywords extracts scored keyword phrases (1 to 3 words) from
// transcript text and filters them for medical relevance.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"github.com/clinscribe/clinscribe/internal/models"
)

// Extractor scores candidate phrases from text. Implementations must be safe
// for concurrent use.
type Extractor interface {
	Extract(text string, topN int) []models.ScoredKeyword
}

// englishStopwords excludes function words from candidate phrases.
var englishStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"as": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "can": true, "may": true,
	"it": true, "its": true, "this": true, "that": true, "these": true,
	"those": true, "i": true, "you": true, "he": true, "she": true,
	"we": true, "they": true, "my": true, "your": true, "me": true,
	"so": true, "not": true, "no": true, "now": true, "some": true,
	"any": true, "all": true, "there": true, "here": true, "when": true,
	"while": true, "about": true, "through": true, "after": true,
	"before": true, "up": true, "down": true, "out": true, "over": true,
	"just": true, "very": true, "really": true, "still": true, "also": true,
	"them": true, "than": true, "too": true, "how": true, "what": true,
	"which": true, "who": true, "again": true,
}

// medicalStopwords drops conversational filler phrases from the final
// keyword list. Matching is whole-word against the phrase tokens.
var medicalStopwords = map[string]bool{
	"patient": true, "doctor": true, "physician": true, "said": true,
	"told": true, "asked": true, "feel": true, "feeling": true,
	"yes": true, "okay": true, "hello": true, "hi": true, "good": true,
	"morning": true, "afternoon": true, "thank": true, "thanks": true,
	"welcome": true, "bye": true, "goodbye": true,
}

// medicalIndicators mark a phrase as medically relevant via substring match.
var medicalIndicators = []string{
	"injury", "pain", "therapy", "treatment", "accident",
	"exam", "diagnosis", "recovery", "symptom", "medical",
	"physiotherapy", "medication", "sessions", "whiplash",
	"examination", "prognosis", "stiffness", "discomfort",
}

// StatExtractor scores phrases by n-gram frequency weighted by phrase
// length. It is deterministic: equal scores order alphabetically.
type StatExtractor struct {
	maxKeywords int
	maxNgram    int
}

// NewStatExtractor returns a StatExtractor. maxKeywords caps the default
// result size (15 when zero); phrases span 1 to 3 words.
func NewStatExtractor(maxKeywords int) *StatExtractor {
	if maxKeywords <= 0 {
		maxKeywords = 15
	}
	return &StatExtractor{maxKeywords: maxKeywords, maxNgram: 3}
}

// Extract returns the topN highest scoring phrases. Candidates may not
// contain English stopwords; phrases with a medical stopword token are
// dropped after scoring. topN <= 0 uses the extractor default.
func (e *StatExtractor) Extract(text string, topN int) []models.ScoredKeyword {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if topN <= 0 {
		topN = e.maxKeywords
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int)
	lengths := make(map[string]int)
	for n := 1; n <= e.maxNgram; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := tokens[i : i+n]
			if containsStopword(gram) {
				continue
			}
			phrase := strings.Join(gram, " ")
			counts[phrase]++
			lengths[phrase] = n
		}
	}

	scored := make([]models.ScoredKeyword, 0, len(counts))
	total := float64(len(tokens))
	for phrase, count := range counts {
		scored = append(scored, models.ScoredKeyword{
			Keyword: phrase,
			Score:   float64(count*lengths[phrase]) / total,
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Keyword < scored[j].Keyword
	})

	// Over-select before the stopword filter so filtering does not starve
	// the result.
	if len(scored) > topN*2 {
		scored = scored[:topN*2]
	}

	var filtered []models.ScoredKeyword
	for _, kw := range scored {
		if hasMedicalStopword(kw.Keyword) {
			continue
		}
		filtered = append(filtered, kw)
		if len(filtered) == topN {
			break
		}
	}
	return filtered
}

// MedicalPhrases returns the phrases among the top keywords that contain a
// medical indicator term.
func (e *StatExtractor) MedicalPhrases(text string, topN int) []string {
	if topN <= 0 {
		topN = 15
	}
	var phrases []string
	for _, kw := range e.Extract(text, topN) {
		if containsIndicator(kw.Keyword) {
			phrases = append(phrases, kw.Keyword)
		}
	}
	return phrases
}

// CategorizedKeywords groups the top keywords into symptom, treatment,
// condition, and general buckets. A phrase can land in several buckets.
type CategorizedKeywords struct {
	Symptoms   []models.ScoredKeyword `json:"symptoms"`
	Treatments []models.ScoredKeyword `json:"treatments"`
	Conditions []models.ScoredKeyword `json:"conditions"`
	General    []models.ScoredKeyword `json:"general"`
}

var (
	symptomTerms   = []string{"pain", "ache", "discomfort", "stiffness", "tenderness"}
	treatmentTerms = []string{"therapy", "treatment", "medication", "sessions", "physiotherapy"}
	conditionTerms = []string{"injury", "accident", "diagnosis", "whiplash", "strain"}
)

// ByCategory extracts the top 20 keywords and buckets them by term family.
func (e *StatExtractor) ByCategory(text string) CategorizedKeywords {
	var out CategorizedKeywords
	for _, kw := range e.Extract(text, 20) {
		lower := strings.ToLower(kw.Keyword)
		categorized := false
		if containsAnyTerm(lower, symptomTerms) {
			out.Symptoms = append(out.Symptoms, kw)
			categorized = true
		}
		if containsAnyTerm(lower, treatmentTerms) {
			out.Treatments = append(out.Treatments, kw)
			categorized = true
		}
		if containsAnyTerm(lower, conditionTerms) {
			out.Conditions = append(out.Conditions, kw)
			categorized = true
		}
		if !categorized {
			out.General = append(out.General, kw)
		}
	}
	return out
}

// TopKeywordsSummary returns the top n keywords comma-joined.
func (e *StatExtractor) TopKeywordsSummary(text string, n int) string {
	keywords := e.Extract(text, n)
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, kw.Keyword)
	}
	return strings.Join(parts, ", ")
}

func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		tok := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func containsStopword(gram []string) bool {
	for _, tok := range gram {
		if englishStopwords[tok] {
			return true
		}
	}
	return false
}

func hasMedicalStopword(phrase string) bool {
	for _, tok := range strings.Fields(phrase) {
		if medicalStopwords[tok] {
			return true
		}
	}
	return false
}

func containsIndicator(phrase string) bool {
	lower := strings.ToLower(phrase)
	for _, indicator := range medicalIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func containsAnyTerm(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
