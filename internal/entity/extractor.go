package entity

import (
	"regexp"
	"sort"
	"strings"
)

// Categories every extractor reports, even when empty.
const (
	CategorySymptoms   = "symptoms"
	CategoryTreatments = "treatments"
	CategoryDiagnoses  = "diagnoses"
	CategoryAnatomy    = "anatomy"
)

// ScoredEntity is an entity with extraction metadata.
type ScoredEntity struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Extractor extracts categorized medical entities from text.
type Extractor interface {
	Extract(text string) map[string][]string
	ExtractWithConfidence(text string) map[string][]ScoredEntity
}

var symptomKeywords = []string{
	"pain", "ache", "discomfort", "stiffness", "tenderness",
	"soreness", "hurt", "burning", "throbbing", "sharp",
	"dull", "chronic", "acute", "severe", "mild",
}

var treatmentKeywords = []string{
	"physiotherapy", "therapy", "treatment", "medication",
	"painkillers", "analgesics", "sessions", "procedure",
	"surgery", "prescription", "dose", "regimen",
}

var diagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)diagnosed with\s+([^,.]+)`),
	regexp.MustCompile(`(?i)diagnosis[:\s]+([^,.]+)`),
	regexp.MustCompile(`(?i)it was (?:a|an)\s+([^,.]+?)\s+injury`),
	regexp.MustCompile(`(?i)consistent with\s+([^,.]+)`),
}

var prognosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(full recovery.*?)(?:\.|$)`),
	regexp.MustCompile(`(?i)(expect.*?recovery.*?)(?:\.|$)`),
	regexp.MustCompile(`(?i)(don't foresee.*?)(?:\.|$)`),
	regexp.MustCompile(`(?i)(prognosis.*?)(?:\.|$)`),
}

// RuleExtractor finds entities by whole-word keyword matching. Symptoms and
// treatments come from fixed keyword lists; the diagnoses and anatomy
// categories stay empty unless a model-backed extractor fills them.
type RuleExtractor struct {
	symptoms   []keywordPattern
	treatments []keywordPattern
	maxPerCat  int
	confidence float64
}

type keywordPattern struct {
	keyword string
	pattern *regexp.Regexp
}

// NewRuleExtractor returns a RuleExtractor keeping at most maxPerCategory
// entities per category and tagging matches with the given confidence.
func NewRuleExtractor(maxPerCategory int, confidence float64) *RuleExtractor {
	if maxPerCategory <= 0 {
		maxPerCategory = 20
	}
	if confidence <= 0 {
		confidence = 0.85
	}
	return &RuleExtractor{
		symptoms:   compileKeywords(symptomKeywords),
		treatments: compileKeywords(treatmentKeywords),
		maxPerCat:  maxPerCategory,
		confidence: confidence,
	}
}

func compileKeywords(keywords []string) []keywordPattern {
	compiled := make([]keywordPattern, 0, len(keywords))
	for _, kw := range keywords {
		compiled = append(compiled, keywordPattern{
			keyword: kw,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
		})
	}
	return compiled
}

// Extract matches keywords against the lower-cased text and returns the four
// entity categories. Per category, entries longer than 2 characters are kept,
// deduplicated, sorted longest first, and capped.
func (r *RuleExtractor) Extract(text string) map[string][]string {
	entities := map[string][]string{
		CategorySymptoms:   nil,
		CategoryTreatments: nil,
		CategoryDiagnoses:  nil,
		CategoryAnatomy:    nil,
	}
	if strings.TrimSpace(text) == "" {
		return entities
	}

	lower := strings.ToLower(text)
	entities[CategorySymptoms] = matchKeywords(lower, r.symptoms)
	entities[CategoryTreatments] = matchKeywords(lower, r.treatments)

	for category, list := range entities {
		entities[category] = r.clean(list)
	}
	return entities
}

// ExtractWithConfidence wraps Extract results with the extractor's fixed
// confidence score.
func (r *RuleExtractor) ExtractWithConfidence(text string) map[string][]ScoredEntity {
	scored := make(map[string][]ScoredEntity)
	for category, list := range r.Extract(text) {
		entries := make([]ScoredEntity, 0, len(list))
		for _, e := range list {
			entries = append(entries, ScoredEntity{Text: e, Confidence: r.confidence})
		}
		scored[category] = entries
	}
	return scored
}

// Diagnosis extracts the first diagnosis phrase from text, or "" when none
// matches.
func (r *RuleExtractor) Diagnosis(text string) string {
	for _, p := range diagnosisPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Prognosis extracts the first prognosis phrase from text, or "" when none
// matches.
func (r *RuleExtractor) Prognosis(text string) string {
	for _, p := range prognosisPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func matchKeywords(lower string, patterns []keywordPattern) []string {
	var found []string
	for _, kp := range patterns {
		if kp.pattern.MatchString(lower) {
			found = append(found, kp.keyword)
		}
	}
	return found
}

func (r *RuleExtractor) clean(entities []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, e := range entities {
		key := strings.TrimSpace(strings.ToLower(e))
		if key == "" || len(key) <= 2 || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return len(unique[i]) > len(unique[j])
	})
	if len(unique) > r.maxPerCat {
		unique = unique[:r.maxPerCat]
	}
	return unique
}
