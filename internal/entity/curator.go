// Package entity extracts and curates medical entities from transcript text.
package entity

import (
	"regexp"
	"sort"
	"strings"
)

var (
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	symbolsOnly  = regexp.MustCompile(`^[^\w\s]+$`)
	edgeSymbols  = regexp.MustCompile(`^[^\w\s]+|[^\w\s]+$`)
	innerSpacing = regexp.MustCompile(`\s+`)
)

// curatorStopWords rejects bare function words that models sometimes emit as
// entities.
var curatorStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "been": true, "be": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "this": true, "that": true,
	"these": true, "those": true,
}

// Curator validates, cleans, and deduplicates extracted entities. Each
// category it returns holds unique entries, none of which is a
// case-insensitive substring of another entry in the same category.
type Curator struct {
	minLength int
	maxLength int
}

// NewCurator returns a Curator accepting entities of 2 to 100 characters.
func NewCurator() *Curator {
	return &Curator{minLength: 2, maxLength: 100}
}

// Validate reports whether a cleaned entity is acceptable: within length
// bounds, not a stop word, not digits-only, not symbols-only.
func (c *Curator) Validate(entity string) bool {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return false
	}
	if len(entity) < c.minLength || len(entity) > c.maxLength {
		return false
	}
	if curatorStopWords[strings.ToLower(entity)] {
		return false
	}
	if digitsOnly.MatchString(entity) {
		return false
	}
	if symbolsOnly.MatchString(entity) {
		return false
	}
	return true
}

// Clean trims an entity, collapses internal whitespace, and strips leading
// and trailing symbol runs.
func (c *Curator) Clean(entity string) string {
	entity = strings.TrimSpace(entity)
	entity = innerSpacing.ReplaceAllString(entity, " ")
	return edgeSymbols.ReplaceAllString(entity, "")
}

// Deduplicate removes case-insensitive duplicates, keeping the first
// occurrence's casing.
func (c *Curator) Deduplicate(entities []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, e := range entities {
		key := strings.TrimSpace(strings.ToLower(e))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	return unique
}

// FilterValid cleans each entity and keeps only those that validate.
func (c *Curator) FilterValid(entities []string) []string {
	var valid []string
	for _, e := range entities {
		cleaned := c.Clean(e)
		if c.Validate(cleaned) {
			valid = append(valid, cleaned)
		}
	}
	return valid
}

// RemoveSubstrings drops entities that are case-insensitive substrings of a
// longer kept entity. Longer entities are considered first.
func (c *Curator) RemoveSubstrings(entities []string) []string {
	if len(entities) == 0 {
		return nil
	}

	sorted := make([]string, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	var filtered []string
	for _, e := range sorted {
		lower := strings.ToLower(e)
		isSubstring := false
		for _, kept := range filtered {
			keptLower := strings.ToLower(kept)
			if lower != keptLower && strings.Contains(keptLower, lower) {
				isSubstring = true
				break
			}
		}
		if !isSubstring {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MergeSimilar drops entities whose token-set Jaccard similarity with an
// already kept entity exceeds threshold. The first occurrence wins.
func (c *Curator) MergeSimilar(entities []string, threshold float64) []string {
	if len(entities) == 0 {
		return nil
	}

	var merged []string
	seen := make(map[string]bool)
	for _, e := range entities {
		lower := strings.ToLower(e)
		if seen[lower] {
			continue
		}
		similar := false
		for _, kept := range merged {
			if jaccard(lower, strings.ToLower(kept)) > threshold {
				similar = true
				break
			}
		}
		if !similar {
			merged = append(merged, e)
			seen[lower] = true
		}
	}
	return merged
}

// Curate runs the full pass over every category: clean, validate,
// deduplicate, substring-collapse.
func (c *Curator) Curate(entities map[string][]string) map[string][]string {
	curated := make(map[string][]string, len(entities))
	for category, list := range entities {
		curated[category] = c.RemoveSubstrings(c.Deduplicate(c.FilterValid(list)))
	}
	return curated
}

// jaccard computes token-set overlap between two strings. Identical strings
// score 1.0, strings without tokens score 0.0.
func jaccard(a, b string) float64 {
	if a == b {
		return 1.0
	}
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
