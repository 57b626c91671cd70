package runindex

import (
	"sort"
	"strings"
	"sync"
)

// Suggestion is one candidate replacement for a query term.
type Suggestion struct {
	Term     string
	Distance int
}

// SuggestResult holds the outcome of checking a query against the indexed
// vocabulary.
type SuggestResult struct {
	OriginalQuery  string
	CorrectedQuery string
	HasCorrections bool
	UnknownTerms   []string
}

// Suggester proposes corrected queries from the index vocabulary. Searches
// over diarized transcripts routinely hit dictation typos; the suggester maps
// them back to terms that actually occur in stored runs.
type Suggester struct {
	dictionary  TermDictionary
	maxDistance int

	mu         sync.RWMutex
	termsCache []string
	termSet    map[string]struct{}
	cacheValid bool
}

// NewSuggester creates a Suggester backed by dict. maxDistance <= 0 means the
// default of 2.
func NewSuggester(dict TermDictionary, maxDistance int) *Suggester {
	if maxDistance <= 0 {
		maxDistance = 2
	}
	return &Suggester{
		dictionary:  dict,
		maxDistance: maxDistance,
		termSet:     make(map[string]struct{}),
	}
}

// InvalidateCache drops the cached vocabulary. Call after indexing new runs.
func (s *Suggester) InvalidateCache() {
	s.mu.Lock()
	s.cacheValid = false
	s.mu.Unlock()
}

// Check splits the query into terms, keeps known terms as-is, and replaces
// unknown terms with their best suggestion when one exists within the edit
// distance bound. Terms shorter than 3 runes are never corrected.
func (s *Suggester) Check(query string) (*SuggestResult, error) {
	result := &SuggestResult{OriginalQuery: query, CorrectedQuery: query}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return result, nil
	}
	if err := s.ensureCache(); err != nil {
		return nil, err
	}

	corrected := make([]string, len(terms))
	for i, term := range terms {
		corrected[i] = term
		if len([]rune(term)) < 3 {
			continue
		}
		s.mu.RLock()
		_, known := s.termSet[term]
		s.mu.RUnlock()
		if known {
			continue
		}
		result.UnknownTerms = append(result.UnknownTerms, term)
		if best, ok := s.bestSuggestion(term); ok {
			corrected[i] = best.Term
			result.HasCorrections = true
		}
	}

	if result.HasCorrections {
		result.CorrectedQuery = strings.Join(corrected, " ")
	}
	return result, nil
}

// Suggestions returns candidates for one term ordered by edit distance, then
// alphabetically, capped at n.
func (s *Suggester) Suggestions(term string, n int) ([]Suggestion, error) {
	if err := s.ensureCache(); err != nil {
		return nil, err
	}
	term = strings.ToLower(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Suggestion
	for _, candidate := range s.termsCache {
		// Length pre-filter keeps the distance computation off hopeless
		// candidates.
		if abs(len(candidate)-len(term)) > s.maxDistance {
			continue
		}
		d := DamerauLevenshteinDistance(term, candidate)
		if d > 0 && d <= s.maxDistance {
			out = append(out, Suggestion{Term: candidate, Distance: d})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Suggester) bestSuggestion(term string) (Suggestion, bool) {
	suggestions, err := s.Suggestions(term, 1)
	if err != nil || len(suggestions) == 0 {
		return Suggestion{}, false
	}
	return suggestions[0], true
}

func (s *Suggester) ensureCache() error {
	s.mu.RLock()
	valid := s.cacheValid
	s.mu.RUnlock()
	if valid {
		return nil
	}

	terms, err := s.dictionary.AllTerms()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.termsCache = terms
	s.termSet = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s.termSet[t] = struct{}{}
	}
	s.cacheValid = true
	s.mu.Unlock()
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
