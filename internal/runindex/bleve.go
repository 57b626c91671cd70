// Package runindex provides the Bleve implementation of Index.
package runindex

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused so runs survive restarts without re-indexing. If the mapping changes
// in code, remove the index directory to force a rebuild.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) keeps clinical
	// vocabulary intact; English stemming turns "whiplash" queries brittle.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("transcript", textFieldMapping)
	docMapping.AddFieldMappingsAt("diagnosis", textFieldMapping)
	docMapping.AddFieldMappingsAt("symptoms", textFieldMapping)
	docMapping.AddFieldMappingsAt("patient", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("severity", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("sentiment", keywordFieldMapping)
	im.AddDocumentMapping("run", docMapping)
	im.DefaultType = "run"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes a run document by id.
func (b *BleveIndex) Index(ctx context.Context, id string, doc *RunDocument) error {
	return b.index.Index(id, doc)
}

// Search runs a match query and returns up to limit results. When opts is nil
// or DiagnosisBoost <= 1, a single match over all fields is used. With a
// boost, clinical fields (diagnosis, symptoms) and the transcript are queried
// separately and merged with additive scoring.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error) {
	boost := 1.0
	fuzzyEnabled := false
	fuzziness := 2
	if opts != nil {
		if opts.DiagnosisBoost > 0 {
			boost = opts.DiagnosisBoost
		}
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	if boost <= 1.0 {
		return b.searchSingle(query, limit, fuzzyEnabled, fuzziness)
	}
	return b.searchBoosted(query, limit, boost, fuzzyEnabled, fuzziness)
}

func (b *BleveIndex) searchSingle(query string, limit int, fuzzyEnabled bool, fuzziness int) ([]*Result, error) {
	var q blevequery.Query
	if fuzzyEnabled {
		q = fuzzyQuery(query, fuzziness, "")
	} else {
		q = bleve.NewMatchQuery(query)
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// searchBoosted merges per-field results additively:
// score = (diagnosisScore + symptomsScore) * boost + transcriptScore.
func (b *BleveIndex) searchBoosted(query string, limit int, boost float64, fuzzyEnabled bool, fuzziness int) ([]*Result, error) {
	// Request enough from each field so the merged top "limit" is correct;
	// the same run can appear in several field results.
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}

	scores := make(map[string]float64)
	for _, field := range []string{"diagnosis", "symptoms", "transcript", "patient"} {
		var q blevequery.Query
		if fuzzyEnabled {
			q = fuzzyQuery(query, fuzziness, field)
		} else {
			mq := bleve.NewMatchQuery(query)
			mq.SetField(field)
			q = mq
		}
		req := bleve.NewSearchRequest(q)
		req.Size = reqSize
		results, err := b.index.Search(req)
		if err != nil {
			return nil, fmt.Errorf("Bleve %s search failed: %w", field, err)
		}
		mult := 1.0
		if field == "diagnosis" || field == "symptoms" {
			mult = boost
		}
		for _, hit := range results.Hits {
			scores[hit.ID] += hit.Score * mult
		}
	}

	type scored struct {
		id    string
		score float64
	}
	merged := make([]scored, 0, len(scores))
	for id, score := range scores {
		merged = append(merged, scored{id: id, score: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].id < merged[j].id
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	out := make([]*Result, len(merged))
	for i, s := range merged {
		out[i] = &Result{ID: s.id, Score: s.score}
	}
	return out, nil
}

// fuzzyQuery builds a disjunction of FuzzyQueries over the query terms. An
// empty field searches all fields.
func fuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := strings.Fields(strings.ToLower(queryStr))
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		if field != "" {
			mq.SetField(field)
		}
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		if field != "" {
			fq.SetField(field)
		}
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Delete removes a run from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of indexed runs.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// AllTerms returns all unique terms from the full-text field dictionaries.
// Used to build the suggestion vocabulary.
func (b *BleveIndex) AllTerms() ([]string, error) {
	terms := make([]string, 0)
	seen := make(map[string]struct{})

	for _, field := range []string{"transcript", "diagnosis", "symptoms"} {
		dict, err := b.index.FieldDict(field)
		if err != nil {
			continue
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if _, ok := seen[entry.Term]; !ok {
				terms = append(terms, entry.Term)
				seen[entry.Term] = struct{}{}
			}
		}
		_ = dict.Close()
	}

	return terms, nil
}

// ContainsTerm checks if a term exists in the index.
func (b *BleveIndex) ContainsTerm(term string) (bool, error) {
	q := bleve.NewTermQuery(term)
	req := bleve.NewSearchRequest(q)
	req.Size = 1
	results, err := b.index.Search(req)
	if err != nil {
		return false, err
	}
	return results.Total > 0, nil
}
