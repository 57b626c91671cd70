// Package runindex provides full-text indexing and search over stored
// pipeline runs.
package runindex

import (
	"context"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

// RunDocument is the flattened view of a run that gets indexed. Transcript
// and diagnosis are full-text fields; the rest are exact-match facets.
type RunDocument struct {
	Source     string `json:"source"`
	Patient    string `json:"patient"`
	Diagnosis  string `json:"diagnosis"`
	Transcript string `json:"transcript"`
	Symptoms   string `json:"symptoms"`
	Severity   string `json:"severity"`
	Sentiment  string `json:"sentiment"`
}

// FromRun flattens a stored run into its indexable form.
func FromRun(run *models.Run) *RunDocument {
	doc := &RunDocument{
		Source:     run.Source,
		Transcript: run.Transcript,
	}
	if run.Output != nil {
		doc.Patient = run.Output.Summary.PatientName
		doc.Diagnosis = run.Output.Summary.Diagnosis
		doc.Symptoms = strings.Join(run.Output.Summary.Symptoms, " ")
		doc.Sentiment = run.Output.SentimentAnalysis.Overall.DominantSentiment
	}
	if run.SOAP != nil {
		doc.Severity = run.SOAP.Assessment.Severity
	}
	return doc
}

// SearchOptions optional parameters for run search. Nil means use defaults.
type SearchOptions struct {
	// DiagnosisBoost multiplies the score contribution from matches in the
	// diagnosis and symptoms fields. Values > 1 make clinical matches rank
	// higher than transcript matches. Use 1.0 for no boost.
	DiagnosisBoost float64
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2).
	// Default is 2 when FuzzyEnabled is true.
	Fuzziness int
}

// Index defines run search operations.
type Index interface {
	Index(ctx context.Context, id string, doc *RunDocument) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error)
	Delete(ctx context.Context, id string) error
	Close() error
	// DocCount returns the total number of indexed runs.
	DocCount() (uint64, error)
}

// Result is a single run search hit.
type Result struct {
	ID    string
	Score float64
}

// TermDictionary provides access to the indexed vocabulary for query
// suggestions.
type TermDictionary interface {
	// AllTerms returns all unique terms in the index.
	AllTerms() ([]string, error)
	// ContainsTerm checks if a term exists in the index.
	ContainsTerm(term string) (bool, error)
}
