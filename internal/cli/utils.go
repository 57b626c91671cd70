// Package cli provides output formatting for the clinscribe command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/clinscribe/clinscribe/internal/models"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one line per entry, for piping into other tools.
	OutputCompact OutputFormat = "compact"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "compact":
		return OutputCompact, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// SearchHit is one search result as returned by the API.
type SearchHit struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Source      string  `json:"source"`
	PatientName string  `json:"patient_name"`
	Diagnosis   string  `json:"diagnosis"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query      string      `json:"query"`
	Hits       []SearchHit `json:"hits"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		for _, hit := range response.Hits {
			fmt.Fprintf(w, "%s\t%.4f\t%s\t%s\n", hit.ID, hit.Score, hit.PatientName, hit.Diagnosis)
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *SearchResponse) {
	fmt.Fprintf(w, "\nFound %d run(s) for %q\n\n", len(response.Hits), response.Query)
	for i, hit := range response.Hits {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", i+1, hit.Score)
		fmt.Fprintf(w, "ID: %s\n", hit.ID)
		if hit.PatientName != "" {
			fmt.Fprintf(w, "Patient: %s\n", hit.PatientName)
		}
		if hit.Diagnosis != "" {
			fmt.Fprintf(w, "Diagnosis: %s\n", hit.Diagnosis)
		}
		if hit.Source != "" {
			fmt.Fprintf(w, "Source: %s\n", Truncate(hit.Source, 120))
		}
		fmt.Fprintln(w)
	}
	if response.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean: %q?\n", response.Suggestion)
	}
}

// WriteRunList writes flattened run rows to w in the given format.
func WriteRunList(w io.Writer, rows []*models.RunSummaryRow, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case OutputCompact:
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ID, row.PatientName, row.Diagnosis, row.Severity)
		}
		return nil
	default:
		fmt.Fprintf(w, "%d run(s)\n\n", len(rows))
		for _, row := range rows {
			fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
			fmt.Fprintf(w, "ID: %s\n", row.ID)
			if row.PatientName != "" {
				fmt.Fprintf(w, "Patient: %s\n", row.PatientName)
			}
			if row.Diagnosis != "" {
				fmt.Fprintf(w, "Diagnosis: %s", row.Diagnosis)
				if row.Severity != "" {
					fmt.Fprintf(w, " (%s)", row.Severity)
				}
				fmt.Fprintln(w)
			}
			if row.Sentiment != "" {
				fmt.Fprintf(w, "Sentiment: %s\n", row.Sentiment)
			}
			fmt.Fprintf(w, "Processed: %s\n", row.CreatedAt.Format("2006-01-02 15:04:05"))
			if row.Source != "" {
				fmt.Fprintf(w, "Source: %s\n", Truncate(row.Source, 120))
			}
			fmt.Fprintln(w)
		}
		return nil
	}
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
