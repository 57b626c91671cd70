package runindex

import (
	"testing"
)

type fakeDictionary struct {
	terms []string
}

func (f *fakeDictionary) AllTerms() ([]string, error) { return f.terms, nil }

func (f *fakeDictionary) ContainsTerm(term string) (bool, error) {
	for _, t := range f.terms {
		if t == term {
			return true, nil
		}
	}
	return false, nil
}

func newTestSuggester() *Suggester {
	return NewSuggester(&fakeDictionary{
		terms: []string{"whiplash", "neck", "pain", "stiffness", "physiotherapy", "sessions"},
	}, 2)
}

func TestSuggester_Check(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantCorrected  string
		wantCorrection bool
	}{
		{name: "known terms untouched", query: "neck pain", wantCorrected: "neck pain"},
		{name: "typo corrected", query: "whiplsh pain", wantCorrected: "whiplash pain", wantCorrection: true},
		{name: "transposition corrected", query: "whiplsah", wantCorrected: "whiplash", wantCorrection: true},
		{name: "short terms skipped", query: "pt ok", wantCorrected: "pt ok"},
		{name: "hopeless term kept", query: "electrocardiogram", wantCorrected: "electrocardiogram"},
		{name: "empty query", query: "", wantCorrected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSuggester()
			got, err := s.Check(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got.CorrectedQuery != tt.wantCorrected {
				t.Errorf("corrected = %q, want %q", got.CorrectedQuery, tt.wantCorrected)
			}
			if got.HasCorrections != tt.wantCorrection {
				t.Errorf("has corrections = %v, want %v", got.HasCorrections, tt.wantCorrection)
			}
		})
	}
}

func TestSuggester_Suggestions(t *testing.T) {
	s := newTestSuggester()

	got, err := s.Suggestions("stifness", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 || got[0].Term != "stiffness" {
		t.Fatalf("suggestions = %+v", got)
	}
	if got[0].Distance != 1 {
		t.Errorf("distance = %d, want 1", got[0].Distance)
	}
}

func TestSuggester_InvalidateCache(t *testing.T) {
	dict := &fakeDictionary{terms: []string{"neck"}}
	s := NewSuggester(dict, 2)

	res, err := s.Check("necks")
	if err != nil {
		t.Fatal(err)
	}
	if res.CorrectedQuery != "neck" {
		t.Errorf("corrected = %q, want %q", res.CorrectedQuery, "neck")
	}

	dict.terms = append(dict.terms, "necks")
	s.InvalidateCache()
	res, err = s.Check("necks")
	if err != nil {
		t.Fatal(err)
	}
	if res.HasCorrections {
		t.Error("known term should not be corrected after cache refresh")
	}
}
