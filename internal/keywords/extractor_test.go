package keywords

import (
	"reflect"
	"strings"
	"testing"
)

const sampleText = "Neck pain after the car accident. The neck pain needed " +
	"physiotherapy sessions. Physiotherapy helped the neck pain."

func TestStatExtractor_Extract(t *testing.T) {
	e := NewStatExtractor(15)

	keywords := e.Extract(sampleText, 10)
	if len(keywords) == 0 {
		t.Fatal("no keywords extracted")
	}
	if keywords[0].Keyword != "neck pain" {
		t.Errorf("top keyword = %q, want %q", keywords[0].Keyword, "neck pain")
	}
	for i := 1; i < len(keywords); i++ {
		if keywords[i].Score > keywords[i-1].Score {
			t.Fatalf("keywords not sorted by score: %v", keywords)
		}
	}
}

func TestStatExtractor_ExtractEmpty(t *testing.T) {
	e := NewStatExtractor(15)

	if got := e.Extract("", 10); got != nil {
		t.Errorf("Extract(empty) = %v, want nil", got)
	}
	if got := e.Extract("   ", 10); got != nil {
		t.Errorf("Extract(blank) = %v, want nil", got)
	}
}

func TestStatExtractor_Deterministic(t *testing.T) {
	e := NewStatExtractor(15)

	first := e.Extract(sampleText, 10)
	second := e.Extract(sampleText, 10)
	if !reflect.DeepEqual(first, second) {
		t.Error("extraction is not deterministic")
	}
}

func TestStatExtractor_FiltersConversationalWords(t *testing.T) {
	e := NewStatExtractor(15)

	keywords := e.Extract("Good morning doctor. Hello hello hello. The neck pain persists.", 10)
	for _, kw := range keywords {
		for _, tok := range strings.Fields(kw.Keyword) {
			if medicalStopwords[tok] {
				t.Errorf("keyword %q contains conversational stopword %q", kw.Keyword, tok)
			}
		}
	}
}

func TestStatExtractor_NoEnglishStopwordsInPhrases(t *testing.T) {
	e := NewStatExtractor(15)

	for _, kw := range e.Extract(sampleText, 15) {
		for _, tok := range strings.Fields(kw.Keyword) {
			if englishStopwords[tok] {
				t.Errorf("phrase %q contains stopword %q", kw.Keyword, tok)
			}
		}
	}
}

func TestStatExtractor_MedicalPhrases(t *testing.T) {
	e := NewStatExtractor(15)

	phrases := e.MedicalPhrases(sampleText, 15)
	if len(phrases) == 0 {
		t.Fatal("no medical phrases found")
	}
	for _, phrase := range phrases {
		if !containsIndicator(phrase) {
			t.Errorf("phrase %q has no medical indicator", phrase)
		}
	}
}

func TestStatExtractor_ByCategory(t *testing.T) {
	e := NewStatExtractor(15)

	categorized := e.ByCategory(sampleText)
	if len(categorized.Symptoms) == 0 {
		t.Error("expected symptom keywords for pain phrases")
	}
	if len(categorized.Treatments) == 0 {
		t.Error("expected treatment keywords for physiotherapy phrases")
	}
	if len(categorized.Conditions) == 0 {
		t.Error("expected condition keywords for accident phrases")
	}
}

func TestStatExtractor_TopKeywordsSummary(t *testing.T) {
	e := NewStatExtractor(15)

	summary := e.TopKeywordsSummary(sampleText, 3)
	if summary == "" {
		t.Fatal("empty summary")
	}
	if got := len(strings.Split(summary, ", ")); got > 3 {
		t.Errorf("summary has %d keywords, want at most 3", got)
	}
}
