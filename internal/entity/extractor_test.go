package entity

import (
	"reflect"
	"testing"
)

func TestRuleExtractor_Extract(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	text := "I have severe neck pain and stiffness. " +
		"The doctor recommended physiotherapy sessions and painkillers."
	got := r.Extract(text)

	wantSymptoms := []string{"stiffness", "severe", "pain"}
	if !reflect.DeepEqual(got[CategorySymptoms], wantSymptoms) {
		t.Errorf("symptoms = %v, want %v", got[CategorySymptoms], wantSymptoms)
	}

	wantTreatments := []string{"physiotherapy", "painkillers", "sessions"}
	if !reflect.DeepEqual(got[CategoryTreatments], wantTreatments) {
		t.Errorf("treatments = %v, want %v", got[CategoryTreatments], wantTreatments)
	}

	if len(got[CategoryDiagnoses]) != 0 || len(got[CategoryAnatomy]) != 0 {
		t.Errorf("rule pass should leave diagnoses and anatomy empty, got %v / %v",
			got[CategoryDiagnoses], got[CategoryAnatomy])
	}
}

func TestRuleExtractor_ExtractEmpty(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	got := r.Extract("   ")
	for _, category := range []string{CategorySymptoms, CategoryTreatments, CategoryDiagnoses, CategoryAnatomy} {
		if _, ok := got[category]; !ok {
			t.Errorf("category %q missing from empty result", category)
		}
		if len(got[category]) != 0 {
			t.Errorf("category %q = %v, want empty", category, got[category])
		}
	}
}

func TestRuleExtractor_WholeWordOnly(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	got := r.Extract("The painting class was painless fun.")
	if len(got[CategorySymptoms]) != 0 {
		t.Errorf("symptoms = %v, want none for embedded keywords", got[CategorySymptoms])
	}
}

func TestRuleExtractor_CategoryCap(t *testing.T) {
	r := NewRuleExtractor(2, 0.85)

	got := r.Extract("pain, ache, discomfort, stiffness, tenderness")
	if len(got[CategorySymptoms]) != 2 {
		t.Errorf("symptoms = %v, want 2 entries", got[CategorySymptoms])
	}
}

func TestRuleExtractor_ExtractWithConfidence(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	got := r.ExtractWithConfidence("The pain is constant.")
	symptoms := got[CategorySymptoms]
	if len(symptoms) != 1 {
		t.Fatalf("symptoms = %v, want 1 entry", symptoms)
	}
	if symptoms[0].Text != "pain" || symptoms[0].Confidence != 0.85 {
		t.Errorf("scored entity = %+v", symptoms[0])
	}
}

func TestRuleExtractor_Diagnosis(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "diagnosed with",
			in:   "You were diagnosed with whiplash, a soft tissue injury.",
			want: "whiplash",
		},
		{
			name: "injury phrasing",
			in:   "It was a whiplash injury after all.",
			want: "whiplash",
		},
		{
			name: "consistent with",
			in:   "The findings are consistent with a muscle strain.",
			want: "a muscle strain",
		},
		{
			name: "no diagnosis",
			in:   "Everything looks normal today.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Diagnosis(tt.in); got != tt.want {
				t.Errorf("Diagnosis(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuleExtractor_Prognosis(t *testing.T) {
	r := NewRuleExtractor(20, 0.85)

	got := r.Prognosis("We expect a full recovery within six months. Keep resting.")
	if got != "full recovery within six months" {
		t.Errorf("Prognosis = %q", got)
	}

	if got := r.Prognosis("Nothing to report."); got != "" {
		t.Errorf("Prognosis = %q, want empty", got)
	}
}
