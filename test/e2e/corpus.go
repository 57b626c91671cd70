// Package e2e provides end-to-end tests over a corpus of clinical transcripts.
package e2e

import (
	"fmt"
	"strings"
)

// CorpusTranscript is one synthetic consultation in the E2E corpus.
type CorpusTranscript struct {
	ID          string
	PatientName string
	Complaint   string
	Diagnosis   string
	Treatment   string
}

// QueryTestCase defines a query and the run ID(s) of which at least one must
// appear in search results.
type QueryTestCase struct {
	Query          string
	ExpectedRunIDs []string
	Description    string
}

// Corpus holds transcripts and query test cases for E2E tests.
type Corpus struct {
	Transcripts  []CorpusTranscript
	TestCases    []QueryTestCase
	TotalRuns    int
	TotalQueries int
}

// Text renders the transcript as a speaker-labelled dialogue, the form
// dictation exporters produce.
func (c *CorpusTranscript) Text() string {
	return fmt.Sprintf(`Physician: Good morning, %s. What brings you in today?
Patient: I have been dealing with %s for the past week.
Physician: Based on the examination, you have %s. %s
Patient: Thank you, doctor. That is a relief to finally know.
Physician: Let's schedule a follow-up in two weeks to check your progress.`,
		c.PatientName, c.Complaint, c.Diagnosis, c.Treatment)
}

// BuildCorpus returns a corpus of n consultations with varied diagnoses and
// one query test case per distinctive diagnosis term.
func BuildCorpus(n int) *Corpus {
	transcripts := buildTranscripts(n)
	cases := buildQueryTestCases(transcripts)
	return &Corpus{
		Transcripts:  transcripts,
		TestCases:    cases,
		TotalRuns:    len(transcripts),
		TotalQueries: len(cases),
	}
}

type scenario struct {
	complaint string
	diagnosis string
	treatment string
	// queryTerm is a token unique to this diagnosis within the scenario list.
	queryTerm string
}

var scenarios = []scenario{
	{"neck pain and stiffness after a car accident", "whiplash", "I recommend physiotherapy twice a week.", "whiplash"},
	{"throbbing headaches with sensitivity to light", "migraine", "I am prescribing sumatriptan for the acute attacks.", "migraine"},
	{"a persistent cough with chest discomfort", "acute bronchitis", "Rest and plenty of fluids; an inhaler if the wheeze persists.", "bronchitis"},
	{"shortness of breath during exercise", "exercise-induced asthma", "Use the albuterol inhaler fifteen minutes before activity.", "asthma"},
	{"dizziness when standing up quickly", "orthostatic hypotension", "Increase fluid intake and rise slowly from sitting.", "hypotension"},
	{"pain in my right elbow when lifting", "lateral epicondylitis", "Rest the arm and apply ice twice daily.", "epicondylitis"},
	{"shooting pain down the back of my leg", "sciatica", "Gentle stretching and ibuprofen for the inflammation.", "sciatica"},
	{"a spinning sensation when turning my head", "benign positional vertigo", "We will do the Epley maneuver today.", "vertigo"},
	{"facial pressure and a blocked nose", "chronic sinusitis", "A saline rinse daily and a steroid nasal spray.", "sinusitis"},
	{"an itchy red rash on both forearms", "contact dermatitis", "Avoid the irritant and apply hydrocortisone cream.", "dermatitis"},
	{"burning stomach pain after meals", "gastritis", "Start omeprazole and avoid spicy food for a month.", "gastritis"},
	{"stiff and swollen finger joints in the morning", "rheumatoid arthritis", "I am referring you to rheumatology for disease-modifying therapy.", "arthritis"},
	{"constant tiredness and pale skin", "iron deficiency anemia", "Iron supplements daily and a repeat blood count in eight weeks.", "anemia"},
	{"trouble falling asleep most nights", "chronic insomnia", "We will start with sleep hygiene measures before any medication.", "insomnia"},
	{"fever and a productive cough", "community-acquired pneumonia", "A course of amoxicillin and a chest X-ray to confirm.", "pneumonia"},
	{"red watery eyes with discharge", "bacterial conjunctivitis", "Antibiotic eye drops four times a day for five days.", "conjunctivitis"},
	{"a severe sore throat and difficulty swallowing", "acute tonsillitis", "Penicillin for ten days and paracetamol for the pain.", "tonsillitis"},
	{"earache and muffled hearing", "otitis media", "Amoxicillin and a review if the pain lasts beyond three days.", "otitis"},
	{"burning when passing urine", "cystitis", "A short course of nitrofurantoin and plenty of water.", "cystitis"},
	{"dry cracked patches behind my knees", "atopic eczema", "A thick emollient twice daily and a mild steroid for flares.", "eczema"},
	{"a painful blistering rash on one side of my chest", "shingles", "Aciclovir started today gives the best chance of a quick recovery.", "shingles"},
	{"a hot swollen big toe", "gout", "Colchicine for the flare and we will check your uric acid.", "gout"},
	{"heel pain with the first steps in the morning", "plantar fasciitis", "Calf stretches and supportive footwear; an insole may help.", "fasciitis"},
	{"numbness and tingling in my thumb and fingers", "carpal tunnel syndrome", "A night splint first; surgery only if symptoms progress.", "carpal"},
	{"shoulder stiffness that limits reaching overhead", "adhesive capsulitis", "Physiotherapy and a steroid injection into the joint.", "capsulitis"},
	{"heartburn that wakes me at night", "acid reflux", "Raise the head of the bed and start a proton pump inhibitor.", "reflux"},
	{"headache and confusion after hitting my head", "mild concussion", "Complete cognitive rest for 48 hours and no screens.", "concussion"},
	{"lower back pain after lifting boxes", "lumbar strain", "Keep gently active; bed rest will slow your recovery.", "lumbar"},
	{"wheezing and chest tightness at night", "allergic asthma", "A preventer inhaler every morning and evening.", "wheezing"},
	{"cramping abdominal pain with bloating", "irritable bowel syndrome", "A low-FODMAP diet trial for six weeks.", "bloating"},
}

var patientNames = []string{
	"Ms. Jones", "Mr. Smith", "Mrs. Patel", "Mr. Garcia", "Ms. Chen",
	"Mr. O'Brien", "Mrs. Okafor", "Ms. Novak", "Mr. Haddad", "Mrs. Kim",
}

func buildTranscripts(n int) []CorpusTranscript {
	out := make([]CorpusTranscript, 0, n)
	for i := 0; i < n; i++ {
		s := scenarios[i%len(scenarios)]
		out = append(out, CorpusTranscript{
			ID:          fmt.Sprintf("e2e-run-%03d", i+1),
			PatientName: patientNames[i%len(patientNames)],
			Complaint:   s.complaint,
			Diagnosis:   s.diagnosis,
			Treatment:   s.treatment,
		})
	}
	return out
}

func buildQueryTestCases(transcripts []CorpusTranscript) []QueryTestCase {
	var cases []QueryTestCase
	seen := make(map[string]bool)
	for _, s := range scenarios {
		if seen[s.queryTerm] {
			continue
		}
		seen[s.queryTerm] = true
		var expected []string
		for _, tr := range transcripts {
			if strings.Contains(strings.ToLower(tr.Text()), s.queryTerm) {
				expected = append(expected, tr.ID)
			}
		}
		if len(expected) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          s.queryTerm,
			ExpectedRunIDs: expected,
			Description:    fmt.Sprintf("query %q finds a %s run", s.queryTerm, s.diagnosis),
		})
	}
	return cases
}
