package sentiment

import (
	"context"
	"strings"
	"unicode"
)

var positiveLexicon = map[string]bool{
	"relief": true, "relieved": true, "better": true, "great": true,
	"good": true, "glad": true, "improving": true, "improved": true,
	"recovered": true, "fine": true, "well": true, "happy": true,
	"progress": true, "reassuring": true, "normal": true,
}

var negativeLexicon = map[string]bool{
	"pain": true, "ache": true, "aches": true, "worried": true,
	"worry": true, "worrying": true, "anxious": true, "nervous": true,
	"bad": true, "rough": true, "severe": true, "hurt": true,
	"hurts": true, "sore": true, "stiff": true, "stiffness": true,
	"discomfort": true, "uncomfortable": true, "afraid": true,
	"scared": true, "concerned": true,
}

// LexiconAnalyzer classifies statements by counting positive and negative
// lexicon hits. It is deterministic and needs no model runtime.
type LexiconAnalyzer struct{}

// NewLexiconAnalyzer returns a lexicon-backed Analyzer.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

// Classify counts lexicon hits in text. The majority polarity wins with a
// score of 0.5 + 0.5*(margin/hits); no hits or a tie score NEUTRAL at 0.5.
func (a *LexiconAnalyzer) Classify(_ context.Context, text string) (RawResult, error) {
	var positive, negative int
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if positiveLexicon[word] {
			positive++
		}
		if negativeLexicon[word] {
			negative++
		}
	}

	hits := positive + negative
	if hits == 0 || positive == negative {
		return RawResult{Label: LabelNeutral, Score: 0.5}, nil
	}

	margin := positive - negative
	label := LabelPositive
	if margin < 0 {
		margin = -margin
		label = LabelNegative
	}
	return RawResult{
		Label: label,
		Score: 0.5 + 0.5*float64(margin)/float64(hits),
	}, nil
}
