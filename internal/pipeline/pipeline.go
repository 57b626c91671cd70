// Package pipeline orchestrates transcript structuring: normalization,
// diarization, parallel extraction branches, and final assembly.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clinscribe/clinscribe/internal/diarize"
	"github.com/clinscribe/clinscribe/internal/entity"
	"github.com/clinscribe/clinscribe/internal/intent"
	"github.com/clinscribe/clinscribe/internal/keywords"
	"github.com/clinscribe/clinscribe/internal/models"
	"github.com/clinscribe/clinscribe/internal/normalize"
	"github.com/clinscribe/clinscribe/internal/sentiment"
	"github.com/clinscribe/clinscribe/internal/soapnote"
	"github.com/clinscribe/clinscribe/internal/summary"
	"github.com/clinscribe/clinscribe/internal/temporal"
)

// Version is reported in output metadata.
const Version = "1.0.0"

// ErrEmptyInput is the only error Process itself raises; every extraction
// stage degrades to fallback values instead of failing.
var ErrEmptyInput = errors.New("Empty input text")

// Pipeline holds the components of one processing chain. All components are
// stateless after construction, so a Pipeline is safe for concurrent use.
type Pipeline struct {
	normalizer *normalize.Normalizer
	diarizer   *diarize.Diarizer
	temporal   *temporal.Extractor
	entities   *entity.RuleExtractor
	curator    *entity.Curator
	keywords   *keywords.StatExtractor
	sentiment  *sentiment.Scorer
	intent     *intent.Scorer
	soap       *soapnote.Builder
	summarizer *summary.Assembler
	logger     *zap.Logger
	now        func() time.Time
}

// Options configures pipeline construction.
type Options struct {
	// EntityCap bounds entities kept per category; 0 means the default.
	EntityCap int
	// EntityConfidence is attached to rule-derived entities; 0 means the
	// default.
	EntityConfidence float64
	// MaxKeywords bounds the extracted keyword list; 0 means the default.
	MaxKeywords int
	// SentimentThreshold is the confidence below which raw sentiment maps
	// to Neutral.
	SentimentThreshold float64
	// SentimentAnalyzer overrides the default lexicon analyzer.
	SentimentAnalyzer sentiment.Analyzer
	// IntentClassifier overrides the default lexicon classifier.
	IntentClassifier intent.Classifier
	// Logger for stage warnings; nil means no logging.
	Logger *zap.Logger
}

// New builds a Pipeline from options, falling back to the lexicon-backed
// analyzers when no model-backed ones are supplied.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SentimentThreshold <= 0 {
		opts.SentimentThreshold = 0.7
	}

	analyzer := opts.SentimentAnalyzer
	if analyzer == nil {
		analyzer = sentiment.NewLexiconAnalyzer()
	}
	classifier := opts.IntentClassifier
	if classifier == nil {
		classifier = intent.NewLexiconClassifier()
	}

	normalizer := normalize.New()
	extractor := entity.NewRuleExtractor(opts.EntityCap, opts.EntityConfidence)
	curator := entity.NewCurator()
	kw := keywords.NewStatExtractor(opts.MaxKeywords)

	return &Pipeline{
		normalizer: normalizer,
		diarizer:   diarize.New(normalizer),
		temporal:   temporal.New(),
		entities:   extractor,
		curator:    curator,
		keywords:   kw,
		sentiment:  sentiment.NewScorer(analyzer, opts.SentimentThreshold, logger),
		intent:     intent.NewScorer(classifier, logger),
		soap:       soapnote.NewBuilder(),
		summarizer: summary.NewAssembler(extractor, curator, temporal.New(), kw),
		logger:     logger,
		now:        time.Now,
	}
}

// Process runs the full chain over one transcript. Empty or blank input is
// the single failure mode; all other stages produce fallback values, so the
// returned output always has every field populated.
func (p *Pipeline) Process(ctx context.Context, text string) (*models.PipelineOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	normalized := p.normalizer.Normalize(text)
	turns := p.diarizer.Parse(text)
	stats := p.diarizer.Stats(turns)
	patientStatements := p.diarizer.PatientStatements(turns)

	var (
		mentions      models.TemporalMentions
		entities      map[string][]string
		topKeywords   []models.ScoredKeyword
		phrases       []string
		sentiments    []models.SentimentResult
		intents       []models.IntentResult
		summaryResult models.Summary
	)

	// The branches read only (normalized, patientStatements) and write
	// disjoint results.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mentions = p.temporal.Extract(normalized)
		return nil
	})
	g.Go(func() error {
		entities = p.curator.Curate(p.entities.Extract(normalized))
		return nil
	})
	g.Go(func() error {
		topKeywords = p.keywords.Extract(normalized, 0)
		phrases = p.keywords.MedicalPhrases(normalized, 0)
		return nil
	})
	g.Go(func() error {
		sentiments = p.sentiment.AnalyzeStatements(gctx, patientStatements)
		return nil
	})
	g.Go(func() error {
		intents = p.intent.ClassifyStatements(gctx, patientStatements)
		return nil
	})
	g.Go(func() error {
		summaryResult = p.summarizer.Assemble(normalized, patientStatements)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PipelineOutput{
		Metadata: models.OutputMetadata{
			ProcessedAt:     p.now(),
			PipelineVersion: Version,
			TotalDialogues:  stats.TotalTurns,
			DoctorTurns:     stats.DoctorTurns,
			PatientTurns:    stats.PatientTurns,
		},
		Summary:  summaryResult,
		Entities: entities,
		TemporalInfo: models.TemporalInfo{
			Dates:     temporal.Texts(mentions.Dates),
			Times:     temporal.Texts(mentions.Times),
			Durations: temporal.Texts(mentions.Durations),
		},
		SentimentAnalysis: models.SentimentAnalysis{
			Overall:      p.sentiment.Overall(sentiments),
			Timeline:     p.sentiment.Timeline(sentiments),
			PerStatement: sentiments,
		},
		IntentAnalysis: models.IntentAnalysis{
			Distribution: p.intent.Distribution(intents),
			PerStatement: intents,
		},
		Keywords: models.KeywordReport{
			TopKeywords:    topKeywords,
			MedicalPhrases: phrases,
		},
		Dialogues: turns,
	}, nil
}

// BuildSOAP derives a SOAP note for a transcript. It shares Process's
// empty-input contract.
func (p *Pipeline) BuildSOAP(text string) (*models.SOAPNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	turns := p.diarizer.Parse(text)
	normalized := p.normalizer.Normalize(text)
	return p.soap.Build(
		normalized,
		p.diarizer.PatientStatements(turns),
		p.diarizer.DoctorStatements(turns),
	), nil
}
