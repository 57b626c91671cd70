//go:build cgo
// +build cgo

package sentiment

import (
	"context"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXAnalyzer runs a binary sentiment classifier through ONNX Runtime. It
// requires CGO and the onnxruntime shared library.
type ONNXAnalyzer struct {
	session   *ort.AdvancedSession
	maxTokens int
	tokenizer Tokenizer
	// Pre-allocated tensors for Run(); input data is overwritten per call.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	logitsTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXAnalyzer loads the classifier at modelPath. The model must take
// BERT-style inputs and emit two logits (negative, positive).
func NewONNXAnalyzer(modelPath string, maxTokens int) (*ONNXAnalyzer, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tokenizer := &HashTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tokenizer.Tokenize("", maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	logitsTensor, err := ort.NewTensor(ort.NewShape(1, 2), make([]float32, 2))
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create logits tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{logitsTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		logitsTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXAnalyzer{
		session:             session,
		maxTokens:           maxTokens,
		tokenizer:           tokenizer,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		logitsTensor:        logitsTensor,
	}, nil
}

// Classify runs inference on text and softmaxes the two logits into a
// POSITIVE or NEGATIVE label with its probability.
func (a *ONNXAnalyzer) Classify(ctx context.Context, text string) (RawResult, error) {
	if err := ctx.Err(); err != nil {
		return RawResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := a.tokenizer.Tokenize(text, a.maxTokens)
	copy(a.inputIDsTensor.GetData(), inputIDs)
	copy(a.attentionMaskTensor.GetData(), attentionMask)
	copy(a.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := a.session.Run(); err != nil {
		return RawResult{}, fmt.Errorf("inference failed: %w", err)
	}

	logits := a.logitsTensor.GetData()
	negProb, posProb := softmax2(float64(logits[0]), float64(logits[1]))
	if posProb >= negProb {
		return RawResult{Label: LabelPositive, Score: posProb}, nil
	}
	return RawResult{Label: LabelNegative, Score: negProb}, nil
}

// Close destroys the session and tensors.
func (a *ONNXAnalyzer) Close() error {
	var err error
	if a.session != nil {
		err = a.session.Destroy()
		a.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{a.inputIDsTensor, a.attentionMaskTensor, a.tokenTypeIDsTensor} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	a.inputIDsTensor = nil
	a.attentionMaskTensor = nil
	a.tokenTypeIDsTensor = nil
	if a.logitsTensor != nil {
		_ = a.logitsTensor.Destroy()
		a.logitsTensor = nil
	}
	return err
}

func softmax2(a, b float64) (float64, float64) {
	m := math.Max(a, b)
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	sum := ea + eb
	return ea / sum, eb / sum
}
