//go:build !cgo
// +build !cgo

package sentiment

import (
	"context"
	"errors"
)

// ONNXAnalyzer stub type when built without CGO (see onnx.go for the real
// implementation).
type ONNXAnalyzer struct{}

// NewONNXAnalyzer returns an error when built without CGO.
func NewONNXAnalyzer(_ string, _ int) (*ONNXAnalyzer, error) {
	return nil, errors.New("ONNX sentiment analyzer requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// Classify never runs on the stub.
func (a *ONNXAnalyzer) Classify(_ context.Context, _ string) (RawResult, error) {
	return RawResult{}, errors.New("ONNX sentiment analyzer not available")
}

// Close is a no-op on the stub.
func (a *ONNXAnalyzer) Close() error { return nil }
