// Package ingest glues the pipeline to storage and the run index: one entry
// point turns a transcript into a stored, searchable run.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinscribe/clinscribe/internal/extract"
	"github.com/clinscribe/clinscribe/internal/fileid"
	"github.com/clinscribe/clinscribe/internal/models"
	"github.com/clinscribe/clinscribe/internal/pipeline"
	"github.com/clinscribe/clinscribe/internal/runindex"
	"github.com/clinscribe/clinscribe/internal/storage"
)

// Service processes transcripts and persists the resulting runs.
type Service struct {
	pipeline  *pipeline.Pipeline
	storage   storage.Storage
	index     runindex.Index
	extractor *extract.Extractor
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a service with the given dependencies. extractor may be
// nil; then ProcessFile treats all files as plain text.
func NewService(p *pipeline.Pipeline, store storage.Storage, idx runindex.Index, extractor *extract.Extractor, opts ...Option) *Service {
	s := &Service{
		pipeline:  p,
		storage:   store,
		index:     idx,
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessText runs the pipeline over text and stores the run. An empty id
// gets a fresh UUID; a non-empty id replaces any earlier run with that id.
func (s *Service) ProcessText(ctx context.Context, id, source, text string) (*models.Run, error) {
	out, err := s.pipeline.Process(ctx, text)
	if err != nil {
		return nil, err
	}
	soap, err := s.pipeline.BuildSOAP(text)
	if err != nil {
		return nil, err
	}

	if id == "" {
		id = uuid.New().String()
	} else {
		// Replace semantics for deterministic file IDs.
		_ = s.storage.DeleteRun(ctx, id)
		_ = s.index.Delete(ctx, id)
	}

	run := &models.Run{
		ID:         id,
		Source:     source,
		Transcript: text,
		Output:     out,
		SOAP:       soap,
	}
	if err := s.storage.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}
	if err := s.index.Index(ctx, run.ID, runindex.FromRun(run)); err != nil {
		return nil, fmt.Errorf("failed to index run: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("run stored",
			zap.String("id", run.ID),
			zap.String("source", source),
			zap.Int("dialogues", out.Metadata.TotalDialogues))
	}
	return run, nil
}

// ProcessFile extracts text from the file at path and processes it. The run
// ID is derived from the absolute path, so re-processing a changed file
// updates the same run. Unchanged files (run newer than file mtime) are
// skipped. If allowedExts is non-empty, the extension must be in the list.
func (s *Service) ProcessFile(ctx context.Context, path string, allowedExts []string) (*models.Run, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	id := fileid.RunID(absPath)
	if existing, getErr := s.storage.GetRun(ctx, id); getErr == nil {
		if existing.CreatedAt.After(info.ModTime()) {
			if s.logger != nil {
				s.logger.Debug("skipping unchanged transcript", zap.String("path", absPath))
			}
			return existing, nil
		}
	}

	text, err := s.extractText(absPath)
	if err != nil {
		return nil, fmt.Errorf("extract transcript: %w", err)
	}
	return s.ProcessText(ctx, id, absPath, text)
}

// ProcessDirectory walks dir and processes every file with an allowed
// extension. It returns the number of files processed; extraction or
// pipeline failures on individual files are logged and skipped.
func (s *Service) ProcessDirectory(ctx context.Context, dir string, allowedExts []string) (int, error) {
	processed := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(strings.ToLower(filepath.Ext(path)), allowedExts) {
			return nil
		}
		if _, procErr := s.ProcessFile(ctx, path, allowedExts); procErr != nil {
			if s.logger != nil {
				s.logger.Warn("skipping transcript", zap.String("path", path), zap.Error(procErr))
			}
			return nil
		}
		processed++
		return nil
	})
	if err != nil {
		return processed, fmt.Errorf("walk directory: %w", err)
	}
	return processed, nil
}

// RemoveFile deletes the run derived from path, if any.
func (s *Service) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	return s.DeleteRun(ctx, fileid.RunID(absPath))
}

// DeleteRun removes a run from both storage and the index.
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	if err := s.storage.DeleteRun(ctx, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove run from index: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("run deleted", zap.String("id", id))
	}
	return nil
}

func (s *Service) extractText(path string) (string, error) {
	if s.extractor != nil {
		return s.extractor.Extract(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	e := strings.TrimPrefix(ext, ".")
	for _, a := range allowed {
		if strings.TrimPrefix(strings.ToLower(a), ".") == e {
			return true
		}
	}
	return false
}
