package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"consent-backend/internal/analysis"
	"consent-backend/internal/consents"
	"consent-backend/internal/extract"
	"consent-backend/internal/patients"
	"consent-backend/internal/shared/metrics"
	"consent-backend/internal/shared/telemetry"
)

// DefaultMinTextLength is the minimum trimmed text length a document must
// yield before analysis proceeds.
const DefaultMinTextLength = 50

// Result reports one successful document ingestion.
type Result struct {
	PatientEmail   string `json:"patientEmail"`
	CreatedAccount bool   `json:"createdAccount"`
	// Password carries the generated credential exactly once, only when a
	// new account was created, for out-of-band delivery.
	Password  string `json:"password,omitempty"`
	ConsentID string `json:"consentId"`
	IndexID   string `json:"indexId"`
}

// FileResult pairs a batch entry with its outcome.
type FileResult struct {
	Filename string
	Result   *Result
	Err      error
}

// Service runs the per-document ingestion workflow: extract, analyze,
// resolve identity, persist consent and entity index together.
type Service struct {
	Extractor     *extract.Extractor
	Analyzer      *analysis.Analyzer
	Resolver      *patients.Resolver
	Consents      consents.Repo
	Mode          extract.Mode
	MinTextLength int
}

// IngestFile processes one document. Extraction and persistence failures
// are fatal to this document only; analysis degradation is not an error.
func (s *Service) IngestFile(ctx context.Context, path string) (Result, error) {
	metrics.IncIngestStarted()
	start := time.Now()

	mode := s.Mode
	if mode == "" {
		mode = extract.ModeAuto
	}
	text, err := s.Extractor.Extract(ctx, path, mode)
	if err != nil {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: %w", path, err)
	}

	minLen := s.MinTextLength
	if minLen <= 0 {
		minLen = DefaultMinTextLength
	}
	if len(strings.TrimSpace(text)) < minLen {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: %w", path, ErrInsufficientText)
	}

	record := s.Analyzer.Analyze(ctx, text)

	patient, created, password, err := s.Resolver.ResolveOrCreate(ctx, record)
	if err != nil {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: resolve patient: %w", path, err)
	}

	analysisJSON, err := json.Marshal(record)
	if err != nil {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: marshal analysis: %w", path, err)
	}

	consent := consents.Consent{
		ID:           uuid.NewString(),
		PatientID:    patient.ID,
		Filename:     filepath.Base(path),
		FullText:     text,
		AnalysisJSON: string(analysisJSON),
		ProcessedAt:  time.Now().UTC(),
	}

	index, err := consents.BuildIndex(consent.ID, patient.ID, record)
	if err != nil {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: build index: %w", path, err)
	}
	if index.PatientID != consent.PatientID {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: %w", path, consents.ErrPatientMismatch)
	}

	if err := s.Consents.CreateWithIndex(ctx, consent, index); err != nil {
		metrics.IncIngestFailed()
		return Result{}, fmt.Errorf("ingest %s: persist consent: %w", path, err)
	}

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("ingest.completed", map[string]any{
		"filename":        consent.Filename,
		"patient_email":   patient.Email,
		"created_account": created,
		"consent_id":      consent.ID,
		"text_chars":      len(text),
	})

	return Result{
		PatientEmail:   patient.Email,
		CreatedAccount: created,
		Password:       password,
		ConsentID:      consent.ID,
		IndexID:        index.ID,
	}, nil
}

// IngestDir processes every PDF in the directory. One document's failure is
// recorded and does not stop the rest of the batch.
func (s *Service) IngestDir(ctx context.Context, dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var results []FileResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		result, err := s.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			telemetry.Error("ingest.file_failed", map[string]any{
				"filename": entry.Name(),
				"err":      err.Error(),
			})
			results = append(results, FileResult{Filename: entry.Name(), Err: err})
			continue
		}
		results = append(results, FileResult{Filename: entry.Name(), Result: &result})
	}

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	telemetry.Info("ingest.batch_complete", map[string]any{
		"dir":       dir,
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
	return results, nil
}
