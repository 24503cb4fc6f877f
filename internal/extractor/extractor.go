// =============================================================================
// Receipt Field Extractor - Batch Extractor
// =============================================================================
//
// This module runs the extraction pipeline over a list of documents:
//   1. Obtain the first-page text from the TextSource
//   2. Split it into lines (types.NewDocument)
//   3. Build the record (extraction.BuildRecord)
//   4. Collect successes and failures into a types.Batch
//
// FAILURE ISOLATION:
//   A document whose text cannot be read is logged and recorded as a
//   failure; the remaining documents are still processed. Documents are
//   handled strictly in input order and the batch preserves that order.
//
// =============================================================================

package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/extraction"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/google/uuid"
)

var (
	// ErrNoDocuments is returned when no documents were supplied.
	ErrNoDocuments = errors.New("no documents selected")

	// ErrNoRecords is returned when documents were supplied but none of them
	// yielded a record.
	ErrNoRecords = errors.New("no usable records in the selected documents")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single document.
type Result struct {
	// Path is the path of the document that was processed.
	Path string

	// Record is the extracted record. Only meaningful when Err is nil.
	Record types.Record

	// Err is the reason the document was skipped.
	Err error

	// Duration is the time taken to process the document.
	Duration time.Duration
}

// Success reports whether the document yielded a record.
func (r Result) Success() bool {
	return r.Err == nil
}

// =============================================================================
// EXTRACTOR STRUCTURE
// =============================================================================

// TextSource returns the raw first-page text of a document.
type TextSource interface {
	PageText(ctx context.Context, path string) (string, error)
}

// Extractor builds records from documents.
type Extractor struct {
	source  TextSource
	markers config.Markers
	logger  Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress and failure reporting.
func WithLogger(l Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New creates an Extractor.
//
// PARAMETERS:
//   - source:  Where page text comes from.
//   - markers: The marker labels to search for.
//   - opts:    Optional settings (WithLogger).
func New(source TextSource, markers config.Markers, opts ...Option) *Extractor {
	e := &Extractor{
		source:  source,
		markers: markers,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// PROCESSING
// =============================================================================

// Process extracts the record of a single document.
func (e *Extractor) Process(ctx context.Context, path string) Result {
	start := time.Now()
	result := Result{Path: path}

	text, err := e.source.PageText(ctx, path)
	if err != nil {
		result.Err = fmt.Errorf("failed to read document text: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	doc := types.NewDocument(DocumentID(path), text)
	result.Record = extraction.BuildRecord(doc, e.markers)
	result.Duration = time.Since(start)

	return result
}

// Run processes documents in order and returns the batch.
//
// PARAMETERS:
//   - ctx:   Checked between documents; cancellation stops the run.
//   - paths: The documents to process, in the order they were selected.
//
// RETURNS:
//   - The batch. It is returned together with ErrNoRecords so the caller can
//     still report the failures.
//   - ErrNoDocuments when paths is empty, ErrNoRecords when nothing was
//     extracted, or the context error when the run was cancelled.
func (e *Extractor) Run(ctx context.Context, paths []string) (*types.Batch, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	runID := uuid.NewString()
	batch := &types.Batch{}

	e.logger.Info("extraction started", "run", runID, "documents", len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		e.logger.Debug("processing document", "run", runID, "document", DocumentID(path))

		result := e.Process(ctx, path)
		if !result.Success() {
			failure := types.Failure{
				Document: DocumentID(path),
				Path:     path,
				Err:      result.Err,
			}
			batch.Failures = append(batch.Failures, failure)
			e.logger.Warn("document skipped", "run", runID, "document", failure.Document, "error", result.Err)
			continue
		}

		batch.Records = append(batch.Records, result.Record)
		e.logger.Debug("document extracted",
			"run", runID,
			"document", result.Record.ID,
			"fields", len(result.Record.Fields),
			"tokens", len(result.Record.Tokens),
			"duration", result.Duration,
		)
	}

	e.logger.Info("extraction finished",
		"run", runID,
		"records", len(batch.Records),
		"failures", len(batch.Failures),
	)

	if batch.Empty() {
		return batch, ErrNoRecords
	}

	return batch, nil
}

// DocumentID derives the document identifier from its path.
func DocumentID(path string) string {
	return filepath.Base(path)
}
