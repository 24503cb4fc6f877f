// =============================================================================
// Receipt Field Extractor - Document Validation
// =============================================================================
//
// This module checks selected documents before extraction:
//   - PDFs are validated with pdfcpu (structure, cross-reference table)
//   - Multi-page PDFs produce a warning: only the first page is read
//   - Text dumps must be readable; an empty dump produces a warning
//
// ERROR HANDLING:
//   - Issues are collected, not returned immediately
//   - Each issue names the document, the severity and the reason
//   - "error" issues mean the document will fail extraction
//   - "warning" issues mean extraction will run but may miss data
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

const (
	// SeverityError marks a document that cannot be extracted.
	SeverityError = "error"

	// SeverityWarning marks a document that can be extracted with caveats.
	SeverityWarning = "warning"
)

// ValidationError represents a single problem found in a document.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Document is the base name of the document.
	Document string

	// Path is the path of the document.
	Path string

	// Message is a human-readable description of the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Document, e.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all issues (including warnings), in document order.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// DocumentsValidated is the number of documents checked.
	DocumentsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// PDFChecker inspects a PDF file.
type PDFChecker interface {
	Validate(path string) error
	PageCount(path string) (int, error)
}

// Validator validates documents.
type Validator struct {
	pdf     PDFChecker
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// StopOnFirstError stops validation after the first fatal error.
	// Default: false
	StopOnFirstError bool

	// TreatWarningsAsErrors makes warnings invalidate the result.
	// Default: false
	TreatWarningsAsErrors bool
}

// NewValidator creates a Validator backed by pdfcpu.
func NewValidator(options ValidationOptions) *Validator {
	return NewValidatorWithChecker(NewPDFCPUChecker(), options)
}

// NewValidatorWithChecker creates a Validator with a custom PDF checker.
func NewValidatorWithChecker(checker PDFChecker, options ValidationOptions) *Validator {
	return &Validator{
		pdf:     checker,
		options: options,
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateAll validates every document and returns a detailed result.
func (v *Validator) ValidateAll(paths []string) *ValidationResult {
	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]*ValidationError, 0),
	}

	for _, path := range paths {
		result.DocumentsValidated++

		for _, issue := range v.ValidateDocument(path) {
			result.Errors = append(result.Errors, issue)

			if issue.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false

				if v.options.StopOnFirstError {
					return result
				}
				continue
			}

			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		}
	}

	return result
}

// ValidateDocument validates a single document.
func (v *Validator) ValidateDocument(path string) []*ValidationError {
	issue := func(severity, format string, args ...any) *ValidationError {
		return &ValidationError{
			Severity: severity,
			Document: filepath.Base(path),
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		if err := v.pdf.Validate(path); err != nil {
			return []*ValidationError{issue(SeverityError, "invalid PDF: %v", err)}
		}
		pages, err := v.pdf.PageCount(path)
		if err != nil {
			return []*ValidationError{issue(SeverityError, "failed to count pages: %v", err)}
		}
		if pages == 0 {
			return []*ValidationError{issue(SeverityError, "document has no pages")}
		}
		if pages > 1 {
			return []*ValidationError{issue(SeverityWarning, "document has %d pages; only the first page is extracted", pages)}
		}

	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return []*ValidationError{issue(SeverityError, "unreadable text dump: %v", err)}
		}
		if strings.TrimSpace(string(data)) == "" {
			return []*ValidationError{issue(SeverityWarning, "text dump is empty")}
		}

	default:
		return []*ValidationError{issue(SeverityError, "unsupported document type %q", filepath.Ext(path))}
	}

	return nil
}

// =============================================================================
// PDFCPU CHECKER
// =============================================================================

// pdfcpuChecker validates PDFs with pdfcpu in relaxed mode.
type pdfcpuChecker struct {
	conf *model.Configuration
}

// NewPDFCPUChecker returns a PDFChecker backed by pdfcpu. pdfcpu's on-disk
// configuration directory is not used.
func NewPDFCPUChecker() PDFChecker {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuChecker{conf: conf}
}

func (c *pdfcpuChecker) Validate(path string) error {
	return api.ValidateFile(path, c.conf)
}

func (c *pdfcpuChecker) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation issues for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
