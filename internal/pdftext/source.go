// =============================================================================
// Receipt Field Extractor - Page Text Source
// =============================================================================
//
// This module produces the raw text of the first page of a document. It is
// the only place that knows about file formats:
//   - .pdf : first page read with github.com/ledongthuc/pdf; lines are
//            rebuilt from glyph positions (layoutText)
//   - .txt : an already-extracted page dump, read verbatim
//
// TEXT NORMALISATION:
//   PDF fonts frequently emit accented letters as a base letter followed by
//   a combining mark. With normalisation enabled the text is converted to
//   NFC so that "CRÉDITO" in the page matches the marker "CRÉDITO".
//
// ERRORS:
//   Every failure (missing file, broken PDF, empty document) is returned as
//   a document-level error. Parser panics are recovered and reported the
//   same way.
//
// =============================================================================

package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrNoPages is returned for PDFs without any page.
var ErrNoPages = errors.New("document has no pages")

// ErrUnsupported is returned for file types the source cannot read.
var ErrUnsupported = errors.New("unsupported document type")

// Source reads page text from files on disk.
type Source struct {
	// Normalize enables NFC normalisation of the extracted text.
	Normalize bool
}

// NewSource creates a Source.
func NewSource(normalize bool) *Source {
	return &Source{Normalize: normalize}
}

// PageText returns the text of the first page of the document at path.
//
// PARAMETERS:
//   - ctx:  Checked before the file is opened.
//   - path: The path to a .pdf or .txt file.
//
// RETURNS:
//   - The page text, lines separated by "\n".
//   - An error if the document cannot be read.
func (s *Source) PageText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = firstPDFPage(path)
	case ".txt":
		text, err = readDump(path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	if s.Normalize {
		text = norm.NFC.String(text)
	}

	return text, nil
}

// firstPDFPage extracts the text of page one, one visual line per line.
func firstPDFPage(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", ErrNoPages
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return "", ErrNoPages
	}

	return layoutText(page.Content().Text), nil
}

// readDump reads a plain-text page dump. Windows line endings are reduced
// to "\n".
func readDump(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text dump: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
