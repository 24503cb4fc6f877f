// =============================================================================
// Receipt Field Extractor - Shared Types
// =============================================================================
//
// This package contains the data model shared by the extraction engine, the
// table normalizer and the rendering/export collaborators:
//   - Document : one page of extracted text, split into lines
//   - Record   : the fields extracted from one document
//   - Batch    : the records (and failures) of one extraction run
//
// RECORD SHAPE:
//   A record separates the fields it knows about (identifier, establishment
//   code, credit-note number, configured extras) from the positional tokens
//   captured from the payment line. Positional tokens are transient: the
//   table normalizer drops them before anything is displayed or exported.
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// FIELD NAMES
// =============================================================================

const (
	// FieldDocument is the column holding the document identifier (file name).
	FieldDocument = "Archivo"

	// FieldEstablishmentCode is the column holding the establishment code.
	FieldEstablishmentCode = "Codigo_Establecimiento"

	// FieldCreditNote is the column holding the credit-note number.
	FieldCreditNote = "Nota_Credito"

	// PositionalPrefix prefixes the names of positional token columns
	// (token_1, token_2, ...).
	PositionalPrefix = "token_"
)

// PinnedFields are always placed first, in this order, in a column schema.
var PinnedFields = []string{FieldDocument, FieldEstablishmentCode, FieldCreditNote}

// FieldKind tags a known field of a record.
type FieldKind int

const (
	// KindEstablishmentCode marks the establishment code field.
	KindEstablishmentCode FieldKind = iota + 1

	// KindCreditNote marks the credit-note number field.
	KindCreditNote

	// KindExtra marks a configured extra marker-relative field.
	KindExtra
)

// String returns a readable name for the kind.
func (k FieldKind) String() string {
	switch k {
	case KindEstablishmentCode:
		return "establishment_code"
	case KindCreditNote:
		return "credit_note"
	case KindExtra:
		return "extra"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the extracted text of a single page.
type Document struct {
	// ID identifies the document, normally its base file name.
	ID string

	// Lines holds the page text split at newline boundaries, in order.
	Lines []string
}

// NewDocument splits raw page text into lines.
// Only "\n" separates lines; any other character stays in the line.
func NewDocument(id, text string) Document {
	return Document{
		ID:    id,
		Lines: strings.Split(text, "\n"),
	}
}

// =============================================================================
// RECORD
// =============================================================================

// Field is one named, known field of a record.
type Field struct {
	Kind  FieldKind
	Name  string
	Value string
}

// Record holds everything extracted from one document.
type Record struct {
	// ID is the document identifier. Always present.
	ID string

	// Fields holds the known fields that were found, in extraction order.
	Fields []Field

	// Tokens holds the whitespace-delimited tokens of the payment line.
	// Token i (0-based) is exposed as column token_{i+1}.
	Tokens []string
}

// PositionalName returns the column name of the i-th (0-based) token.
func PositionalName(i int) string {
	return fmt.Sprintf("%s%d", PositionalPrefix, i+1)
}

// IsPositional reports whether a column name is a positional token column.
func IsPositional(name string) bool {
	rest, ok := strings.CutPrefix(name, PositionalPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Names returns the record's field names in the order they were produced:
// the identifier, the positional tokens, then the known fields.
func (r Record) Names() []string {
	names := make([]string, 0, 1+len(r.Tokens)+len(r.Fields))
	names = append(names, FieldDocument)
	for i := range r.Tokens {
		names = append(names, PositionalName(i))
	}
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Get returns the value of a named field and whether it is present.
func (r Record) Get(name string) (string, bool) {
	if name == FieldDocument {
		return r.ID, true
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	if IsPositional(name) {
		n, err := strconv.Atoi(strings.TrimPrefix(name, PositionalPrefix))
		if err == nil && n >= 1 && n <= len(r.Tokens) {
			return r.Tokens[n-1], true
		}
	}
	return "", false
}

// Map flattens the record into a name -> value mapping.
func (r Record) Map() map[string]string {
	m := make(map[string]string, 1+len(r.Tokens)+len(r.Fields))
	for _, name := range r.Names() {
		v, _ := r.Get(name)
		m[name] = v
	}
	return m
}

// WithoutTokens returns a copy of the record with positional tokens removed.
func (r Record) WithoutTokens() Record {
	fields := make([]Field, len(r.Fields))
	copy(fields, r.Fields)
	return Record{ID: r.ID, Fields: fields}
}

// =============================================================================
// BATCH
// =============================================================================

// Failure describes a document that did not yield a record.
type Failure struct {
	// Document is the identifier of the failed document.
	Document string

	// Path is the path the document was read from.
	Path string

	// Err is the reason the document was skipped.
	Err error
}

// Error implements the error interface.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Document, f.Err)
}

// Unwrap returns the underlying reason.
func (f Failure) Unwrap() error {
	return f.Err
}

// Batch is the ordered outcome of an extraction run.
type Batch struct {
	// Records holds one record per successful document, in input order.
	Records []Record

	// Failures holds the documents that were skipped, in input order.
	Failures []Failure
}

// Empty reports whether the batch holds no records.
func (b *Batch) Empty() bool {
	return b == nil || len(b.Records) == 0
}
