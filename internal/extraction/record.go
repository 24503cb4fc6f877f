// =============================================================================
// Receipt Field Extractor - Record Builder
// =============================================================================
//
// BuildRecord turns one document into one record:
//   1. payment marker            -> positional tokens
//   2. establishment-code marker -> Codigo_Establecimiento
//   3. credit-note marker        -> Nota_Credito
//   4. configured extra markers  -> one column each, in configuration order
//
// Each marker is searched independently from the top of the page. Missing
// markers simply leave the corresponding field out of the record; an empty
// marker is never searched for.
//
// =============================================================================

package extraction

import (
	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
)

// relativeField pairs a marker with the field it produces.
type relativeField struct {
	kind   types.FieldKind
	name   string
	marker string
}

// BuildRecord extracts the configured fields from a document. It never fails:
// absent markers only omit optional fields.
func BuildRecord(doc types.Document, markers config.Markers) types.Record {
	record := types.Record{ID: doc.ID}

	if markers.Payment != "" {
		if line, ok := FindLine(doc.Lines, markers.Payment); ok {
			record.Tokens = PositionalTokens(line)
		}
	}

	for _, rf := range relativeFields(markers) {
		if rf.marker == "" {
			continue
		}
		line, ok := FindLine(doc.Lines, rf.marker)
		if !ok {
			continue
		}
		value, ok := MarkerValue(line, rf.marker)
		if !ok {
			continue
		}
		record.Fields = append(record.Fields, types.Field{
			Kind:  rf.kind,
			Name:  rf.name,
			Value: value,
		})
	}

	return record
}

// relativeFields lists the marker-relative fields in extraction order.
func relativeFields(markers config.Markers) []relativeField {
	fields := []relativeField{
		{kind: types.KindEstablishmentCode, name: types.FieldEstablishmentCode, marker: markers.EstablishmentCode},
		{kind: types.KindCreditNote, name: types.FieldCreditNote, marker: markers.CreditNote},
	}
	for _, extra := range markers.Extra {
		fields = append(fields, relativeField{kind: types.KindExtra, name: extra.Name, marker: extra.Marker})
	}
	return fields
}
