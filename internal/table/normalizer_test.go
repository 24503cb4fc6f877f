package table

import (
	"testing"

	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "t"
	}
	return out
}

func TestNormalizeDropsAllPositionalColumns(t *testing.T) {
	records := []types.Record{
		{ID: "a.pdf", Tokens: tokens(3)},
		{ID: "b.pdf", Tokens: tokens(5)},
	}

	tbl := Normalize(records)

	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito"}, tbl.Columns)
	assert.Equal(t, [][]string{{"a.pdf", "", ""}, {"b.pdf", "", ""}}, tbl.Rows)
	for _, r := range tbl.Records() {
		assert.Empty(t, r.Tokens)
	}
	// Input records are left untouched.
	assert.Len(t, records[1].Tokens, 5)
}

func TestNormalizeManyTokens(t *testing.T) {
	tbl := Normalize([]types.Record{{ID: "wide.pdf", Tokens: tokens(12)}})

	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito"}, tbl.Columns)
}

func TestNormalizePinnedOrder(t *testing.T) {
	records := []types.Record{
		{
			ID:     "a.pdf",
			Tokens: tokens(2),
			Fields: []types.Field{
				{Kind: types.KindCreditNote, Name: types.FieldCreditNote, Value: "NC1"},
				{Kind: types.KindEstablishmentCode, Name: types.FieldEstablishmentCode, Value: "001"},
			},
		},
	}

	tbl := Normalize(records)

	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito"}, tbl.Columns)
	assert.Equal(t, [][]string{{"a.pdf", "001", "NC1"}}, tbl.Rows)
}

func TestNormalizeFillsMissingAndKeepsExtrasInFirstSeenOrder(t *testing.T) {
	records := []types.Record{
		{
			ID: "a.pdf",
			Fields: []types.Field{
				{Kind: types.KindExtra, Name: "Fecha", Value: "2024-01-01"},
			},
		},
		{
			ID: "b.pdf",
			Fields: []types.Field{
				{Kind: types.KindEstablishmentCode, Name: types.FieldEstablishmentCode, Value: "002"},
				{Kind: types.KindExtra, Name: "Referencia", Value: "R9"},
				{Kind: types.KindExtra, Name: "Fecha", Value: "2024-02-02"},
			},
		},
	}

	tbl := Normalize(records)

	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito", "Fecha", "Referencia"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"a.pdf", "", "", "2024-01-01", ""},
		{"b.pdf", "002", "", "2024-02-02", "R9"},
	}, tbl.Rows)
}

func TestNormalizeKeepsPinnedColumnMissingEverywhere(t *testing.T) {
	records := []types.Record{
		{
			ID:     "a.pdf",
			Tokens: tokens(3),
			Fields: []types.Field{
				{Kind: types.KindCreditNote, Name: types.FieldCreditNote, Value: "NC1"},
			},
		},
		{ID: "b.pdf"},
	}

	tbl := Normalize(records)

	require.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"a.pdf", "", "NC1"},
		{"b.pdf", "", ""},
	}, tbl.Rows)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	records := []types.Record{
		{
			ID:     "a.pdf",
			Tokens: tokens(4),
			Fields: []types.Field{
				{Kind: types.KindEstablishmentCode, Name: types.FieldEstablishmentCode, Value: "001"},
			},
		},
		{
			ID: "b.pdf",
			Fields: []types.Field{
				{Kind: types.KindCreditNote, Name: types.FieldCreditNote, Value: "NC2"},
			},
		},
	}

	first := Normalize(records)
	second := Normalize(first.Records())

	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestSchemaIsStable(t *testing.T) {
	records := []types.Record{
		{ID: "a.pdf", Fields: []types.Field{{Kind: types.KindExtra, Name: "X", Value: "1"}}},
		{ID: "b.pdf", Fields: []types.Field{{Kind: types.KindExtra, Name: "Y", Value: "2"}}},
	}

	require.Equal(t, Schema(records), Schema(records))
	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito", "X", "Y"}, Schema(records))
}

func TestNormalizeEmpty(t *testing.T) {
	tbl := Normalize(nil)

	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.Columns)
}
