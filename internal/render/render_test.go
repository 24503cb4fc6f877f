package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	tbl := table.Normalize([]types.Record{
		{ID: "a.pdf", Fields: []types.Field{{Kind: types.KindCreditNote, Name: types.FieldCreditNote, Value: "42"}}},
		{ID: "bb.pdf"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Archivo  Codigo_Establecimiento  Nota_Credito", lines[0])
	assert.Equal(t, "-------  ----------------------  ------------", lines[1])
	assert.Equal(t, "a.pdf    -                       42", lines[2])
	assert.Equal(t, "bb.pdf   -                       -", lines[3])
}

func TestWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	WriteFailures(&buf, []types.Failure{{Document: "corrupt.pdf", Err: errors.New("bad xref")}})

	assert.Contains(t, buf.String(), "1 document(s) skipped")
	assert.Contains(t, buf.String(), "corrupt.pdf: bad xref")

	buf.Reset()
	WriteFailures(&buf, nil)
	assert.Empty(t, buf.String())
}
