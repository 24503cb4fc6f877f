package pdftext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPageTextReadsDump(t *testing.T) {
	path := writeFile(t, "page.txt", []byte("VALOR DEL PAGO 10\r\nNOTA DE CRÉDITO: 5\r\n"))

	text, err := NewSource(false).PageText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "VALOR DEL PAGO 10\nNOTA DE CRÉDITO: 5\n", text)
}

func TestPageTextNormalizesDecomposedAccents(t *testing.T) {
	// "E" followed by U+0301 COMBINING ACUTE ACCENT.
	path := writeFile(t, "page.txt", []byte("NOTA DE CRE\u0301DITO: 5"))

	text, err := NewSource(true).PageText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "NOTA DE CR\u00c9DITO: 5", text)

	raw, err := NewSource(false).PageText(context.Background(), path)
	require.NoError(t, err)
	assert.NotEqual(t, text, raw)
}

func TestPageTextCorruptPDF(t *testing.T) {
	path := writeFile(t, "corrupt.pdf", []byte("this is not a pdf"))

	_, err := NewSource(true).PageText(context.Background(), path)
	assert.Error(t, err)
}

func TestPageTextMissingFile(t *testing.T) {
	_, err := NewSource(true).PageText(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	assert.Error(t, err)
}

func TestPageTextUnsupported(t *testing.T) {
	path := writeFile(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})

	_, err := NewSource(true).PageText(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPageTextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(true).PageText(ctx, "whatever.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

// onePagePDF builds a single-page PDF whose content stream is stream, using
// the standard Helvetica font.
func onePagePDF(stream string) []byte {
	var b strings.Builder
	offsets := make([]int, 6)

	b.WriteString("%PDF-1.4\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	fmt.Fprintf(&b, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream)

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Root 1 0 R /Size 6 >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return []byte(b.String())
}

func TestPageTextSplitsPDFLinesOnTextMoves(t *testing.T) {
	stream := "BT /F1 12 Tf 72 720 Td (CODIGO ESTABLECIMIENTO: 000987) Tj " +
		"0 -20 Td (VALOR DEL PAGO 10 USD) Tj ET"
	path := writeFile(t, "receipt.pdf", onePagePDF(stream))

	text, err := NewSource(true).PageText(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CODIGO ESTABLECIMIENTO: 000987",
		"VALOR DEL PAGO 10 USD",
	}, strings.Split(text, "\n"))
}

func TestPageTextOrdersPDFLinesTopToBottom(t *testing.T) {
	stream := "BT /F1 12 Tf 72 700 Td (NOTA DE CREDITO: 42) Tj ET\n" +
		"BT /F1 12 Tf 300 720 Td (000987) Tj ET\n" +
		"BT /F1 12 Tf 72 720 Td (CODIGO ESTABLECIMIENTO:) Tj ET"
	path := writeFile(t, "receipt.pdf", onePagePDF(stream))

	text, err := NewSource(false).PageText(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "CODIGO ESTABLECIMIENTO: 000987\nNOTA DE CREDITO: 42", text)
}

func TestLayoutTextJoinsRuns(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 50, Y: 100, W: 5, S: "B"},
		{FontSize: 10, X: 10, Y: 100.4, W: 5, S: "A"},
		{FontSize: 10, X: 15, Y: 100, W: 5, S: "a"},
		{FontSize: 10, X: 10, Y: 80, W: 5, S: "C"},
		{FontSize: 10, X: 20, Y: 80, W: 0, S: ""},
	}

	assert.Equal(t, "Aa B\nC", layoutText(texts))
	assert.Empty(t, layoutText(nil))
}
