package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/ginjaninja78/receipt-field-extractor/internal/xlsxwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	cfg := config.Default()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.FilePatterns = []string{"*.txt"}
	cfg.LogLevel = "error"
	cfg.WriteErrorLog = true
	return cfg
}

func writeDump(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
}

func TestRunProcessExportsTable(t *testing.T) {
	cfg := testConfig(t)
	writeDump(t, cfg.InputDir, "a.txt", "VALOR DEL PAGO 1 2 3\nCODIGO ESTABLECIMIENTO: 000987 X\nNOTA DE CRÉDITO: 42\n")
	writeDump(t, cfg.InputDir, "b.txt", "NOTA DE CRÉDITO: 43\n")
	writeDump(t, cfg.InputDir, "ignored.pdf", "not selected")

	require.NoError(t, runProcess(context.Background(), cfg, nil))

	exports, err := filepath.Glob(filepath.Join(cfg.OutputDir, "valores_separados_*.xlsx"))
	require.NoError(t, err)
	require.Len(t, exports, 1)

	header, rows, err := xlsxwriter.ReadTable(exports[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"Archivo", "Codigo_Establecimiento", "Nota_Credito"}, header)
	assert.Equal(t, [][]string{
		{"a.txt", "000987", "42"},
		{"b.txt", "", "43"},
	}, rows)
}

func TestRunProcessNothingSelected(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, runProcess(context.Background(), cfg, nil))

	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRunProcessNoUsableData(t *testing.T) {
	cfg := testConfig(t)
	missing := filepath.Join(cfg.InputDir, "missing.txt")

	require.NoError(t, runProcess(context.Background(), cfg, []string{missing}))

	exports, err := filepath.Glob(filepath.Join(cfg.OutputDir, "*.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, exports)

	reports, err := filepath.Glob(filepath.Join(cfg.OutputDir, "error_log_*.txt"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestSelectDocumentsFiltersArguments(t *testing.T) {
	cfg := testConfig(t)

	paths, err := selectDocuments(cfg, []string{"b.txt", "scan.png", "a.TXT"})

	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "a.TXT"}, paths)
}

func TestExportTableRefusesToOverwrite(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = "fixed.xlsx"
	tbl := table.Normalize([]types.Record{{ID: "a.txt"}})

	path, err := exportTable(cfg, tbl, time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "fixed.xlsx"), path)

	_, err = exportTable(cfg, tbl, time.Now())
	assert.ErrorContains(t, err, "already exists")
}
