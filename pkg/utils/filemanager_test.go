package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf")
	touch(t, dir, "A.PDF")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	fm := NewFileManager(dir, t.TempDir())
	files, err := fm.DiscoverInputFiles([]string{"*.pdf"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "A.PDF"), filepath.Join(dir, "b.pdf")}, files)
}

func TestDiscoverInputFilesMissingDir(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "missing"), t.TempDir())

	_, err := fm.DiscoverInputFiles(nil)
	assert.ErrorContains(t, err, "failed to scan input directory")
}

func TestFilterByPatternsKeepsOrder(t *testing.T) {
	paths := []string{"z/good.pdf", "a/skip.docx", "m/dump.txt", "a/good2.pdf"}

	assert.Equal(t, []string{"z/good.pdf", "a/good2.pdf"}, FilterByPatterns(paths, nil))
	assert.Equal(t, []string{"z/good.pdf", "m/dump.txt", "a/good2.pdf"}, FilterByPatterns(paths, []string{"*.pdf", "*.txt"}))
	assert.Empty(t, FilterByPatterns(paths, []string{"[bad"}))
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	tests := []struct {
		name   string
		format string
		params map[string]string
		want   string
	}{
		{
			name:   "default format",
			format: "valores_separados_{timestamp}.xlsx",
			want:   "valores_separados_20240115_143022.xlsx",
		},
		{
			name:   "extension appended",
			format: "export_{date}_{time}",
			want:   "export_20240115_143022.xlsx",
		},
		{
			name:   "param values are not expanded",
			format: "{run}_{date}.xlsx",
			params: map[string]string{"run": "{timestamp}", "zone": "{run}"},
			want:   "{timestamp}_20240115.xlsx",
		},
		{
			name:   "custom params",
			format: "{run}_{date}.xlsx",
			params: map[string]string{"run": "lote7"},
			want:   "lote7_20240115.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, now, tt.params))
		})
	}
}

func TestGenerateOutputFileNameUUID(t *testing.T) {
	name := GenerateOutputFileName("export_{uuid}.xlsx", time.Now(), nil)

	assert.Regexp(t, regexp.MustCompile(`^export_[0-9a-f-]{36}\.xlsx$`), name)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	path, err := WriteErrorLog([]ErrorLogEntry{
		{Timestamp: now, FileName: "corrupt.pdf", ErrorMessage: "failed to open PDF file"},
	}, dir, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "error_log_20240115_143022.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 1")
	assert.Contains(t, string(data), "corrupt.pdf")
	assert.True(t, FileExists(path))
}

func TestWriteErrorLogNothingToWrite(t *testing.T) {
	path, err := WriteErrorLog(nil, t.TempDir(), time.Now())

	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestEnsureDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out")
	fm := NewFileManager(t.TempDir(), out)

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, out)
	assert.True(t, FileExists(out))
	assert.False(t, FileExists(filepath.Join(out, "missing.xlsx")))
}
