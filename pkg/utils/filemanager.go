// =============================================================================
// Receipt Field Extractor - File Manager Utility
// =============================================================================
//
// This module provides the file-level plumbing around the extractor:
//   - Document selection (directory discovery, pattern filtering)
//   - Export file naming
//   - Failure report generation
//   - Directory management
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the extractor.
type FileManager struct {
	// InputDir is the directory scanned for documents.
	InputDir string

	// OutputDir is the directory where exports and reports are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// DOCUMENT SELECTION
// =============================================================================

// DiscoverInputFiles scans the input directory for files matching any of the
// patterns.
//
// PARAMETERS:
//   - patterns: Glob patterns matched against base names (e.g., "*.pdf").
//     If empty, defaults to "*.pdf".
//
// RETURNS:
//   - The matching file paths, sorted by name so runs are reproducible.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(patterns []string) ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(fm.InputDir, entry.Name()))
	}

	paths = FilterByPatterns(paths, patterns)
	slices.Sort(paths)

	return paths, nil
}

// FilterByPatterns keeps the paths whose base name matches one of the
// patterns, preserving the input order. Matching ignores case so that
// "RECIBO.PDF" is selected by "*.pdf".
func FilterByPatterns(paths []string, patterns []string) []string {
	if len(patterns) == 0 {
		patterns = []string{"*.pdf"}
	}

	var result []string
	for _, path := range paths {
		name := strings.ToLower(filepath.Base(path))
		for _, pattern := range patterns {
			// Invalid patterns never match.
			if matched, err := filepath.Match(strings.ToLower(pattern), name); err == nil && matched {
				result = append(result, path)
				break
			}
		}
	}

	return result
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates the export file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Date (YYYYMMDD)
//     {time}      - Time (HHMMSS)
//     {uuid}      - A random UUID
//   - now:    The time used for the time-based placeholders.
//   - params: Additional placeholder values, keyed without braces. Values
//     are inserted verbatim; placeholders inside them are not expanded.
//
// RETURNS:
//   - The generated file name, always ending in ".xlsx".
//
// EXAMPLE:
//
//	format: "valores_separados_{timestamp}.xlsx"
//	output: "valores_separados_20240115_143022.xlsx"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	// Custom params come first so they take precedence over the built-in
	// placeholders of the same name.
	keys := slices.Sorted(maps.Keys(params))
	oldnew := make([]string, 0, 2*len(keys)+8)
	for _, key := range keys {
		oldnew = append(oldnew, "{"+key+"}", params[key])
	}

	oldnew = append(oldnew,
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	)

	// {uuid} is only generated when the format asks for it.
	if strings.Contains(format, "{uuid}") {
		oldnew = append(oldnew, "{uuid}", uuid.NewString())
	}

	// A single pass: substituted values are never expanded again.
	result := strings.NewReplacer(oldnew...).Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// =============================================================================
// FAILURE REPORT
// =============================================================================

// ErrorLogEntry represents a document that could not be processed.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorMessage string
}

// WriteErrorLog writes error entries to a report file in outputDir.
//
// PARAMETERS:
//   - entries:   The error entries to write.
//   - outputDir: The directory to write the report to.
//   - now:       The time used in the report name and header.
//
// RETURNS:
//   - The path to the report, or "" when there was nothing to write.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logFileName := fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405"))
	logPath := filepath.Join(outputDir, logFileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Receipt Field Extractor - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n"+
			"  Message:        %s\n\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorMessage)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
