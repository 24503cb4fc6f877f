// =============================================================================
// Receipt Field Extractor - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// orchestrates the whole extraction pipeline.
//
// COMMAND USAGE:
//   extractor process [files...] [flags]
//
// FLAGS:
//   --dry-run        : Print the table without writing the spreadsheet
//   --output-format  : Export file name format (overrides output_format)
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Select documents (arguments, or the input directory filtered by
//      file_patterns)
//   3. Extract one record per document, in order, skipping unreadable ones
//   4. Normalize the batch into a table (positional tokens dropped)
//   5. Print the table and the skipped documents
//   6. Export the table to .xlsx
//   7. Write the failure report if enabled
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/extractor"
	"github.com/ginjaninja78/receipt-field-extractor/internal/pdftext"
	"github.com/ginjaninja78/receipt-field-extractor/internal/render"
	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"github.com/ginjaninja78/receipt-field-extractor/internal/xlsxwriter"
	"github.com/ginjaninja78/receipt-field-extractor/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun prints the table without writing the spreadsheet.
var dryRun bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Extract receipt fields and export them to Excel",
	Long: `The process command reads the first page of each selected document, extracts
the configured fields, prints the consolidated table and exports it to an
Excel workbook in the output directory.

Documents given as arguments are processed in the order given. Without
arguments, the input directory is scanned for files matching file_patterns.

A document that cannot be read is skipped and reported; the others are still
processed. Nothing is exported when no document yields data.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runProcess(ctx, cfg, args)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Print the table without writing the spreadsheet",
	)

	processCmd.Flags().String(
		"output-format",
		"",
		"Export file name format; placeholders {timestamp} {date} {time} {uuid}",
	)
	cobra.CheckErr(v.BindPFlag("output-format", processCmd.Flags().Lookup("output-format")))
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess runs the pipeline for the selected documents.
func runProcess(ctx context.Context, cfg *config.MainConfig, args []string) error {
	startTime := time.Now()
	logger := newLogger(cfg)

	// =========================================================================
	// STEP 1: SELECT DOCUMENTS
	// =========================================================================

	paths, err := selectDocuments(cfg, args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Println("No documents selected. Nothing to do.")
		return nil
	}

	fmt.Printf("Processing %d document(s)...\n\n", len(paths))

	// =========================================================================
	// STEP 2: EXTRACT
	// =========================================================================

	source := pdftext.NewSource(cfg.ShouldNormalizeUnicode())
	ext := extractor.New(source, cfg.Markers, extractor.WithLogger(logger))

	batch, err := ext.Run(ctx, paths)
	if errors.Is(err, extractor.ErrNoRecords) {
		render.WriteFailures(os.Stdout, batch.Failures)
		fmt.Println("\nNo usable data found in the selected documents. Nothing was exported.")
		return writeFailureReport(cfg, batch.Failures, startTime)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	// =========================================================================
	// STEP 3: NORMALIZE AND DISPLAY
	// =========================================================================

	t := table.Normalize(batch.Records)

	if err := render.WriteTable(os.Stdout, t); err != nil {
		return fmt.Errorf("failed to print table: %w", err)
	}
	render.WriteFailures(os.Stdout, batch.Failures)

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	var outputPath string
	if !dryRun {
		outputPath, err = exportTable(cfg, t, startTime)
		if err != nil {
			return err
		}
	}

	if err := writeFailureReport(cfg, batch.Failures, startTime); err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total documents: %d\n", len(paths))
	fmt.Printf("Extracted:       %d\n", len(batch.Records))
	fmt.Printf("Skipped:         %d\n", len(batch.Failures))
	if outputPath != "" {
		fmt.Printf("Exported to:     %s\n", outputPath)
	}
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// selectDocuments returns the explicit arguments, or the files of the input
// directory when there are none. Both are filtered by file_patterns.
func selectDocuments(cfg *config.MainConfig, args []string) ([]string, error) {
	if len(args) > 0 {
		paths := utils.FilterByPatterns(args, cfg.FilePatterns)
		if ignored := len(args) - len(paths); ignored > 0 {
			fmt.Printf("Ignoring %d argument(s) not matching %v\n", ignored, cfg.FilePatterns)
		}
		return paths, nil
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
	paths, err := fm.DiscoverInputFiles(cfg.FilePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return paths, nil
}

// exportTable writes the table into the output directory and returns the
// path of the workbook. An existing file is never overwritten.
func exportTable(cfg *config.MainConfig, t table.Table, now time.Time) (string, error) {
	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(cfg.OutputFormat, now, nil)
	path := filepath.Join(fm.OutputDir, name)
	if utils.FileExists(path) {
		return "", fmt.Errorf("export %s already exists", path)
	}

	opts := xlsxwriter.DefaultOptions()
	opts.SheetName = cfg.SheetName
	if err := xlsxwriter.Write(path, t, opts); err != nil {
		return "", fmt.Errorf("failed to export table: %w", err)
	}

	return path, nil
}

// writeFailureReport writes the failure report when enabled and needed.
func writeFailureReport(cfg *config.MainConfig, failures []types.Failure, now time.Time) error {
	if !cfg.WriteErrorLog || len(failures) == 0 {
		return nil
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	entries := make([]utils.ErrorLogEntry, 0, len(failures))
	for _, f := range failures {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     f.Document,
			ErrorMessage: f.Err.Error(),
		})
	}

	path, err := utils.WriteErrorLog(entries, fm.OutputDir, now)
	if err != nil {
		return err
	}

	fmt.Printf("\nFailures have been logged to %s\n", path)
	return nil
}
