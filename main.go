// =============================================================================
// Receipt Field Extractor - Main Entry Point
// =============================================================================
//
// USAGE:
//   extractor process [files...]  - Extract fields and export them to Excel
//   extractor validate [files...] - Check configuration and documents
//   extractor serve               - Serve extraction over HTTP
//   extractor version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Extraction engine, normalizer, exporters, server
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/receipt-field-extractor/cmd"
)

func main() {
	cmd.Execute()
}
