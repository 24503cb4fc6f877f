// =============================================================================
// Receipt Field Extractor - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   extractor validate [files...] [--strict] [--fail-fast]
//
// Validates the configuration and checks the selected documents without
// extracting anything. PDFs are checked with pdfcpu; multi-page PDFs are
// reported because only their first page is read.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/receipt-field-extractor/internal/validation"
	"github.com/spf13/cobra"
)

// strict makes warnings fail the validate command.
var strict bool

// failFast stops at the first document that cannot be extracted.
var failFast bool

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check the configuration and the selected documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fmt.Println("Configuration OK.")

		paths, err := selectDocuments(cfg, args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No documents selected. Nothing to do.")
			return nil
		}

		validator := validation.NewValidator(validationOptions())
		result := validator.ValidateAll(paths)

		fmt.Printf("Checked %d document(s).\n", result.DocumentsValidated)
		fmt.Print(validation.FormatErrors(result.Errors))

		if !result.IsValid {
			return fmt.Errorf("validation failed: %d error(s), %d warning(s)", result.ErrorCount, result.WarningCount)
		}
		return nil
	},
}

// validationOptions maps the command flags onto validator options.
func validationOptions() validation.ValidationOptions {
	return validation.ValidationOptions{
		StopOnFirstError:      failFast,
		TreatWarningsAsErrors: strict,
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	validateCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first invalid document")
}
