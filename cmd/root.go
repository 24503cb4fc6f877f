// =============================================================================
// Receipt Field Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (extractor)
//   ├── processCmd  (extractor process [files...])
//   ├── validateCmd (extractor validate [files...])
//   ├── serveCmd    (extractor serve)
//   ├── configCmd   (extractor config)
//   └── versionCmd  (extractor version)
//
// CONFIGURATION:
//   1. The YAML file named by --config is loaded (config.LoadMainConfig).
//      The default file may be missing; an explicit one may not.
//   2. Flags and RECEIPT_EXTRACTOR_* environment variables are bound with
//      viper and applied on top (config.ApplyOverrides).
//   3. The result is validated and the logger is built from log_level
//      (or debug when --verbose is set).
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/ginjaninja78/receipt-field-extractor/internal/extractor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile is used when --config is not given.
const defaultConfigFile = "config.yaml"

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// v holds flag and environment overrides.
var v = viper.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Receipt Field Extractor - Pull labelled fields out of payment receipts",
	Long: `Receipt Field Extractor reads the first page of payment-receipt PDFs,
locates lines by their marker labels, and consolidates the extracted fields
of a batch into one table that can be printed or exported to Excel.

Key Features:
  - Configurable marker labels and extra marker-relative fields
  - Per-document failure isolation with an optional failure report
  - Stable column schema across documents with different layouts
  - HTTP surface for uploads (extractor serve)

Example Usage:
  extractor process                     # Process every PDF in the input directory
  extractor process a.pdf b.pdf         # Process the given documents, in order
  extractor process --config ./my.yaml  # Use a custom configuration file
  extractor validate                    # Check documents without extracting
  extractor config                      # Print the effective configuration`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", defaultConfigFile, "Path to the main configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	flags.String("input-dir", "", "Directory scanned for documents (overrides input_dir)")
	flags.String("output-dir", "", "Directory for exports and failure reports (overrides output_dir)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides log_level)")

	for _, name := range []string{"input-dir", "output-dir", "log-level"} {
		cobra.CheckErr(v.BindPFlag(name, flags.Lookup(name)))
	}

	v.SetEnvPrefix("RECEIPT_EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// =============================================================================
// RUNTIME SETUP
// =============================================================================

// loadConfig loads the configuration file, applies flag and environment
// overrides and validates the result.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	path := cfgFile
	optional := !cmd.Flags().Changed("config")
	if env := v.GetString("config"); env != "" && optional {
		path = env
		optional = false
	}

	cfg, err := config.LoadMainConfig(path, optional)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		InputDir:     v.GetString("input-dir"),
		OutputDir:    v.GetString("output-dir"),
		OutputFormat: v.GetString("output-format"),
		LogLevel:     v.GetString("log-level"),
		ServerAddr:   v.GetString("addr"),
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newLogger builds the stderr logger for cfg.
func newLogger(cfg *config.MainConfig) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return extractor.NewLogger(os.Stderr, level)
}
