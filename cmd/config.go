// =============================================================================
// Receipt Field Extractor - Config Command
// =============================================================================
//
// COMMAND USAGE:
//   extractor config
//
// Prints the effective configuration as YAML: file values with defaults,
// flags and environment overrides applied. The output can be saved as a
// starting config.yaml.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/receipt-field-extractor/internal/config"
	"github.com/spf13/cobra"
)

// configCmd represents the 'config' command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printConfig(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// printConfig writes cfg to w as YAML.
func printConfig(w io.Writer, cfg *config.MainConfig) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to print config: %w", err)
	}
	return nil
}
