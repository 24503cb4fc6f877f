// =============================================================================
// Receipt Field Extractor - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file. The
// configuration controls:
//   - where documents are discovered and where exports are written
//   - the marker labels used to locate fields in the page text
//   - optional extra marker-relative fields
//   - export naming, logging and the HTTP listen address
//
// LOADING ORDER:
//   1. Defaults (applyMainConfigDefaults)
//   2. YAML file values (LoadMainConfig)
//   3. Flag / environment overrides (ApplyOverrides, wired through viper
//      in the cmd package)
//   4. Validation (Validate)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultPaymentMarker locates the payment-value line.
	DefaultPaymentMarker = "VALOR DEL PAGO"

	// DefaultEstablishmentMarker precedes the establishment code.
	DefaultEstablishmentMarker = "CODIGO ESTABLECIMIENTO:"

	// DefaultCreditNoteMarker precedes the credit-note number.
	DefaultCreditNoteMarker = "NOTA DE CRÉDITO:"

	// DefaultOutputFormat names exported spreadsheets.
	DefaultOutputFormat = "valores_separados_{timestamp}.xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for documents when no files are given explicitly.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives exported spreadsheets and failure reports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// FilePatterns restricts document selection (glob patterns on the base
	// name). Default: ["*.pdf"]
	FilePatterns []string `yaml:"file_patterns"`

	// =========================================================================
	// EXTRACTION SETTINGS
	// =========================================================================

	// Markers holds the labels of the three target fields.
	Markers Markers `yaml:"markers"`

	// NormalizeUnicode NFC-normalises extracted page text so that accents
	// decomposed by PDF fonts still match the markers.
	// Default: true
	NormalizeUnicode *bool `yaml:"normalize_unicode"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the export file name format.
	// Placeholders: {timestamp}, {date}, {time}, {uuid}
	// Default: "valores_separados_{timestamp}.xlsx"
	OutputFormat string `yaml:"output_format"`

	// SheetName is the worksheet name used in exports.
	// Default: "Resultados"
	SheetName string `yaml:"sheet_name"`

	// WriteErrorLog writes a failure report next to the export when some
	// documents could not be read.
	WriteErrorLog bool `yaml:"write_error_log"`

	// =========================================================================
	// LOGGING / SERVER SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// ServerAddr is the listen address of the HTTP surface.
	// Default: ":8080"
	ServerAddr string `yaml:"server_addr"`
}

// Markers holds the marker substrings searched for in page text.
// Matching is exact: case and accents must match the document.
type Markers struct {
	// Payment locates the payment-value line (positional mode).
	Payment string `yaml:"payment"`

	// EstablishmentCode precedes the establishment code (marker-relative).
	EstablishmentCode string `yaml:"establishment_code"`

	// CreditNote precedes the credit-note number (marker-relative).
	CreditNote string `yaml:"credit_note"`

	// Extra lists additional marker-relative fields, in output order.
	Extra []ExtraField `yaml:"extra_fields,omitempty"`
}

// ExtraField is an additional marker-relative field.
type ExtraField struct {
	// Name is the column name of the field.
	Name string `yaml:"name"`

	// Marker is the label that precedes the value.
	Marker string `yaml:"marker"`
}

// DefaultMarkers returns the markers of the payment receipts the tool was
// built for.
func DefaultMarkers() Markers {
	return Markers{
		Payment:           DefaultPaymentMarker,
		EstablishmentCode: DefaultEstablishmentMarker,
		CreditNote:        DefaultCreditNoteMarker,
	}
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// ShouldNormalizeUnicode reports whether page text is NFC-normalised.
func (c *MainConfig) ShouldNormalizeUnicode() bool {
	return c.NormalizeUnicode == nil || *c.NormalizeUnicode
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional:   When true, a missing file yields the defaults instead of
//     an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read or parsed.
//
// Validation is left to the caller so that overrides can be applied first.
func LoadMainConfig(configPath string, optional bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	return &config, nil
}

// Marshal renders the configuration as YAML.
func (c *MainConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if len(config.FilePatterns) == 0 {
		config.FilePatterns = []string{"*.pdf"}
	}
	if config.Markers.Payment == "" {
		config.Markers.Payment = DefaultPaymentMarker
	}
	if config.Markers.EstablishmentCode == "" {
		config.Markers.EstablishmentCode = DefaultEstablishmentMarker
	}
	if config.Markers.CreditNote == "" {
		config.Markers.CreditNote = DefaultCreditNoteMarker
	}
	if config.NormalizeUnicode == nil {
		enabled := true
		config.NormalizeUnicode = &enabled
	}
	if config.OutputFormat == "" {
		config.OutputFormat = DefaultOutputFormat
	}
	if config.SheetName == "" {
		config.SheetName = "Resultados"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ServerAddr == "" {
		config.ServerAddr = ":8080"
	}
}

// =============================================================================
// OVERRIDES
// =============================================================================

// Overrides carries values from flags or environment variables. Empty values
// leave the file configuration untouched.
type Overrides struct {
	InputDir     string
	OutputDir    string
	OutputFormat string
	LogLevel     string
	ServerAddr   string
}

// ApplyOverrides copies every non-empty override onto the configuration.
func (c *MainConfig) ApplyOverrides(o Overrides) {
	if o.InputDir != "" {
		c.InputDir = o.InputDir
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.OutputFormat != "" {
		c.OutputFormat = o.OutputFormat
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.ServerAddr != "" {
		c.ServerAddr = o.ServerAddr
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the extractor cannot use.
func (c *MainConfig) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	if err := c.Markers.Validate(); err != nil {
		return fmt.Errorf("invalid markers: %w", err)
	}

	return nil
}

// Validate checks that every marker is usable and every extra field has a
// distinct, non-reserved name.
func (m Markers) Validate() error {
	required := map[string]string{
		"payment":            m.Payment,
		"establishment_code": m.EstablishmentCode,
		"credit_note":        m.CreditNote,
	}
	for key, marker := range required {
		if marker == "" {
			return fmt.Errorf("marker %s is empty", key)
		}
	}

	seen := map[string]bool{
		types.FieldDocument:          true,
		types.FieldEstablishmentCode: true,
		types.FieldCreditNote:        true,
	}
	for i, extra := range m.Extra {
		if extra.Name == "" {
			return fmt.Errorf("extra field %d has no name", i+1)
		}
		if extra.Marker == "" {
			return fmt.Errorf("extra field %s has no marker", extra.Name)
		}
		if types.IsPositional(extra.Name) {
			return fmt.Errorf("extra field %s uses a positional column name", extra.Name)
		}
		if seen[extra.Name] {
			return fmt.Errorf("extra field %s is declared twice or shadows a built-in column", extra.Name)
		}
		seen[extra.Name] = true
	}

	return nil
}
