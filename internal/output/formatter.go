// Package output provides formatters for displaying aviary resources
// in various formats (table, YAML, JSON).
package output

import "fmt"

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format for declarative consumption.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// DiskRow is one disk listing entry with its runtime status.
type DiskRow struct {
	Name   string `yaml:"name" json:"name"`
	SizeGB int    `yaml:"size_gb" json:"size_gb"`
	InUse  bool   `yaml:"in_use" json:"in_use"`
}

// MachineRow is one machine listing entry with its runtime status.
type MachineRow struct {
	Name   string `yaml:"name" json:"name"`
	Port   int    `yaml:"port" json:"port"`
	SizeGB int    `yaml:"size_gb" json:"size_gb"`
	InUse  bool   `yaml:"in_use" json:"in_use"`
}

// SnapshotRow is one snapshot listing entry with its runtime status.
type SnapshotRow struct {
	Name   string `yaml:"name" json:"name"`
	Base   string `yaml:"base" json:"base"`
	Port   int    `yaml:"port" json:"port"`
	SizeGB int    `yaml:"size_gb" json:"size_gb"`
	InUse  bool   `yaml:"in_use" json:"in_use"`
}

// BackupRow is one backup catalog entry.
type BackupRow struct {
	Name   string `yaml:"name" json:"name"`
	Kind   string `yaml:"kind" json:"kind"`
	SizeGB int    `yaml:"size_gb" json:"size_gb"`
}

// Formatter formats aviary resource listings for output.
type Formatter interface {
	// FormatDisks formats a disk listing.
	FormatDisks(rows []DiskRow) (string, error)

	// FormatMachines formats a machine listing.
	FormatMachines(rows []MachineRow) (string, error)

	// FormatSnapshots formats a snapshot listing.
	FormatSnapshots(rows []SnapshotRow) (string, error)

	// FormatBackups formats a backup catalog listing.
	FormatBackups(rows []BackupRow) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
