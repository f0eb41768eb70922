package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats resources as YAML.
type YAMLFormatter struct{}

// FormatDisks formats a list of disks as a YAML sequence.
func (f *YAMLFormatter) FormatDisks(rows []DiskRow) (string, error) {
	return marshalYAML(rows)
}

// FormatMachines formats a list of machines as a YAML sequence.
func (f *YAMLFormatter) FormatMachines(rows []MachineRow) (string, error) {
	return marshalYAML(rows)
}

// FormatSnapshots formats a list of snapshots as a YAML sequence.
func (f *YAMLFormatter) FormatSnapshots(rows []SnapshotRow) (string, error) {
	return marshalYAML(rows)
}

// FormatBackups formats a backup catalog as a YAML sequence.
func (f *YAMLFormatter) FormatBackups(rows []BackupRow) (string, error) {
	return marshalYAML(rows)
}

func marshalYAML[T any](rows []T) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}

	return string(data), nil
}
