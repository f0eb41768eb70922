package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter formats resources as JSON.
type JSONFormatter struct{}

// FormatDisks formats a list of disks as a JSON array.
func (f *JSONFormatter) FormatDisks(rows []DiskRow) (string, error) {
	return marshalJSON(rows)
}

// FormatMachines formats a list of machines as a JSON array.
func (f *JSONFormatter) FormatMachines(rows []MachineRow) (string, error) {
	return marshalJSON(rows)
}

// FormatSnapshots formats a list of snapshots as a JSON array.
func (f *JSONFormatter) FormatSnapshots(rows []SnapshotRow) (string, error) {
	return marshalJSON(rows)
}

// FormatBackups formats a backup catalog as a JSON array.
func (f *JSONFormatter) FormatBackups(rows []BackupRow) (string, error) {
	return marshalJSON(rows)
}

func marshalJSON[T any](rows []T) (string, error) {
	if len(rows) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
