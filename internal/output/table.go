package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatDisks formats a list of disks as a table.
func (f *TableFormatter) FormatDisks(rows []DiskRow) (string, error) {
	if len(rows) == 0 {
		return "No disks found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tSIZE\tIN-USE")
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			row.Name, formatSize(row.SizeGB), formatInUse(row.InUse))
	}

	_ = w.Flush()
	return buf.String(), nil
}

// FormatMachines formats a list of machines as a table.
func (f *TableFormatter) FormatMachines(rows []MachineRow) (string, error) {
	if len(rows) == 0 {
		return "No machines found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tPORT\tSIZE\tIN-USE")
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			row.Name, row.Port, formatSize(row.SizeGB), formatInUse(row.InUse))
	}

	_ = w.Flush()
	return buf.String(), nil
}

// FormatSnapshots formats a list of snapshots as a table.
func (f *TableFormatter) FormatSnapshots(rows []SnapshotRow) (string, error) {
	if len(rows) == 0 {
		return "No snapshots found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tBASE\tPORT\tSIZE\tIN-USE")
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			row.Name, row.Base, row.Port, formatSize(row.SizeGB), formatInUse(row.InUse))
	}

	_ = w.Flush()
	return buf.String(), nil
}

// FormatBackups formats a backup catalog as a table.
func (f *TableFormatter) FormatBackups(rows []BackupRow) (string, error) {
	if len(rows) == 0 {
		return "No backups found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tKIND\tSIZE")
	}

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			row.Name, row.Kind, formatSize(row.SizeGB))
	}

	_ = w.Flush()
	return buf.String(), nil
}

func formatSize(sizeGB int) string {
	if sizeGB <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dG", sizeGB)
}

func formatInUse(inUse bool) string {
	if inUse {
		return "yes"
	}
	return "no"
}
