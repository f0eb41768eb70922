package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/output"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up disk and machine images",
	Long: `Back up disk and machine images.

A backup is a full copy of the image into the backup area, recorded in
the catalog alongside the source descriptor. Backing up again replaces
the previous copy.`,
}

func init() {
	backupCmd.AddCommand(backupDiskCmd)
	backupCmd.AddCommand(backupMachineCmd)
}

var backupDiskCmd = &cobra.Command{
	Use:   "disk <name>",
	Short: "Back up a data disk image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		fmt.Printf("Backing up disk %s...\n", name)
		if err := a.reg.BackupDisk(name); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Disk %s backed up\n", name)
		return nil
	},
}

var backupMachineCmd = &cobra.Command{
	Use:   "machine <name>",
	Short: "Back up a machine image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		fmt.Printf("Backing up machine %s...\n", name)
		if err := a.reg.BackupMachine(name); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Machine %s backed up\n", name)
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups",
	Long: `List all disk and machine backups in the catalog.

Shows backup name, source kind, and size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := newFormatter()
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		var rows []output.BackupRow
		for _, d := range a.catalog.SortedDiskBackups() {
			rows = append(rows, output.BackupRow{Name: d.Name, Kind: "disk", SizeGB: d.SizeGB})
		}
		for _, m := range a.catalog.SortedMachineBackups() {
			rows = append(rows, output.BackupRow{Name: m.Name, Kind: "machine", SizeGB: m.SizeGB})
		}

		result, err := formatter.FormatBackups(rows)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Print(result)
		return nil
	},
}
