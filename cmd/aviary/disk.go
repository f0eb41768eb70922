package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/output"
	"github.com/jbweber/aviary/internal/state"
)

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Manage data disks",
	Long: `Manage data disks in the aviary catalog.

Data disks are standalone qcow2 images that can be attached to any
machine or snapshot at start time.`,
}

var diskAddSize int

func init() {
	diskCmd.AddCommand(diskAddCmd)
	diskCmd.AddCommand(diskRemoveCmd)
	diskCmd.AddCommand(diskInfoCmd)
	diskCmd.AddCommand(diskListCmd)

	diskAddCmd.Flags().IntVar(&diskAddSize, "size", 0, "Disk size in GiB (default from config)")
}

var diskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a data disk",
	Long: `Add a new data disk to the catalog.

Creates a qcow2 image of the requested size with qemu-img and records
the disk in the catalog.

Example:
  aviary disk add scratch --size 100`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		size := diskAddSize
		if size == 0 {
			size = a.defaults.SizeGB
		}

		if err := a.reg.AddDisk(name, size); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Disk %s added (%dG)\n", name, size)
		return nil
	},
}

var diskRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a data disk from the catalog",
	Long: `Remove a data disk from the catalog.

The catalog entry and lock artifact are removed. The qcow2 image file
is left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.reg.RemoveDisk(name); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Disk %s removed\n", name)
		return nil
	},
}

var diskInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details about a data disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printDisks(args[0])
	},
}

var diskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List data disks",
	Long: `List all data disks in the catalog.

Shows disk name, size, and whether a running process is using it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printDisks()
	},
}

func printDisks(filter ...string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	disks := a.catalog.SortedDisks(filter...)
	if len(filter) > 0 && len(disks) == 0 {
		if _, err := a.reg.Disk(filter[0]); err != nil {
			return err
		}
	}

	rows, err := diskRows(a, disks)
	if err != nil {
		return err
	}

	result, err := formatter.FormatDisks(rows)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(result)
	return nil
}

func diskRows(a *app, disks []state.Disk) ([]output.DiskRow, error) {
	rows := make([]output.DiskRow, 0, len(disks))
	for _, d := range disks {
		inUse, err := a.reg.DiskInUse(d.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, output.DiskRow{Name: d.Name, SizeGB: d.SizeGB, InUse: inUse})
	}
	return rows, nil
}
