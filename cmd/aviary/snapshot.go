package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/output"
	"github.com/jbweber/aviary/internal/state"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage snapshots",
	Long: `Manage snapshots in the aviary catalog.

A snapshot is a qcow2 overlay on top of a machine's image. Writes go to
the overlay; the base image stays untouched. Snapshots inherit the base
machine's port and size and can be started, stopped, and connected to
with the --snapshot flag.`,
}

func init() {
	snapshotCmd.AddCommand(snapshotAddCmd)
	snapshotCmd.AddCommand(snapshotRemoveCmd)
	snapshotCmd.AddCommand(snapshotInfoCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
}

var snapshotAddCmd = &cobra.Command{
	Use:   "add <name> <base-machine>",
	Short: "Add a snapshot of a machine",
	Long: `Add a new snapshot backed by a machine's image.

Creates a qcow2 overlay with qemu-img and records the snapshot in the
catalog. The base machine must exist.

Example:
  aviary snapshot add web01-test web01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		base := args[1]

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.reg.AddSnapshot(name, base); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Snapshot %s added (base %s)\n", name, base)
		return nil
	},
}

var snapshotRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a snapshot from the catalog",
	Long: `Remove a snapshot from the catalog.

The catalog entry and lock artifact are removed. The overlay file is
left in place. Fails while the snapshot is running.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.reg.RemoveSnapshot(name); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Snapshot %s removed\n", name)
		return nil
	},
}

var snapshotInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details about a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSnapshots(args[0])
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Long: `List all snapshots in the catalog.

Shows snapshot name, base machine, port, size, and whether it is
running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSnapshots()
	},
}

func printSnapshots(filter ...string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	snapshots := a.catalog.SortedSnapshots(filter...)
	if len(filter) > 0 && len(snapshots) == 0 {
		if _, err := a.reg.Snapshot(filter[0]); err != nil {
			return err
		}
	}

	rows, err := snapshotRows(a, snapshots)
	if err != nil {
		return err
	}

	result, err := formatter.FormatSnapshots(rows)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(result)
	return nil
}

func snapshotRows(a *app, snapshots []state.Snapshot) ([]output.SnapshotRow, error) {
	rows := make([]output.SnapshotRow, 0, len(snapshots))
	for _, s := range snapshots {
		inUse, err := a.reg.SnapshotInUse(s.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, output.SnapshotRow{
			Name:   s.Name,
			Base:   s.Base,
			Port:   s.Port,
			SizeGB: s.SizeGB,
			InUse:  inUse,
		})
	}
	return rows, nil
}
