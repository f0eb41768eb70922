package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/cloudinit"
	"github.com/jbweber/aviary/internal/output"
	"github.com/jbweber/aviary/internal/qemu"
	"github.com/jbweber/aviary/internal/registry"
	"github.com/jbweber/aviary/internal/state"
)

var machineCmd = &cobra.Command{
	Use:   "machine",
	Short: "Manage machines",
	Long: `Manage machines in the aviary catalog.

A machine is a bootable qcow2 image with a dedicated host port forwarded
to the guest's SSH port.`,
}

var (
	machineAddPort int
	machineAddSize int
	machineAddSeed string
)

func init() {
	machineCmd.AddCommand(machineAddCmd)
	machineCmd.AddCommand(machineRemoveCmd)
	machineCmd.AddCommand(machineInfoCmd)
	machineCmd.AddCommand(machineListCmd)

	machineAddCmd.Flags().IntVar(&machineAddPort, "port", 0, "Host port forwarded to guest SSH (default from config)")
	machineAddCmd.Flags().IntVar(&machineAddSize, "size", 0, "Image size in GiB (default from config)")
	machineAddCmd.Flags().StringVar(&machineAddSeed, "seed", "", "Cloud-init seed spec (YAML); generates <name>.seed.iso")
}

var machineAddCmd = &cobra.Command{
	Use:   "add <name> <install.iso>",
	Short: "Add a machine and boot its installer",
	Long: `Add a new machine to the catalog and boot the installer.

Creates the machine's qcow2 image with qemu-img, then starts the
machine in the background with the install media attached as a CD-ROM.

With --seed, a cloud-init NoCloud seed image is generated from the
given spec file and attached on every start.

Example:
  aviary machine add web01 ./fedora-43.iso --port 2222 --size 40`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		isoPath := args[1]

		// Reject non-ISO install media before touching the catalog.
		format, err := qemu.DetectFormat(isoPath)
		if err != nil {
			return err
		}
		if format != qemu.FormatISO {
			return fmt.Errorf("install media %s is %s, want iso9660", isoPath, format)
		}

		var seedSpec *cloudinit.Spec
		if machineAddSeed != "" {
			seedSpec, err = cloudinit.LoadSpec(machineAddSeed)
			if err != nil {
				return err
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		port := machineAddPort
		if port == 0 {
			port = a.defaults.Port
		}
		size := machineAddSize
		if size == 0 {
			size = a.defaults.SizeGB
		}

		if err := a.reg.AddMachine(name, port, size); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Machine %s added (port %d, %dG)\n", name, port, size)

		if seedSpec != nil {
			seedPath := a.catalog.Layout().SeedImage(name)
			if err := cloudinit.WriteSeedImage(seedPath, name, seedSpec); err != nil {
				return err
			}
			fmt.Printf("✓ Seed image written to %s\n", seedPath)
		}

		fmt.Printf("Booting installer from %s...\n", isoPath)
		return a.reg.Start(name, registry.StartOptions{
			Cores:      a.defaults.Cores,
			RAMGB:      a.defaults.RAMGB,
			InstallISO: isoPath,
		})
	},
}

var machineRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a machine from the catalog",
	Long: `Remove a machine from the catalog.

The catalog entry and lock artifact are removed. The qcow2 image file
is left in place. Fails while the machine is running.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.reg.RemoveMachine(name); err != nil {
			return err
		}
		if err := a.catalog.Save(); err != nil {
			return err
		}

		fmt.Printf("✓ Machine %s removed\n", name)
		return nil
	},
}

var machineInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details about a machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMachines(args[0])
	},
}

var machineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List machines",
	Long: `List all machines in the catalog.

Shows machine name, forwarded port, size, and whether it is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMachines()
	},
}

func printMachines(filter ...string) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	machines := a.catalog.SortedMachines(filter...)
	if len(filter) > 0 && len(machines) == 0 {
		if _, err := a.reg.Machine(filter[0]); err != nil {
			return err
		}
	}

	rows, err := machineRows(a, machines)
	if err != nil {
		return err
	}

	result, err := formatter.FormatMachines(rows)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(result)
	return nil
}

func machineRows(a *app, machines []state.Machine) ([]output.MachineRow, error) {
	rows := make([]output.MachineRow, 0, len(machines))
	for _, m := range machines {
		inUse, err := a.reg.MachineInUse(m.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, output.MachineRow{
			Name:   m.Name,
			Port:   m.Port,
			SizeGB: m.SizeGB,
			InUse:  inUse,
		})
	}
	return rows, nil
}
