package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/qemu"
	"github.com/jbweber/aviary/internal/registry"
)

var (
	startSnapshot   bool
	startForeground bool
	startCores      int
	startRAM        int
	startDisks      []string
	startISO        string

	stopSnapshot bool

	connectSnapshot bool
	connectUser     string
	connectForward  bool
)

func init() {
	startCmd.Flags().BoolVar(&startSnapshot, "snapshot", false, "Start a snapshot instead of a machine")
	startCmd.Flags().BoolVar(&startForeground, "foreground", false, "Stay attached and hold locks until the guest exits")
	startCmd.Flags().IntVar(&startCores, "cores", 0, "vCPU count (default from config)")
	startCmd.Flags().IntVar(&startRAM, "ram", 0, "Memory in GiB (default from config)")
	startCmd.Flags().StringArrayVar(&startDisks, "disk", nil, "Data disk to attach (repeatable)")
	startCmd.Flags().StringVar(&startISO, "iso", "", "Install media to attach as CD-ROM")

	stopCmd.Flags().BoolVar(&stopSnapshot, "snapshot", false, "Stop a snapshot instead of a machine")

	connectCmd.Flags().BoolVar(&connectSnapshot, "snapshot", false, "Connect to a snapshot instead of a machine")
	connectCmd.Flags().StringVar(&connectUser, "user", "", "SSH login name (default from config, then current user)")
	connectCmd.Flags().BoolVarP(&connectForward, "forward-agent", "A", false, "Enable SSH agent forwarding")
}

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a machine or snapshot",
	Long: `Start a machine or snapshot with QEMU.

The guest boots from its qcow2 image with user-mode networking and the
catalog port forwarded to guest SSH. Attached disks are probed first;
a disk already used by a running guest aborts the start.

By default the guest is detached and aviary returns immediately. With
--foreground aviary stays attached and holds the machine and disk locks
until the guest exits.

Requires AVIARY_UEFI_PATH to point at the UEFI firmware image.

Example:
  aviary start web01 --disk scratch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if startISO != "" {
			format, err := qemu.DetectFormat(startISO)
			if err != nil {
				return err
			}
			if format != qemu.FormatISO {
				return fmt.Errorf("install media %s is %s, want iso9660", startISO, format)
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		cores := startCores
		if cores == 0 {
			cores = a.defaults.Cores
		}
		ram := startRAM
		if ram == 0 {
			ram = a.defaults.RAMGB
		}

		if !startForeground {
			fmt.Printf("Starting %s detached...\n", name)
		}

		return a.reg.Start(name, registry.StartOptions{
			Cores:      cores,
			RAMGB:      ram,
			Foreground: startForeground,
			Disks:      startDisks,
			InstallISO: startISO,
			Snapshot:   startSnapshot,
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a running machine or snapshot",
	Long: `Stop a running machine or snapshot.

Finds the QEMU process whose command line references the resource's
image and sends it SIGTERM. Fails if the resource is not running.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.reg.Stop(name, stopSnapshot); err != nil {
			return err
		}

		fmt.Printf("✓ Sent SIGTERM to %s\n", name)
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <name>",
	Short: "SSH into a running machine or snapshot",
	Long: `Open an SSH session to a running machine or snapshot.

Connects to localhost on the resource's forwarded port. The login name
defaults to the configured ssh_user, then to the current OS user.

Example:
  aviary connect web01 -A`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}

		username := connectUser
		if username == "" {
			username = a.defaults.SSHUser
		}

		return a.reg.Connect(name, registry.ConnectOptions{
			Username:    username,
			ForwardKeys: connectForward,
			Snapshot:    connectSnapshot,
		})
	},
}
