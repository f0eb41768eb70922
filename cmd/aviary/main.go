package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jbweber/aviary/internal/config"
	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/monitor"
	"github.com/jbweber/aviary/internal/output"
	"github.com/jbweber/aviary/internal/qemu"
	"github.com/jbweber/aviary/internal/registry"
	"github.com/jbweber/aviary/internal/state"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aviary",
	Short: "Aviary - local QEMU machine catalog and launcher",
	Long: `Aviary is a CLI tool for managing local QEMU virtual machines.

It keeps a catalog of disks, machines, and snapshots under ~/.config/aviary,
creates their qcow2 images with qemu-img, and launches them with user-mode
networking and an SSH port forward.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var (
	outputFormat string
	noHeaders    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, yaml, json)")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false, "Omit headers in table output")

	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(machineCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(connectCmd)
}

// app bundles the loaded catalog with the services every command needs.
type app struct {
	catalog  *state.Catalog
	reg      *registry.Registry
	defaults *config.Defaults
}

// newApp loads the catalog and defaults from the aviary root, creating
// the directory skeleton on first run.
func newApp() (*app, error) {
	root, err := defaultRoot()
	if err != nil {
		return nil, err
	}

	catalog, err := state.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	defaults, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	locks := lockfile.NewManager(catalog.Layout().ScanLock())
	mon := monitor.NewProcessTable(locks)
	reg := registry.New(catalog, locks, mon, qemu.Imager{}, registry.ExecRunner{})

	return &app{catalog: catalog, reg: reg, defaults: defaults}, nil
}

func defaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aviary"), nil
}

func newFormatter() (output.Formatter, error) {
	if err := output.ValidateFormat(outputFormat); err != nil {
		return nil, err
	}
	return output.NewFormatter(output.Options{
		Format:    output.Format(outputFormat),
		NoHeaders: noHeaders,
	})
}
