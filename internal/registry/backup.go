package registry

import (
	"fmt"
	"io"
	"os"

	"github.com/jbweber/aviary/internal/paths"
)

// BackupDisk copies the disk's live image bytes into the backup area
// and records the descriptor in the backup catalog. Each call fully
// re-copies the current image; backups are not incremental.
func (r *Registry) BackupDisk(name string) error {
	d, err := r.Disk(name)
	if err != nil {
		return err
	}

	src := r.layout.Image(paths.KindDisk, name)
	dst := r.layout.BackupImage(paths.KindDisk, name)
	if err := copyImage(src, dst); err != nil {
		return err
	}

	r.catalog.DiskBackups[name] = d
	return nil
}

// BackupMachine copies the machine's live image bytes into the backup
// area and records the descriptor in the backup catalog.
func (r *Registry) BackupMachine(name string) error {
	m, err := r.Machine(name)
	if err != nil {
		return err
	}

	src := r.layout.Image(paths.KindMachine, name)
	dst := r.layout.BackupImage(paths.KindMachine, name)
	if err := copyImage(src, dst); err != nil {
		return err
	}

	r.catalog.MachineBackups[name] = m
	return nil
}

// copyImage copies src to dst through a staging file so a crash
// mid-copy never leaves a truncated image at the final path.
func copyImage(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	staging := dst + ".tmp"
	out, err := os.Create(staging)
	if err != nil {
		return fmt.Errorf("failed to create staging file %s: %w", staging, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(staging)
		return fmt.Errorf("failed to copy image to %s: %w", staging, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("failed to close staging file %s: %w", staging, err)
	}

	if err := os.Rename(staging, dst); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("failed to move backup into place: %w", err)
	}
	return nil
}
