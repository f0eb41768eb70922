package registry

import (
	"errors"
	"fmt"

	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/paths"
	"github.com/jbweber/aviary/internal/state"
)

// AddDisk registers a new disk and materializes its qcow2 image. The
// name must be unused; re-adding an existing name is an error, never a
// silent overwrite.
func (r *Registry) AddDisk(name string, sizeGB int) error {
	if err := paths.ValidateName(name); err != nil {
		return err
	}
	if _, ok := r.catalog.Disks[name]; ok {
		return &ExistsError{Kind: paths.KindDisk, Name: name}
	}

	if err := r.imager.Create(r.layout.Image(paths.KindDisk, name), sizeGB); err != nil {
		return err
	}

	r.catalog.Disks[name] = state.Disk{Name: name, SizeGB: sizeGB}
	return nil
}

// Disk returns the descriptor for name.
func (r *Registry) Disk(name string) (state.Disk, error) {
	d, ok := r.catalog.Disks[name]
	if !ok {
		return state.Disk{}, &NotFoundError{Kind: paths.KindDisk, Name: name}
	}
	return d, nil
}

// DiskInUse reports whether a running process references the disk's
// image.
func (r *Registry) DiskInUse(name string) (bool, error) {
	if _, ok := r.catalog.Disks[name]; !ok {
		return false, &NotFoundError{Kind: paths.KindDisk, Name: name}
	}
	return r.resourceInUse(r.layout.Image(paths.KindDisk, name))
}

// RemoveDisk deletes the catalog entry for name. The image file stays
// on disk; only the entry and the lock artifact go away. Removal is
// refused while the image is in use or claimed by another invocation.
func (r *Registry) RemoveDisk(name string) error {
	inUse, err := r.DiskInUse(name)
	if err != nil {
		return err
	}
	if inUse {
		return &InUseError{Kind: paths.KindDisk, Name: name}
	}

	guard, err := r.locks.Acquire(r.layout.LockFile(paths.KindDisk, name))
	if errors.Is(err, lockfile.ErrClaimed) {
		return fmt.Errorf("disk %s: %w", name, err)
	}
	if err != nil {
		return err
	}

	delete(r.catalog.Disks, name)
	return guard.Release()
}
