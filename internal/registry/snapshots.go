package registry

import (
	"errors"
	"fmt"

	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/paths"
	"github.com/jbweber/aviary/internal/state"
)

// AddSnapshot registers a copy-on-write overlay of the base machine's
// image. The snapshot copies the base's port and size; its overlay is
// backed by the base image as it exists right now, so later writes to
// the base can corrupt the snapshot's view.
func (r *Registry) AddSnapshot(name, base string) error {
	if err := paths.ValidateName(name); err != nil {
		return err
	}
	if _, ok := r.catalog.Snapshots[name]; ok {
		return &ExistsError{Kind: paths.KindSnapshot, Name: name}
	}

	machine, err := r.Machine(base)
	if err != nil {
		return err
	}

	overlay := r.layout.Image(paths.KindSnapshot, name)
	backing := r.layout.Image(paths.KindMachine, base)
	if err := r.imager.CreateOverlay(overlay, backing); err != nil {
		return err
	}

	r.catalog.Snapshots[name] = state.Snapshot{
		Name:   name,
		Base:   base,
		Port:   machine.Port,
		SizeGB: machine.SizeGB,
	}
	return nil
}

// Snapshot returns the descriptor for name.
func (r *Registry) Snapshot(name string) (state.Snapshot, error) {
	s, ok := r.catalog.Snapshots[name]
	if !ok {
		return state.Snapshot{}, &NotFoundError{Kind: paths.KindSnapshot, Name: name}
	}
	return s, nil
}

// SnapshotInUse reports whether a running process references the
// snapshot's overlay image.
func (r *Registry) SnapshotInUse(name string) (bool, error) {
	if _, ok := r.catalog.Snapshots[name]; !ok {
		return false, &NotFoundError{Kind: paths.KindSnapshot, Name: name}
	}
	return r.resourceInUse(r.layout.Image(paths.KindSnapshot, name))
}

// RemoveSnapshot deletes the catalog entry for name, refusing while the
// overlay is in use or claimed. The overlay file is left on disk.
func (r *Registry) RemoveSnapshot(name string) error {
	inUse, err := r.SnapshotInUse(name)
	if err != nil {
		return err
	}
	if inUse {
		return &InUseError{Kind: paths.KindSnapshot, Name: name}
	}

	guard, err := r.locks.Acquire(r.layout.LockFile(paths.KindSnapshot, name))
	if errors.Is(err, lockfile.ErrClaimed) {
		return fmt.Errorf("snapshot %s: %w", name, err)
	}
	if err != nil {
		return err
	}

	delete(r.catalog.Snapshots, name)
	return guard.Release()
}
