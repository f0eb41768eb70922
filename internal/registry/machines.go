package registry

import (
	"errors"
	"fmt"

	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/paths"
	"github.com/jbweber/aviary/internal/state"
)

// AddMachine registers a new machine and materializes its qcow2 image.
// The name must be unused and the host port must not be assigned to any
// other machine.
func (r *Registry) AddMachine(name string, port, sizeGB int) error {
	if err := paths.ValidateName(name); err != nil {
		return err
	}
	if _, ok := r.catalog.Machines[name]; ok {
		return &ExistsError{Kind: paths.KindMachine, Name: name}
	}
	for _, m := range r.catalog.Machines {
		if m.Port == port {
			return &PortTakenError{Port: port, Machine: m.Name}
		}
	}

	if err := r.imager.Create(r.layout.Image(paths.KindMachine, name), sizeGB); err != nil {
		return err
	}

	r.catalog.Machines[name] = state.Machine{Name: name, Port: port, SizeGB: sizeGB}
	return nil
}

// Machine returns the descriptor for name.
func (r *Registry) Machine(name string) (state.Machine, error) {
	m, ok := r.catalog.Machines[name]
	if !ok {
		return state.Machine{}, &NotFoundError{Kind: paths.KindMachine, Name: name}
	}
	return m, nil
}

// MachineInUse reports whether a running process references the
// machine's image.
func (r *Registry) MachineInUse(name string) (bool, error) {
	if _, ok := r.catalog.Machines[name]; !ok {
		return false, &NotFoundError{Kind: paths.KindMachine, Name: name}
	}
	return r.resourceInUse(r.layout.Image(paths.KindMachine, name))
}

// RemoveMachine deletes the catalog entry for name, refusing while the
// machine's image is in use or claimed. The image file is left on disk.
func (r *Registry) RemoveMachine(name string) error {
	inUse, err := r.MachineInUse(name)
	if err != nil {
		return err
	}
	if inUse {
		return &InUseError{Kind: paths.KindMachine, Name: name}
	}

	guard, err := r.locks.Acquire(r.layout.LockFile(paths.KindMachine, name))
	if errors.Is(err, lockfile.ErrClaimed) {
		return fmt.Errorf("machine %s: %w", name, err)
	}
	if err != nil {
		return err
	}

	delete(r.catalog.Machines, name)
	return guard.Release()
}
