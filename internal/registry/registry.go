// Package registry owns the catalog of disks, machines, and snapshots:
// name uniqueness, in-use checks, image materialization, backups, and
// the launch/stop/connect operations that hand off to the hypervisor
// and login client.
//
// One aviary invocation builds one Registry over a freshly loaded
// catalog, performs one operation, and saves the catalog back when the
// operation mutated it. All external processes are behind small
// interfaces so tests never spawn anything.
package registry

import (
	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/monitor"
	"github.com/jbweber/aviary/internal/paths"
	"github.com/jbweber/aviary/internal/state"
)

// Imager materializes qcow2 images and copy-on-write overlays.
//
// In production this is satisfied by qemu.Imager. In tests it is
// satisfied by mock implementations.
type Imager interface {
	// Create materializes an empty image of sizeGB gigabytes at path.
	Create(path string, sizeGB int) error

	// CreateOverlay materializes an overlay at path backed by
	// backingPath.
	CreateOverlay(path, backingPath string) error
}

// Runner spawns the external hypervisor and login-client processes.
//
// In production this is satisfied by ExecRunner. In tests it is
// satisfied by mock implementations.
type Runner interface {
	// Start spawns bin with args. In foreground mode it blocks until
	// the child exits; in background mode it detaches stdout and
	// returns immediately, leaving the child running.
	Start(bin string, args []string, foreground bool) error

	// Interactive spawns bin attached to the caller's terminal and
	// waits for it to exit.
	Interactive(bin string, args []string) error
}

// Registry is the resource registry plus the process launcher over one
// loaded catalog.
type Registry struct {
	catalog *state.Catalog
	layout  paths.Layout
	locks   *lockfile.Manager
	mon     monitor.Monitor
	imager  Imager
	runner  Runner
}

// New builds a Registry over catalog with the given collaborators.
func New(catalog *state.Catalog, locks *lockfile.Manager, mon monitor.Monitor, imager Imager, runner Runner) *Registry {
	return &Registry{
		catalog: catalog,
		layout:  catalog.Layout(),
		locks:   locks,
		mon:     mon,
		imager:  imager,
		runner:  runner,
	}
}

// Catalog returns the catalog the registry operates on.
func (r *Registry) Catalog() *state.Catalog {
	return r.catalog
}

// resourceInUse probes the process table for imagePath under the scan
// lock. The answer is transient: nothing stops another invocation from
// acting between this probe and whatever the caller does next.
func (r *Registry) resourceInUse(imagePath string) (bool, error) {
	return r.mon.InUse(imagePath)
}
