// Package lockfile provides the advisory, file-based mutual exclusion
// aviary uses between concurrent invocations.
//
// Two disciplines exist. The host-wide scan lock is taken blocking for
// the duration of a process-table probe only. Per-resource lock files
// are taken non-blocking to claim exclusive use of an image for the
// scope of one operation; contention on a claim is reported as
// ErrClaimed rather than waited out.
//
// Locks are advisory: they fence other aviary invocations, not a
// hypervisor started by hand.
package lockfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrClaimed reports that another live invocation already holds the
// exclusive claim on a resource.
var ErrClaimed = errors.New("resource already claimed")

// Manager hands out scan locks and exclusive claims. The zero value is
// not usable; construct with NewManager.
type Manager struct {
	scanLockPath string
}

// NewManager returns a Manager whose scan lock lives at scanLockPath.
func NewManager(scanLockPath string) *Manager {
	return &Manager{scanLockPath: scanLockPath}
}

// WithScanLock runs fn while holding the blocking, host-wide scan lock.
// The lock is held only for fn's duration; it serializes process-table
// scans across invocations, nothing more.
func (m *Manager) WithScanLock(fn func() error) error {
	l := flock.New(m.scanLockPath)
	if err := l.Lock(); err != nil {
		return fmt.Errorf("failed to take scan lock %s: %w", m.scanLockPath, err)
	}
	fnErr := fn()
	if err := l.Unlock(); err != nil {
		return fmt.Errorf("failed to release scan lock %s: %w", m.scanLockPath, err)
	}
	return fnErr
}

// Guard is a held exclusive claim. Release it on every exit path.
type Guard struct {
	l        *flock.Flock
	released bool
}

// Acquire attempts a non-blocking exclusive claim on path. It returns
// ErrClaimed when another live process holds the lock.
func (m *Manager) Acquire(path string) (*Guard, error) {
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClaimed, path)
	}
	return &Guard{l: l}, nil
}

// Release unlocks the claim and removes the lock file so a clean
// release never leaves a stale artifact behind. Failure to unlock is an
// I/O error, not something to swallow. Release is idempotent.
func (g *Guard) Release() error {
	if g.released {
		return nil
	}
	g.released = true

	path := g.l.Path()
	if err := g.l.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", path, err)
	}
	return nil
}

// Path returns the lock file path the guard protects.
func (g *Guard) Path() string {
	return g.l.Path()
}
