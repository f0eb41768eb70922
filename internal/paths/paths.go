// Package paths derives the on-disk locations aviary uses for images,
// lock files, backups, and the state document. All functions are pure
// path arithmetic over a fixed root directory; nothing here touches the
// filesystem.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Directory and file names under the aviary root.
const (
	StateFileName = "state.yaml"
	scanLockName  = ".scan.lock"

	disksDir     = "disks"
	machinesDir  = "machines"
	snapshotsDir = "snapshots"
	locksDir     = "locks"
	backupsDir   = "backups"
)

// Kind identifies which resource family a path belongs to.
type Kind string

const (
	KindDisk     Kind = "disk"
	KindMachine  Kind = "machine"
	KindSnapshot Kind = "snapshot"
)

// InvalidNameError reports a resource name that cannot be used as a
// path component.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid resource name %q", e.Name)
}

// ValidateName checks that name is usable as a single path component.
// Empty names, names containing path separators, and the relative
// directory names "." and ".." would all escape the layout.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return &InvalidNameError{Name: name}
	}
	if strings.ContainsAny(name, `/\`) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// Layout maps resource names to locations under a single root directory.
type Layout struct {
	root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{root: root}
}

// Root returns the layout's root directory.
func (l Layout) Root() string {
	return l.root
}

// StateFile returns the path of the persisted catalog document.
func (l Layout) StateFile() string {
	return filepath.Join(l.root, StateFileName)
}

// ScanLock returns the path of the host-wide lock taken around
// process-table scans.
func (l Layout) ScanLock() string {
	return filepath.Join(l.root, scanLockName)
}

// ImageDir returns the directory holding images of the given kind.
func (l Layout) ImageDir(kind Kind) string {
	return filepath.Join(l.root, kindDir(kind))
}

// Image returns the qcow2 image path for a resource.
func (l Layout) Image(kind Kind, name string) string {
	return filepath.Join(l.ImageDir(kind), name+".qcow2")
}

// SeedImage returns the path of a machine's cloud-init seed ISO.
func (l Layout) SeedImage(name string) string {
	return filepath.Join(l.ImageDir(KindMachine), name+".seed.iso")
}

// LockDir returns the directory holding per-resource lock files.
func (l Layout) LockDir() string {
	return filepath.Join(l.root, locksDir)
}

// LockFile returns the per-resource lock file path used for exclusive
// claims.
func (l Layout) LockFile(kind Kind, name string) string {
	return filepath.Join(l.LockDir(), string(kind)+"-"+name+".lock")
}

// BackupDir returns the directory holding backup images of the given kind.
func (l Layout) BackupDir(kind Kind) string {
	return filepath.Join(l.root, backupsDir, kindDir(kind))
}

// BackupImage returns the backup image path for a resource.
func (l Layout) BackupImage(kind Kind, name string) string {
	return filepath.Join(l.BackupDir(kind), name+".qcow2")
}

// Dirs returns every directory the layout expects to exist, root first.
// state.Load creates these idempotently on first run.
func (l Layout) Dirs() []string {
	return []string{
		l.root,
		l.ImageDir(KindDisk),
		l.ImageDir(KindMachine),
		l.ImageDir(KindSnapshot),
		l.LockDir(),
		l.BackupDir(KindDisk),
		l.BackupDir(KindMachine),
	}
}

func kindDir(kind Kind) string {
	switch kind {
	case KindDisk:
		return disksDir
	case KindMachine:
		return machinesDir
	case KindSnapshot:
		return snapshotsDir
	}
	return string(kind) + "s"
}
