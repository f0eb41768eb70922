// Package monitor answers "is some hypervisor process currently
// touching this image." The production implementation scans the host
// process table for the image path; the interface exists so the
// registry and launcher can swap in something less fragile without
// changing shape.
package monitor

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jbweber/aviary/internal/lockfile"
)

// ErrNoProcess reports that no process referencing the image path was
// found in the process table.
var ErrNoProcess = errors.New("no process found")

// Monitor reports liveness for a resource's image path.
//
// InUse is best-effort: it substring-matches command lines, so a
// differently-invoked hypervisor or an unrelated process mentioning the
// path can produce false results. Pid returns the process id of the
// first match.
type Monitor interface {
	InUse(path string) (bool, error)
	Pid(path string) (int, error)
}

// ProcessTable is the ps-based Monitor. Scans are serialized across
// invocations through the host-wide scan lock.
type ProcessTable struct {
	locks *lockfile.Manager
}

// NewProcessTable returns a ProcessTable that synchronizes its scans
// through locks.
func NewProcessTable(locks *lockfile.Manager) *ProcessTable {
	return &ProcessTable{locks: locks}
}

// InUse reports whether any process's command line references path.
// The scan lock is held only for the duration of the scan, so the
// answer can go stale before the caller acts on it.
func (p *ProcessTable) InUse(path string) (bool, error) {
	var inUse bool
	err := p.locks.WithScanLock(func() error {
		pid, err := scanProcessTable(path)
		if errors.Is(err, ErrNoProcess) {
			return nil
		}
		if err != nil {
			return err
		}
		inUse = pid > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return inUse, nil
}

// Pid returns the process id of the first process whose command line
// references path, or ErrNoProcess.
func (p *ProcessTable) Pid(path string) (int, error) {
	return scanProcessTable(path)
}

func scanProcessTable(path string) (int, error) {
	out, err := exec.Command("ps", "aux").Output()
	if err != nil {
		return 0, fmt.Errorf("failed to list processes: %w", err)
	}
	return parseProcessTable(out, path)
}

// parseProcessTable finds the first line of ps aux output whose command
// line contains path and returns its PID column (the second
// whitespace-delimited field).
func parseProcessTable(out []byte, path string) (int, error) {
	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if i == 0 {
			// header
			continue
		}
		if !strings.Contains(line, path) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("unparseable pid %q in process table: %w", fields[1], err)
		}
		return pid, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNoProcess, path)
}
