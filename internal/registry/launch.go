package registry

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"syscall"

	"github.com/jbweber/aviary/internal/monitor"
	"github.com/jbweber/aviary/internal/paths"
	"github.com/jbweber/aviary/internal/qemu"
)

// StartOptions carries the runtime parameters for one hypervisor
// launch.
type StartOptions struct {
	Cores int
	RAMGB int

	// Foreground ties aviary's lifetime to the child's: the exclusive
	// claims on the machine and its disks are held until the child
	// exits. Background launches detach instead and rely on the
	// process-table probe to report the running instance.
	Foreground bool

	// Disks are names of registered disks to attach.
	Disks []string

	// InstallISO, when non-empty, is attached as the boot CD-ROM.
	InstallISO string

	// Snapshot selects the snapshot catalog instead of machines.
	Snapshot bool
}

// Start launches the hypervisor for a machine or snapshot. Every
// attached disk is probed first; contention on any of them aborts the
// launch before a process is spawned.
func (r *Registry) Start(name string, opts StartOptions) error {
	var imagePath string
	var port int
	var kind paths.Kind

	if opts.Snapshot {
		s, err := r.Snapshot(name)
		if err != nil {
			return err
		}
		imagePath = r.layout.Image(paths.KindSnapshot, s.Name)
		port = s.Port
		kind = paths.KindSnapshot
	} else {
		m, err := r.Machine(name)
		if err != nil {
			return err
		}
		imagePath = r.layout.Image(paths.KindMachine, m.Name)
		port = m.Port
		kind = paths.KindMachine
	}

	spec := qemu.RunSpec{
		ImagePath:  imagePath,
		Port:       port,
		Cores:      opts.Cores,
		RAMGB:      opts.RAMGB,
		InstallISO: opts.InstallISO,
	}

	for _, disk := range opts.Disks {
		inUse, err := r.DiskInUse(disk)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Kind: paths.KindDisk, Name: disk}
		}
		spec.DiskPaths = append(spec.DiskPaths, r.layout.Image(paths.KindDisk, disk))
	}

	// A seed image generated at add time rides along on every boot.
	if !opts.Snapshot {
		if seed := r.layout.SeedImage(name); fileExists(seed) {
			spec.SeedISO = seed
		}
	}

	args, err := qemu.BuildRunArgs(spec, os.Getenv(qemu.UEFIPathEnv))
	if err != nil {
		return err
	}

	if !opts.Foreground {
		return r.runner.Start(qemu.RunnerBinary(), args, false)
	}

	// Foreground: claim the boot image and every attached disk for the
	// child's lifetime.
	var guards []releaser
	release := func() error {
		var relErr error
		for i := len(guards) - 1; i >= 0; i-- {
			if err := guards[i].Release(); err != nil && relErr == nil {
				relErr = err
			}
		}
		return relErr
	}

	claim := func(k paths.Kind, n string) error {
		guard, err := r.locks.Acquire(r.layout.LockFile(k, n))
		if err != nil {
			return fmt.Errorf("%s %s: %w", k, n, err)
		}
		guards = append(guards, guard)
		return nil
	}

	if err := claim(kind, name); err != nil {
		return err
	}
	for _, disk := range opts.Disks {
		if err := claim(paths.KindDisk, disk); err != nil {
			_ = release()
			return err
		}
	}

	runErr := r.runner.Start(qemu.RunnerBinary(), args, true)
	if relErr := release(); runErr == nil {
		runErr = relErr
	}
	return runErr
}

// Stop finds the running process whose command line references the
// resource's image and sends it SIGTERM. Best-effort and
// fire-and-forget: the process table can change between the probe and
// the signal, and termination is not awaited or verified.
func (r *Registry) Stop(name string, snapshot bool) error {
	kind := paths.KindMachine
	var inUse bool
	var err error
	if snapshot {
		kind = paths.KindSnapshot
		inUse, err = r.SnapshotInUse(name)
	} else {
		inUse, err = r.MachineInUse(name)
	}
	if err != nil {
		return err
	}
	if !inUse {
		return &NotInUseError{Kind: kind, Name: name}
	}

	pid, err := r.mon.Pid(r.layout.Image(kind, name))
	if errors.Is(err, monitor.ErrNoProcess) {
		return &NotInUseError{Kind: kind, Name: name}
	}
	if err != nil {
		return err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}
	return nil
}

// ConnectOptions carries the login-client parameters.
type ConnectOptions struct {
	// Username defaults to the invoking OS user when empty.
	Username string

	// ForwardKeys enables SSH agent forwarding.
	ForwardKeys bool

	// Snapshot selects the snapshot catalog instead of machines.
	Snapshot bool
}

// Connect spawns the login client against the resource's forwarded
// port, attached to the caller's terminal, and waits for it to exit.
func (r *Registry) Connect(name string, opts ConnectOptions) error {
	var port int
	if opts.Snapshot {
		s, err := r.Snapshot(name)
		if err != nil {
			return err
		}
		port = s.Port
	} else {
		m, err := r.Machine(name)
		if err != nil {
			return err
		}
		port = m.Port
	}

	username := opts.Username
	if username == "" {
		u, err := user.Current()
		if err != nil {
			return fmt.Errorf("failed to resolve current user: %w", err)
		}
		username = u.Username
	}

	args := qemu.BuildConnectArgs(port, username, opts.ForwardKeys)
	return r.runner.Interactive(qemu.ConnectBinary, args)
}

type releaser interface {
	Release() error
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
