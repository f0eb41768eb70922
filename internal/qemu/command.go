// Package qemu owns the process boundary to the hypervisor binaries:
// the qemu-system argument template, the qemu-img image tool, and image
// format detection. Command assembly is pure so the exact argument
// vectors can be tested without spawning anything.
package qemu

import (
	"errors"
	"fmt"
	"runtime"
)

// UEFIPathEnv names the required environment variable supplying the
// firmware image passed to -bios.
const UEFIPathEnv = "AVIARY_UEFI_PATH"

// ErrUEFIPathNotSet reports that UEFIPathEnv is unset or empty.
var ErrUEFIPathNotSet = errors.New(UEFIPathEnv + " is not set")

// RunnerBinary returns the qemu-system executable name for the host
// architecture.
func RunnerBinary() string {
	switch runtime.GOARCH {
	case "amd64":
		return "qemu-system-x86_64"
	case "arm64":
		return "qemu-system-aarch64"
	case "arm":
		return "qemu-system-arm"
	case "ppc64", "ppc64le":
		return "qemu-system-ppc64"
	case "mips", "mipsle":
		return "qemu-system-mips"
	default:
		return "qemu-system-" + runtime.GOARCH
	}
}

// ImagerBinary is the qemu image tool executable name.
const ImagerBinary = "qemu-img"

// RunSpec describes one hypervisor launch: the primary image, its
// forwarded SSH port, the machine topology, and any secondary media.
type RunSpec struct {
	// ImagePath is the primary boot image (machine or snapshot qcow2).
	ImagePath string

	// Port is the host TCP port forwarded to the guest's port 22.
	Port int

	// Cores and RAMGB set the machine topology.
	Cores int
	RAMGB int

	// DiskPaths are secondary qcow2 images attached as data disks.
	DiskPaths []string

	// InstallISO, when non-empty, is attached as the boot CD-ROM.
	InstallISO string

	// SeedISO, when non-empty, is attached as a cloud-init seed
	// CD-ROM drive.
	SeedISO string
}

// BuildRunArgs assembles the fixed qemu-system argument template for
// spec. The template must match exactly for the guest to boot with the
// expected acceleration and device configuration; do not reorder.
func BuildRunArgs(spec RunSpec, uefiPath string) ([]string, error) {
	if uefiPath == "" {
		return nil, ErrUEFIPathNotSet
	}

	args := []string{
		"-M", "virt,highmem=on",
		"-accel", "hvf",
		"-cpu", "host",
		"-smp", fmt.Sprintf("%d", spec.Cores),
		"-m", fmt.Sprintf("%dG", spec.RAMGB),
		"-bios", uefiPath,
		"-drive", fmt.Sprintf("file=%s,if=none,cache=writethrough,id=hd0", spec.ImagePath),
		"-device", "virtio-gpu-pci",
		"-device", "virtio-blk-device,drive=hd0",
		"-net", fmt.Sprintf("user,hostfwd=tcp::%d-:22", spec.Port),
		"-net", "nic",
		"-nographic",
	}

	for _, disk := range spec.DiskPaths {
		args = append(args, "-drive", fmt.Sprintf("file=%s,format=qcow2,media=disk", disk))
	}

	if spec.InstallISO != "" {
		args = append(args, "-cdrom", spec.InstallISO)
	}

	if spec.SeedISO != "" {
		args = append(args, "-drive", fmt.Sprintf("file=%s,media=cdrom", spec.SeedISO))
	}

	return args, nil
}

// BuildConnectArgs assembles the login-client argument vector:
// [-A] -p <port> <user>@localhost.
func BuildConnectArgs(port int, username string, forwardKeys bool) []string {
	var args []string
	if forwardKeys {
		args = append(args, "-A")
	}
	return append(args, "-p", fmt.Sprintf("%d", port), username+"@localhost")
}

// ConnectBinary is the login client executable name.
const ConnectBinary = "ssh"
