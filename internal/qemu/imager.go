package qemu

import (
	"fmt"
	"os/exec"
)

// Imager creates qcow2 images by shelling out to qemu-img. Each call
// waits for the tool to exit and surfaces a non-zero exit (with the
// tool's output) as an error.
type Imager struct{}

// Create materializes an empty qcow2 image of sizeGB gigabytes at path.
func (Imager) Create(path string, sizeGB int) error {
	cmd := exec.Command(
		ImagerBinary, "create",
		"-f", "qcow2",
		path,
		fmt.Sprintf("%dG", sizeGB),
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create image %s: %w\nOutput: %s", path, err, string(output))
	}
	return nil
}

// CreateOverlay materializes a copy-on-write qcow2 overlay at path
// whose backing file is backingPath. Reads of unwritten blocks fall
// through to the backing image.
func (Imager) CreateOverlay(path, backingPath string) error {
	cmd := exec.Command(
		ImagerBinary, "create",
		"-f", "qcow2",
		"-b", backingPath,
		"-F", "qcow2",
		path,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create overlay %s: %w\nOutput: %s", path, err, string(output))
	}
	return nil
}
