package cloudinit

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kdomanski/iso9660"
)

// GenerateISO creates a cloud-init NoCloud seed image for a machine.
//
// The generated ISO contains two files in the root directory:
//   - user-data: Cloud-config YAML with hostname, SSH keys, passwords
//   - meta-data: Instance metadata (instance-id, local-hostname)
//
// No network-config is included; guests run on user-mode networking
// and configure themselves via DHCP.
//
// The ISO volume label is set to "CIDATA" as required by the cloud-init
// NoCloud datasource.
//
// See https://cloudinit.readthedocs.io/en/latest/reference/datasources/nocloud.html
func GenerateISO(machineName string, spec *Spec) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("seed spec cannot be nil")
	}

	userData, err := GenerateUserData(machineName, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user-data: %w", err)
	}

	metaData, err := GenerateMetaData(machineName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meta-data: %w", err)
	}

	writer, err := iso9660.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create ISO writer: %w", err)
	}
	defer func() {
		// Cleanup errors are ignored since the ISO has already been
		// generated by the time this runs.
		_ = writer.Cleanup()
	}()

	if err := writer.AddFile(bytes.NewReader([]byte(userData)), "user-data"); err != nil {
		return nil, fmt.Errorf("failed to add user-data: %w", err)
	}

	if err := writer.AddFile(bytes.NewReader([]byte(metaData)), "meta-data"); err != nil {
		return nil, fmt.Errorf("failed to add meta-data: %w", err)
	}

	var buf bytes.Buffer

	// The volume identifier must be uppercase CIDATA per the NoCloud
	// specification.
	if err := writer.WriteTo(&buf, "CIDATA"); err != nil {
		return nil, fmt.Errorf("failed to write ISO image: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteSeedImage generates the seed ISO for a machine and writes it to
// the given path.
func WriteSeedImage(path, machineName string, spec *Spec) error {
	data, err := GenerateISO(machineName, spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write seed image: %w", err)
	}
	return nil
}
