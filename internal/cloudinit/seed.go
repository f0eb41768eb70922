// Package cloudinit generates NoCloud seed images for machine
// provisioning: a user-data/meta-data pair wrapped in an ISO9660 image
// that qemu attaches as a CD-ROM drive.
//
// See https://cloudinit.readthedocs.io/en/latest/reference/datasources/nocloud.html
package cloudinit

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
	"gopkg.in/yaml.v3"
)

// Spec is the user-supplied seed specification, loaded from a YAML
// file at machine-add time.
type Spec struct {
	// FQDN sets the guest's fully qualified domain name. The hostname
	// is everything before the first dot. Defaults to the machine name.
	FQDN string `yaml:"fqdn,omitempty"`

	// SSHKeys are authorized public keys installed for the default
	// user.
	SSHKeys []string `yaml:"ssh_keys,omitempty"`

	// RootPasswordHash is a crypt(5) hash set as the root password.
	RootPasswordHash string `yaml:"root_password_hash,omitempty"`

	// SSHPwAuth enables SSH password authentication. Pointer to
	// distinguish unset from false.
	SSHPwAuth *bool `yaml:"ssh_pwauth,omitempty"`
}

// LoadSpec reads and validates a seed specification from path.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed spec %s: %w", path, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed spec: %w", err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the spec for errors a guest would only hit at first
// boot.
func (s *Spec) Validate() error {
	for i, key := range s.SSHKeys {
		// ParseAuthorizedKey handles all standard SSH key types.
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
			return fmt.Errorf("ssh_keys[%d] is not a valid SSH public key: %w", i, err)
		}
	}

	if s.RootPasswordHash != "" {
		if len(s.RootPasswordHash) < 10 || s.RootPasswordHash[0] != '$' {
			return fmt.Errorf("root_password_hash must be a valid crypt hash (should start with $)")
		}
	}

	if s.FQDN != "" && strings.ContainsAny(s.FQDN, " \t") {
		return fmt.Errorf("fqdn must not contain whitespace, got %q", s.FQDN)
	}

	return nil
}
