// Package config loads the optional defaults file from the aviary
// root directory. Every field has a built-in fallback, so a missing
// config.yaml is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the defaults file name inside the aviary root.
const FileName = "config.yaml"

// Built-in fallbacks, applied by Normalize for any field left zero.
const (
	DefaultCores  = 4
	DefaultRAMGB  = 8
	DefaultSizeGB = 40
	DefaultPort   = 2222
)

// Defaults holds user-tunable defaults for machine creation and runs.
type Defaults struct {
	// Cores is the vCPU count a run uses when not overridden.
	Cores int `yaml:"cores,omitempty"`

	// RAMGB is the memory in GiB a run uses when not overridden.
	RAMGB int `yaml:"ram_gb,omitempty"`

	// SizeGB is the image size used when an add omits one.
	SizeGB int `yaml:"size_gb,omitempty"`

	// Port is the host SSH forward port used when an add omits one.
	Port int `yaml:"port,omitempty"`

	// SSHUser is the login name connect uses when not overridden.
	// Empty means the current OS user.
	SSHUser string `yaml:"ssh_user,omitempty"`
}

// Normalize fills in built-in fallbacks and sanitizes user input.
// Called automatically by Load before validation.
func (d *Defaults) Normalize() {
	d.SSHUser = strings.TrimSpace(d.SSHUser)

	if d.Cores == 0 {
		d.Cores = DefaultCores
	}
	if d.RAMGB == 0 {
		d.RAMGB = DefaultRAMGB
	}
	if d.SizeGB == 0 {
		d.SizeGB = DefaultSizeGB
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
}

// Validate checks the defaults for errors.
func (d *Defaults) Validate() error {
	if d.Cores < 0 {
		return fmt.Errorf("cores must be > 0, got %d", d.Cores)
	}
	if d.RAMGB < 0 {
		return fmt.Errorf("ram_gb must be > 0, got %d", d.RAMGB)
	}
	if d.SizeGB < 0 {
		return fmt.Errorf("size_gb must be > 0, got %d", d.SizeGB)
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("port must be in range 1-65535, got %d", d.Port)
	}
	if strings.ContainsAny(d.SSHUser, " \t@") {
		return fmt.Errorf("ssh_user must not contain whitespace or @, got %q", d.SSHUser)
	}
	return nil
}

// Load reads the defaults file at path. A missing file yields the
// built-in defaults.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := &Defaults{}
			d.Normalize()
			return d, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	d.Normalize()

	return &d, nil
}
