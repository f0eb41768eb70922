package cloudinit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// UserData is the cloud-config user-data structure, marshaled to YAML
// behind a "#cloud-config" header.
type UserData struct {
	Hostname          string    `yaml:"hostname"`
	FQDN              string    `yaml:"fqdn"`
	SSHAuthorizedKeys []string  `yaml:"ssh_authorized_keys,omitempty"`
	Chpasswd          *Chpasswd `yaml:"chpasswd,omitempty"`
	SSHPasswordAuth   bool      `yaml:"ssh_pwauth"`
}

// Chpasswd configures user password settings.
type Chpasswd struct {
	Expire bool   `yaml:"expire"`
	List   string `yaml:"list"` // "username:hash"
}

// MetaData is the cloud-init meta-data structure.
type MetaData struct {
	InstanceID    string `yaml:"instance-id"`
	LocalHostname string `yaml:"local-hostname"`
}

// GenerateUserData renders the user-data document for a machine.
func GenerateUserData(machineName string, spec *Spec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("seed spec cannot be nil")
	}

	hostname := machineName
	fqdn := machineName
	if spec.FQDN != "" {
		fqdn = spec.FQDN
		hostname = strings.SplitN(fqdn, ".", 2)[0]
	}

	userData := UserData{
		Hostname:        hostname,
		FQDN:            fqdn,
		SSHPasswordAuth: false,
	}

	if len(spec.SSHKeys) > 0 {
		userData.SSHAuthorizedKeys = spec.SSHKeys
	}
	if spec.RootPasswordHash != "" {
		userData.Chpasswd = &Chpasswd{
			Expire: false,
			List:   fmt.Sprintf("root:%s", spec.RootPasswordHash),
		}
	}
	if spec.SSHPwAuth != nil {
		userData.SSHPasswordAuth = *spec.SSHPwAuth
	}

	yamlBytes, err := yaml.Marshal(&userData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user-data to YAML: %w", err)
	}

	// The #cloud-config header is required by the cloud-init format.
	return "#cloud-config\n" + string(yamlBytes), nil
}

// GenerateMetaData renders the meta-data document for a machine. Each
// call mints a fresh instance-id, so regenerating a seed re-runs
// cloud-init on the next boot.
func GenerateMetaData(machineName string) (string, error) {
	if machineName == "" {
		return "", fmt.Errorf("machine name cannot be empty")
	}

	metaData := MetaData{
		InstanceID:    uuid.New().String(),
		LocalHostname: machineName,
	}

	yamlBytes, err := yaml.Marshal(&metaData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meta-data to YAML: %w", err)
	}
	return string(yamlBytes), nil
}
