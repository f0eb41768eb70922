package cloudinit

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGenerateUserData(t *testing.T) {
	tests := []struct {
		name     string
		machine  string
		spec     *Spec
		wantErr  bool
		contains []string
		excludes []string
	}{
		{
			name:    "full spec",
			machine: "web01",
			spec: &Spec{
				FQDN:             "web01.example.com",
				SSHKeys:          []string{testSSHKey},
				RootPasswordHash: "$6$rounds=4096$salt$hash",
				SSHPwAuth:        ptrBool(true),
			},
			contains: []string{
				"#cloud-config\n",
				"hostname: web01",
				"fqdn: web01.example.com",
				"ssh-ed25519",
				"root:$6$rounds=4096$salt$hash",
				"ssh_pwauth: true",
			},
		},
		{
			name:    "minimal spec defaults hostname to machine name",
			machine: "db01",
			spec:    &Spec{},
			contains: []string{
				"hostname: db01",
				"fqdn: db01",
				"ssh_pwauth: false",
			},
			excludes: []string{
				"ssh_authorized_keys",
				"chpasswd",
			},
		},
		{
			name:    "hostname derived from FQDN first label",
			machine: "scratch",
			spec:    &Spec{FQDN: "build.internal.example.com"},
			contains: []string{
				"hostname: build",
				"fqdn: build.internal.example.com",
			},
		},
		{
			name:    "nil spec",
			machine: "web01",
			spec:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateUserData(tt.machine, tt.spec)

			if tt.wantErr {
				if err == nil {
					t.Fatal("GenerateUserData() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateUserData() unexpected error: %v", err)
			}

			if !strings.HasPrefix(got, "#cloud-config\n") {
				t.Errorf("user-data missing #cloud-config header:\n%s", got)
			}

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("user-data missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("user-data should not contain %q:\n%s", unwanted, got)
				}
			}

			// The body after the header must parse as YAML.
			body := strings.TrimPrefix(got, "#cloud-config\n")
			var parsed map[string]interface{}
			if err := yaml.Unmarshal([]byte(body), &parsed); err != nil {
				t.Errorf("user-data body is not valid YAML: %v", err)
			}
		})
	}
}

func TestGenerateMetaData(t *testing.T) {
	got, err := GenerateMetaData("web01")
	if err != nil {
		t.Fatalf("GenerateMetaData() unexpected error: %v", err)
	}

	var parsed MetaData
	if err := yaml.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("meta-data is not valid YAML: %v", err)
	}

	if parsed.LocalHostname != "web01" {
		t.Errorf("local-hostname = %q, want %q", parsed.LocalHostname, "web01")
	}
	if len(parsed.InstanceID) != 36 {
		t.Errorf("instance-id = %q, want a UUID", parsed.InstanceID)
	}
}

func TestGenerateMetaData_FreshInstanceID(t *testing.T) {
	first, err := GenerateMetaData("web01")
	if err != nil {
		t.Fatalf("GenerateMetaData() unexpected error: %v", err)
	}
	second, err := GenerateMetaData("web01")
	if err != nil {
		t.Fatalf("GenerateMetaData() unexpected error: %v", err)
	}
	if first == second {
		t.Error("GenerateMetaData() should mint a fresh instance-id per call")
	}
}

func TestGenerateMetaData_EmptyName(t *testing.T) {
	if _, err := GenerateMetaData(""); err == nil {
		t.Error("GenerateMetaData() expected error for empty machine name")
	}
}

func ptrBool(b bool) *bool {
	return &b
}
