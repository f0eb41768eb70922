package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsNormalize(t *testing.T) {
	d := &Defaults{}
	d.Normalize()

	if d.Cores != DefaultCores {
		t.Errorf("Cores = %d, want %d", d.Cores, DefaultCores)
	}
	if d.RAMGB != DefaultRAMGB {
		t.Errorf("RAMGB = %d, want %d", d.RAMGB, DefaultRAMGB)
	}
	if d.SizeGB != DefaultSizeGB {
		t.Errorf("SizeGB = %d, want %d", d.SizeGB, DefaultSizeGB)
	}
	if d.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", d.Port, DefaultPort)
	}
	if d.SSHUser != "" {
		t.Errorf("SSHUser = %q, want empty", d.SSHUser)
	}
}

func TestDefaultsNormalize_KeepsExplicitValues(t *testing.T) {
	d := &Defaults{Cores: 2, RAMGB: 4, SizeGB: 20, Port: 2322, SSHUser: " admin "}
	d.Normalize()

	if d.Cores != 2 || d.RAMGB != 4 || d.SizeGB != 20 || d.Port != 2322 {
		t.Errorf("Normalize() overwrote explicit values: %+v", d)
	}
	if d.SSHUser != "admin" {
		t.Errorf("SSHUser = %q, want %q", d.SSHUser, "admin")
	}
}

func TestDefaultsValidate(t *testing.T) {
	tests := []struct {
		name     string
		defaults Defaults
		wantErr  bool
	}{
		{
			name:     "zero values are valid",
			defaults: Defaults{},
		},
		{
			name:     "full explicit values",
			defaults: Defaults{Cores: 8, RAMGB: 16, SizeGB: 100, Port: 2222, SSHUser: "admin"},
		},
		{
			name:     "negative cores",
			defaults: Defaults{Cores: -1},
			wantErr:  true,
		},
		{
			name:     "negative ram",
			defaults: Defaults{RAMGB: -4},
			wantErr:  true,
		},
		{
			name:     "port out of range",
			defaults: Defaults{Port: 70000},
			wantErr:  true,
		},
		{
			name:     "ssh user with whitespace",
			defaults: Defaults{SSHUser: "bad user"},
			wantErr:  true,
		},
		{
			name:     "ssh user with at sign",
			defaults: Defaults{SSHUser: "user@host"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.defaults.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields built-in defaults", func(t *testing.T) {
		d, err := Load(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if d.Cores != DefaultCores || d.Port != DefaultPort {
			t.Errorf("Load() missing file = %+v, want built-in defaults", d)
		}
	})

	t.Run("partial file keeps fallbacks for omitted fields", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		if err := os.WriteFile(path, []byte("cores: 2\nssh_user: admin\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		d, err := Load(path)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if d.Cores != 2 {
			t.Errorf("Cores = %d, want 2", d.Cores)
		}
		if d.SSHUser != "admin" {
			t.Errorf("SSHUser = %q, want %q", d.SSHUser, "admin")
		}
		if d.RAMGB != DefaultRAMGB {
			t.Errorf("RAMGB = %d, want fallback %d", d.RAMGB, DefaultRAMGB)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("cores: [oops"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() expected error for malformed YAML")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(path, []byte("port: 123456\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() expected error for out-of-range port")
		}
	})
}
