package registry

import (
	"errors"
	"os"
	"testing"

	"github.com/jbweber/aviary/internal/paths"
)

func TestBackupDisk(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddDisk("d1", 20); err != nil {
		t.Fatalf("AddDisk() error = %v", err)
	}

	layout := tr.reg.Catalog().Layout()
	src := layout.Image(paths.KindDisk, "d1")
	if err := os.WriteFile(src, []byte("live image bytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	if err := tr.reg.BackupDisk("d1"); err != nil {
		t.Fatalf("BackupDisk() error = %v", err)
	}

	got, err := os.ReadFile(layout.BackupImage(paths.KindDisk, "d1"))
	if err != nil {
		t.Fatalf("read backup image: %v", err)
	}
	if string(got) != "live image bytes" {
		t.Errorf("backup content = %q, want the live image bytes", got)
	}

	b, ok := tr.reg.Catalog().DiskBackups["d1"]
	if !ok {
		t.Fatal("backup not recorded in catalog")
	}
	if b.SizeGB != 20 {
		t.Errorf("backup descriptor = %+v, want size 20", b)
	}
}

func TestBackupDiskRecopies(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddDisk("d1", 20); err != nil {
		t.Fatalf("AddDisk() error = %v", err)
	}
	layout := tr.reg.Catalog().Layout()
	src := layout.Image(paths.KindDisk, "d1")

	if err := os.WriteFile(src, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := tr.reg.BackupDisk("d1"); err != nil {
		t.Fatalf("first BackupDisk() error = %v", err)
	}

	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite image: %v", err)
	}
	if err := tr.reg.BackupDisk("d1"); err != nil {
		t.Fatalf("second BackupDisk() error = %v", err)
	}

	got, err := os.ReadFile(layout.BackupImage(paths.KindDisk, "d1"))
	if err != nil {
		t.Fatalf("read backup image: %v", err)
	}
	// Each call fully re-copies the current image.
	if string(got) != "v2" {
		t.Errorf("backup content = %q, want v2", got)
	}
}

func TestBackupMachine(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}
	layout := tr.reg.Catalog().Layout()
	if err := os.WriteFile(layout.Image(paths.KindMachine, "vm1"), []byte("vm bytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	if err := tr.reg.BackupMachine("vm1"); err != nil {
		t.Fatalf("BackupMachine() error = %v", err)
	}

	b, ok := tr.reg.Catalog().MachineBackups["vm1"]
	if !ok {
		t.Fatal("backup not recorded in catalog")
	}
	if b.Port != 8192 || b.SizeGB != 64 {
		t.Errorf("backup descriptor = %+v, want port 8192 size 64", b)
	}
}

func TestBackupUnknownSource(t *testing.T) {
	tr := newTestRegistry(t)

	var notFound *NotFoundError
	if err := tr.reg.BackupDisk("ghost"); !errors.As(err, &notFound) {
		t.Errorf("BackupDisk(ghost) error = %v, want *NotFoundError", err)
	}
	if err := tr.reg.BackupMachine("ghost"); !errors.As(err, &notFound) {
		t.Errorf("BackupMachine(ghost) error = %v, want *NotFoundError", err)
	}
}

func TestBackupMissingImageFile(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddDisk("d1", 20); err != nil {
		t.Fatalf("AddDisk() error = %v", err)
	}
	layout := tr.reg.Catalog().Layout()
	if err := os.Remove(layout.Image(paths.KindDisk, "d1")); err != nil {
		t.Fatalf("remove image: %v", err)
	}

	if err := tr.reg.BackupDisk("d1"); err == nil {
		t.Error("BackupDisk() succeeded with no image on disk")
	}
	if _, ok := tr.reg.Catalog().DiskBackups["d1"]; ok {
		t.Error("failed backup recorded in catalog")
	}
}
