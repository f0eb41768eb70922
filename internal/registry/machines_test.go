package registry

import (
	"errors"
	"testing"

	"github.com/jbweber/aviary/internal/paths"
)

func TestAddMachine(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}

	m, err := tr.reg.Machine("vm1")
	if err != nil {
		t.Fatalf("Machine() error = %v", err)
	}
	if m.Port != 8192 || m.SizeGB != 64 {
		t.Errorf("Machine() = %+v, want port 8192 size 64", m)
	}

	if len(tr.imager.created) != 1 {
		t.Fatalf("imager called %d times, want 1", len(tr.imager.created))
	}
	want := tr.reg.Catalog().Layout().Image(paths.KindMachine, "vm1")
	if tr.imager.created[0].path != want {
		t.Errorf("image created at %s, want %s", tr.imager.created[0].path, want)
	}
}

func TestAddMachineDuplicate(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}

	err := tr.reg.AddMachine("vm1", 9000, 32)
	var exists *ExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("duplicate AddMachine() error = %v, want *ExistsError", err)
	}

	m, _ := tr.reg.Machine("vm1")
	if m.Port != 8192 || m.SizeGB != 64 {
		t.Errorf("duplicate add mutated descriptor: %+v", m)
	}
}

func TestAddMachinePortTaken(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine(vm1) error = %v", err)
	}

	err := tr.reg.AddMachine("vm2", 8192, 32)
	var taken *PortTakenError
	if !errors.As(err, &taken) {
		t.Fatalf("AddMachine(vm2) error = %v, want *PortTakenError", err)
	}
	if taken.Port != 8192 || taken.Machine != "vm1" {
		t.Errorf("PortTakenError = %+v, want port 8192 machine vm1", taken)
	}

	if _, err := tr.reg.Machine("vm2"); err == nil {
		t.Error("port conflict still registered vm2")
	}

	// A different port is fine.
	if err := tr.reg.AddMachine("vm2", 8193, 32); err != nil {
		t.Errorf("AddMachine(vm2, 8193) error = %v", err)
	}
}

func TestRemoveMachineInUse(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}
	img := tr.reg.Catalog().Layout().Image(paths.KindMachine, "vm1")
	tr.mon.inUse[img] = true

	err := tr.reg.RemoveMachine("vm1")
	var inUse *InUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("RemoveMachine() error = %v, want *InUseError", err)
	}
	if _, err := tr.reg.Machine("vm1"); err != nil {
		t.Errorf("Machine(vm1) error = %v, want still registered", err)
	}
}

func TestRemoveMachineFreesPort(t *testing.T) {
	tr := newTestRegistry(t)

	if err := tr.reg.AddMachine("vm1", 8192, 64); err != nil {
		t.Fatalf("AddMachine() error = %v", err)
	}
	if err := tr.reg.RemoveMachine("vm1"); err != nil {
		t.Fatalf("RemoveMachine() error = %v", err)
	}

	// Removal releases the port for reuse.
	if err := tr.reg.AddMachine("vm2", 8192, 32); err != nil {
		t.Errorf("AddMachine(vm2) after removal error = %v", err)
	}
}
