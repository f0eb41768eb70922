// Package state owns the persisted aviary catalog: the full set of
// disk, machine, snapshot, and backup descriptors, stored as a single
// human-editable YAML document under the tool's root directory.
//
// The catalog has no lifecycle beyond the invoking process: each aviary
// run loads it once, performs one operation, and saves it back when the
// operation mutated anything. Load/save are not synchronized between
// concurrent invocations; the later save wins.
package state

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/aviary/internal/paths"
)

// Catalog is the aggregate of all registered resources, keyed by name.
// Every map key equals the Name field of its value.
type Catalog struct {
	Disks          map[string]Disk     `yaml:"disks"`
	Machines       map[string]Machine  `yaml:"machines"`
	Snapshots      map[string]Snapshot `yaml:"snapshots"`
	DiskBackups    map[string]Disk     `yaml:"disk_backups"`
	MachineBackups map[string]Machine  `yaml:"machine_backups"`

	layout paths.Layout
}

// Layout returns the directory layout the catalog was loaded from.
func (c *Catalog) Layout() paths.Layout {
	return c.layout
}

// New returns an empty catalog rooted at root, creating the directory
// skeleton if it does not exist yet.
func New(root string) (*Catalog, error) {
	c := &Catalog{
		Disks:          make(map[string]Disk),
		Machines:       make(map[string]Machine),
		Snapshots:      make(map[string]Snapshot),
		DiskBackups:    make(map[string]Disk),
		MachineBackups: make(map[string]Machine),
		layout:         paths.NewLayout(root),
	}
	if err := c.setup(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) setup() error {
	for _, dir := range c.layout.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads the catalog document from root, initializing an empty
// catalog (and the directory skeleton) on first run.
func Load(root string) (*Catalog, error) {
	c, err := New(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.layout.StateFile())
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}

	// A hand-edited document may omit whole sections; keep the maps
	// non-nil so insertions never panic.
	if c.Disks == nil {
		c.Disks = make(map[string]Disk)
	}
	if c.Machines == nil {
		c.Machines = make(map[string]Machine)
	}
	if c.Snapshots == nil {
		c.Snapshots = make(map[string]Snapshot)
	}
	if c.DiskBackups == nil {
		c.DiskBackups = make(map[string]Disk)
	}
	if c.MachineBackups == nil {
		c.MachineBackups = make(map[string]Machine)
	}

	return c, nil
}

// Save serializes the full catalog and overwrites the state document.
// Not transactional: a crash mid-write can corrupt the document.
func (c *Catalog) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(c.layout.StateFile(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// SortedDisks returns all disks ordered by name, restricted to the
// given names when filter is non-empty.
func (c *Catalog) SortedDisks(filter ...string) []Disk {
	out := make([]Disk, 0, len(c.Disks))
	for _, d := range c.Disks {
		if matchFilter(d.Name, filter) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SortedMachines returns all machines ordered by name, restricted to
// the given names when filter is non-empty.
func (c *Catalog) SortedMachines(filter ...string) []Machine {
	out := make([]Machine, 0, len(c.Machines))
	for _, m := range c.Machines {
		if matchFilter(m.Name, filter) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SortedSnapshots returns all snapshots ordered by name, restricted to
// the given names when filter is non-empty.
func (c *Catalog) SortedSnapshots(filter ...string) []Snapshot {
	out := make([]Snapshot, 0, len(c.Snapshots))
	for _, s := range c.Snapshots {
		if matchFilter(s.Name, filter) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SortedDiskBackups returns all disk backups ordered by name.
func (c *Catalog) SortedDiskBackups() []Disk {
	out := make([]Disk, 0, len(c.DiskBackups))
	for _, d := range c.DiskBackups {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SortedMachineBackups returns all machine backups ordered by name.
func (c *Catalog) SortedMachineBackups() []Machine {
	out := make([]Machine, 0, len(c.MachineBackups))
	for _, m := range c.MachineBackups {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func matchFilter(name string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == name {
			return true
		}
	}
	return false
}
