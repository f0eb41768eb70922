package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jbweber/aviary/internal/lockfile"
	"github.com/jbweber/aviary/internal/monitor"
	"github.com/jbweber/aviary/internal/state"
)

// mockImager records image creations instead of running qemu-img.
type mockImager struct {
	created  []createCall
	overlays []overlayCall
	failWith error
}

type createCall struct {
	path   string
	sizeGB int
}

type overlayCall struct {
	path    string
	backing string
}

func (m *mockImager) Create(path string, sizeGB int) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.created = append(m.created, createCall{path: path, sizeGB: sizeGB})
	// Materialize an empty file so backup and seed checks see it.
	return os.WriteFile(path, []byte("qcow2"), 0o644)
}

func (m *mockImager) CreateOverlay(path, backing string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.overlays = append(m.overlays, overlayCall{path: path, backing: backing})
	return os.WriteFile(path, []byte("overlay"), 0o644)
}

// mockMonitor reports liveness from a fixed map of image paths.
type mockMonitor struct {
	inUse map[string]bool
	pids  map[string]int
}

func newMockMonitor() *mockMonitor {
	return &mockMonitor{inUse: make(map[string]bool), pids: make(map[string]int)}
}

func (m *mockMonitor) InUse(path string) (bool, error) {
	return m.inUse[path], nil
}

func (m *mockMonitor) Pid(path string) (int, error) {
	pid, ok := m.pids[path]
	if !ok {
		return 0, fmt.Errorf("%w: %s", monitor.ErrNoProcess, path)
	}
	return pid, nil
}

// mockRunner records spawned commands instead of executing them.
type mockRunner struct {
	starts       []spawnCall
	interactives []spawnCall
	failWith     error
}

type spawnCall struct {
	bin        string
	args       []string
	foreground bool
}

func (m *mockRunner) Start(bin string, args []string, foreground bool) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.starts = append(m.starts, spawnCall{bin: bin, args: args, foreground: foreground})
	return nil
}

func (m *mockRunner) Interactive(bin string, args []string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.interactives = append(m.interactives, spawnCall{bin: bin, args: args})
	return nil
}

// testRegistry bundles a registry over a fresh temp root with all
// collaborators mocked.
type testRegistry struct {
	reg    *Registry
	imager *mockImager
	mon    *mockMonitor
	runner *mockRunner
	locks  *lockfile.Manager
}

func newTestRegistry(t *testing.T) *testRegistry {
	t.Helper()

	root := filepath.Join(t.TempDir(), "aviary")
	catalog, err := state.Load(root)
	if err != nil {
		t.Fatalf("state.Load() error = %v", err)
	}

	locks := lockfile.NewManager(catalog.Layout().ScanLock())
	imager := &mockImager{}
	mon := newMockMonitor()
	runner := &mockRunner{}

	return &testRegistry{
		reg:    New(catalog, locks, mon, imager, runner),
		imager: imager,
		mon:    mon,
		runner: runner,
		locks:  locks,
	}
}
