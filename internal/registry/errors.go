package registry

import (
	"fmt"

	"github.com/jbweber/aviary/internal/paths"
)

// NotFoundError reports an operation on an unregistered resource name.
type NotFoundError struct {
	Kind paths.Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Name)
}

// ExistsError reports an add for a name that is already registered.
// aviary refuses rather than silently overwriting attributes.
type ExistsError struct {
	Kind paths.Kind
	Name string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s exists: %s", e.Kind, e.Name)
}

// InUseError reports that a resource's image is referenced by a running
// hypervisor process, so the requested operation was refused.
type InUseError struct {
	Kind paths.Kind
	Name string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s in use: %s", e.Kind, e.Name)
}

// NotInUseError reports a stop on a resource with no running process.
type NotInUseError struct {
	Kind paths.Kind
	Name string
}

func (e *NotInUseError) Error() string {
	return fmt.Sprintf("%s not in use: %s", e.Kind, e.Name)
}

// PortTakenError reports an add-machine whose host port is already
// assigned to another machine. Two machines on one port would fail to
// bind only at launch time; aviary refuses at registration instead.
type PortTakenError struct {
	Port    int
	Machine string
}

func (e *PortTakenError) Error() string {
	return fmt.Sprintf("port %d already assigned to machine %s", e.Port, e.Machine)
}
