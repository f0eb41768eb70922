package registry

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecRunner is the production Runner: it spawns real child processes
// with os/exec.
type ExecRunner struct{}

// Start spawns bin with args. Foreground launches inherit the caller's
// stdio and block until the child exits; background launches discard
// stdout and return as soon as the child is running, leaving it
// independent of aviary's process lifetime.
func (ExecRunner) Start(bin string, args []string, foreground bool) error {
	cmd := exec.Command(bin, args...)

	if foreground {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s failed: %w", bin, err)
		}
		return nil
	}

	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", bin, err)
	}
	return nil
}

// Interactive spawns bin attached to the caller's terminal and waits
// for it to exit.
func (ExecRunner) Interactive(bin string, args []string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", bin, err)
	}
	return nil
}
