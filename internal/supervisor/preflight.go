package supervisor

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrPreflight reports that the interpreter could not be run at all.
var ErrPreflight = errors.New("interpreter preflight failed")

// Messages shown by the simple launch mode.
const (
	MsgNodeRequiredTitle = "Node.js required"
	MsgNodeRequiredBody  = "Node.js is required to run this application. Please install Node.js and try again."

	MsgSpawnFailedTitle = "Backend failed to start"
)

// Preflight runs "<interpreter> --version" with its output discarded. Any
// failure, including a nonzero exit, is reported as ErrPreflight.
func Preflight(interpreter string) error {
	cmd := exec.Command(interpreter, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPreflight, interpreter, err)
	}
	return nil
}
