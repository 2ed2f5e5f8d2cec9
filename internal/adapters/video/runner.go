package video

import (
	"bytes"
	"context"
	"os/exec"
)

// ExecRunner runs processes with os/exec. The process is killed when the
// context is cancelled.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.Bytes(), err
}
