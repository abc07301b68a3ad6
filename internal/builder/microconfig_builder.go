package builder

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// MicroconfigBuilder shells out to the `microconfig` CLI tool to render a
// per-environment configuration tree.
type MicroconfigBuilder struct {
	// BinaryPath is the microconfig executable; defaults to "microconfig"
	// resolved via PATH when empty.
	BinaryPath string
}

func NewMicroconfig() *MicroconfigBuilder {
	return &MicroconfigBuilder{BinaryPath: "microconfig"}
}

func (b *MicroconfigBuilder) Build(ctx context.Context, environment, sourcePath, targetPath string) error {
	bin := b.BinaryPath
	if bin == "" {
		bin = "microconfig"
	}

	cmd := exec.CommandContext(ctx, bin,
		"-r", sourcePath,
		"-e", environment,
		"-d", targetPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return cperr.New(errorkind.ConfigBuildFailure, "microconfig failed for environment "+environment+": "+stderr.String())
		}
		return cperr.Wrap(errorkind.CommandReadFailure, "failed to invoke microconfig", err)
	}
	return nil
}
