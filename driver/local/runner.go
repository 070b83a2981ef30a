package local

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gobeaver/ufs"
)

// Runner executes an external command. stdin is fed to the process when
// non-empty.
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// privileged runs command through the backend runner. Extra flags come
// first, then -R when recursive, then operands. With a sudo credential the
// command is prefixed with "sudo -S" and the credential is written to stdin.
func (b *Backend) privileged(ctx context.Context, o *ufs.Options, command string, operands ...string) error {
	args := make([]string, 0, len(o.Args)+len(operands)+3)
	args = append(args, o.Args...)
	if o.Recursive {
		args = append(args, "-R")
	}
	args = append(args, operands...)

	if o.Sudo == "" {
		_, err := b.runner.Run(ctx, "", command, args...)
		return err
	}
	_, err := b.runner.Run(ctx, o.Sudo+"\n", "sudo", append([]string{"-S", command}, args...)...)
	return err
}
