// Package shell provides the command runner adapter.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxLine bounds a single line of child output.
const maxLine = 1 << 20

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	env []string
}

// NewRunner creates a new Runner. A nil env inherits the parent environment.
func NewRunner(env []string) *Runner {
	return &Runner{env: env}
}

// Output runs the command and returns its standard output.
func (r *Runner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := r.command(ctx, name, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, commandError(err, name, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Stream runs the command and forwards its output line by line to log.
// Standard output and standard error are drained on separate goroutines
// so neither pipe can fill up and block the child.
func (r *Runner) Stream(ctx context.Context, log ports.Logger, name string, args ...string) error {
	cmd := r.command(ctx, name, args)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to open stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to open stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return commandError(err, name, "")
	}

	var g errgroup.Group
	g.Go(func() error { return drain(stdout, log.Info) })
	g.Go(func() error { return drain(stderr, log.Warn) })

	// Both pipes must reach EOF before Wait closes them.
	drainErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return commandError(err, name, "")
	}
	if drainErr != nil {
		return zerr.Wrap(drainErr, "failed to read command output")
	}
	return nil
}

func (r *Runner) command(ctx context.Context, name string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // arguments are built by adapters
	if r.env != nil {
		cmd.Env = r.env
	}
	return cmd
}

func drain(rd io.Reader, emit func(string)) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			emit(line)
		}
	}
	return sc.Err()
}

func commandError(err error, name, stderr string) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	wrapped := zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", name), "exit_code", exitCode)
	if stderr != "" {
		wrapped = zerr.With(wrapped, "stderr", stderr)
	}
	return errors.Join(domain.ErrCommandFailed, wrapped)
}
