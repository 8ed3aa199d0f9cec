package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// Output of a command execution inside a container.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Runs a command inside the container.
//
// The command is passed to the shell as a single argument via "shell -c
// command". Environment variables override the container's environment for
// this execution only; the working directory likewise applies only to this
// execution. A non-zero exit code is not treated as an error; the caller
// decides.
func (c *Container) Exec(ctx context.Context, shell, command string, env []string, workdir string) (*ExecResult, error) {
	var stdout bytes.Buffer
	exitCode, stderr, err := c.execCommand(ctx, nil, &stdout, env, workdir, shell, "-c", command)
	if err != nil {
		return nil, err
	}

	return &ExecResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr,
	}, nil
}

// Runs a command inside the container, returning the exit code and captured
// stderr.
func (c *Container) execCommand(ctx context.Context, stdin io.Reader, stdout io.Writer, env []string, workdir string, args ...string) (int, string, error) {
	var stderr bytes.Buffer
	exitCode, err := c.execProcess(ctx, execSpec{
		args:    args,
		env:     env,
		workdir: workdir,
	}, stdin, stdout, &stderr)
	if err != nil {
		return 0, "", err
	}
	return exitCode, stderr.String(), nil
}

// Everything needed to start a process inside the container: the command
// and arguments, environment overrides, and working directory.
type execSpec struct {
	args    []string
	env     []string
	workdir string
}

// Starts a process inside the running container, waits for it to exit, and
// returns the exit code.
//
// The process is attached over a hijacked connection. stdin, stdout, and
// stderr are connected to the process; nil output streams are replaced with
// io.Discard and a nil stdin is left disconnected. When stdin is provided,
// the write half of the connection is closed after the reader is exhausted
// so the process receives EOF instead of blocking forever.
func (c *Container) execProcess(ctx context.Context, spec execSpec, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	created, err := c.cli.ContainerExecCreate(ctx, c.id, container.ExecOptions{
		Cmd:          spec.args,
		Env:          spec.env,
		WorkingDir:   spec.workdir,
		AttachStdin:  stdin != nil,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	hijack, err := c.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer hijack.Close()

	if stdin != nil {
		go func() {
			io.Copy(hijack.Conn, stdin)
			hijack.CloseWrite()
		}()
	}

	if _, err := stdcopy.StdCopy(stdout, stderr, hijack.Reader); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return inspect.ExitCode, nil
}
