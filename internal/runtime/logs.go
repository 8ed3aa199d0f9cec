package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// Fetches the last tail lines of a container's output.
//
// Stdout and stderr are combined into a single string in the order the
// engine recorded them, matching what "docker logs" prints.
func (rt *Runtime) TailLogs(ctx context.Context, id string, tail int) (string, error) {
	info, err := rt.cli.ContainerInspect(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	tty := info.Config != nil && info.Config.Tty

	rc, err := rt.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer rc.Close()

	out, err := readLogs(rc, tty)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return out, nil
}

// Collects a log stream into a single string.
//
// Containers without a TTY produce a multiplexed stream with a framing
// header per chunk; both channels are demultiplexed into one buffer in
// arrival order. TTY containers produce a raw stream, copied as-is.
func readLogs(r io.Reader, tty bool) (string, error) {
	var buf bytes.Buffer

	if tty {
		if _, err := io.Copy(&buf, r); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	if _, err := stdcopy.StdCopy(&buf, &buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
