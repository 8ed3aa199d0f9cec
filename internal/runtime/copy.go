package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
)

// Creates a directory inside the container, including parents.
func (c *Container) MkdirAll(ctx context.Context, path string) error {
	return c.mustExec(ctx, "mkdir", nil, nil, "mkdir", "-p", path)
}

// Extracts a tar stream into the container's filesystem at destDir.
//
// The destination directory must already exist.
func (c *Container) CopyTo(ctx context.Context, r io.Reader, destDir string) error {
	err := c.cli.CopyToContainer(ctx, c.id, destDir, r, container.CopyToContainerOptions{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return nil
}

// Returns a tar stream of the file or directory at path inside the
// container.
//
// The stream is rooted at the path's base name, so extracting it into a
// directory recreates the file or directory under that directory. The
// caller must close the stream.
func (c *Container) CopyFrom(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, _, err := c.cli.CopyFromContainer(ctx, c.id, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return rc, nil
}

// Helper method that runs a command inside the container, returning an error
// that includes desc if the process exits with a non-zero code.
func (c *Container) mustExec(ctx context.Context, desc string, stdin io.Reader, stdout io.Writer, args ...string) error {
	exitCode, stderr, err := c.execCommand(ctx, stdin, stdout, nil, "", args...)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return fmt.Errorf("%w: %s failed with exit code %d (%s)", ErrRuntime, desc, exitCode, stderr)
	}
	return nil
}
