package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/opencontainers/go-digest"
)

// Commits the container's filesystem as a new image under the given
// reference.
//
// Change directives (ENV, WORKDIR, ENTRYPOINT, CMD in Dockerfile syntax)
// are applied to the image configuration during the commit, so metadata
// accumulated during a build lands in the image without another layer.
// Returns the content digest of the committed image.
func (c *Container) Commit(ctx context.Context, ref string, changes []string) (string, error) {
	resp, err := c.cli.ContainerCommit(ctx, c.id, container.CommitOptions{
		Reference: ref,
		Pause:     true,
		Changes:   changes,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	id, err := digest.Parse(resp.ID)
	if err != nil {
		return "", fmt.Errorf("%w: engine returned malformed image ID %q: %w", ErrRuntime, resp.ID, err)
	}

	slog.Debug("container committed", "id", c.id, "image", ref, "digest", id.String())

	return id.String(), nil
}
