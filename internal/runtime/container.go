package runtime

import (
	"context"
	"log/slog"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// A build container managed through the Docker Engine.
type Container struct {
	cli      *client.Client    // Docker API client.
	id       string            // Container name, unique per build stage.
	platform *ocispec.Platform // Target platform, nil for the engine default.
}

// Returns the container's name.
func (c *Container) ID() string {
	return c.id
}

// Removes the container and its resources.
//
// A running container is killed rather than waited for. After destruction
// the handle is invalid.
func (c *Container) Destroy(ctx context.Context) {
	err := c.cli.ContainerRemove(ctx, c.id, container.RemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		slog.Warn("failed to remove container during destruction", "id", c.id, "error", err)
	}
}

// Creates the container with the standard build configuration.
//
// The image's own entrypoint and command are replaced with a parked
// process so the container stays alive for the duration of the build. The
// container shares the host network so package installs resolve the same
// way they would on the host.
func (c *Container) create(ctx context.Context, ref string) error {
	_, err := c.cli.ContainerCreate(ctx,
		&container.Config{
			Image:      ref,
			Entrypoint: strslice.StrSlice{"sleep"},
			Cmd:        strslice.StrSlice{"infinity"},
		},
		&container.HostConfig{
			NetworkMode: "host",
		},
		nil, c.platform, c.id,
	)
	return err
}

// Starts the container's parked process.
func (c *Container) start(ctx context.Context) error {
	return c.cli.ContainerStart(ctx, c.id, container.StartOptions{})
}

// Removes an existing container with this name, if one exists.
func (c *Container) remove(ctx context.Context) {
	err := c.cli.ContainerRemove(ctx, c.id, container.RemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		slog.Debug("stale container removal", "id", c.id, "error", err)
	}
}
