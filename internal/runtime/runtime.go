package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stringid"
)

// Manages the Docker Engine client and provides image and container
// operations.
type Runtime struct {
	cli *client.Client // Docker API client.
}

// A container as reported by the engine, reduced to the fields the rest of
// the daemon cares about.
type Summary struct {
	ID      string // Full container ID.
	Name    string // Primary name without the leading slash.
	Image   string // Image reference the container was created from.
	Command string // Command the container runs.
	Status  string // Human-readable status line, e.g. "Up 3 hours".
}

// Creates a runtime connected to the Docker Engine at the given host.
//
// An empty host falls back to the environment (DOCKER_HOST and friends) and
// then the platform default socket. The API version is negotiated with the
// engine so the client works against older daemons. The runtime must be
// closed when no longer needed.
func New(host string) (*Runtime, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	return &Runtime{cli: cli}, nil
}

// Closes the client connection.
func (rt *Runtime) Close() error {
	return rt.cli.Close()
}

// Verifies that the engine is reachable.
func (rt *Runtime) Ping(ctx context.Context) error {
	if _, err := rt.cli.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return nil
}

// Lists all containers, running or not.
//
// Containers the engine reports with missing fields are skipped with a
// warning rather than failing the whole listing.
func (rt *Runtime) ListContainers(ctx context.Context) ([]Summary, error) {
	list, err := rt.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	summaries := make([]Summary, 0, len(list))
	for _, ctr := range list {
		s, ok := summarize(ctr)
		if !ok {
			slog.Warn("skipping container with missing fields", "id", ShortID(ctr.ID))
			continue
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// Reduces an engine container record to a [Summary].
//
// Reports false when the record is missing one of the required fields.
func summarize(ctr container.Summary) (Summary, bool) {
	if ctr.ID == "" || len(ctr.Names) == 0 || ctr.Image == "" || ctr.Command == "" || ctr.Status == "" {
		return Summary{}, false
	}
	return Summary{
		ID:      ctr.ID,
		Name:    strings.TrimPrefix(ctr.Names[0], "/"),
		Image:   ctr.Image,
		Command: ctr.Command,
		Status:  ctr.Status,
	}, true
}

// Pulls an image from its registry, blocking until the pull completes.
//
// The progress stream is consumed so that errors reported mid-pull (missing
// tags, auth failures) surface instead of being silently dropped.
func (rt *Runtime) pullImage(ctx context.Context, ref, platform string) error {
	rc, err := rt.cli.ImagePull(ctx, ref, image.PullOptions{Platform: platform})
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(rc, io.Discard, 0, false, nil); err != nil {
		return err
	}

	slog.Debug("image pulled", "ref", ref)
	return nil
}

// Pulls an image and starts a parked build container from it.
//
// The container runs detached with a long-running process (sleep infinity)
// so that subsequent Exec calls have something to attach to. Any existing
// container with the same name is removed first. An empty platform uses the
// engine default; building for a platform other than the host requires
// QEMU / binfmt_misc support in the kernel.
func (rt *Runtime) StartBuildContainer(ctx context.Context, ref, id, platform string) (*Container, error) {
	c := &Container{cli: rt.cli, id: id}

	if platform != "" {
		p, err := platforms.Parse(platform)
		if err != nil {
			return nil, fmt.Errorf("%w: platform %q: %w", ErrRuntime, platform, err)
		}
		c.platform = &p
	}

	if err := rt.pullImage(ctx, ref, platform); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	// Remove any stale container from a previous build with the same name.
	c.remove(ctx)

	if err := c.create(ctx, ref); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := c.start(ctx); err != nil {
		c.remove(ctx)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", ref)

	return c, nil
}

// Writes an image to a tar archive at the given path.
func (rt *Runtime) SaveImage(ctx context.Context, ref, path string) error {
	rc, err := rt.cli.ImageSave(ctx, []string{ref})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	defer rc.Close()

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if _, err := io.Copy(fh, rc); err != nil {
		fh.Close()
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := fh.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("image saved", "ref", ref, "path", path)
	return nil
}

// Reports whether the error means the engine has no such container or image.
func IsNotFound(err error) bool {
	return errdefs.IsNotFound(err)
}

// Shortens a container or image ID for log output.
func ShortID(id string) string {
	return stringid.TruncateID(id)
}
