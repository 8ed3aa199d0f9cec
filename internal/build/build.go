package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distribution/reference"

	"github.com/Raspitainment/discord-docker-status/internal/manifest"
	"github.com/Raspitainment/discord-docker-status/internal/paths"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

// Controls recipe execution.
type Options struct {
	Recipe     *manifest.Recipe // Recipe to execute.
	Resource   string           // Resource name, used as a prefix for container names and the default tag.
	Tag        string           // Image reference for the committed result. Defaults to "<resource>:latest".
	Root       string           // Build context root, for resolving copy sources.
	Output     string           // Optional path for a tar archive of the result.
	Entrypoint []string         // Entrypoint for the output image, overriding the recipe's.
	Platform   string           // Target platform (e.g. "linux/amd64"). Empty for the engine default.
}

// Returned after successful recipe execution.
type Result struct {
	Image  string // Image reference of the committed result.
	ID     string // Content digest of the committed image.
	Output string // Path of the saved archive, empty when none was requested.
}

// Executes a recipe against the container runtime.
//
// Stages are built in declaration order. Each stage starts a container from
// its base image and executes the stage's steps; the non-transient stage is
// committed as the result image. Recipes received over the wire are
// re-validated here so a malformed recipe cannot reach the engine.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.Recipe == nil {
		return nil, fmt.Errorf("%w: missing recipe", ErrBuild)
	}
	if opts.Resource == "" {
		return nil, fmt.Errorf("%w: missing resource name", ErrBuild)
	}
	if err := opts.Recipe.Validate(); err != nil {
		return nil, err
	}

	tag, err := normalizeTag(opts.Tag, opts.Resource)
	if err != nil {
		return nil, err
	}

	slog.Info("executing recipe",
		"resource", opts.Resource,
		"image", tag,
		"stages", len(opts.Recipe.Stages),
	)

	if opts.Output != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Output), paths.DefaultDirMode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}

	return newRecipe(rt, opts, tag).build(ctx, opts.Recipe)
}

// Resolves the result image reference.
//
// An empty tag derives one from the resource name. The reference is
// normalized and returned in its familiar form ("web:latest" rather than
// "docker.io/library/web:latest").
func normalizeTag(tag, resource string) (string, error) {
	if tag == "" {
		tag = resource + ":latest"
	}

	named, err := reference.ParseNormalizedNamed(tag)
	if err != nil {
		return "", fmt.Errorf("%w: tag %q: %w", ErrBuild, tag, err)
	}

	return reference.FamiliarString(reference.TagNameOnly(named)), nil
}
