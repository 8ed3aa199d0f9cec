package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raspitainment/discord-docker-status/internal/manifest"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

// Holds shared state for building all stages of a recipe.
type recipe struct {
	rt         *runtime.Runtime     // Container runtime for image and container operations.
	resource   string               // Resource name, used as a prefix for container names.
	tag        string               // Image reference for the committed result.
	root       string               // Build context root for resolving copy sources.
	output     string               // Optional path for a tar archive of the result.
	entrypoint []string             // Entrypoint to set on the output image.
	cmd        []string             // Command to set on the output image.
	platform   string               // Target platform, empty for the engine default.
	containers []*runtime.Container // All stage containers, destroyed after the build completes.
}

// Creates a new [recipe] from the given options.
func newRecipe(rt *runtime.Runtime, opts Options, tag string) *recipe {
	entrypoint := opts.Entrypoint
	if len(entrypoint) == 0 {
		entrypoint = opts.Recipe.Entrypoint
	}

	return &recipe{
		rt:         rt,
		resource:   opts.Resource,
		tag:        tag,
		root:       opts.Root,
		output:     opts.Output,
		entrypoint: entrypoint,
		cmd:        opts.Recipe.Cmd,
		platform:   opts.Platform,
	}
}

// Builds the recipe end-to-end against the container runtime.
//
// Stages are built in declaration order. Named stages stay available for
// cross-stage copy lookups until the build finishes. All stage containers
// are destroyed when the build completes, whether it succeeded or not.
func (r *recipe) build(ctx context.Context, rcp *manifest.Recipe) (*Result, error) {
	defer r.destroyContainers(ctx)

	stages := make(map[string]*runtime.Container)

	var result *Result
	for i, stage := range rcp.Stages {
		res, err := r.buildStage(ctx, stage, i, stages)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %s: %w", ErrBuild, stageLabel(stage.Name, i), err)
		}
		if res != nil {
			result = res
		}
	}

	return result, nil
}

// Builds a single stage of a recipe.
//
// Pulls the stage's base image, starts a build container, and executes the
// stage's steps. The non-transient stage is committed under the result tag
// with the accumulated image configuration, and optionally saved to a tar
// archive. Transient stages produce no result.
func (r *recipe) buildStage(ctx context.Context, stage manifest.Stage, index int, stages map[string]*runtime.Container) (*Result, error) {
	label := stageLabel(stage.Name, index)
	slog.Info(fmt.Sprintf("building stage %s", label))

	src, err := stage.ParseFrom()
	if err != nil {
		return nil, err
	}

	ctr, err := r.rt.StartBuildContainer(ctx, src.Ref, r.containerID(stage.Name, index), r.platform)
	if err != nil {
		return nil, err
	}

	r.containers = append(r.containers, ctr)
	if stage.Name != "" {
		stages[stage.Name] = ctr
	}

	state := newStepState()
	if err := executeSteps(ctx, ctr, stage.Steps, state, r.root, stages); err != nil {
		return nil, err
	}

	if stage.Transient {
		return nil, nil
	}

	id, err := ctr.Commit(ctx, r.tag, state.changes(r.entrypoint, r.cmd))
	if err != nil {
		return nil, err
	}

	if r.output != "" {
		if err := r.rt.SaveImage(ctx, r.tag, r.output); err != nil {
			return nil, err
		}
	}

	return &Result{Image: r.tag, ID: id, Output: r.output}, nil
}

// Destroys all stage containers.
func (r *recipe) destroyContainers(ctx context.Context) {
	for _, ctr := range r.containers {
		ctr.Destroy(ctx)
	}
}

// Returns a unique container name for a stage, scoped to this resource.
func (r *recipe) containerID(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%s-stage-%s", r.resource, name)
	}
	return fmt.Sprintf("%s-stage-%d", r.resource, index+1)
}

// Returns a label for a stage, preferring the name when available and falling
// back to the 1-based index.
func stageLabel(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%d", index+1)
}
