// Package build orchestrates recipe execution against the container
// runtime.
//
// A recipe is an ordered sequence of stages, each backed by a container
// created from a base image. The build pipeline starts a container for
// each stage, dispatches its steps (shell commands, file copies, and
// inter-stage transfers), and commits the final non-transient stage as the
// result image, applying the accumulated environment, working directory,
// entrypoint, and command to the image configuration.
//
// Container operations are delegated to the runtime package. Step state
// (environment variables, working directory, shell) is accumulated across
// steps within a stage and reset between stages.
//
// Example usage:
//
//	result, err := build.Run(ctx, rt, build.Options{
//	    Recipe:   recipe,
//	    Resource: "my-service",
//	    Root:     ".",
//	})
//	if err != nil {
//	    return err
//	}
package build
