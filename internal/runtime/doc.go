// Package runtime manages containers through the Docker Engine API.
//
// A [Runtime] connects to the engine and provides the two halves of the
// daemon's work: observation (listing running containers and tailing their
// logs) and building (pulling base images and driving build containers).
//
// Each [Container] wraps a parked engine container. Commands can be
// executed inside it, files can be copied in and out as tar streams, and
// the final filesystem state can be committed as a new image. When the
// container is no longer needed it should be destroyed to release its
// resources.
//
// Example usage:
//
//	rt, err := runtime.New("")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartBuildContainer(ctx, "debian:bookworm", "build-1", "")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "echo hello", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	id, err := ctr.Commit(ctx, "example:latest", nil)
//	if err != nil {
//	    return err
//	}
package runtime
