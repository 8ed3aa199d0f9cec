// Package manifest defines the recipe format for container builds.
//
// A recipe is a TOML document describing an ordered list of stages, each
// with a base image and a list of steps:
//
//	cmd = ["go", "run", "./cmd/app", "start"]
//
//	[[stage]]
//	from = "debian:bookworm"
//
//	[[stage.step]]
//	run = "apt-get update"
//
//	[[stage.step]]
//	copy = ". /app"
//
// Parsing is strict: unknown keys are an error. Validation guarantees the
// structural invariants the builder relies on, so a recipe that loads
// cleanly can be executed without re-checking its shape.
package manifest
