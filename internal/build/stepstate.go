package build

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/Raspitainment/discord-docker-status/internal/manifest"
)

// Default shell used for run steps when no shell modifier has been set.
const defaultShell = "/bin/sh"

// Tracks accumulated modifiers during step execution.
//
// State flows linearly through the step list. Standalone modifiers update
// the state permanently via apply. Operations read the effective values for
// a single step via resolve without modifying the persistent state.
type stepState struct {
	shell   string
	workdir string
	env     map[string]string
}

// Creates a new [stepState] with default values.
func newStepState() *stepState {
	return &stepState{
		shell: defaultShell,
		env:   make(map[string]string),
	}
}

// Persists modifier fields from a step into the state.
//
// Called for standalone modifier steps and groups. The state is mutated
// permanently, affecting all subsequent steps.
func (s *stepState) apply(step manifest.Step) {
	if step.Shell != "" {
		s.shell = step.Shell
	}
	if step.Workdir != "" {
		s.workdir = step.Workdir
	}
	maps.Copy(s.env, step.Env)
}

// Returns a new [stepState] with step-level modifiers overlaid on the
// persistent state. The receiver is not modified.
//
// Step-level modifiers override the corresponding state values for this
// operation only.
func (s *stepState) resolve(step manifest.Step) *stepState {
	resolved := &stepState{
		shell:   s.shell,
		workdir: s.workdir,
		env:     make(map[string]string, len(s.env)+len(step.Env)),
	}
	maps.Copy(resolved.env, s.env)
	maps.Copy(resolved.env, step.Env)

	if step.Shell != "" {
		resolved.shell = step.Shell
	}
	if step.Workdir != "" {
		resolved.workdir = step.Workdir
	}

	return resolved
}

// Formats the environment as a list of "key=value" strings suitable for
// passing to container exec.
func (s *stepState) environ() []string {
	env := make([]string, 0, len(s.env))
	for k, v := range s.env {
		env = append(env, k+"="+v)
	}
	return env
}

// Renders the accumulated state as commit change directives.
//
// Environment variables come first in key order, then the working
// directory, entrypoint, and command. The directives use Dockerfile syntax
// and are applied to the image configuration when the stage is committed.
func (s *stepState) changes(entrypoint, cmd []string) []string {
	var changes []string

	for _, k := range slices.Sorted(maps.Keys(s.env)) {
		changes = append(changes, fmt.Sprintf("ENV %s=%q", k, s.env[k]))
	}
	if s.workdir != "" {
		changes = append(changes, "WORKDIR "+s.workdir)
	}
	if len(entrypoint) > 0 {
		changes = append(changes, "ENTRYPOINT "+execForm(entrypoint))
	}
	if len(cmd) > 0 {
		changes = append(changes, "CMD "+execForm(cmd))
	}

	return changes
}

// Renders argv as a Dockerfile exec-form JSON array.
func execForm(args []string) string {
	b, err := json.Marshal(args)
	if err != nil {
		// A string slice always marshals.
		panic(err)
	}
	return string(b)
}
