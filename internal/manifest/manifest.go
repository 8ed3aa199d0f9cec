package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/distribution/reference"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrRecipe = errors.New("invalid recipe")
)

// Stage names may be used as cross-stage copy prefixes and container ID
// fragments, so they are restricted to a filesystem- and reference-safe set.
var stageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// An ordered container build procedure.
//
// A recipe is a list of stages. Each stage starts from a base image and
// applies its steps in order; the single non-transient stage becomes the
// output image. Entrypoint and Cmd are persisted into the output image's
// configuration.
type Recipe struct {
	Entrypoint []string `toml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	Cmd        []string `toml:"cmd,omitempty" json:"cmd,omitempty"`
	Stages     []Stage  `toml:"stage" json:"stages"`
}

// A single build stage.
//
// Transient stages exist only to feed cross-stage copies and are not
// committed. A name is required to reference a stage from a later copy.
type Stage struct {
	Name      string `toml:"name,omitempty" json:"name,omitempty"`
	From      string `toml:"from" json:"from"`
	Transient bool   `toml:"transient,omitempty" json:"transient,omitempty"`
	Steps     []Step `toml:"step" json:"steps"`
}

// A single build step.
//
// A step is either an operation (run or copy), a standalone modifier
// (shell, workdir, env), or a group of nested steps. Modifiers on an
// operation step scope to that operation only; standalone modifiers and
// group modifiers persist for subsequent steps.
type Step struct {
	Run     string            `toml:"run,omitempty" json:"run,omitempty"`
	Copy    string            `toml:"copy,omitempty" json:"copy,omitempty"`
	Shell   string            `toml:"shell,omitempty" json:"shell,omitempty"`
	Workdir string            `toml:"workdir,omitempty" json:"workdir,omitempty"`
	Env     map[string]string `toml:"env,omitempty" json:"env,omitempty"`
	Steps   []Step            `toml:"step,omitempty" json:"steps,omitempty"`
}

// The resolved base image of a stage.
type ImageSource struct {
	Ref string // Fully normalized reference, e.g. "docker.io/library/debian:bookworm".
}

// Reads and validates a recipe from a TOML file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipe, err)
	}
	return Parse(data)
}

// Parses and validates a recipe from TOML data.
//
// Unknown keys are rejected so that typos in a recipe fail loudly instead
// of silently skipping a step.
func Parse(data []byte) (*Recipe, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var r Recipe
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipe, err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &r, nil
}

// Checks the recipe for structural problems.
//
// A valid recipe has at least one stage and exactly one non-transient
// stage. Every stage needs a parseable base image. Stage names must be
// unique, and cross-stage copy sources may only reference stages declared
// earlier in the recipe.
func (r *Recipe) Validate() error {
	if len(r.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrRecipe)
	}

	final := 0
	seen := make(map[string]bool)

	for i, stage := range r.Stages {
		label := stageLabel(stage.Name, i)

		if !stage.Transient {
			final++
		}

		if stage.Name != "" {
			if !stageNamePattern.MatchString(stage.Name) {
				return fmt.Errorf("%w: stage %s: invalid name", ErrRecipe, label)
			}
			if seen[stage.Name] {
				return fmt.Errorf("%w: stage %s: duplicate name", ErrRecipe, label)
			}
		}

		if _, err := stage.ParseFrom(); err != nil {
			return fmt.Errorf("%w: stage %s: %w", ErrRecipe, label, err)
		}

		if err := validateSteps(stage.Steps, seen); err != nil {
			return fmt.Errorf("%w: stage %s: %w", ErrRecipe, label, err)
		}

		// Only earlier stages are visible to copy sources, so the name is
		// registered after its own steps are checked.
		if stage.Name != "" {
			seen[stage.Name] = true
		}
	}

	if final != 1 {
		return fmt.Errorf("%w: want exactly one non-transient stage, have %d", ErrRecipe, final)
	}

	return nil
}

// Parses the stage's base image into a normalized reference.
//
// Untagged references get the "latest" tag so the pull target is explicit.
func (s Stage) ParseFrom() (ImageSource, error) {
	if strings.TrimSpace(s.From) == "" {
		return ImageSource{}, fmt.Errorf("missing base image")
	}

	named, err := reference.ParseNormalizedNamed(s.From)
	if err != nil {
		return ImageSource{}, fmt.Errorf("base image %q: %w", s.From, err)
	}

	return ImageSource{Ref: reference.TagNameOnly(named).String()}, nil
}

// Checks a step list, recursing into groups.
func validateSteps(steps []Step, stages map[string]bool) error {
	for i, step := range steps {
		if err := validateStep(step, stages); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Checks a single step.
func validateStep(step Step, stages map[string]bool) error {
	if step.Run != "" && step.Copy != "" {
		return fmt.Errorf("run and copy are mutually exclusive")
	}

	if len(step.Steps) > 0 {
		if step.Run != "" || step.Copy != "" {
			return fmt.Errorf("a group step cannot also carry an operation")
		}
		return validateSteps(step.Steps, stages)
	}

	if step.Copy != "" {
		fields := strings.Fields(step.Copy)
		if len(fields) != 2 {
			return fmt.Errorf("copy wants %q, got %q", "source destination", step.Copy)
		}
		if stage, _, ok := StageRef(fields[0]); ok && !stages[stage] {
			return fmt.Errorf("copy references unknown stage %q", stage)
		}
	}

	return nil
}

// Splits a copy source of the form "stage:path".
//
// Returns the stage name, the path within the stage, and true if the source
// matches the cross-stage format. A colon after a path separator is not a
// stage prefix (e.g. "/data:backup" is a host path).
func StageRef(src string) (stage, path string, ok bool) {
	i := strings.IndexByte(src, ':')
	if i < 1 {
		return "", "", false
	}
	if strings.ContainsRune(src[:i], '/') {
		return "", "", false
	}
	return src[:i], src[i+1:], true
}

// Returns a label for a stage, preferring the name when available and
// falling back to the 1-based index.
func stageLabel(name string, index int) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%d", index+1)
}
