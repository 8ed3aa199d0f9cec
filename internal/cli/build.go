package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/manifest"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
)

// Represents the 'discord-docker-status build' command.
type BuildCmd struct {
	Recipe     string   `arg:"" help:"Recipe file to execute." type:"existingfile"`
	Resource   string   `help:"Resource name. Defaults to the recipe file name." placeholder:"NAME"`
	Tag        string   `short:"t" help:"Tag for the committed image. Defaults to '<resource>:latest'." placeholder:"REF"`
	Root       string   `help:"Build context for copy sources." default:"." type:"path"`
	Output     string   `short:"o" help:"File to save the image archive to." placeholder:"PATH" type:"path"`
	Entrypoint []string `help:"Entrypoint for the output image, overriding the recipe's."`
	Platform   string   `help:"Target platform (e.g. linux/amd64)." placeholder:"OS/ARCH"`
}

// Executes the build command.
//
// The recipe is loaded and validated locally, then sent to the daemon for
// execution against the container engine. Paths are resolved to absolute
// here because the daemon does not share the CLI's working directory.
func (c *BuildCmd) Run(ctx context.Context) error {
	recipe, err := manifest.Load(c.Recipe)
	if err != nil {
		return err
	}

	resource := c.Resource
	if resource == "" {
		base := filepath.Base(c.Recipe)
		resource = strings.TrimSuffix(base, filepath.Ext(base))
	}

	raw, err := request(ctx, protocol.CmdBuild, &protocol.BuildRequest{
		Recipe:     recipe,
		Resource:   resource,
		Tag:        c.Tag,
		Root:       c.Root,
		Output:     c.Output,
		Entrypoint: c.Entrypoint,
		Platform:   c.Platform,
	})
	if err != nil {
		if isDaemonDown(err) {
			return fmt.Errorf("%s is not running", internal.Name)
		}
		return err
	}

	result, err := protocol.DecodePayload[protocol.BuildResult](raw)
	if err != nil {
		return err
	}

	fmt.Printf("built %s (%s)\n", result.Image, result.ID)
	if result.Output != "" {
		fmt.Printf("saved %s\n", result.Output)
	}

	return nil
}
