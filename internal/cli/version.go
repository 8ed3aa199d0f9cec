package cli

import (
	"context"
	"fmt"

	"github.com/Raspitainment/discord-docker-status/internal"
)

// Represents the 'discord-docker-status version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
