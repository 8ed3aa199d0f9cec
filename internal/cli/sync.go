package cli

import (
	"context"
	"fmt"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
)

// Represents the 'discord-docker-status sync' command.
type SyncCmd struct{}

// Executes the sync command.
func (c *SyncCmd) Run(ctx context.Context) error {
	raw, err := request(ctx, protocol.CmdSync, nil)
	if err != nil {
		if isDaemonDown(err) {
			return fmt.Errorf("%s is not running", internal.Name)
		}
		return err
	}

	result, err := protocol.DecodePayload[protocol.SyncResult](raw)
	if err != nil {
		return err
	}

	fmt.Printf("synchronized: %d created, %d removed, %d updated (%s)\n",
		result.Created, result.Removed, result.Updated, result.Duration)

	return nil
}
