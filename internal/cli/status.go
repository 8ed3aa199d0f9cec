package cli

import (
	"context"
	"fmt"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
)

// Represents the 'discord-docker-status status' command.
type StatusCmd struct{}

// Executes the status command.
//
// A daemon that is not listening on the socket is reported as not running
// rather than as an error.
func (c *StatusCmd) Run(ctx context.Context) error {
	raw, err := request(ctx, protocol.CmdStatus, nil)
	if err != nil {
		if isDaemonDown(err) {
			fmt.Printf("%s is not running\n", internal.Name)
			return nil
		}
		return err
	}

	result, err := protocol.DecodePayload[protocol.StatusResult](raw)
	if err != nil {
		return err
	}

	fmt.Printf("%s is running\n", internal.Name)
	fmt.Printf("  %-10s %s\n", "version:", result.Version)
	fmt.Printf("  %-10s %d\n", "pid:", result.Pid)
	fmt.Printf("  %-10s %s\n", "uptime:", result.Uptime)
	fmt.Printf("  %-10s %d\n", "tracked:", result.Tracked)
	fmt.Printf("  %-10s %d\n", "syncs:", result.Syncs)
	fmt.Printf("  %-10s %d\n", "builds:", result.Builds)
	if result.LastSync != "" {
		fmt.Printf("  %-10s %s\n", "last sync:", result.LastSync)
	}

	return nil
}
