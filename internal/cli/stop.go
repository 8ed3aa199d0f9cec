package cli

import (
	"context"
	"fmt"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
)

// Represents the 'discord-docker-status stop' command.
type StopCmd struct{}

// Executes the stop command.
//
// Asks the daemon to shut down. A daemon that is not running counts as
// stopped.
func (c *StopCmd) Run(ctx context.Context) error {
	if _, err := request(ctx, protocol.CmdShutdown, nil); err != nil {
		if isDaemonDown(err) {
			fmt.Printf("%s is not running\n", internal.Name)
			return nil
		}
		return err
	}

	fmt.Println("daemon stopping")
	return nil
}
