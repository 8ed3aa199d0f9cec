package cli

import (
	"context"
	"log/slog"

	"github.com/Raspitainment/discord-docker-status/internal/config"
	"github.com/Raspitainment/discord-docker-status/internal/server"
)

// Represents the 'discord-docker-status start' command.
type StartCmd struct{}

// Executes the start command.
//
// Loads and validates the configuration, starts the daemon, and blocks
// until the context is cancelled (e.g. via SIGINT or SIGTERM) or a
// shutdown command arrives on the socket.
func (c *StartCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}
	if RootCmd.Socket != "" {
		cfg.Socket = RootCmd.Socket
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		SocketPath: cfg.Socket,
		DockerHost: cfg.DockerHost,
		Token:      cfg.Token,
		GuildID:    cfg.GuildID,
		CategoryID: cfg.CategoryID,
		Interval:   cfg.Interval,
		LogTail:    cfg.LogTail,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("discord-docker-status is running")

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return srv.Stop()
	case <-srv.Done():
		return nil
	}
}
