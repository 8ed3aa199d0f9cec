package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/build"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

// Handles a status command.
func (s *Server) handleStatus(conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	s.mu.Unlock()

	snap := s.monitor.Snapshot()
	uptime := time.Since(s.startedAt).Truncate(time.Second)

	result := &protocol.StatusResult{
		Running: true,
		Version: internal.VersionString(),
		Pid:     os.Getpid(),
		Uptime:  uptime.String(),
		Tracked: snap.Tracked,
		Syncs:   snap.Syncs,
		Builds:  builds,
	}
	if !snap.LastSync.IsZero() {
		result.LastSync = snap.LastSync.Format(time.RFC3339)
	}

	s.respond(conn, protocol.CmdOK, result)
}

// Handles a sync command.
//
// Forces a reconcile pass outside the regular interval. The pass takes the
// monitor lock, so it cannot interleave with the loop.
func (s *Server) handleSync(ctx context.Context, conn net.Conn) {
	stats, err := s.monitor.Sync(ctx)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.SyncResult{
		Created:  stats.Created,
		Removed:  stats.Removed,
		Updated:  stats.Updated,
		Duration: stats.Duration.Truncate(time.Millisecond).String(),
	})
}

// Handles a build command.
//
// Executes a recipe against the shared container runtime. The monitor keeps
// reconciling while the build runs; build containers show up in Discord
// like any other container until they are destroyed.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	result, err := build.Run(ctx, s.runtime, build.Options{
		Recipe:     req.Recipe,
		Resource:   req.Resource,
		Tag:        req.Tag,
		Root:       req.Root,
		Output:     req.Output,
		Entrypoint: req.Entrypoint,
		Platform:   req.Platform,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{
		Image:  result.Image,
		ID:     runtime.ShortID(result.ID),
		Output: result.Output,
	})
}

// Handles a shutdown command.
func (s *Server) handleShutdown(conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)
	slog.Info("shutdown requested")

	go func() {
		s.Stop()
	}()
}
