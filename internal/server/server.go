package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/user"
	"strconv"
	"sync"
	"time"

	"github.com/Raspitainment/discord-docker-status/internal/config"
	"github.com/Raspitainment/discord-docker-status/internal/discord"
	"github.com/Raspitainment/discord-docker-status/internal/monitor"
	"github.com/Raspitainment/discord-docker-status/internal/paths"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

const (

	// Group name used to grant socket access. Members of this group can
	// connect to the daemon socket without owning the process.
	socketGroup = "discord-docker-status"

	// File mode applied to the Unix socket. Owner and group get read-write
	// (required for connect); others get no access.
	socketMode = 0660

	// How long the startup Docker reachability check may take.
	pingTimeout = 5 * time.Second
)

// Holds server configuration.
type Config struct {
	SocketPath string        // Override for the Unix socket path. Empty uses the default.
	DockerHost string        // Docker Engine address. Empty uses the SDK defaults.
	Token      string        // Discord bot token.
	GuildID    string        // Guild the mirror lives in.
	CategoryID string        // Category the mirror channels are created under.
	Interval   time.Duration // Time between reconcile passes. Non-positive uses the default.
	LogTail    int           // Log lines shown per container. Non-positive uses the default.
}

// Listens on a Unix domain socket and dispatches commands while the
// monitor reconciles in the background.
type Server struct {
	socketPath  string             // Path to the Unix socket file.
	runtime     *runtime.Runtime   // Docker-backed container runtime.
	monitor     *monitor.Monitor   // Container-to-Discord reconciler.
	listener    net.Listener       // Listener for incoming connections.
	startedAt   time.Time          // Timestamp when the server started.
	builds      int                // Total number of build commands processed.
	cancel      context.CancelFunc // Stops the monitor loop.
	monitorDone chan struct{}      // Closed when the monitor loop has exited.
	stop        sync.Once          // Guards Stop against the signal and shutdown paths racing.
	done        chan struct{}      // Closed when the server has fully stopped.
	mu          sync.Mutex         // Mutex to protect shared state.
}

// Creates a new server instance.
//
// The Docker Engine is pinged up front so a daemon misconfiguration
// surfaces at startup rather than on the first pass. The socket is not
// opened until [Server.Start] is called.
func New(cfg Config) (*Server, error) {
	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath = paths.Socket()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}

	tail := cfg.LogTail
	if tail <= 0 {
		tail = config.DefaultLogTail
	}

	rt, err := runtime.New(cfg.DockerHost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rt.Ping(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("%w: docker engine unreachable: %w", ErrServer, err)
	}

	dc, err := discord.New(cfg.Token, cfg.GuildID, cfg.CategoryID)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	return &Server{
		socketPath: socketPath,
		runtime:    rt,
		monitor:    monitor.New(rt, dc, interval, tail),
		done:       make(chan struct{}),
	}, nil
}

// Opens the Unix socket, starts the monitor loop, and begins accepting
// connections.
func (s *Server) Start() error {
	listener, err := listen(s.socketPath)
	if err != nil {
		return err
	}

	s.listener = listener
	s.startedAt = time.Now()

	if err := writePID(); err != nil {
		slog.Warn("failed to write PID file", "error", err)
	}

	slog.Info("server listening on socket", "path", s.socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.monitorDone = make(chan struct{})

	go func() {
		defer close(s.monitorDone)
		s.monitor.Run(ctx)
	}()

	go s.accept()
	return nil
}

// Creates the Unix socket listener, removes any stale socket from a previous
// run, and applies permissions.
func listen(socketPath string) (net.Listener, error) {
	if err := os.MkdirAll(paths.Runtime(), paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to listen on %s: %w", ErrServer, socketPath, err)
	}

	if err := setSocketPermissions(socketPath); err != nil {
		listener.Close()
		return nil, err
	}

	return listener, nil
}

// Restricts socket access to owner and group. The daemon does not run as
// root; any user in the discord-docker-status group can also connect.
func setSocketPermissions(socketPath string) error {
	if err := os.Chmod(socketPath, socketMode); err != nil {
		return fmt.Errorf("%w: failed to chmod socket %s: %w", ErrServer, socketPath, err)
	}

	if g, err := user.LookupGroup(socketGroup); err == nil {
		if gid, err := strconv.Atoi(g.Gid); err == nil {
			if err := os.Chown(socketPath, -1, gid); err != nil {
				slog.Warn("failed to chgrp socket", "group", socketGroup, "error", err)
			}
		}
	} else {
		slog.Warn("socket group not found, socket accessible to owner only", "group", socketGroup)
	}

	return nil
}

// Shuts down the server and cleans up resources.
//
// The monitor loop is stopped and waited for before the runtime closes
// underneath it. Stop is safe to call from the signal path and the
// shutdown command at the same time; the second caller blocks until the
// first finishes.
func (s *Server) Stop() error {
	s.stop.Do(func() {
		slog.Info("server stopping")

		if s.cancel != nil {
			s.cancel()
		}
		if s.listener != nil {
			s.listener.Close()
		}
		if s.monitorDone != nil {
			<-s.monitorDone
		}
		if s.runtime != nil {
			s.runtime.Close()
		}

		os.Remove(s.socketPath)
		os.Remove(paths.PIDFile())

		close(s.done)
	})

	return nil
}

// Returns a channel that is closed once the server has fully stopped.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Accepts connections in a loop until the listener closes.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("accept error", "error", err)
			continue
		}

		go s.handle(conn)
	}
}

// Processes a single connection.
//
// Reads one newline-delimited JSON message, dispatches the command, and
// writes the response. The connection is closed after one exchange.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	line, err := reader.ReadBytes(byte(10))
	if err != nil {
		slog.Error("read error", "error", err)
		return
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	slog.Info("command received", "command", env.Command)

	ctx, cancel := contextWithDisconnect(context.Background(), reader)
	defer cancel()

	s.dispatch(ctx, conn, env.Command, payload)
}

// Routes a command to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, conn net.Conn, cmd protocol.Command, payload json.RawMessage) {
	switch cmd {
	case protocol.CmdStatus:
		s.handleStatus(conn)
	case protocol.CmdSync:
		s.handleSync(ctx, conn)
	case protocol.CmdBuild:
		s.handleBuild(ctx, conn, payload)
	case protocol.CmdShutdown:
		s.handleShutdown(conn)
	default:
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{
			Message: fmt.Sprintf("unknown command: %s", cmd),
		})
	}
}

// Writes a JSON envelope response to the connection.
func (s *Server) respond(conn net.Conn, cmd protocol.Command, payload any) {
	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		return
	}
	data = append(data, byte(10))
	conn.Write(data)
}

// Writes the daemon PID to the PID file so the CLI can detect whether the
// daemon is already running and send it signals.
func writePID() error {
	if err := os.MkdirAll(paths.Runtime(), paths.DefaultDirMode); err != nil {
		return err
	}
	return os.WriteFile(paths.PIDFile(), []byte(fmt.Sprintf("%d", os.Getpid())), paths.DefaultFileMode)
}

// Returns a derived context that is cancelled when the remote end of the
// connection closes.
//
// Detection works by reading from r in a background goroutine. The read blocks
// until the peer closes the connection, at which point it returns an error and
// the derived context is cancelled. The caller must ensure that no further data
// is expected on r for the lifetime of the returned context. If data arrives
// unexpectedly, it will be discarded and the context will be cancelled
// prematurely. The returned [context.CancelFunc] must always be called to
// release resources, even if the connection closes on its own.
func contextWithDisconnect(parent context.Context, r io.Reader) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		buf := make([]byte, 1)
		r.Read(buf)
		cancel()
	}()

	return ctx, cancel
}
