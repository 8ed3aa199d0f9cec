package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/Raspitainment/discord-docker-status/internal/config"
	"github.com/Raspitainment/discord-docker-status/internal/paths"
	"github.com/Raspitainment/discord-docker-status/internal/protocol"
)

// Sends one command to the daemon and returns the raw response payload.
//
// The exchange mirrors the daemon's connection handling: one
// newline-delimited JSON envelope out, one back, then the connection
// closes. An error response from the daemon comes back as a plain error.
func request(ctx context.Context, cmd protocol.Command, payload any) (json.RawMessage, error) {
	socket, err := socketPath()
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		return nil, err
	}
	data = append(data, byte(10))

	if _, err := conn.Write(data); err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(conn).ReadBytes(byte(10))
	if err != nil {
		return nil, err
	}

	env, raw, err := protocol.Decode(line)
	if err != nil {
		return nil, err
	}

	if env.Command == protocol.CmdError {
		msg, err := protocol.DecodePayload[protocol.ErrorResult](raw)
		if err != nil {
			return nil, err
		}
		return nil, errors.New(msg.Message)
	}

	return raw, nil
}

// Resolves the control socket path.
//
// The --socket flag wins, then the configuration file, then the default
// location.
func socketPath() (string, error) {
	if RootCmd.Socket != "" {
		return RootCmd.Socket, nil
	}

	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return "", err
	}
	if cfg.Socket != "" {
		return cfg.Socket, nil
	}

	return paths.Socket(), nil
}

// Whether the error means no daemon is listening on the socket.
func isDaemonDown(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED)
}
