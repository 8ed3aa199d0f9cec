package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/Raspitainment/discord-docker-status/internal/manifest"
)

// A command name carried in an envelope.
type Command string

const (

	// Requests sent by the CLI.
	CmdStatus   Command = "status"
	CmdSync     Command = "sync"
	CmdBuild    Command = "build"
	CmdShutdown Command = "shutdown"

	// Responses sent by the daemon.
	CmdOK    Command = "ok"
	CmdError Command = "error"
)

// Wire framing for a single message on the control socket.
//
// Messages are JSON envelopes, one per line. The payload is left raw so the
// dispatcher can decode it into the command-specific type.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Asks the daemon to execute a recipe against the container engine.
type BuildRequest struct {
	Recipe     *manifest.Recipe `json:"recipe"`
	Resource   string           `json:"resource"`
	Tag        string           `json:"tag,omitempty"`
	Root       string           `json:"root"`
	Output     string           `json:"output,omitempty"`
	Entrypoint []string         `json:"entrypoint,omitempty"`
	Platform   string           `json:"platform,omitempty"`
}

// Reports a completed build.
type BuildResult struct {
	Image  string `json:"image"`            // Image reference the build was committed as.
	ID     string `json:"id"`               // Short image ID.
	Output string `json:"output,omitempty"` // Path of the exported archive, when requested.
}

// Reports daemon state.
type StatusResult struct {
	Running  bool   `json:"running"`
	Version  string `json:"version"`
	Pid      int    `json:"pid"`
	Uptime   string `json:"uptime"`
	Tracked  int    `json:"tracked"`             // Containers currently mirrored to Discord.
	Syncs    int    `json:"syncs"`               // Completed reconcile passes.
	Builds   int    `json:"builds"`              // Completed build commands.
	LastSync string `json:"last_sync,omitempty"` // RFC3339 time of the last successful pass.
}

// Reports the outcome of a forced reconcile pass.
type SyncResult struct {
	Created  int    `json:"created"`  // Channels created this pass.
	Removed  int    `json:"removed"`  // Channels removed this pass.
	Updated  int    `json:"updated"`  // Status messages updated this pass.
	Duration string `json:"duration"` // Wall time of the pass.
}

// Carries an error message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}

// Encodes a command and payload as a JSON envelope.
//
// A nil payload produces an envelope without a payload field.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", cmd, err)
		}
		env.Payload = raw
	}

	return json.Marshal(env)
}

// Decodes a JSON envelope, returning it together with the raw payload.
//
// The payload is not interpreted; use [DecodePayload] with the type matching
// the command.
func Decode(data []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("decode envelope: missing command")
	}
	return env, env.Payload, nil
}

// Decodes a raw payload into the given type.
func DecodePayload[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("decode payload: empty payload")
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &v, nil
}
