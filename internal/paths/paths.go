package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	daemonName = "discord-docker-status"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/discord-docker-status or /run/user/<uid>/discord-docker-status
//	macOS:   ~/Library/Caches/discord-docker-status/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, daemonName)
	}
	return filepath.Join(xdg.CacheHome, daemonName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
//
//	Linux:   $XDG_RUNTIME_DIR/discord-docker-status/discord-docker-status.sock
//	macOS:   ~/Library/Caches/discord-docker-status/run/discord-docker-status.sock
func Socket() string {
	return filepath.Join(Runtime(), daemonName+".sock")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/discord-docker-status/discord-docker-status.pid
//	macOS:   ~/Library/Caches/discord-docker-status/run/discord-docker-status.pid
func PIDFile() string {
	return filepath.Join(Runtime(), daemonName+".pid")
}

// Default path to the TOML configuration file.
//
//	Linux:   $XDG_CONFIG_HOME/discord-docker-status/config.toml
//	macOS:   ~/Library/Application Support/discord-docker-status/config.toml
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, daemonName, "config.toml")
}
