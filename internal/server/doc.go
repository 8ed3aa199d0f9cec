// Package server implements the discord-docker-status daemon.
//
// The daemon runs the monitor loop that mirrors local containers into a
// Discord category, and listens on a Unix domain socket for JSON-encoded
// commands from the CLI. Each connection carries a single request-response
// exchange: the client sends a newline-delimited JSON envelope, the server
// dispatches the command, and writes the result back before closing the
// connection.
//
// Supported commands are querying daemon status, forcing a reconcile pass,
// building a recipe against the shared container runtime, and initiating
// shutdown.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    Token:      token,
//	    GuildID:    "1296093968579821570",
//	    CategoryID: "1296094023810241517",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	<-srv.Done()
package server
