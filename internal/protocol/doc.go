// Defines the wire protocol between the CLI and the daemon.
//
// Messages are newline-delimited JSON envelopes on a Unix domain socket.
// Each envelope names a command and carries an optional raw payload that
// is decoded into a command-specific type by the receiver. A connection
// carries exactly one request and one response; the daemon replies with
// an "ok" envelope holding the result, or an "error" envelope holding a
// message.
package protocol
