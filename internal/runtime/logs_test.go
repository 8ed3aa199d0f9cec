package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
)

func TestReadLogsMultiplexed(t *testing.T) {
	var stream bytes.Buffer
	out := stdcopy.NewStdWriter(&stream, stdcopy.Stdout)
	errw := stdcopy.NewStdWriter(&stream, stdcopy.Stderr)

	out.Write([]byte("starting up\n"))
	errw.Write([]byte("warning: low disk\n"))
	out.Write([]byte("ready\n"))

	got, err := readLogs(&stream, false)
	if err != nil {
		t.Fatalf("readLogs() error = %v", err)
	}

	want := "starting up\nwarning: low disk\nready\n"
	if got != want {
		t.Errorf("readLogs() = %q, want %q", got, want)
	}
}

func TestReadLogsRaw(t *testing.T) {
	got, err := readLogs(strings.NewReader("tty output, no framing"), true)
	if err != nil {
		t.Fatalf("readLogs() error = %v", err)
	}
	if got != "tty output, no framing" {
		t.Errorf("readLogs() = %q", got)
	}
}

func TestReadLogsCorruptFraming(t *testing.T) {
	// A stream that claims to be multiplexed but carries a bogus header
	// must error rather than return garbage.
	if _, err := readLogs(strings.NewReader("\xffgarbage that is not a frame"), false); err == nil {
		t.Fatal("readLogs() accepted a corrupt stream")
	}
}

func TestReadLogsEmpty(t *testing.T) {
	got, err := readLogs(strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("readLogs() error = %v", err)
	}
	if got != "" {
		t.Errorf("readLogs() = %q, want empty", got)
	}
}
