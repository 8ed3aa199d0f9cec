package discord

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

func TestStatusEmbed(t *testing.T) {
	ctr := runtime.Summary{
		ID:      "f2d81cd57c2a6cdabdbbea2d8e9dcbdcc00bf11a707ea5dbd1cbb1bb0b73f1b4",
		Name:    "web",
		Image:   "nginx:latest",
		Command: "nginx -g 'daemon off;'",
		Status:  "Up 3 hours",
	}

	embed := StatusEmbed(ctr, "\x1b[32mready\x1b[0m\nlistening on :80")

	if want := fmt.Sprintf("%s (%s)", ctr.Name, ctr.ID); embed.Author.Name != want {
		t.Errorf("Author.Name = %q, want %q", embed.Author.Name, want)
	}
	if embed.Title != ctr.Status {
		t.Errorf("Title = %q, want %q", embed.Title, ctr.Status)
	}
	if embed.Color != embedColor {
		t.Errorf("Color = %#x, want %#x", embed.Color, embedColor)
	}
	if embed.Footer.Text != internal.Tag() {
		t.Errorf("Footer.Text = %q, want %q", embed.Footer.Text, internal.Tag())
	}
	if _, err := time.Parse(time.RFC3339, embed.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC 3339: %v", embed.Timestamp, err)
	}

	desc := embed.Description
	if !strings.Contains(desc, "Image `nginx:latest`") {
		t.Errorf("description missing image: %q", desc)
	}
	if !strings.Contains(desc, "Running `nginx -g 'daemon off;'`:") {
		t.Errorf("description missing command: %q", desc)
	}
	if !strings.Contains(desc, "```ready\nlistening on :80```") {
		t.Errorf("description missing cleaned logs: %q", desc)
	}
	if strings.Contains(desc, "\x1b") {
		t.Errorf("description still contains escape sequences: %q", desc)
	}
}

func TestStatusEmbedBoundsLogs(t *testing.T) {
	logs := strings.Repeat("0123456789\n", 1000)

	embed := StatusEmbed(runtime.Summary{Name: "web"}, logs)

	if len(embed.Description) > 4096 {
		t.Fatalf("description is %d characters, over the Discord limit", len(embed.Description))
	}
	// The tail of the logs survives, not the head.
	if !strings.HasSuffix(embed.Description, "0123456789\n```") {
		t.Errorf("description does not end with the log tail: %q", embed.Description[len(embed.Description)-40:])
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "hello world",
			want: "hello world",
		},
		{
			name: "color codes removed",
			in:   "\x1b[31merror\x1b[0m: oh no",
			want: "error: oh no",
		},
		{
			name: "cursor movement removed",
			in:   "spinner \x1b[1A\x1b[2Kdone",
			want: "spinner done",
		},
		{
			name: "multi-parameter sequence",
			in:   "\x1b[1;32;40mbold green\x1b[m",
			want: "bold green",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripANSI(tt.in); got != tt.want {
				t.Errorf("stripANSI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTailString(t *testing.T) {
	if got := tailString("short", 100); got != "short" {
		t.Errorf("tailString(short, 100) = %q", got)
	}
	if got := tailString("abcdef", 3); got != "def" {
		t.Errorf("tailString(abcdef, 3) = %q", got)
	}

	// A cut landing inside a multi-byte rune moves forward to the next
	// boundary rather than producing invalid UTF-8.
	if got := tailString("aéz", 2); got != "z" {
		t.Errorf("tailString(aéz, 2) = %q", got)
	}
}
