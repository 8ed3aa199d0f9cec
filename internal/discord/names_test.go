package discord

import (
	"strings"
	"testing"
)

func TestChannelName(t *testing.T) {
	tests := []struct {
		name      string
		container string
		want      string
	}{
		{
			name:      "already valid",
			container: "nginx",
			want:      "nginx",
		},
		{
			name:      "leading slash stripped",
			container: "/web",
			want:      "web",
		},
		{
			name:      "uppercase lowered",
			container: "Redis-Cache",
			want:      "redis-cache",
		},
		{
			name:      "dots replaced",
			container: "api.v2",
			want:      "api-v2",
		},
		{
			name:      "underscores kept",
			container: "determined_turing",
			want:      "determined_turing",
		},
		{
			name:      "spaces and symbols replaced",
			container: "my app (staging)",
			want:      "my-app--staging-",
		},
		{
			name:      "non-ascii replaced",
			container: "caché",
			want:      "cach-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelName(tt.container); got != tt.want {
				t.Errorf("ChannelName(%q) = %q, want %q", tt.container, got, tt.want)
			}
		})
	}
}

func TestChannelNameLength(t *testing.T) {
	got := ChannelName(strings.Repeat("a", 150))
	if len(got) != maxChannelName {
		t.Fatalf("len = %d, want %d", len(got), maxChannelName)
	}
}
