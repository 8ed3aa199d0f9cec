package runtime

import (
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		ctr  container.Summary
		want Summary
		ok   bool
	}{
		{
			name: "complete record",
			ctr: container.Summary{
				ID:      "0123456789abcdef",
				Names:   []string{"/web"},
				Image:   "nginx:latest",
				Command: "nginx -g 'daemon off;'",
				Status:  "Up 3 hours",
			},
			want: Summary{
				ID:      "0123456789abcdef",
				Name:    "web",
				Image:   "nginx:latest",
				Command: "nginx -g 'daemon off;'",
				Status:  "Up 3 hours",
			},
			ok: true,
		},
		{
			name: "name without slash",
			ctr: container.Summary{
				ID:      "0123456789abcdef",
				Names:   []string{"web"},
				Image:   "nginx:latest",
				Command: "sleep infinity",
				Status:  "Up 2 minutes",
			},
			want: Summary{
				ID:      "0123456789abcdef",
				Name:    "web",
				Image:   "nginx:latest",
				Command: "sleep infinity",
				Status:  "Up 2 minutes",
			},
			ok: true,
		},
		{
			name: "missing id",
			ctr:  container.Summary{Names: []string{"/web"}, Image: "nginx", Command: "nginx", Status: "Up"},
		},
		{
			name: "missing names",
			ctr:  container.Summary{ID: "abc", Image: "nginx", Command: "nginx", Status: "Up"},
		},
		{
			name: "missing image",
			ctr:  container.Summary{ID: "abc", Names: []string{"/web"}, Command: "nginx", Status: "Up"},
		},
		{
			name: "missing command",
			ctr:  container.Summary{ID: "abc", Names: []string{"/web"}, Image: "nginx", Status: "Up"},
		},
		{
			name: "missing status",
			ctr:  container.Summary{ID: "abc", Names: []string{"/web"}, Image: "nginx", Command: "nginx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := summarize(tt.ctr)
			if ok != tt.ok {
				t.Fatalf("summarize() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	full := "f2d81cd57c2a6cdabdbbea2d8e9dcbdcc00bf11a707ea5dbd1cbb1bb0b73f1b4"
	short := ShortID(full)

	if len(short) >= len(full) {
		t.Fatalf("ShortID did not shorten: %q", short)
	}
	if !strings.HasPrefix(full, short) {
		t.Fatalf("ShortID(%q) = %q, not a prefix", full, short)
	}
}
