package build

import (
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		resource string
		want     string
		wantErr  bool
	}{
		{
			name:     "default from resource",
			resource: "web",
			want:     "web:latest",
		},
		{
			name:     "explicit tag",
			tag:      "web:v2",
			resource: "web",
			want:     "web:v2",
		},
		{
			name:     "untagged gets latest",
			tag:      "web",
			resource: "web",
			want:     "web:latest",
		},
		{
			name:     "registry reference",
			tag:      "ghcr.io/acme/web:v1",
			resource: "web",
			want:     "ghcr.io/acme/web:v1",
		},
		{
			name:     "invalid reference",
			tag:      "NOT OK",
			resource: "web",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTag(tt.tag, tt.resource)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeTag() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("normalizeTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerID(t *testing.T) {
	r := &recipe{resource: "web"}

	if got := r.containerID("tools", 0); got != "web-stage-tools" {
		t.Errorf("containerID = %q, want web-stage-tools", got)
	}
	if got := r.containerID("", 2); got != "web-stage-3" {
		t.Errorf("containerID = %q, want web-stage-3", got)
	}
}
