package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	a := filepath.Join(root, "a.t")
	b := filepath.Join(root, "b.t")
	c := filepath.Join(sub, "c.t")
	for _, path := range []string{a, b, c} {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "directory is watched itself",
			paths: []string{root},
			want:  []string{root},
		},
		{
			name:  "file maps to its parent",
			paths: []string{a},
			want:  []string{root},
		},
		{
			name:  "siblings share one parent",
			paths: []string{a, b},
			want:  []string{root},
		},
		{
			name:  "mixed files and directories",
			paths: []string{a, sub, c},
			want:  []string{root, sub},
		},
		{
			name:  "order of first occurrence wins",
			paths: []string{c, a},
			want:  []string{sub, root},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := watchDirs(tt.paths)
			if err != nil {
				t.Fatalf("watchDirs(%v): %v", tt.paths, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("watchDirs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWatchDirsMissingPath(t *testing.T) {
	_, err := watchDirs([]string{filepath.Join(t.TempDir(), "nope.t")})
	if err == nil {
		t.Error("watchDirs succeeded for a missing path, want error")
	}
}
