package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.CleanEnv)
	assert.Equal(t, "auto", cfg.Color)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("shell: /bin/bash\nindent: 4\ncleanEnv: false\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", cfg.Shell)
	assert.Equal(t, 4, cfg.Indent)
	assert.False(t, cfg.CleanEnv)
	// Untouched fields keep their defaults.
	assert.Equal(t, "auto", cfg.Color)
}

func TestLoadDefaultFileIsOptional(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("")
	assert.NoError(t, err)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prysk.yaml")
	require.NoError(t, os.WriteFile(file, []byte("shell: /bin/bash\n"), 0o644))
	t.Setenv("PRYSK_SHELL", "/bin/dash")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/bin/dash", cfg.Shell)
}

func TestEnvironmentOnly(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRYSK_INDENT", "8")
	t.Setenv("PRYSK_KEEP_TMPDIR", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Indent)
	assert.True(t, cfg.KeepTmpdir)
	assert.Equal(t, "/bin/sh", cfg.Shell)
}

func TestLoadRejectsBadIndent(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRYSK_INDENT", "0")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte(":\n  - ]["), 0o644))
	_, err := Load(file)
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "bogus", want: slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
