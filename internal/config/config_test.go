package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Entry != "main" || cfg.Prompt != "fn> " || cfg.Color != nil {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Level())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
prompt: "λ "
entry: start
color: false
log_level: DEBUG
history_file: /tmp/hist
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	off := false
	want := &Config{Prompt: "λ ", Entry: "start", Color: &off, LogLevel: "DEBUG", HistoryFile: "/tmp/hist"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}
}

func TestUseColor(t *testing.T) {
	on, off := true, false
	cases := []struct {
		name     string
		color    *bool
		terminal bool
		want     bool
	}{
		{"auto on terminal", nil, true, true},
		{"auto when piped", nil, false, false},
		{"forced on", &on, false, true},
		{"forced off", &off, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Color = tc.color
			if got := cfg.UseColor(tc.terminal); got != tc.want {
				t.Errorf("UseColor(%v) = %v, want %v", tc.terminal, got, tc.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("promt: x\n"))
	if err == nil || !strings.Contains(err.Error(), "promt") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestValidationCollectsIssues(t *testing.T) {
	_, err := Parse(strings.NewReader("prompt: \"\"\nentry: loop\nlog_level: loud\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	want := []string{
		"prompt must not be empty",
		`entry "loop" is a reserved keyword`,
		`log_level "loud" must be one of debug, info, warn, error`,
	}
	if diff := cmp.Diff(want, verr.Issues, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationRejectsBadEntryName(t *testing.T) {
	_, err := Parse(strings.NewReader("entry: 9lives\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fnlang.yaml")
	if err := os.WriteFile(path, []byte("entry: begin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Entry != "begin" {
		t.Errorf("expected entry begin, got %q", cfg.Entry)
	}
	if cfg.Path != path {
		t.Errorf("expected path %q, got %q", path, cfg.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestResolveUsesEnv(t *testing.T) {
	t.Setenv(EnvVar, "/some/where.yaml")
	if got := Resolve(); got != "/some/where.yaml" {
		t.Errorf("expected env path, got %q", got)
	}
}
