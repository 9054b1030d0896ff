// Package config loads the fnlang command line settings from fnlang.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fnlang/internal/ast"
	"fnlang/internal/token"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "FNLANG_CONFIG"

// DefaultFile is looked up in the working directory when EnvVar is unset.
const DefaultFile = "fnlang.yaml"

// Config holds the CLI and REPL settings.
type Config struct {
	Path        string `yaml:"-"`
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Entry       string `yaml:"entry"`
	Color       *bool  `yaml:"color"`
	LogLevel    string `yaml:"log_level"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var identPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Default returns the settings used when no file is present.
func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".fnlang_history")
	}
	return &Config{
		Prompt:      "fn> ",
		HistoryFile: history,
		Entry:       ast.EntryPoint,
		LogLevel:    "warn",
	}
}

// UseColor reports whether output should carry ANSI colors. An explicit
// color setting wins; otherwise color follows whether a terminal is attached.
func (c *Config) UseColor(isTerminal bool) bool {
	if c.Color != nil {
		return *c.Color
	}
	return isTerminal
}

// Resolve returns the config path to use: $FNLANG_CONFIG, else ./fnlang.yaml
// if it exists, else "".
func Resolve() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// LoadDefault loads the config at Resolve(), or the defaults.
func LoadDefault() (*Config, error) {
	return Load(Resolve())
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults unchanged; an empty file is allowed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	if err := decode(file, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads YAML settings from r over the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	switch {
	case c.Entry == "":
		errs.Issues = append(errs.Issues, "entry must be provided")
	case !identPattern.MatchString(c.Entry):
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is not a valid function name", c.Entry))
	case token.LookupIdent(c.Entry).IsKeyword():
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q is a reserved keyword", c.Entry))
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	if lvl, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelWarn
}
