// Package config loads localsketch.yaml and builds the process logger.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"LocalSketch/internal/input"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

// DefaultPath is read when no --config flag is given. A missing file there
// is not an error.
const DefaultPath = "localsketch.yaml"

type Config struct {
	// Root is the directory whose sub-folders hold reference images.
	Root    string        `yaml:"root"`
	Addr    string        `yaml:"addr"`
	MDNS    MDNSConfig    `yaml:"mdns"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type MDNSConfig struct {
	Enabled bool `yaml:"enabled"`
	// Instance is the advertised service instance; empty means the hostname.
	Instance string `yaml:"instance"`
}

type SessionConfig struct {
	Interval int    `yaml:"interval"` // seconds
	Color    string `yaml:"color"`
	Size     int    `yaml:"size"`
	Mode     string `yaml:"mode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

func Default() Config {
	b := input.DefaultBrush()
	return Config{
		Root: ".",
		Addr: ":3000",
		MDNS: MDNSConfig{Enabled: true},
		Session: SessionConfig{
			Interval: 60,
			Color:    b.Color,
			Size:     b.Size,
			Mode:     string(session.ModeReference),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path tries DefaultPath and
// falls back to defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Session.Interval < 1 {
		errs = append(errs, fmt.Errorf("session.interval must be at least 1, got %d", c.Session.Interval))
	}
	if _, err := state.NormalizeColor(c.Session.Color); err != nil {
		errs = append(errs, fmt.Errorf("session.color: %w", err))
	}
	if c.Session.Size < session.MinBrushSize || c.Session.Size > session.MaxBrushSize {
		errs = append(errs, fmt.Errorf("session.size must be between %d and %d, got %d",
			session.MinBrushSize, session.MaxBrushSize, c.Session.Size))
	}
	if _, err := session.ParseMode(c.Session.Mode); err != nil {
		errs = append(errs, fmt.Errorf("session.mode: %w", err))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", state.ErrValidation, errors.Join(errs...))
	}
	return nil
}

// Brush is the starting pen for new sessions. Call after Validate.
func (c SessionConfig) Brush() input.Brush {
	color, _ := state.NormalizeColor(c.Color)
	return input.Brush{Color: color, Size: c.Size, Tool: state.ToolPen}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("log.level: unknown level %q", s)
	}
	return l, nil
}

// NewLogger builds the process logger. verbose forces debug level.
func (c LogConfig) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
