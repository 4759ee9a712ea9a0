package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"niva-gps/internal/niva"
)

// MinFragmentBytes is the smallest scan buffer accepted.
const MinFragmentBytes = 16

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Scan    ScanConfig    `yaml:"scan"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ScanConfig struct {
	MaxFragmentBytes int `yaml:"max_fragment_bytes"`
}

type StoreConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after a run.
	Textfile string `yaml:"textfile"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return Config{}, fmt.Errorf("config contains unknown fields: %s", describeTypeError(typeErr))
		}
		return Config{}, err
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Scan.MaxFragmentBytes == 0 {
		cfg.Scan.MaxFragmentBytes = niva.DefaultMaxFragmentBytes
	}
}

func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q invalid: want text or json", c.Log.Format)
	}
	if c.Scan.MaxFragmentBytes < MinFragmentBytes {
		return fmt.Errorf("scan.max_fragment_bytes must be >= %d", MinFragmentBytes)
	}
	if c.Store.Enable && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required when store.enable is true")
	}
	return nil
}

// SlogLevel maps log.level onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q invalid: want debug, info, warn or error", c.Log.Level)
	}
}

// NewLogger builds the slog logger described by the log section.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// describeTypeError drops yaml's "line N:" prefixes.
func describeTypeError(err *yaml.TypeError) string {
	msgs := make([]string, 0, len(err.Errors))
	for _, e := range err.Errors {
		if strings.HasPrefix(e, "line ") {
			if _, rest, ok := strings.Cut(e, ": "); ok {
				e = rest
			}
		}
		msgs = append(msgs, e)
	}
	return strings.Join(msgs, "; ")
}
