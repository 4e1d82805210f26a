package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/meigma/gcf"
	"github.com/meigma/gcf/compression"
)

// Config is the gcf configuration file ($XDG_CONFIG_HOME/gcf/config.yaml).
// Pointer fields distinguish "not set" from zero values. Flags given on
// the command line win over the file.
type Config struct {
	Scheme         string  `yaml:"scheme"`
	Unpadded       *bool   `yaml:"unpadded"`
	Extended       *bool   `yaml:"extended"`
	FormatVersion  *int    `yaml:"format_version"`
	MaxContentSize *uint64 `yaml:"max_content_size"`
	LogLevel       string  `yaml:"log_level"`
	LogFormat      string  `yaml:"log_format"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gcf", "config.yaml")
}

// loadConfig reads the config file at path, or at the default location when
// path is empty. A missing default file yields a zero Config; a missing
// explicit file is an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// settings is the resolved configuration of one command run.
type settings struct {
	logger         *slog.Logger
	registry       *compression.Registry
	version        int
	maxContentSize uint64
	scheme         compression.Scheme
	unpadded       bool
}

// resolve merges the config file into the global flags and builds the
// logger and compression registry.
func (g *globalOptions) resolve(cmd *cli.Command, stderr io.Writer) (Config, settings, error) {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return Config{}, settings{}, err
	}
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		g.logFormat = cfg.LogFormat
	}
	if cfg.Extended != nil && !cmd.IsSet("extended") {
		g.extended = *cfg.Extended
	}
	if cfg.FormatVersion != nil && !cmd.IsSet("format-version") {
		g.formatVersion = *cfg.FormatVersion
	}

	logger, err := newLogger(stderr, g.logLevel, g.logFormat)
	if err != nil {
		return Config{}, settings{}, err
	}
	if _, err := gcf.MakeMagic(g.formatVersion); err != nil {
		return Config{}, settings{}, fmt.Errorf("--format-version: %w", err)
	}

	s := settings{
		logger:         logger,
		version:        g.formatVersion,
		maxContentSize: compression.DefaultMaxDecompressedSize,
		scheme:         compression.Deflate,
	}
	if cfg.MaxContentSize != nil {
		s.maxContentSize = *cfg.MaxContentSize
	}
	if cfg.Unpadded != nil {
		s.unpadded = *cfg.Unpadded
	}
	if cfg.Scheme != "" {
		if s.scheme, err = compression.ParseScheme(cfg.Scheme); err != nil {
			return Config{}, settings{}, fmt.Errorf("config scheme: %w", err)
		}
	}

	regOpts := []compression.RegistryOption{
		compression.WithStandardSchemes(),
		compression.WithMaxDecompressedSize(s.maxContentSize),
	}
	if g.extended {
		regOpts = append(regOpts, compression.WithExtendedSchemes())
	}
	s.registry = compression.NewRegistry(regOpts...)
	return cfg, s, nil
}

// readerOptions returns the gcf options for reading with s.
func (s settings) readerOptions() []gcf.Option {
	return []gcf.Option{
		gcf.WithRegistry(s.registry),
		gcf.WithLogger(s.logger),
		gcf.WithExpectedVersion(s.version),
		gcf.WithMaxContentSize(s.maxContentSize),
	}
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}
