// Package config loads CLI defaults from an INI file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dyuri/sc2conv/internal/export"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "sc2conv.ini"

// Config holds the CLI defaults. Command line flags override it.
type Config struct {
	LogLevel  logrus.Level
	LogFormat string // text or json

	Compression export.Compression
	Pretty      bool
	OutputDir   string
	Xattr       bool // Tag documents with the city name

	Charset string // Empty picks by platform
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:    logrus.InfoLevel,
		LogFormat:   "text",
		Compression: export.DefaultCompression,
	}
}

// Load reads path over the defaults. A missing DefaultFile is not an error;
// an explicitly named missing file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.apply(f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads an INI document from data over the defaults.
func Parse(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := cfg.apply(f); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(f *ini.File) error {
	log := f.Section("log")
	if log.HasKey("level") {
		lvl, err := logrus.ParseLevel(log.Key("level").String())
		if err != nil {
			return fmt.Errorf("[log] level: %w", err)
		}
		c.LogLevel = lvl
	}
	if log.HasKey("format") {
		format := strings.ToLower(log.Key("format").String())
		if format != "text" && format != "json" {
			return fmt.Errorf("[log] format: unknown format %q", format)
		}
		c.LogFormat = format
	}

	conv := f.Section("convert")
	if conv.HasKey("compression") {
		comp, err := export.ParseCompression(conv.Key("compression").String())
		if err != nil {
			return fmt.Errorf("[convert] compression: %w", err)
		}
		c.Compression = comp
	}
	c.Pretty = conv.Key("pretty").MustBool(c.Pretty)
	c.OutputDir = conv.Key("output_dir").MustString(c.OutputDir)
	c.Xattr = conv.Key("xattr").MustBool(c.Xattr)

	c.Charset = f.Section("decode").Key("charset").MustString(c.Charset)
	return nil
}

// Logger builds a logger from the configured level and format.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}
