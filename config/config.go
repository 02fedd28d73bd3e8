// Package config loads the ini configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mobile-next/fingers/utils"
	"gopkg.in/ini.v1"
)

const (
	DefaultPath        = "~/.fingers.ini"
	DefaultListen      = "localhost:12000"
	DefaultMaxSessions = 64
)

// Config holds every setting read from the ini file.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Surface SurfaceConfig

	// Source is the file the values came from, or "defaults".
	Source string
}

type ServerConfig struct {
	Listen      string
	CORS        bool
	MaxSessions int
}

type LogConfig struct {
	Level  string
	Format string
}

type SurfaceConfig struct {
	SuppressOverscroll bool
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:      DefaultListen,
			MaxSessions: DefaultMaxSessions,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Source: "defaults",
	}
}

// Load reads path. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		utils.Verbose("Config file %s not found, using defaults", expanded)
		return cfg, nil
	}

	file, err := ini.Load(expanded)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", expanded, err)
	}

	server := file.Section("server")
	cfg.Server.Listen = server.Key("listen").MustString(cfg.Server.Listen)
	if err := readBool(server, "cors", &cfg.Server.CORS); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}
	if err := readInt(server, "max_sessions", &cfg.Server.MaxSessions); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}

	log := file.Section("log")
	cfg.Log.Level = log.Key("level").MustString(cfg.Log.Level)
	cfg.Log.Format = log.Key("format").MustString(cfg.Log.Format)
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return cfg, fmt.Errorf("%s: [log] format must be text or json, got %q", expanded, cfg.Log.Format)
	}

	surface := file.Section("surface")
	if err := readBool(surface, "suppress_overscroll", &cfg.Surface.SuppressOverscroll); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}

	if cfg.Server.MaxSessions < 1 {
		return cfg, fmt.Errorf("%s: max_sessions must be at least 1, got %d", expanded, cfg.Server.MaxSessions)
	}

	cfg.Source = expanded
	return cfg, nil
}

// readBool leaves dst untouched when the key is absent.
func readBool(section *ini.Section, name string, dst *bool) error {
	if !section.HasKey(name) {
		return nil
	}
	v, err := section.Key(name).Bool()
	if err != nil {
		return fmt.Errorf("[%s] %s: invalid boolean %q", section.Name(), name, section.Key(name).String())
	}
	*dst = v
	return nil
}

func readInt(section *ini.Section, name string, dst *int) error {
	if !section.HasKey(name) {
		return nil
	}
	v, err := section.Key(name).Int()
	if err != nil {
		return fmt.Errorf("[%s] %s: invalid integer %q: %w", section.Name(), name, section.Key(name).String(), err)
	}
	*dst = v
	return nil
}
