package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	koanftoml "github.com/knadh/koanf/parsers/toml/v2"
	koanfenv "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"

	"github.com/archtry/archtry/history"
)

// envPrefix marks environment variables that override config keys.
// ARCHTRY_HISTORY_PATH sets history.path.
const envPrefix = "ARCHTRY_"

// Config holds everything read from the config file and environment.
type Config struct {
	History HistoryConfig `koanf:"history"`
	Logging LoggingConfig `koanf:"logging"`
	Drill   DrillConfig   `koanf:"drill"`
}

// HistoryConfig locates the log of accepted lines.
type HistoryConfig struct {
	Path    string `koanf:"path"`
	Enabled bool   `koanf:"enabled"`
}

// LoggingConfig controls the diagnostic log.  It is always a file; the
// terminal is in raw mode while lines are read.
type LoggingConfig struct {
	Level string `koanf:"level"`
	Path  string `koanf:"path"`
}

type DrillConfig struct {
	Script string        `koanf:"script"` // empty for the built-in script
	Pause  time.Duration `koanf:"pause"`
}

func defaultConfig() Config {
	logDir := os.TempDir()
	if home, err := os.UserHomeDir(); err == nil {
		logDir = filepath.Join(home, ".local", "share", "archtry")
	}
	return Config{
		History: HistoryConfig{
			Path:    history.DefaultPath,
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			Path:  filepath.Join(logDir, "archtry.log"),
		},
		Drill: DrillConfig{
			Pause: 500 * time.Millisecond,
		},
	}
}

// userConfigPath returns ~/.config/archtry/conf.toml, or "" without a home.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "archtry", "conf.toml")
}

// LoadConfig layers the defaults, the config file and the environment, in
// that order.  An explicit path must exist; the default one may not.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = userConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := k.Load(file.Provider(path), koanftoml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := k.Load(koanfenv.Provider(".", koanfenv.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	config := defaultConfig()
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Drill.Pause < 0 {
		return nil, fmt.Errorf("drill.pause must not be negative, got %s", config.Drill.Pause)
	}
	return &config, nil
}
