// Package config loads optional user defaults for renimg.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "renimg"

// Config holds settings that may also be given as flags.
type Config struct {
	Preview      string `koanf:"preview"`       // "auto", "inline", "external" or "none"
	Viewer       string `koanf:"viewer"`        // external viewer command
	StrictNames  bool   `koanf:"strict_names"`  // strip each illegal character
	StrictDecode bool   `koanf:"strict_decode"` // reject truncated images
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{Preview: "auto"}
}

// DefaultPath returns $XDG_CONFIG_HOME/renimg/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads the TOML file at path on top of Default. An empty path means
// DefaultPath, which may be absent; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = expandPath(path)

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Viewer = strings.TrimSpace(expandPath(cfg.Viewer))

	return cfg, nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
