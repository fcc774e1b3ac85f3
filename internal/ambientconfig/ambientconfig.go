// Package ambientconfig is the user-level configuration store: development
// path, cache path, downloads path, vendor indexes, and plugin/template
// aliases. Structure and search-then-default behavior are grounded on
// internal/config.Config/DefaultConfig/Load, adapted from JSON to TOML to
// match the rest of this module's file format.
package ambientconfig

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/orbit-hdl/orbit/internal/orberr"
)

// FileName is the user config's filename within its config directory.
const FileName = "config.toml"

// VendorIndex names a registered vendor index by alias and filesystem path.
type VendorIndex struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Plugin is a named downstream toolchain command the blueprint's env
// sidecar can point a build script at.
type Plugin struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args,omitempty"`
}

// Template is a named scaffold directory `orbit new` would copy from and
// apply variable substitution to.
type Template struct {
	Path string `toml:"path"`
}

// Config is the decoded contents of a user config.toml.
type Config struct {
	Development string              `toml:"development,omitempty"`
	Cache       string              `toml:"cache,omitempty"`
	Downloads   string              `toml:"downloads,omitempty"`
	Vendor      []VendorIndex       `toml:"vendor,omitempty"`
	Plugins     map[string]Plugin   `toml:"plugins,omitempty"`
	Templates   map[string]Template `toml:"templates,omitempty"`
}

// Store is the read-only view the planner and its collaborators consult.
// Unchanged shape from SPEC_FULL.md's external-interface section.
type Store interface {
	DevelopmentPath() string
	CachePath() string
	DownloadsPath() string
	Vendors() []VendorIndex
	Plugins() map[string]Plugin
	Templates() map[string]Template
}

type store struct {
	cfg  Config
	home string
}

func (s *store) DevelopmentPath() string        { return s.resolve(s.cfg.Development, "development") }
func (s *store) CachePath() string              { return s.resolve(s.cfg.Cache, "cache") }
func (s *store) DownloadsPath() string          { return s.resolve(s.cfg.Downloads, "downloads") }
func (s *store) Vendors() []VendorIndex         { return s.cfg.Vendor }
func (s *store) Plugins() map[string]Plugin     { return s.cfg.Plugins }
func (s *store) Templates() map[string]Template { return s.cfg.Templates }

func (s *store) resolve(configured, fallbackLeaf string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(s.home, fallbackLeaf)
}

// DefaultConfig returns an empty configuration: every path falls back to a
// leaf directory under the XDG-style orbit home, no vendors/plugins/
// templates registered.
func DefaultConfig() Config {
	return Config{}
}

// Decode parses raw TOML bytes into a Config.
func Decode(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, orberr.Wrap(orberr.ManifestInvalid, FileName, err).WithDetail("malformed user config TOML")
	}
	return cfg, nil
}

// HomeDir returns the fixed XDG-style orbit home: $ORBIT_HOME if set, else
// ~/.orbit.
func HomeDir() (string, error) {
	if v := os.Getenv("ORBIT_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", orberr.Wrap(orberr.IoFailure, "orbit home", err)
	}
	return filepath.Join(home, ".orbit"), nil
}

// Load searches for a user config, in order:
//  1. $ORBIT_HOME/config.toml (or ~/.orbit/config.toml)
//  2. built-in defaults, if no file is found
//
// Unlike internal/config.Load, there is no per-project search step here:
// the user config is strictly user-level, and the per-project manifest
// (Orbit.toml) is a distinct concern handled by internal/manifest.
func Load() (Store, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, FileName)
	cfg := DefaultConfig()
	if data, readErr := os.ReadFile(path); readErr == nil {
		cfg, err = Decode(data)
		if err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(readErr) {
		return nil, orberr.Wrap(orberr.IoFailure, path, readErr)
	}
	return &store{cfg: cfg, home: home}, nil
}
