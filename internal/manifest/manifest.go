// Package manifest decodes and validates Orbit.toml, the file that marks a
// directory as an IP and names its dependencies. Shape is grounded on
// original_source/src/core/catalog.rs's Ip/Manifest usage
// (get_man().get_ip().get_name()/get_version()); decoding itself uses
// github.com/pelletier/go-toml/v2, the teacher's own TOML dependency.
package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/semver"
)

// FileName is the manifest's required filename within an IP root.
const FileName = "Orbit.toml"

// Manifest is the decoded contents of an Orbit.toml.
type Manifest struct {
	Ip           IpSection         `toml:"ip" json:"ip"`
	Dependencies map[string]string `toml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// IpSection is the manifest's required [ip] table.
type IpSection struct {
	Name    string `toml:"name" json:"name"`
	Version string `toml:"version" json:"version"`
	Source  string `toml:"source,omitempty" json:"source,omitempty"`
}

// Decode parses and validates raw TOML bytes into a Manifest.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, orberr.Wrap(orberr.ManifestInvalid, FileName, err).WithDetail("malformed TOML")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, orberr.New(orberr.ManifestMissing, path)
		}
		return nil, orberr.Wrap(orberr.IoFailure, path, err)
	}
	return Decode(data)
}

// Validate enforces the manifest's required fields and dependency version
// syntax.
func (m *Manifest) Validate() error {
	if m.Ip.Name == "" {
		return orberr.New(orberr.ManifestInvalid, FileName).WithDetail("missing required field ip.name")
	}
	if m.Ip.Version == "" {
		return orberr.New(orberr.ManifestInvalid, FileName).WithDetail("missing required field ip.version")
	}
	if _, err := semver.ParseVersion(m.Ip.Version); err != nil {
		return orberr.Wrap(orberr.ManifestInvalid, FileName, err).
			WithDetail(fmt.Sprintf("ip.version %q is not a valid semantic version", m.Ip.Version))
	}
	for name, req := range m.Dependencies {
		if _, err := semver.ParseAnyVersion(req); err != nil {
			return orberr.Wrap(orberr.ManifestInvalid, FileName, err).
				WithDetail(fmt.Sprintf("dependency %q has an invalid version requirement %q", name, req))
		}
	}
	return nil
}

// Version returns the manifest's own IP version, already validated.
func (m *Manifest) Version() *semver.Version {
	v, _ := semver.ParseVersion(m.Ip.Version)
	return v
}

// SortedDependencyNames returns the manifest's dependency names in sorted
// order, for deterministic resolver traversal.
func (m *Manifest) SortedDependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
