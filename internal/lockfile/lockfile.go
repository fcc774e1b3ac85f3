// Package lockfile decodes and writes Orbit.lock, the TOML record of a
// resolved dependency set. Shape is grounded on spec.md's "Lockfile
// (Orbit.lock)" description (name-sorted table per resolved IP with name,
// version, source, checksum); decode/encode follows internal/manifest's use
// of github.com/pelletier/go-toml/v2, and writes go through
// internal/atomicfile so a reader never observes a half-written lockfile.
package lockfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/orbit-hdl/orbit/internal/atomicfile"
	"github.com/orbit-hdl/orbit/internal/orberr"
)

// FileName is the lockfile's required filename within an IP root.
const FileName = "Orbit.lock"

// Entry records one resolved dependency's pinned version and provenance.
type Entry struct {
	Name     string `toml:"name" json:"name"`
	Version  string `toml:"version" json:"version"`
	Source   string `toml:"source,omitempty" json:"source,omitempty"`
	Checksum string `toml:"checksum,omitempty" json:"checksum,omitempty"`
}

// Lockfile is the decoded contents of an Orbit.lock: a name-sorted list of
// resolved entries.
type Lockfile struct {
	Entry []Entry `toml:"entry" json:"entry,omitempty"`
}

// New builds a Lockfile from entries, sorting them by name so two
// invocations over the same resolved set always produce the same document.
func New(entries []Entry) *Lockfile {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Lockfile{Entry: sorted}
}

// Decode parses raw TOML bytes into a Lockfile.
func Decode(data []byte) (*Lockfile, error) {
	var l Lockfile
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, orberr.Wrap(orberr.ManifestInvalid, FileName, err).WithDetail("malformed lockfile TOML")
	}
	sort.Slice(l.Entry, func(i, j int) bool { return l.Entry[i].Name < l.Entry[j].Name })
	return &l, nil
}

// Load reads and decodes the lockfile at path.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, orberr.New(orberr.ManifestMissing, path)
		}
		return nil, orberr.Wrap(orberr.IoFailure, path, err)
	}
	return Decode(data)
}

// Write atomically encodes and writes the lockfile to path: a temp file in
// the same directory, then a rename, so a reader never sees a half-written
// lockfile and an interrupted plan never corrupts the previous one.
func (l *Lockfile) Write(path string) error {
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	return atomicfile.Write(path, data, 0o644)
}

// Names returns the lockfile's entry names in the order they are stored
// (already name-sorted by New/Decode).
func (l *Lockfile) Names() []string {
	names := make([]string, len(l.Entry))
	for i, e := range l.Entry {
		names[i] = e.Name
	}
	return names
}

// Get returns the entry for name, if present.
func (l *Lockfile) Get(name string) (Entry, bool) {
	for _, e := range l.Entry {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// MatchesDependencies reports whether the lockfile's entry set is exactly
// the set of dependency names given. The resolver does not call it: it
// always re-resolves against the catalog.
func (l *Lockfile) MatchesDependencies(depNames []string) bool {
	if len(l.Entry) != len(depNames) {
		return false
	}
	want := make(map[string]bool, len(depNames))
	for _, n := range depNames {
		want[n] = true
	}
	for _, e := range l.Entry {
		if !want[e.Name] {
			return false
		}
	}
	return true
}
