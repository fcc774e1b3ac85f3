// Package vendorindex decodes a vendor index file: a TOML document
// enumerating (name, version, source) triples for IPs a channel makes
// available but that have never been installed or downloaded locally.
// Shape mirrors internal/lockfile's "array of tables" document, since both
// are flat TOML listings of IP identity plus a source URL.
package vendorindex

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
)

// Entry is one vendor-index row.
type Entry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source"`
}

// Index is the decoded contents of a vendor index file.
type Index struct {
	Ip []Entry `toml:"ip"`
}

// Decode parses raw TOML bytes into an Index.
func Decode(data []byte) (Index, error) {
	var idx Index
	if err := toml.Unmarshal(data, &idx); err != nil {
		return Index{}, orberr.Wrap(orberr.ManifestInvalid, "vendor index", err).WithDetail("malformed vendor index TOML")
	}
	return idx, nil
}

// Load reads and decodes the vendor index file at path.
func Load(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Index{}, orberr.Wrap(orberr.IoFailure, path, err)
	}
	return Decode(data)
}

// Sources flattens the index into a name->source lookup. When more than
// one entry names the same IP, the last one listed wins - vendor index
// files are expected to list at most one source per name in practice, and
// spec.md leaves the multi-version-availability case unspecified.
func (idx Index) Sources() map[string]string {
	out := make(map[string]string, len(idx.Ip))
	for _, e := range idx.Ip {
		out[e.Name] = e.Source
	}
	return out
}

// AvailabilityEntries renders the index as catalog.Entry values suitable
// for catalog.Catalog.AddAvailable: each carries a synthetic manifest built
// from the vendor row (name, version, source) and an empty Root, since the
// IP has not actually been fetched yet.
func (idx Index) AvailabilityEntries() []catalog.Entry {
	out := make([]catalog.Entry, 0, len(idx.Ip))
	for _, e := range idx.Ip {
		out = append(out, catalog.Entry{
			Manifest: &manifest.Manifest{
				Ip: manifest.IpSection{Name: e.Name, Version: e.Version, Source: e.Source},
			},
		})
	}
	return out
}

// Merge combines the Sources maps of multiple indexes, in order - later
// indexes override earlier ones for the same name, mirroring the order
// vendor aliases are declared in the ambient config's [[vendor]] list.
func Merge(indexes ...Index) map[string]string {
	out := make(map[string]string)
	for _, idx := range indexes {
		for name, source := range idx.Sources() {
			out[name] = source
		}
	}
	return out
}
