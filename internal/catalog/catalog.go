// Package catalog indexes the IPs Orbit knows about at each of its three
// levels - installed in the cache, staged in the downloads directory, or
// merely available from a channel - and answers version-compatible lookups
// against them. Shape is grounded on original_source/src/core/catalog.rs's
// Catalog/IpLevel; directory scanning follows the teacher's
// filepath.WalkDir usage in internal/indexer/policy_cache.go.
package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/orbit-hdl/orbit/internal/cacheslot"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/semver"
)

// State names which level of the catalog an Entry was found at.
type State int

const (
	StateUnknown State = iota
	StateInstallation
	StateDownloaded
	StateAvailable
)

func (s State) String() string {
	switch s {
	case StateInstallation:
		return "installation"
	case StateDownloaded:
		return "downloaded"
	case StateAvailable:
		return "available"
	default:
		return "unknown"
	}
}

// Entry is one discovered copy of an IP: its manifest plus the directory it
// was found in, plus the content checksum recovered from its cache slot
// name, when its directory name happens to parse as one.
type Entry struct {
	Manifest *manifest.Manifest
	Root     string
	Checksum string
}

// Name returns the entry's IP name, for grouping into a Level.
func (e Entry) Name() string { return e.Manifest.Ip.Name }

// Version returns the entry's parsed IP version.
func (e Entry) Version() *semver.Version { return e.Manifest.Version() }

// Level holds every known copy of a single IP name, partitioned by which
// catalog tier each copy was discovered at.
type Level struct {
	installs  []Entry
	downloads []Entry
	available []Entry
}

func newLevel() *Level {
	return &Level{}
}

func (l *Level) addInstall(e Entry)   { l.installs = append(l.installs, e) }
func (l *Level) addDownload(e Entry)  { l.downloads = append(l.downloads, e) }
func (l *Level) addAvailable(e Entry) { l.available = append(l.available, e) }

// Installations returns every installed copy of this IP.
func (l *Level) Installations() []Entry { return l.installs }

// Downloads returns every staged-but-unverified copy of this IP.
func (l *Level) Downloads() []Entry { return l.downloads }

// Availability returns every copy of this IP known only to a channel.
func (l *Level) Availability() []Entry { return l.available }

// IsInstalled reports whether any copy of this IP is installed.
func (l *Level) IsInstalled() bool { return len(l.installs) > 0 }

// IsDownloaded reports whether any copy of this IP has been downloaded.
func (l *Level) IsDownloaded() bool { return len(l.downloads) > 0 }

// IsAvailable reports whether any copy of this IP is listed as available.
func (l *Level) IsAvailable() bool { return len(l.available) > 0 }

// GetInstall returns the installed entry whose version best matches req.
func (l *Level) GetInstall(req semver.AnyVersion) (Entry, bool) {
	return targetVersion(req, l.installs)
}

// GetDownload returns the downloaded entry whose version best matches req.
func (l *Level) GetDownload(req semver.AnyVersion) (Entry, bool) {
	return targetVersion(req, l.downloads)
}

// GetAvailable returns the available entry whose version best matches req.
func (l *Level) GetAvailable(req semver.AnyVersion) (Entry, bool) {
	return targetVersion(req, l.available)
}

// Get resolves req against installations first, falling back to downloads
// only when checkDownloads is set. It never consults availability: that tier
// requires an explicit install step before it can be used in a plan.
func (l *Level) Get(checkDownloads bool, req semver.AnyVersion) (Entry, bool) {
	if e, ok := l.GetInstall(req); ok {
		return e, true
	}
	if checkDownloads {
		return l.GetDownload(req)
	}
	return Entry{}, false
}

// State reports which tier an entry equal to e was found at, checked in
// installation, available, downloaded order.
func (l *Level) State(e Entry) State {
	for _, ip := range l.installs {
		if sameEntry(ip, e) {
			return StateInstallation
		}
	}
	for _, ip := range l.available {
		if sameEntry(ip, e) {
			return StateAvailable
		}
	}
	for _, ip := range l.downloads {
		if sameEntry(ip, e) {
			return StateDownloaded
		}
	}
	return StateUnknown
}

func sameEntry(a, b Entry) bool {
	return a.Root == b.Root && a.Name() == b.Name() && a.Version().Equal(b.Version())
}

// targetVersion scans space for the highest version satisfying req.
func targetVersion(req semver.AnyVersion, space []Entry) (Entry, bool) {
	versions := make([]*semver.Version, 0, len(space))
	byVersion := make(map[*semver.Version]Entry, len(space))
	for _, e := range space {
		v := e.Version()
		versions = append(versions, v)
		byVersion[v] = e
	}
	best, ok := semver.HighestMatching(req, versions)
	if !ok {
		return Entry{}, false
	}
	return byVersion[best], true
}

// Catalog indexes every known IP across every level, keyed by IP name.
type Catalog struct {
	levels        map[string]*Level
	cachePath     string
	downloadsPath string
}

// New builds an empty catalog.
func New() *Catalog {
	return &Catalog{levels: make(map[string]*Level)}
}

// Levels exposes the underlying name-to-level index.
func (c *Catalog) Levels() map[string]*Level { return c.levels }

// Level returns the Level for name, or nil if nothing is known about it.
func (c *Catalog) Level(name string) *Level { return c.levels[name] }

func (c *Catalog) levelFor(name string) *Level {
	lvl, ok := c.levels[name]
	if !ok {
		lvl = newLevel()
		c.levels[name] = lvl
	}
	return lvl
}

// CachePath returns the installation root this catalog was scanned from.
func (c *Catalog) CachePath() string { return c.cachePath }

// DownloadsPath returns the downloads root this catalog was scanned from.
func (c *Catalog) DownloadsPath() string { return c.downloadsPath }

// Installations scans path for installed IPs - directories containing an
// Orbit.toml - and merges them into the catalog.
func (c *Catalog) Installations(path string) error {
	c.cachePath = path
	entries, err := scan(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		c.levelFor(e.Name()).addInstall(e)
	}
	return nil
}

// Downloads scans path for staged downloads - files or directories whose
// name parses as a cacheslot.DownloadSlot - and merges them into the
// catalog. A download cannot be decoded as a manifest the way an
// installation can: it may still be an unextracted archive, so its name and
// version are recovered straight from the slot name instead.
func (c *Catalog) Downloads(path string) error {
	c.downloadsPath = path
	entries, err := scanDownloads(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		c.levelFor(e.Name()).addDownload(e)
	}
	return nil
}

// AddAvailable registers an IP known only to a channel (never scanned from
// disk - channels describe availability out of band).
func (c *Catalog) AddAvailable(e Entry) {
	c.levelFor(e.Name()).addAvailable(e)
}

// IsCachedSlot reports whether slot already has an installed directory.
func (c *Catalog) IsCachedSlot(slot cacheslot.Slot) bool {
	return dirExists(filepath.Join(c.cachePath, slot.String()))
}

// IsDownloadedSlot reports whether slot already has a staged file.
func (c *Catalog) IsDownloadedSlot(slot cacheslot.DownloadSlot) bool {
	return fileExists(filepath.Join(c.downloadsPath, slot.String()))
}

// PossibleVersions returns every distinct version known for name across
// installations and downloads, newest first. It reports false if nothing is
// known about name.
func (c *Catalog) PossibleVersions(name string) ([]*semver.Version, bool) {
	lvl, ok := c.levels[name]
	if !ok {
		return nil, false
	}
	seen := make(map[string]*semver.Version)
	for _, e := range lvl.installs {
		seen[e.Version().String()] = e.Version()
	}
	for _, e := range lvl.downloads {
		seen[e.Version().String()] = e.Version()
	}
	versions := make([]*semver.Version, 0, len(seen))
	for _, v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].GreaterThan(versions[j]) })
	return versions, true
}

// scan walks root for directories containing an Orbit.toml and decodes each
// one into an Entry. A manifest that fails to decode is skipped rather than
// aborting the whole scan, so one corrupt IP cannot hide every other one.
func scan(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || d.Name() != manifest.FileName {
			return nil
		}
		m, err := manifest.Load(path)
		if err != nil {
			return nil
		}
		dir := filepath.Dir(path)
		checksum := ""
		if slot, err := cacheslot.Parse(filepath.Base(dir)); err == nil {
			checksum = slot.Checksum
		}
		entries = append(entries, Entry{Manifest: m, Root: dir, Checksum: checksum})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// scanDownloads lists root's immediate entries and recovers a download
// Entry from each name that parses as a cacheslot.DownloadSlot; any other
// entry (including an in-progress staging directory from
// internal/collab's installer) is skipped rather than erroring.
func scanDownloads(root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, d := range dirEntries {
		slot, err := cacheslot.ParseDownloadSlot(d.Name())
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Manifest: &manifest.Manifest{
				Ip: manifest.IpSection{Name: slot.Name, Version: slot.Version.String()},
			},
			Root: filepath.Join(root, d.Name()),
		})
	}
	return entries, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
