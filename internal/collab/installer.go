// Package collab wires the vcs and archive collaborators together into a
// resolver.Installer: given an IP name the catalog has no on-disk copy of,
// look up its source URL from the vendor availability index, fetch it into
// a staged download, decode and validate its manifest, then move it into
// the cache as a named slot via the same atomic temp+rename pattern the
// rest of the module uses for cache writes.
package collab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/orbit-hdl/orbit/internal/atomicfile"
	"github.com/orbit-hdl/orbit/internal/cacheslot"
	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/collab/archive"
	"github.com/orbit-hdl/orbit/internal/collab/vcs"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/semver"
)

// SourceLookup answers "what source URL should I fetch name from", backed
// by a vendor index (internal/ambientconfig.Store.Vendors, expanded into a
// name->source map by the caller) or any other availability tier.
type SourceLookup func(name string) (source string, ok bool)

// Installer implements resolver.Installer by shelling out to git or an
// archive extractor depending on the looked-up source URL's shape, then
// installing the result as a new cache slot.
type Installer struct {
	Sources      SourceLookup
	Fetcher      vcs.Fetcher
	Extractor    archive.Extractor
	DownloadsDir string
	CacheDir     string
	DisableSSH   bool
}

// New builds an Installer with the default git/archive collaborators.
func New(sources SourceLookup, downloadsDir, cacheDir string, disableSSH bool) *Installer {
	return &Installer{
		Sources:      sources,
		Fetcher:      vcs.NewGit(),
		Extractor:    archive.NewTar(),
		DownloadsDir: downloadsDir,
		CacheDir:     cacheDir,
		DisableSSH:   disableSSH,
	}
}

// Install fetches name from its registered source and stages it into the
// cache, returning the resulting catalog entry. It satisfies
// resolver.Installer.
func (i *Installer) Install(name string, req semver.AnyVersion) (catalog.Entry, error) {
	source, ok := i.Sources(name)
	if !ok {
		return catalog.Entry{}, orberr.New(orberr.UnknownIp, name).WithDetail("no vendor index entry provides a source")
	}

	staged, err := i.stage(name, source)
	if err != nil {
		return catalog.Entry{}, err
	}
	defer os.RemoveAll(staged)

	manifestPath := filepath.Join(staged, manifest.FileName)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return catalog.Entry{}, err
	}
	if m.Ip.Name != name {
		return catalog.Entry{}, orberr.New(orberr.ManifestInvalid, name).
			WithDetail(fmt.Sprintf("source manifest declares ip.name=%q", m.Ip.Name))
	}
	if !req.Latest && !semver.Compatible(req.Partial, m.Version()) {
		return catalog.Entry{}, orberr.New(orberr.UnknownVersion, name).
			WithDetail(fmt.Sprintf("fetched version %s does not satisfy %s", m.Version(), req))
	}

	checksum, err := directoryChecksum(staged)
	if err != nil {
		return catalog.Entry{}, orberr.Wrap(orberr.IoFailure, staged, err)
	}
	slot := cacheslot.New(name, m.Version(), checksum)
	slotPath := filepath.Join(i.CacheDir, slot.String())

	if err := atomicfile.Dir(slotPath, func(tmpDir string) error {
		return copyTree(staged, tmpDir)
	}); err != nil {
		return catalog.Entry{}, orberr.Wrap(orberr.IoFailure, slotPath, err)
	}

	return catalog.Entry{Manifest: m, Root: slotPath, Checksum: slot.Checksum}, nil
}

// stage fetches source into a freshly named staging directory under
// DownloadsDir and returns its path: a git clone for repository-shaped
// sources, an archive extraction otherwise.
func (i *Installer) stage(name, source string) (string, error) {
	staged := filepath.Join(i.DownloadsDir, name+"-"+uuid.NewString())

	if looksLikeRepository(source) {
		ctx := context.Background()
		if err := i.Fetcher.Clone(ctx, source, staged, i.DisableSSH); err != nil {
			return "", orberr.Wrap(orberr.IoFailure, source, err)
		}
		return staged, nil
	}

	archivePath := filepath.Join(i.DownloadsDir, name+"-"+uuid.NewString()+filepath.Ext(source))
	if err := downloadFile(source, archivePath); err != nil {
		return "", orberr.Wrap(orberr.IoFailure, source, err)
	}
	defer os.Remove(archivePath)

	if err := i.Extractor.Extract(archivePath, staged); err != nil {
		return "", orberr.Wrap(orberr.IoFailure, source, err)
	}
	return staged, nil
}

// looksLikeRepository guesses whether source is a git remote (vs. a plain
// archive URL) from its scheme/suffix, since spec's vendor index entries
// carry a bare "source" string with no separate "kind" tag.
func looksLikeRepository(source string) bool {
	switch {
	case strings.HasSuffix(source, ".git"):
		return true
	case strings.HasPrefix(source, "git@"), strings.HasPrefix(source, "ssh://"):
		return true
	default:
		return false
	}
}
