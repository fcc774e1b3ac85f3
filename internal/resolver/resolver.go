// Package resolver implements Orbit's minimum-version-selection dependency
// resolution: given a root manifest and a catalog, compute the transitive
// set of IPs the build needs, installing missing ones on demand. Algorithm
// is grounded directly on spec.md §4.5's work-stack pseudocode rather than
// original_source/src/core/resolver/mvs.rs, whose
// compute_minimal_requirement_list is an unfinished stub (its own test is
// #[ignore]d). The general lowest/highest-compatible-version scan mirrors
// original_source/src/core/catalog.rs's get_target_version, inverted for
// "oldest allowed" selection per spec.md's MVS description.
package resolver

import (
	"sort"

	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/lockfile"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/semver"
)

// Installer fetches name at a version compatible with req from a remote
// source when the catalog has no on-disk copy, returning the resulting
// catalog entry. Implemented by internal/collab's Installer, which fetches
// through internal/collab/vcs and internal/collab/archive; nil here means the resolver never attempts a
// remote fetch and instead fails fast with UnknownIp.
type Installer interface {
	Install(name string, req semver.AnyVersion) (catalog.Entry, error)
}

// Resolution is one member of a resolved dependency set.
type Resolution struct {
	Name     string
	Version  *semver.Version
	Source   string
	Checksum string
	Root     string
}

// Resolver resolves a manifest's dependency tree against a catalog.
type Resolver struct {
	catalog   *catalog.Catalog
	installer Installer
}

// New builds a Resolver. installer may be nil if remote installs are not
// supported in this context.
func New(cat *catalog.Catalog, installer Installer) *Resolver {
	return &Resolver{catalog: cat, installer: installer}
}

type stackEntry struct {
	name   string
	req    semver.AnyVersion
	isRoot bool
}

// Resolve computes the transitive IP set root depends on, including root
// itself, via minimum version selection: push the target, pop an IP, record
// it once, then for each of its dependencies select the oldest on-disk
// version satisfying the requirement (installing from source if none is on
// disk but one is available remotely) and push it in turn.
func (r *Resolver) Resolve(root *manifest.Manifest, rootDir string) ([]Resolution, error) {
	var stack []stackEntry
	stack = append(stack, stackEntry{name: root.Ip.Name, isRoot: true})

	resolved := make(map[string]Resolution)
	var order []string
	reqSeen := make(map[string]semver.AnyVersion)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, already := resolved[cur.name]; already {
			continue
		}

		var res Resolution
		var deps map[string]string

		if cur.isRoot {
			res = Resolution{Name: root.Ip.Name, Version: root.Version(), Source: root.Ip.Source, Root: rootDir}
			deps = root.Dependencies
		} else {
			entry, ok := r.lookup(cur.name, cur.req)
			if !ok && r.installer != nil {
				installed, err := r.installer.Install(cur.name, cur.req)
				if err != nil {
					return nil, orberr.Wrap(orberr.UnknownIp, cur.name, err)
				}
				entry, ok = installed, true
			}
			if !ok {
				return nil, orberr.New(orberr.UnknownIp, cur.name)
			}
			res = Resolution{
				Name:     cur.name,
				Version:  entry.Version(),
				Source:   entry.Manifest.Ip.Source,
				Checksum: entry.Checksum,
				Root:     entry.Root,
			}
			deps = entry.Manifest.Dependencies
		}

		resolved[cur.name] = res
		order = append(order, cur.name)

		depNames := make([]string, 0, len(deps))
		for name := range deps {
			depNames = append(depNames, name)
		}
		sort.Strings(depNames)

		for _, name := range depNames {
			req, err := semver.ParseAnyVersion(deps[name])
			if err != nil {
				return nil, orberr.Wrap(orberr.ManifestInvalid, name, err).
					WithDetail("invalid dependency version requirement")
			}
			if prev, seen := reqSeen[name]; seen && prev.ConflictsWith(req) {
				return nil, orberr.New(orberr.UnknownVersion, name).
					WithDetail("conflicting version requirements: " + prev.String() + " vs " + req.String())
			}
			reqSeen[name] = req
			stack = append(stack, stackEntry{name: name, req: req})
		}
	}

	out := make([]Resolution, len(order))
	for i, name := range order {
		out[i] = resolved[name]
	}
	return out, nil
}

// lookup asks the catalog for the oldest on-disk version of name satisfying
// req, consulting installations and downloads.
func (r *Resolver) lookup(name string, req semver.AnyVersion) (catalog.Entry, bool) {
	lvl := r.catalog.Level(name)
	if lvl == nil {
		return catalog.Entry{}, false
	}
	return selectOldestSatisfying(lvl, req)
}

// selectOldestSatisfying implements MVS's "oldest allowed" rule: among
// installed and downloaded copies, pick the lowest version compatible with
// req. A Latest request is the one exception - it names no prefix to be
// minimal about, so it resolves to the newest copy found instead, via the
// same highest-compatible scan catalog.targetVersion uses.
func selectOldestSatisfying(lvl *catalog.Level, req semver.AnyVersion) (catalog.Entry, bool) {
	var candidates []catalog.Entry
	candidates = append(candidates, lvl.Installations()...)
	candidates = append(candidates, lvl.Downloads()...)

	if req.Latest {
		versions := make([]*semver.Version, 0, len(candidates))
		byVersion := make(map[*semver.Version]catalog.Entry, len(candidates))
		for _, e := range candidates {
			v := e.Version()
			versions = append(versions, v)
			byVersion[v] = e
		}
		best, ok := semver.HighestMatching(req, versions)
		if !ok {
			return catalog.Entry{}, false
		}
		return byVersion[best], true
	}

	var best catalog.Entry
	found := false
	for _, e := range candidates {
		if !semver.Compatible(req.Partial, e.Version()) {
			continue
		}
		if !found || e.Version().LessThan(best.Version()) {
			best = e
			found = true
		}
	}
	return best, found
}

// ToLockEntries converts a resolved set into lockfile entries, excluding
// rootName: the lockfile records the target's dependencies, not the target
// itself.
func ToLockEntries(resolutions []Resolution, rootName string) []lockfile.Entry {
	entries := make([]lockfile.Entry, 0, len(resolutions))
	for _, res := range resolutions {
		if res.Name == rootName {
			continue
		}
		entries = append(entries, lockfile.Entry{
			Name:     res.Name,
			Version:  res.Version.String(),
			Source:   res.Source,
			Checksum: res.Checksum,
		})
	}
	return entries
}
