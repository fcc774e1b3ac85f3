package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/semver"
)

func writeManifest(t *testing.T, dir, name, version string, deps map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	data := "[ip]\nname = \"" + name + "\"\nversion = \"" + version + "\"\n"
	if len(deps) > 0 {
		data += "\n[dependencies]\n"
		for k, v := range deps {
			data += k + " = \"" + v + "\"\n"
		}
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func rootManifest(t *testing.T, name, version string, deps map[string]string) *manifest.Manifest {
	t.Helper()
	m := &manifest.Manifest{
		Ip:           manifest.IpSection{Name: name, Version: version},
		Dependencies: deps,
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return m
}

func TestResolveSinglePicksOldestCompatible(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), "gates", "1.0.0", nil)
	writeManifest(t, filepath.Join(root, "b"), "gates", "1.2.3", nil)

	c := catalog.New()
	if err := c.Installations(root); err != nil {
		t.Fatalf("Installations: %v", err)
	}

	rm := rootManifest(t, "top", "0.1.0", map[string]string{"gates": "1"})
	r := New(c, nil)
	got, err := r.Resolve(rm, root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected target + 1 dependency, got %v", got)
	}
	var gatesRes Resolution
	for _, res := range got {
		if res.Name == "gates" {
			gatesRes = res
		}
	}
	if gatesRes.Version == nil || gatesRes.Version.String() != "1.0.0" {
		t.Fatalf("expected MVS to pick the oldest compatible version 1.0.0, got %v", gatesRes)
	}
}

func TestResolveMissingDependencyIsUnknownIp(t *testing.T) {
	root := t.TempDir()
	c := catalog.New()
	if err := c.Installations(t.TempDir()); err != nil {
		t.Fatalf("Installations: %v", err)
	}
	rm := rootManifest(t, "top", "0.1.0", map[string]string{"gates": "1"})
	r := New(c, nil)
	if _, err := r.Resolve(rm, root); err == nil {
		t.Fatalf("expected UnknownIp error")
	}
}

func TestResolveUsesInstallerWhenNotOnDisk(t *testing.T) {
	root := t.TempDir()
	c := catalog.New()
	if err := c.Installations(t.TempDir()); err != nil {
		t.Fatalf("Installations: %v", err)
	}
	v, _ := semver.ParseVersion("3.0.0")
	installer := installerFunc(func(name string, req semver.AnyVersion) (catalog.Entry, error) {
		return catalog.Entry{Manifest: &manifest.Manifest{Ip: manifest.IpSection{Name: name, Version: v.String()}}}, nil
	})
	rm := rootManifest(t, "top", "0.1.0", map[string]string{"gates": "3"})
	r := New(c, installer)
	got, err := r.Resolve(rm, root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected target + 1 dependency, got %v", got)
	}
}

func TestResolveConflictingRequirementsIsError(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), "gates", "1.0.0", nil)
	// gates 2.x is on disk too, so uart's requirement resolves and the
	// failure comes from memory's conflicting "1", not from a missing IP.
	writeManifest(t, filepath.Join(root, "d"), "gates", "2.0.0", nil)
	writeManifest(t, filepath.Join(root, "b"), "uart", "1.0.0", map[string]string{"gates": "2"})
	writeManifest(t, filepath.Join(root, "c"), "memory", "1.0.0", map[string]string{"gates": "1"})

	c := catalog.New()
	if err := c.Installations(root); err != nil {
		t.Fatalf("Installations: %v", err)
	}
	rm := rootManifest(t, "top", "0.1.0", map[string]string{"uart": "1", "memory": "1"})
	r := New(c, nil)
	_, err := r.Resolve(rm, root)
	if err == nil {
		t.Fatalf("expected conflicting requirement error")
	}
	if kind, ok := orberr.KindOf(err); !ok || kind != orberr.UnknownVersion {
		t.Fatalf("expected UnknownVersion conflict error, got %v", err)
	}
}

func TestToLockEntriesExcludesRoot(t *testing.T) {
	v, _ := semver.ParseVersion("1.0.0")
	resolutions := []Resolution{
		{Name: "top", Version: v},
		{Name: "gates", Version: v, Source: "https://example.com/gates.git"},
	}
	entries := ToLockEntries(resolutions, "top")
	if len(entries) != 1 || entries[0].Name != "gates" {
		t.Fatalf("got %v", entries)
	}
}

type installerFunc func(name string, req semver.AnyVersion) (catalog.Entry, error)

func (f installerFunc) Install(name string, req semver.AnyVersion) (catalog.Entry, error) {
	return f(name, req)
}
