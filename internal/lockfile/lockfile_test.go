package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orbit-hdl/orbit/internal/orberr"
)

func TestNewSortsEntriesByName(t *testing.T) {
	l := New([]Entry{
		{Name: "uart", Version: "1.0.0"},
		{Name: "gates", Version: "2.0.0"},
	})
	if got := l.Names(); got[0] != "gates" || got[1] != "uart" {
		t.Fatalf("expected sorted names, got %v", got)
	}
}

func TestWriteThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	l := New([]Entry{
		{Name: "gates", Version: "1.0.0", Source: "https://example.com/gates.git", Checksum: "abc123"},
		{Name: "uart", Version: "2.1.0"},
	})
	if err := l.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := loaded.Get("gates")
	if !ok || e.Version != "1.0.0" || e.Source != "https://example.com/gates.git" || e.Checksum != "abc123" {
		t.Fatalf("got %+v", e)
	}
	if len(loaded.Entry) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded.Entry))
	}
}

func TestWriteIsDeterministicAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	entries := []Entry{
		{Name: "uart", Version: "2.1.0"},
		{Name: "gates", Version: "1.0.0"},
	}
	if err := New(entries).Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := New(entries).Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected byte-identical lockfiles across invocations")
	}
}

func TestLoadMissingFileIsManifestMissing(t *testing.T) {
	_, err := Load("/nonexistent/Orbit.lock")
	if kind, ok := orberr.KindOf(err); !ok || kind != orberr.ManifestMissing {
		t.Fatalf("expected ManifestMissing, got %v", err)
	}
}

func TestMatchesDependenciesExactSetOnly(t *testing.T) {
	l := New([]Entry{{Name: "gates", Version: "1.0.0"}, {Name: "uart", Version: "2.0.0"}})
	if !l.MatchesDependencies([]string{"uart", "gates"}) {
		t.Fatalf("expected exact set match regardless of order")
	}
	if l.MatchesDependencies([]string{"gates"}) {
		t.Fatalf("expected mismatch when dependency set is a subset")
	}
	if l.MatchesDependencies([]string{"gates", "uart", "memory"}) {
		t.Fatalf("expected mismatch when dependency set is a superset")
	}
}
