package ambientconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	t.Setenv("ORBIT_HOME", t.TempDir())
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DevelopmentPath() == "" || s.CachePath() == "" || s.DownloadsPath() == "" {
		t.Fatalf("expected fallback paths to be non-empty")
	}
	if len(s.Vendors()) != 0 || len(s.Plugins()) != 0 || len(s.Templates()) != 0 {
		t.Fatalf("expected empty defaults")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ORBIT_HOME", home)
	content := `
development = "/dev/orbit"
cache = "/cache/orbit"
downloads = "/downloads/orbit"

[[vendor]]
name = "parts"
path = "/vendors/parts"

[plugins.ghdl]
command = "ghdl"
args = ["-a", "--std=08"]

[templates.basic]
path = "/templates/basic"
`
	if err := os.WriteFile(filepath.Join(home, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DevelopmentPath() != "/dev/orbit" {
		t.Fatalf("got development path %q", s.DevelopmentPath())
	}
	if s.CachePath() != "/cache/orbit" {
		t.Fatalf("got cache path %q", s.CachePath())
	}
	if len(s.Vendors()) != 1 || s.Vendors()[0].Name != "parts" {
		t.Fatalf("got vendors %+v", s.Vendors())
	}
	plugin, ok := s.Plugins()["ghdl"]
	if !ok || plugin.Command != "ghdl" || len(plugin.Args) != 2 {
		t.Fatalf("got plugins %+v", s.Plugins())
	}
	tmpl, ok := s.Templates()["basic"]
	if !ok || tmpl.Path != "/templates/basic" {
		t.Fatalf("got templates %+v", s.Templates())
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ORBIT_HOME", home)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}
