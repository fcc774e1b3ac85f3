package planner

import (
	"os"
	"path/filepath"

	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/orbit-hdl/orbit/internal/orberr"
)

// LocateManifest walks upward from startDir looking for the nearest
// enclosing Orbit.toml, per spec.md §4.6 step 1 ("current working
// directory must be inside an IP").
func LocateManifest(startDir string) (root string, m *manifest.Manifest, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", nil, err
	}
	for {
		candidate := filepath.Join(dir, manifest.FileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			loaded, loadErr := manifest.Load(candidate)
			if loadErr != nil {
				return "", nil, loadErr
			}
			return dir, loaded, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, orberr.New(orberr.ManifestMissing, startDir).
				WithDetail("no Orbit.toml found in any enclosing directory")
		}
		dir = parent
	}
}
