package planner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/orbit-hdl/orbit/internal/lockfile"
	"github.com/orbit-hdl/orbit/internal/manifest"
)

// vhdlExts are the file extensions the planner treats as VHDL source,
// matched case-insensitively.
var vhdlExts = map[string]bool{
	".vhd":  true,
	".vhdl": true,
}

// EnumerateVHDLFiles walks root recursively and returns every VHDL source
// file found, sorted for deterministic ordering. It skips hidden
// directories (dotfiles, e.g. .git) and never treats Orbit.toml/Orbit.lock
// as source. Ignore files (such as .gitignore) are not read: every
// non-hidden .vhd/.vhdl file under root is returned.
func EnumerateVHDLFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != root && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if base == manifest.FileName || base == lockfile.FileName {
			return nil
		}
		if vhdlExts[strings.ToLower(filepath.Ext(base))] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
