// Package fileset expands glob-pattern filesets into blueprint rows and
// writes the blueprint and its env sidecar. Glob expansion (including the
// "**" recursive form) is grounded on the teacher's
// internal/config.ResolveLibraries / expandGlob / expandDoubleStarGlob;
// row and file formats follow spec.md §4.7 and §6.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/orbit-hdl/orbit/internal/atomicfile"
)

// HDL fileset names, per spec.md §4.7/§6.
const (
	VHDLRTL = "VHDL-RTL"
	VHDLSIM = "VHDL-SIM"
)

// Fileset is a named glob pattern declared by a plugin or the caller
// (`--fileset key=glob`), applied before the built-in HDL classification.
type Fileset struct {
	Name    string
	Pattern string
}

// Row is one blueprint line: <fileset-name> <key> <path>. Key is a library
// name for HDL rows, or the file's stem for custom fileset rows.
type Row struct {
	Fileset string
	Key     string
	Path    string
}

// Substitute replaces every `{{ key }}` occurrence in pattern with vars[key].
// Unknown keys are left untouched rather than erroring, mirroring a glob
// pattern that simply fails to match anything useful.
func Substitute(pattern string, vars map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(pattern, "{{")
		if start < 0 {
			b.WriteString(pattern)
			break
		}
		end := strings.Index(pattern[start:], "}}")
		if end < 0 {
			b.WriteString(pattern)
			break
		}
		end += start
		b.WriteString(pattern[:start])
		key := strings.TrimSpace(pattern[start+2 : end])
		if v, ok := vars[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(pattern[start : end+2])
		}
		pattern = pattern[end+2:]
	}
	return b.String()
}

// ExpandGlob expands pattern relative to the filesystem root it names,
// handling a "**" segment as a recursive directory match.
func ExpandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return expandDoubleStar(pattern)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("fileset: bad glob pattern %q: %w", pattern, err)
	}
	abs := make([]string, len(matches))
	for i, m := range matches {
		a, err := filepath.Abs(m)
		if err != nil {
			return nil, err
		}
		abs[i] = a
	}
	return abs, nil
}

func expandDoubleStar(pattern string) ([]string, error) {
	parts := strings.SplitN(pattern, "**", 2)
	if len(parts) != 2 {
		return ExpandGlob(pattern)
	}
	baseDir := filepath.Clean(parts[0])
	if baseDir == "" {
		baseDir = "."
	}
	suffix := strings.TrimPrefix(parts[1], string(filepath.Separator))

	var results []string
	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		if suffix == "" || matchSuffix(rel, suffix) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil
			}
			results = append(results, abs)
		}
		return nil
	})
	return results, err
}

func matchSuffix(path, pattern string) bool {
	if !strings.Contains(pattern, string(filepath.Separator)) {
		matched, _ := filepath.Match(pattern, filepath.Base(path))
		return matched
	}
	matched, _ := filepath.Match(pattern, path)
	if matched {
		return true
	}
	if len(path) > len(pattern) {
		matched, _ = filepath.Match(pattern, path[len(path)-len(pattern):])
		return matched
	}
	return false
}

// CustomRows expands every declared fileset's pattern (after variable
// substitution) into blueprint rows, in declaration order, so custom
// filesets always precede the HDL rows per spec.md §6.
func CustomRows(filesets []Fileset, vars map[string]string) ([]Row, error) {
	var rows []Row
	for _, fs := range filesets {
		pattern := Substitute(fs.Pattern, vars)
		matches, err := ExpandGlob(pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			stem := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
			rows = append(rows, Row{Fileset: fs.Name, Key: stem, Path: m})
		}
	}
	return rows, nil
}

// testbenchSuffixes names the filename conventions a simulation-only VHDL
// file is expected to follow. Neither spec.md nor the original source
// names an exact convention, so this follows the most common VHDL
// community practice (a "_tb" or "_testbench" stem suffix).
var testbenchSuffixes = []string{"_tb", "_testbench"}

// ClassifyHDL reports whether path is a simulation-only file (VHDL-SIM) or
// an RTL file (VHDL-RTL, the default) based on its filename.
func ClassifyHDL(path string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, suf := range testbenchSuffixes {
		if strings.HasSuffix(stem, suf) {
			return VHDLSIM
		}
	}
	return VHDLRTL
}

// HDLFile is one VHDL source file destined for the blueprint, already
// attached to the library it belongs to.
type HDLFile struct {
	Path    string
	Library string
}

// HDLRows classifies and converts files into blueprint rows, preserving the
// given order (the caller is expected to have already ordered files by
// minimal topological sort, deepest dependency first).
func HDLRows(files []HDLFile) []Row {
	rows := make([]Row, len(files))
	for i, f := range files {
		rows[i] = Row{Fileset: ClassifyHDL(f.Path), Key: f.Library, Path: f.Path}
	}
	return rows
}

// WriteBlueprint atomically writes blueprint.tsv: custom fileset rows
// first in declaration order, then HDL rows in their given order.
func WriteBlueprint(path string, customRows, hdlRows []Row) error {
	var b strings.Builder
	for _, r := range append(append([]Row{}, customRows...), hdlRows...) {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", r.Fileset, r.Key, r.Path)
	}
	return atomicfile.Write(path, []byte(b.String()), 0o644)
}

// Env is the set of environment variables the planner exposes to plugins.
type Env struct {
	Top    string
	Bench  string
	Plugin string
}

// WriteEnvSidecar atomically writes the .env file: ORBIT_TOP, ORBIT_BENCH,
// and ORBIT_PLUGIN when set.
func WriteEnvSidecar(path string, env Env) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ORBIT_TOP=%s\n", env.Top)
	fmt.Fprintf(&b, "ORBIT_BENCH=%s\n", env.Bench)
	if env.Plugin != "" {
		fmt.Fprintf(&b, "ORBIT_PLUGIN=%s\n", env.Plugin)
	}
	return atomicfile.Write(path, []byte(b.String()), 0o644)
}

// Vars builds the substitution table CustomRows patterns draw from, always populated with at least orbit.top and orbit.bench per
// spec.md §4.7.
func Vars(top, bench, plugin string) map[string]string {
	vars := map[string]string{"orbit.top": top, "orbit.bench": bench}
	if plugin != "" {
		vars["orbit.plugin"] = plugin
	}
	return vars
}
