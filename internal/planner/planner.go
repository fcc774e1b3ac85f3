// Package planner orchestrates spec.md §4.6's plan operation: locate the
// enclosing IP, resolve its dependency graph, enumerate and parse every
// dependency's VHDL files, build the design-unit graph, select top/bench,
// and emit a blueprint plus env sidecar.
package planner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/fileset"
	"github.com/orbit-hdl/orbit/internal/lockfile"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/resolver"
	"github.com/orbit-hdl/orbit/internal/schema"
	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
	"github.com/orbit-hdl/orbit/internal/vhdl/parser"
)

// Options carries every --flag the plan subcommand accepts (spec.md §6).
type Options struct {
	WorkingDir   string
	CacheDir     string
	DownloadsDir string
	BuildDir     string
	Top          string
	Bench        string
	Plugin       string
	Filesets     []fileset.Fileset // from repeated --fileset key=glob

	// Logger receives diagnostics: the manifest location, the resolved IP
	// count, per-file parse results and failures, the selected top/bench and
	// the blueprint summary. A nil Logger runs silently.
	Logger *zap.Logger
}

// Result is everything a caller (the CLI, or a test) might want back from a
// completed plan.
type Result struct {
	RootDir       string
	Resolutions   []resolver.Resolution
	Selection     Selection
	BlueprintPath string
	EnvPath       string
}

// Run executes the full plan pipeline and writes the blueprint + env
// sidecar under opts.BuildDir.
func Run(opts Options, installer resolver.Installer) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rootDir, rootManifest, err := LocateManifest(opts.WorkingDir)
	if err != nil {
		return nil, err
	}
	log.Debug("located manifest", zap.String("root", rootDir), zap.String("ip", rootManifest.Ip.Name))

	sch, err := schema.New()
	if err != nil {
		return nil, orberr.Wrap(orberr.IoFailure, "schema", err)
	}
	if err := sch.ValidateManifest(rootManifest); err != nil {
		return nil, err
	}

	cat := catalog.New()
	if opts.CacheDir != "" {
		if err := cat.Installations(opts.CacheDir); err != nil {
			return nil, orberr.Wrap(orberr.IoFailure, opts.CacheDir, err)
		}
	}
	if opts.DownloadsDir != "" {
		if err := cat.Downloads(opts.DownloadsDir); err != nil {
			return nil, orberr.Wrap(orberr.IoFailure, opts.DownloadsDir, err)
		}
	}
	res := resolver.New(cat, installer)
	resolutions, err := res.Resolve(rootManifest, rootDir)
	if err != nil {
		return nil, err
	}
	log.Info("resolved dependency set", zap.Int("count", len(resolutions)))

	lockEntries := resolver.ToLockEntries(resolutions, rootManifest.Ip.Name)
	lf := lockfile.New(lockEntries)
	if err := sch.ValidateLockfile(lf); err != nil {
		return nil, err
	}
	if err := lf.Write(filepath.Join(rootDir, lockfile.FileName)); err != nil {
		return nil, err
	}

	var parsed []ParsedFile
	for _, r := range resolutions {
		library := "work"
		if r.Name != rootManifest.Ip.Name {
			library = NormalizeLibrary(r.Name)
		}
		if r.Root == "" {
			continue
		}
		files, err := EnumerateVHDLFiles(r.Root)
		if err != nil {
			return nil, orberr.Wrap(orberr.IoFailure, r.Root, err)
		}
		for _, path := range files {
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil, orberr.Wrap(orberr.IoFailure, path, readErr)
			}
			units, errs := parser.Parse(path, string(data))
			if len(errs) > 0 {
				log.Error("parse failed", zap.String("path", path), zap.Error(errs[0]))
				return nil, orberr.Wrap(orberr.ParseError, path, errs[0])
			}
			log.Debug("parsed source file", zap.String("path", path), zap.Int("units", len(units.Primaries)))
			parsed = append(parsed, ParsedFile{Path: path, Library: library, Units: units})
		}
	}

	g := BuildGraph(parsed)
	sel, err := SelectTopBench(g, opts.Bench, opts.Top)
	if err != nil {
		return nil, err
	}

	highest := sel.HighestPoint()
	if highest == "" {
		return nil, orberr.New(orberr.BadTop, "").WithDetail("no top or bench unit could be determined")
	}
	order := g.MinimalTopologicalSort(highest)

	filesByUnit := make(map[string][]string)
	libraryByUnit := make(map[string]string)
	for _, key := range order {
		node, ok := g.Value(key)
		if !ok {
			continue
		}
		filesByUnit[key] = node.Files
		libraryByUnit[key] = node.Library
	}

	seen := make(map[string]bool)
	var hdlFiles []fileset.HDLFile
	for _, key := range order {
		for _, path := range filesByUnit[key] {
			if seen[path] {
				continue
			}
			seen[path] = true
			hdlFiles = append(hdlFiles, fileset.HDLFile{Path: path, Library: libraryByUnit[key]})
		}
	}
	hdlRows := fileset.HDLRows(hdlFiles)

	topName, benchName := unitDisplayName(g, sel.Top), unitDisplayName(g, sel.Bench)
	vars := fileset.Vars(topName, benchName, opts.Plugin)
	customRows, err := fileset.CustomRows(opts.Filesets, vars)
	if err != nil {
		return nil, orberr.Wrap(orberr.IoFailure, "fileset", err)
	}

	blueprintPath := filepath.Join(opts.BuildDir, "blueprint.tsv")
	if err := fileset.WriteBlueprint(blueprintPath, customRows, hdlRows); err != nil {
		return nil, err
	}

	envPath := filepath.Join(opts.BuildDir, "orbit.env")
	env := fileset.Env{Top: topName, Bench: benchName, Plugin: opts.Plugin}
	if err := fileset.WriteEnvSidecar(envPath, env); err != nil {
		return nil, err
	}

	if rec, ok := unitRecord(g, sel.Top); ok {
		log.Debug("selected top unit", zap.String("identifier", rec.Identifier), zap.String("kind", string(rec.Type)))
	}
	if rec, ok := unitRecord(g, sel.Bench); ok {
		log.Debug("selected bench unit", zap.String("identifier", rec.Identifier), zap.String("kind", string(rec.Type)))
	}

	log.Info("wrote blueprint",
		zap.String("blueprint", blueprintPath),
		zap.String("top", topName),
		zap.String("bench", benchName),
	)

	return &Result{
		RootDir:       rootDir,
		Resolutions:   resolutions,
		Selection:     sel,
		BlueprintPath: blueprintPath,
		EnvPath:       envPath,
	}, nil
}

func unitDisplayName(g interface {
	Value(string) (*UnitNode, bool)
}, key string) string {
	if key == "" {
		return ""
	}
	node, ok := g.Value(key)
	if !ok {
		return key
	}
	return node.Unit.Identifier().Text()
}

// unitRecord renders the design unit at key as a lossless ast.PrimaryUnitRecord
// for structured diagnostics, so a log line can carry a unit's kind alongside
// its identifier instead of just a bare name.
func unitRecord(g interface {
	Value(string) (*UnitNode, bool)
}, key string) (ast.PrimaryUnitRecord, bool) {
	if key == "" {
		return ast.PrimaryUnitRecord{}, false
	}
	node, ok := g.Value(key)
	if !ok {
		return ast.PrimaryUnitRecord{}, false
	}
	return ast.ToRecord(node.Unit), true
}

var nonIdentChar = regexp.MustCompile(`[^a-z0-9_]+`)

// NormalizeLibrary folds an IP name into a valid VHDL library identifier:
// lowercase, non-identifier runs collapsed to a single underscore.
func NormalizeLibrary(name string) string {
	lower := strings.ToLower(name)
	normalized := nonIdentChar.ReplaceAllString(lower, "_")
	normalized = strings.Trim(normalized, "_")
	if normalized == "" {
		return "lib"
	}
	return normalized
}
