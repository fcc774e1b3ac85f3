// Command orbit is the thin CLI adapter over the planning engine: it
// decodes flags, builds a planner.Options, calls planner.Run, and maps the
// closed error-kind set to a process exit code. It performs no planning
// logic of its own.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orbit-hdl/orbit/internal/ambientconfig"
	"github.com/orbit-hdl/orbit/internal/ambientlogging"
	"github.com/orbit-hdl/orbit/internal/catalog"
	"github.com/orbit-hdl/orbit/internal/collab"
	"github.com/orbit-hdl/orbit/internal/fileset"
	"github.com/orbit-hdl/orbit/internal/lockfile"
	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/planner"
	"github.com/orbit-hdl/orbit/internal/vendorindex"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Plan and blueprint a VHDL IP build",
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(planCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

var (
	flagTop        string
	flagBench      string
	flagPlugin     string
	flagBuildDir   string
	flagFilesets   []string
	flagClean      bool
	flagList       bool
	flagDisableSSH bool
	flagForce      bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Resolve dependencies and emit a blueprint",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagTop, "top", "", "top-level entity to build around")
	planCmd.Flags().StringVar(&flagBench, "bench", "", "testbench entity to simulate")
	planCmd.Flags().StringVar(&flagPlugin, "plugin", "", "plugin alias written to the env sidecar")
	planCmd.Flags().StringVar(&flagBuildDir, "build-dir", "build", "directory to write the blueprint and env sidecar into")
	planCmd.Flags().StringArrayVar(&flagFilesets, "fileset", nil, "custom fileset as key=glob, repeatable")
	planCmd.Flags().BoolVar(&flagClean, "clean", false, "remove the build directory's contents before planning")
	planCmd.Flags().BoolVar(&flagList, "list", false, "list known IPs across the cache, downloads, and vendor tiers and exit")
	planCmd.Flags().BoolVar(&flagDisableSSH, "disable-ssh", false, "rewrite git SSH remotes to https before cloning")
	planCmd.Flags().BoolVar(&flagForce, "force", false, "ignore any existing lockfile and re-resolve from the catalog")
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger, err := ambientlogging.New(verbose)
	if err != nil {
		return err
	}
	defer ambientlogging.Sync(logger)

	store, err := ambientconfig.Load()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	if flagList {
		return runList(store)
	}

	filesets, err := parseFilesets(flagFilesets)
	if err != nil {
		return err
	}

	if flagClean {
		if err := os.RemoveAll(flagBuildDir); err != nil {
			return err
		}
	}
	if flagForce {
		rootDir, _, locateErr := planner.LocateManifest(cwd)
		if locateErr == nil {
			_ = os.Remove(filepath.Join(rootDir, lockfile.FileName))
		}
	}

	installer := buildInstaller(store, flagDisableSSH)

	opts := planner.Options{
		WorkingDir:   cwd,
		CacheDir:     store.CachePath(),
		DownloadsDir: store.DownloadsPath(),
		BuildDir:     flagBuildDir,
		Top:          flagTop,
		Bench:        flagBench,
		Plugin:       flagPlugin,
		Filesets:     filesets,
		Logger:       logger,
	}

	result, err := planner.Run(opts, installer)
	if err != nil {
		return err
	}

	fmt.Printf("blueprint: %s\n", result.BlueprintPath)
	fmt.Printf("env:       %s\n", result.EnvPath)
	return nil
}

func runList(store ambientconfig.Store) error {
	cat := catalog.New()
	if store.CachePath() != "" {
		if err := cat.Installations(store.CachePath()); err != nil {
			return err
		}
	}
	if store.DownloadsPath() != "" {
		if err := cat.Downloads(store.DownloadsPath()); err != nil {
			return err
		}
	}
	for _, v := range store.Vendors() {
		idx, err := vendorindex.Load(v.Path)
		if err != nil {
			continue
		}
		for _, e := range idx.AvailabilityEntries() {
			cat.AddAvailable(e)
		}
	}
	for name, lvl := range cat.Levels() {
		for _, e := range lvl.Installations() {
			fmt.Printf("%-24s installed\t%s\n", name, e.Version())
		}
		for _, e := range lvl.Downloads() {
			fmt.Printf("%-24s downloaded\t%s\n", name, e.Version())
		}
		for _, e := range lvl.Availability() {
			fmt.Printf("%-24s available\t%s\n", name, e.Manifest.Ip.Source)
		}
	}
	return nil
}

// buildInstaller wires the vendor index's source lookup into a
// collab.Installer backed by the real git/archive collaborators.
func buildInstaller(store ambientconfig.Store, disableSSH bool) *collab.Installer {
	sources := vendorSources(store)
	return collab.New(func(name string) (string, bool) {
		source, ok := sources[name]
		return source, ok
	}, store.DownloadsPath(), store.CachePath(), disableSSH)
}

func vendorSources(store ambientconfig.Store) map[string]string {
	var indexes []vendorindex.Index
	for _, v := range store.Vendors() {
		idx, err := vendorindex.Load(v.Path)
		if err != nil {
			continue
		}
		indexes = append(indexes, idx)
	}
	return vendorindex.Merge(indexes...)
}

func parseFilesets(raw []string) ([]fileset.Fileset, error) {
	out := make([]fileset.Fileset, 0, len(raw))
	for _, entry := range raw {
		key, pattern, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, orberr.New(orberr.ManifestInvalid, entry).WithDetail("--fileset must be key=glob")
		}
		out = append(out, fileset.Fileset{Name: key, Pattern: pattern})
	}
	return out, nil
}

// exitCode maps the closed orberr.Kind set to a process exit code.
// Non-orberr errors (flag parsing, I/O the adapter itself hit) exit 1.
func exitCode(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	kind, ok := orberr.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case orberr.ManifestMissing, orberr.ManifestInvalid:
		return 2
	case orberr.UnknownIp, orberr.UnknownVersion, orberr.AmbiguousIp:
		return 3
	case orberr.UnknownUnit, orberr.UnknownEntity, orberr.BadEntity, orberr.BadTop, orberr.BadTestbench, orberr.Ambiguous:
		return 4
	case orberr.LexError, orberr.ParseError:
		return 5
	case orberr.IoFailure:
		return 6
	default:
		return 1
	}
}
