package planner

import (
	"github.com/orbit-hdl/orbit/internal/graph"
	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
	"github.com/orbit-hdl/orbit/internal/vhdl/parser"
)

// ParsedFile is one VHDL source file's parse result, attached to the IP
// file node metadata the graph needs: the path itself and the owning IP's
// library name.
type ParsedFile struct {
	Path    string
	Library string
	Units   *parser.FileUnits
}

// UnitNode is the payload each graph node carries: the design unit itself,
// the library it belongs to, and the ordered, deduplicated list of files it
// was observed in (a unit's declaration can legally span files when the
// same identifier recurs, e.g. a package re-declared per spec's
// add_node merge rule).
type UnitNode struct {
	Unit    ast.PrimaryUnit
	Library string
	Files   []string
}

func (n *UnitNode) addFile(path string) {
	for _, f := range n.Files {
		if f == path {
			return
		}
	}
	n.Files = append(n.Files, path)
}

// BuildGraph assembles the design-unit dependency graph from every parsed
// file's units, per spec.md §4.3's three edge-construction passes.
func BuildGraph(files []ParsedFile) *graph.Graph[string, *UnitNode] {
	nodes := make(map[string]*UnitNode)
	var order []string

	var architectures []*ast.Architecture
	var bodies []*ast.PackageBody

	for _, f := range files {
		for _, pu := range f.Units.Primaries {
			key := pu.Identifier().Key()
			if existing, ok := nodes[key]; ok {
				existing.addFile(f.Path)
				continue
			}
			node := &UnitNode{Unit: pu, Library: f.Library}
			node.addFile(f.Path)
			nodes[key] = node
			order = append(order, key)
		}
		architectures = append(architectures, f.Units.Architectures...)
		bodies = append(bodies, f.Units.Bodies...)
	}

	// Merge each package body's references into its owning package (§4.3,
	// "after merging package-body refs into its package").
	for _, body := range bodies {
		if node, ok := nodes[body.OwnerPackage.Key()]; ok {
			if pkg, ok := node.Unit.(*ast.Package); ok {
				pkg.AddRefs(body.Refs)
			}
		}
	}

	g := graph.New[string, *UnitNode]()
	for _, key := range order {
		g.AddNode(key, nodes[key])
	}

	// Pass 1: architecture instantiation and configuration-specification
	// deps become edges dep -> owner_entity.
	archRefsByOwner := make(map[string][]ast.ResourceReference)
	for _, arch := range architectures {
		ownerKey := arch.OwnerEntity.Key()
		for _, dep := range arch.Deps {
			g.AddEdge(dep.Key(), ownerKey)
		}
		archRefsByOwner[ownerKey] = append(archRefsByOwner[ownerKey], arch.Refs...)
	}

	// Pass 2: each configuration's configured units become edges
	// configured_unit -> configuration.
	for _, key := range order {
		cfg, ok := nodes[key].Unit.(*ast.Configuration)
		if !ok {
			continue
		}
		for _, unit := range cfg.ConfiguredUnits {
			g.AddEdge(unit.Key(), key)
		}
	}

	// Pass 3: suffix-matched resource references become edges
	// matched_node -> this_unit, combining each unit's own references with
	// any bound architecture's references (an architecture isn't a node of
	// its own, so its references attach to its owning entity's node).
	for _, key := range order {
		refs := append([]ast.ResourceReference{}, nodes[key].Unit.References()...)
		refs = append(refs, archRefsByOwner[key]...)
		for _, ref := range refs {
			suffixKey := ref.Suffix.Key()
			if g.HasNode(suffixKey) {
				g.AddEdge(suffixKey, key)
			}
		}
	}

	return g
}
