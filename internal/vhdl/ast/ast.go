// Package ast holds the design-unit model the parser produces: primary
// units (Entity, Package, Context, Configuration) become graph nodes;
// secondary units (Architecture, PackageBody) bind to an owning primary by
// name and contribute edges and references instead of nodes of their own.
package ast

import "github.com/orbit-hdl/orbit/internal/vhdl/token"

// InterfaceItem is one entry of a generic or port clause.
type InterfaceItem struct {
	Name token.Identifier
	Mode string // "in", "out", "inout", "buffer", "linkage", or "" for generics
	Type string // best-effort rendering of the subtype indication, informational
}

// ResourceReference is a prefix.suffix pair observed at statement scope.
// The suffix is the candidate dependency target; the prefix is an
// informational library/package qualifier and is not used for edge
// matching (spec §4.3, §9: matching is by suffix alone).
type ResourceReference struct {
	Prefix token.Identifier
	Suffix token.Identifier
	Pos    token.Position
}

// PrimaryUnit is the closed set of design units that become graph nodes:
// Entity, Package, Context, Configuration.
type PrimaryUnit interface {
	Identifier() token.Identifier
	References() []ResourceReference
	primaryUnit()
}

// Entity is a primary design unit with generic and port interface lists.
type Entity struct {
	Name     token.Identifier
	Generics []InterfaceItem
	Ports    []InterfaceItem
	Refs     []ResourceReference
	Pos      token.Position
}

func (e *Entity) Identifier() token.Identifier    { return e.Name }
func (e *Entity) References() []ResourceReference { return e.Refs }
func (e *Entity) primaryUnit()                    {}

// IsTestbench reports whether e has an empty port list, the spec's
// definition of a testbench root.
func (e *Entity) IsTestbench() bool { return len(e.Ports) == 0 }

// AddRefs appends refs to the entity's reference list.
func (e *Entity) AddRefs(refs []ResourceReference) { e.Refs = append(e.Refs, refs...) }

// Architecture is a secondary unit bound to its owning entity. Deps holds
// identifiers discovered via component/entity/configuration instantiations
// and configuration specifications in its body; these become graph edges
// "dep -> owner".
type Architecture struct {
	Name        token.Identifier
	OwnerEntity token.Identifier
	Deps        []token.Identifier
	Refs        []ResourceReference
	Pos         token.Position
}

func (a *Architecture) References() []ResourceReference { return a.Refs }

// Package is a primary unit; its package body (if any) contributes its
// references into Refs once merged by the graph builder (spec §4.3 step 3).
type Package struct {
	Name token.Identifier
	Refs []ResourceReference
	Pos  token.Position
}

func (p *Package) Identifier() token.Identifier     { return p.Name }
func (p *Package) References() []ResourceReference  { return p.Refs }
func (p *Package) primaryUnit()                     {}
func (p *Package) AddRefs(refs []ResourceReference) { p.Refs = append(p.Refs, refs...) }

// PackageBody is a secondary unit whose only externally visible effect is
// to contribute its references to the owning package node.
type PackageBody struct {
	OwnerPackage token.Identifier
	Refs         []ResourceReference
	Pos          token.Position
}

// Configuration is a primary unit: it becomes a graph node keyed by its own
// name. Spec §4.3 step 2 adds an edge from each of its ConfiguredUnits to
// the configuration itself (not to OwnerEntity, which is purely
// informational).
type Configuration struct {
	Name            token.Identifier
	OwnerEntity     token.Identifier
	ConfiguredUnits []token.Identifier
	Refs            []ResourceReference
	Pos             token.Position
}

func (c *Configuration) Identifier() token.Identifier     { return c.Name }
func (c *Configuration) References() []ResourceReference  { return c.Refs }
func (c *Configuration) primaryUnit()                     {}
func (c *Configuration) AddRefs(refs []ResourceReference) { c.Refs = append(c.Refs, refs...) }

// Context is a primary unit; all resource references found between `is`
// and the matching `end` are attached to it.
type Context struct {
	Name token.Identifier
	Refs []ResourceReference
	Pos  token.Position
}

func (c *Context) Identifier() token.Identifier     { return c.Name }
func (c *Context) References() []ResourceReference  { return c.Refs }
func (c *Context) primaryUnit()                     {}
func (c *Context) AddRefs(refs []ResourceReference) { c.Refs = append(c.Refs, refs...) }
