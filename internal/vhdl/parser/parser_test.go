package parser

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/vhdl/ast"
)

func mustEntity(t *testing.T, u ast.PrimaryUnit) *ast.Entity {
	t.Helper()
	e, ok := u.(*ast.Entity)
	if !ok {
		t.Fatalf("expected *ast.Entity, got %T", u)
	}
	return e
}

func findPrimary(units []ast.PrimaryUnit, name string) ast.PrimaryUnit {
	for _, u := range units {
		if u.Identifier().Text() == name {
			return u
		}
	}
	return nil
}

func TestParsesSingleEntityWithGenericsAndPorts(t *testing.T) {
	src := `
library ieee;
use ieee.std_logic_1164.all;

entity nor_gate is
  generic (N : integer := 2);
  port (a : in std_logic; b : in std_logic; c : out std_logic);
end entity nor_gate;
`
	fu, errs := Parse("nor_gate.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(fu.Primaries) != 1 {
		t.Fatalf("expected 1 primary unit, got %d", len(fu.Primaries))
	}
	ent := mustEntity(t, fu.Primaries[0])
	if ent.Name.Text() != "nor_gate" {
		t.Fatalf("got entity name %q", ent.Name.Text())
	}
	if len(ent.Generics) != 1 || ent.Generics[0].Name.Text() != "N" {
		t.Fatalf("got generics %+v", ent.Generics)
	}
	if len(ent.Ports) != 3 {
		t.Fatalf("expected 3 ports, got %d: %+v", len(ent.Ports), ent.Ports)
	}
	if ent.Ports[0].Name.Text() != "a" || ent.Ports[0].Mode != "in" {
		t.Fatalf("got port[0] %+v", ent.Ports[0])
	}
	if ent.IsTestbench() {
		t.Fatalf("entity with ports must not be a testbench")
	}

	// The library/use clause before the entity flushes its reference into
	// the entity's pool.
	found := false
	for _, r := range ent.Refs {
		if r.Prefix.Text() == "ieee" && r.Suffix.Text() == "std_logic_1164" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ieee.std_logic_1164 reference flushed into entity, got %+v", ent.Refs)
	}
}

func TestTestbenchEntityHasNoPorts(t *testing.T) {
	fu, errs := Parse("tb.vhd", `entity nor_gate_tb is end entity;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ent := mustEntity(t, fu.Primaries[0])
	if !ent.IsTestbench() {
		t.Fatalf("expected empty-port entity to be a testbench")
	}
}

func TestArchitectureCollectsInstantiationDeps(t *testing.T) {
	src := `
architecture rtl of top is
begin
  U1 : nor_gate port map (a => x, b => y, c => z);
  U2 : entity work.and_gate port map (a => x, b => y, c => w);
end architecture rtl;
`
	fu, errs := Parse("top.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(fu.Architectures) != 1 {
		t.Fatalf("expected 1 architecture, got %d", len(fu.Architectures))
	}
	arch := fu.Architectures[0]
	if arch.Name.Text() != "rtl" || arch.OwnerEntity.Text() != "top" {
		t.Fatalf("got architecture %+v", arch)
	}
	deps := map[string]bool{}
	for _, d := range arch.Deps {
		deps[d.Text()] = true
	}
	if !deps["nor_gate"] || !deps["and_gate"] {
		t.Fatalf("expected deps on nor_gate and and_gate, got %v", arch.Deps)
	}
}

func TestArchitectureConfigurationSpecificationIsADep(t *testing.T) {
	src := `
architecture rtl of top is
  for all : xor_gate use configuration work.cfg1;
begin
  U1 : xor_gate port map (a => x, b => y, c => z);
end architecture;
`
	fu, errs := Parse("top.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	arch := fu.Architectures[0]
	var names []string
	for _, d := range arch.Deps {
		names = append(names, d.Text())
	}
	foundCfg := false
	for _, n := range names {
		if n == "cfg1" {
			foundCfg = true
		}
	}
	if !foundCfg {
		t.Fatalf("expected cfg1 dependency from configuration specification, got %v", names)
	}
}

func TestPackageAndPackageBodyParseSeparately(t *testing.T) {
	src := `
package my_pkg is
  function add (a, b : integer) return integer;
end package my_pkg;

package body my_pkg is
  function add (a, b : integer) return integer is
  begin
    return a + b;
  end function;
end package body my_pkg;
`
	fu, errs := Parse("my_pkg.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(fu.Primaries) != 1 {
		t.Fatalf("expected 1 primary, got %d", len(fu.Primaries))
	}
	pkg, ok := fu.Primaries[0].(*ast.Package)
	if !ok {
		t.Fatalf("expected *ast.Package, got %T", fu.Primaries[0])
	}
	if pkg.Name.Text() != "my_pkg" {
		t.Fatalf("got package name %q", pkg.Name.Text())
	}
	if len(fu.Bodies) != 1 || fu.Bodies[0].OwnerPackage.Text() != "my_pkg" {
		t.Fatalf("expected 1 package body owned by my_pkg, got %+v", fu.Bodies)
	}
}

func TestContextDeclarationVsReference(t *testing.T) {
	src := `
context my_ctx is
  library ieee;
  use ieee.std_logic_1164.all;
end context my_ctx;

context work.my_ctx;

entity e is end entity;
`
	fu, errs := Parse("f.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ctxUnit := findPrimary(fu.Primaries, "my_ctx")
	if ctxUnit == nil {
		t.Fatalf("expected my_ctx context declaration as a primary unit")
	}
	if _, ok := ctxUnit.(*ast.Context); !ok {
		t.Fatalf("expected *ast.Context, got %T", ctxUnit)
	}

	ent := findPrimary(fu.Primaries, "e")
	if ent == nil {
		t.Fatalf("expected entity e")
	}
	found := false
	for _, r := range ent.References() {
		if r.Prefix.Text() == "work" && r.Suffix.Text() == "my_ctx" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the bare 'context work.my_ctx;' reference to flush into entity e, got %+v", ent.References())
	}
}

func TestConfigurationIsAPrimaryUnitNotASecondaryUnit(t *testing.T) {
	src := `
configuration cfg1 of top is
  for rtl
    for U1 : nor_gate
      use entity work.nor_gate(rtl);
    end for;
  end for;
end configuration cfg1;
`
	fu, errs := Parse("cfg1.vhd", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(fu.Primaries) != 1 {
		t.Fatalf("expected 1 primary unit, got %d", len(fu.Primaries))
	}
	cfg, ok := fu.Primaries[0].(*ast.Configuration)
	if !ok {
		t.Fatalf("expected *ast.Configuration, got %T", fu.Primaries[0])
	}
	if cfg.Name.Text() != "cfg1" || cfg.OwnerEntity.Text() != "top" {
		t.Fatalf("got configuration %+v", cfg)
	}
	found := false
	for _, d := range cfg.ConfiguredUnits {
		if d.Text() == "nor_gate" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected nor_gate in ConfiguredUnits, got %v", cfg.ConfiguredUnits)
	}
}

func TestMalformedArchitectureRecoversAsAParseError(t *testing.T) {
	_, errs := Parse("bad.vhd", `architecture rtl top is begin end architecture;`)
	if len(errs) == 0 {
		t.Fatalf("expected at least one recovered parse error for missing 'of'")
	}
}

func TestUnterminatedEntityReportsErrorWithoutHanging(t *testing.T) {
	_, errs := Parse("bad.vhd", `entity e is port (a : in bit`)
	if len(errs) == 0 {
		t.Fatalf("expected at least one error for unterminated entity")
	}
}
