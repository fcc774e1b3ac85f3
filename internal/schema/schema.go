// Package schema is the "crash early, crash loud" contract guard between
// the decoded TOML manifest/lockfile and the rest of the planner,
// grounded on internal/validator's embedded-CUE-schema pattern: an
// #Input-style definition compiled once, unified against the JSON
// rendering of decoded data on every check. A schema violation here is
// surfaced as a ManifestInvalid error rather than silently trusting a
// malformed document.
package schema

import (
	"embed"
	"encoding/json"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/orbit-hdl/orbit/internal/orberr"
)

//go:embed manifest.cue
var manifestSchemaFS embed.FS

//go:embed lockfile.cue
var lockfileSchemaFS embed.FS

// Schema holds the compiled CUE definitions used to validate decoded
// manifests and lockfiles.
type Schema struct {
	ctx         *cue.Context
	manifestDef cue.Value
	lockfileDef cue.Value
}

// New compiles the embedded schemas. It panics-free on malformed embedded
// CUE only insofar as it returns an error instead - the embedded files
// themselves are fixed at build time, so a compile failure here would mean
// the schema source shipped with the binary is broken.
func New() (*Schema, error) {
	ctx := cuecontext.New()

	manifestSrc, err := manifestSchemaFS.ReadFile("manifest.cue")
	if err != nil {
		return nil, err
	}
	manifestSchema := ctx.CompileBytes(manifestSrc)
	if manifestSchema.Err() != nil {
		return nil, manifestSchema.Err()
	}

	lockfileSrc, err := lockfileSchemaFS.ReadFile("lockfile.cue")
	if err != nil {
		return nil, err
	}
	lockfileSchema := ctx.CompileBytes(lockfileSrc)
	if lockfileSchema.Err() != nil {
		return nil, lockfileSchema.Err()
	}

	manifestDef := manifestSchema.LookupPath(cue.ParsePath("#Manifest"))
	if manifestDef.Err() != nil {
		return nil, manifestDef.Err()
	}
	lockfileDef := lockfileSchema.LookupPath(cue.ParsePath("#Lockfile"))
	if lockfileDef.Err() != nil {
		return nil, lockfileDef.Err()
	}

	return &Schema{ctx: ctx, manifestDef: manifestDef, lockfileDef: lockfileDef}, nil
}

// ValidateManifest checks a decoded *manifest.Manifest (or any value that
// marshals the same way) against the #Manifest contract.
func (s *Schema) ValidateManifest(data any) error {
	return s.validate(s.manifestDef, "Orbit.toml", data)
}

// ValidateLockfile checks a decoded *lockfile.Lockfile against the
// #Lockfile contract.
func (s *Schema) ValidateLockfile(data any) error {
	return s.validate(s.lockfileDef, "Orbit.lock", data)
}

func (s *Schema) validate(def cue.Value, subject string, data any) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return orberr.Wrap(orberr.ManifestInvalid, subject, err).WithDetail("marshaling decoded document for schema validation")
	}
	dataValue := s.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return orberr.Wrap(orberr.ManifestInvalid, subject, dataValue.Err())
	}
	unified := def.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return orberr.Wrap(orberr.ManifestInvalid, subject, err).WithDetail("does not satisfy the schema contract")
	}
	return nil
}
