// Package semver layers Orbit's partial-version requirement syntax and
// minimum-version-selection comparisons on top of
// github.com/Masterminds/semver/v3. A requirement like "1.2" is
// deliberately not a full semver range: it names a version prefix, and
// Compatible reports whether a concrete version shares that prefix, the
// same rule original_source/src/core/catalog.rs's get_target_version /
// is_compatible pairing applies when picking the most compatible installed
// or available Ip for an AnyVersion request.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	mastersemver "github.com/Masterminds/semver/v3"
)

// Version re-exports the underlying concrete semantic version type so
// callers outside this package never import Masterminds/semver directly.
type Version = mastersemver.Version

// ParseVersion parses a fully-specified semantic version, e.g. "1.2.3".
func ParseVersion(s string) (*Version, error) {
	v, err := mastersemver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("semver: invalid version %q: %w", s, err)
	}
	return v, nil
}

// Partial is a dotted version prefix with 1 to 3 components: "1", "1.2", or
// "1.2.3". Unset trailing components are nil and match any value there.
type Partial struct {
	Major int64
	Minor *int64
	Patch *int64
}

// ParsePartial parses a partial version requirement string.
func ParsePartial(s string) (Partial, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return Partial{}, fmt.Errorf("semver: invalid partial version %q", s)
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return Partial{}, fmt.Errorf("semver: invalid partial version %q", s)
		}
		nums[i] = n
	}
	pv := Partial{Major: nums[0]}
	if len(nums) > 1 {
		pv.Minor = &nums[1]
	}
	if len(nums) > 2 {
		pv.Patch = &nums[2]
	}
	return pv, nil
}

// String renders p back to its dotted form.
func (p Partial) String() string {
	s := strconv.FormatInt(p.Major, 10)
	if p.Minor != nil {
		s += "." + strconv.FormatInt(*p.Minor, 10)
	}
	if p.Patch != nil {
		s += "." + strconv.FormatInt(*p.Patch, 10)
	}
	return s
}

// Compatible reports whether actual shares every component p specifies.
func Compatible(p Partial, actual *Version) bool {
	if actual.Major() != p.Major {
		return false
	}
	if p.Minor != nil && actual.Minor() != *p.Minor {
		return false
	}
	if p.Patch != nil && actual.Patch() != *p.Patch {
		return false
	}
	return true
}

// AnyVersion is a catalog lookup request: either the newest version
// available, or the newest version compatible with a partial requirement
// (mirrors the original's AnyVersion::Latest / AnyVersion::Specific).
type AnyVersion struct {
	Latest  bool
	Partial Partial
}

// ParseAnyVersion parses "latest" or a partial version string.
func ParseAnyVersion(s string) (AnyVersion, error) {
	if strings.EqualFold(strings.TrimSpace(s), "latest") {
		return AnyVersion{Latest: true}, nil
	}
	p, err := ParsePartial(s)
	if err != nil {
		return AnyVersion{}, err
	}
	return AnyVersion{Partial: p}, nil
}

func (a AnyVersion) String() string {
	if a.Latest {
		return "latest"
	}
	return a.Partial.String()
}

// ConflictsWith reports whether a and b could never both be satisfied by
// the same concrete version. Two partials naming the same dependency are
// compatible, not conflicting, whenever one merely narrows the other - "1"
// and "1.0" both admit 1.0.0, so they agree rather than conflict; only a
// component both sides specify but disagree on (or one side asking for
// latest while the other names a prefix) is a real conflict.
func (a AnyVersion) ConflictsWith(b AnyVersion) bool {
	if a.Latest || b.Latest {
		return a.Latest != b.Latest
	}
	if a.Partial.Major != b.Partial.Major {
		return true
	}
	if a.Partial.Minor != nil && b.Partial.Minor != nil && *a.Partial.Minor != *b.Partial.Minor {
		return true
	}
	if a.Partial.Patch != nil && b.Partial.Patch != nil && *a.Partial.Patch != *b.Partial.Patch {
		return true
	}
	return false
}

// HighestMatching returns the highest version in candidates compatible
// with req, scanning candidates in order and keeping the running maximum -
// the same linear "latest_version" accumulation get_target_version uses.
func HighestMatching(req AnyVersion, candidates []*Version) (*Version, bool) {
	var best *Version
	for _, c := range candidates {
		if !req.Latest && !Compatible(req.Partial, c) {
			continue
		}
		if best == nil || c.GreaterThan(best) {
			best = c
		}
	}
	return best, best != nil
}
