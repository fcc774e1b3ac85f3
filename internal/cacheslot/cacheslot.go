// Package cacheslot names the on-disk directories Orbit uses to cache
// installed IPs and in-flight downloads. Shape is grounded on
// original_source/src/core/catalog.rs's CacheSlot and DownloadSlot: a cache
// slot is "<name>-<version>-<checksum>" where checksum is the first ten hex
// characters of a sha256 digest, and a download slot is
// "<name>-<version>-<uuid-prefix>.<ext>", a name that only needs to be
// unique for the lifetime of one download.
package cacheslot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/orbit-hdl/orbit/internal/orberr"
	"github.com/orbit-hdl/orbit/internal/semver"
)

// checksumLen is how many hex characters of a full digest a cache slot
// keeps - enough to disambiguate two builds of the same name and version
// without making directory names unwieldy.
const checksumLen = 10

// Slot identifies one cached, installed copy of an IP.
type Slot struct {
	Name     string
	Version  *semver.Version
	Checksum string
}

// Checksum hashes data and returns the truncated hex digest a Slot stores.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:checksumLen]
}

// New builds the Slot for name and version whose contents hash to fullChecksum.
// fullChecksum is truncated to the slot's stored length; callers typically
// pass the output of Checksum.
func New(name string, version *semver.Version, fullChecksum string) Slot {
	c := fullChecksum
	if len(c) > checksumLen {
		c = c[:checksumLen]
	}
	return Slot{Name: name, Version: version, Checksum: c}
}

// String renders the slot's directory name.
func (s Slot) String() string {
	return fmt.Sprintf("%s-%s-%s", s.Name, s.Version.String(), s.Checksum)
}

// Parse losslessly recovers a Slot from a directory name produced by
// String. It splits from the right so that names containing hyphens (e.g.
// "my-gates") are preserved intact: the last two hyphen-delimited fields are
// always the version and checksum, and everything before them is the name.
func Parse(s string) (Slot, error) {
	name, versionStr, checksum, ok := rsplitN2(s, '-')
	if !ok {
		return Slot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed cache slot name")
	}
	version, err := semver.ParseVersion(versionStr)
	if err != nil {
		return Slot{}, orberr.Wrap(orberr.ParseError, s, err).WithDetail("malformed cache slot version")
	}
	if name == "" || checksum == "" {
		return Slot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed cache slot name")
	}
	return Slot{Name: name, Version: version, Checksum: checksum}, nil
}

// rsplitN2 splits s on sep from the right into exactly three parts,
// mirroring Rust's rsplitn(3, sep): the first two hyphen-delimited fields
// from the end become last and mid, everything remaining becomes head.
func rsplitN2(s string, sep byte) (head, mid, last string, ok bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return "", "", "", false
	}
	last = s[i+1:]
	rest := s[:i]
	j := strings.LastIndexByte(rest, sep)
	if j < 0 {
		return "", "", "", false
	}
	mid = rest[j+1:]
	head = rest[:j]
	return head, mid, last, true
}

// DownloadSlot names a directory a download is staged into before it is
// verified and promoted into the cache. The uuid prefix only needs to be
// unique among concurrent downloads of the same name and version; it is
// discarded once the download completes.
type DownloadSlot struct {
	Name    string
	Version *semver.Version
	ID      uuid.UUID
	Ext     string
}

// NewDownloadSlot builds a fresh DownloadSlot with a random identifier.
func NewDownloadSlot(name string, version *semver.Version, ext string) DownloadSlot {
	return DownloadSlot{Name: name, Version: version, ID: uuid.New(), Ext: strings.TrimPrefix(ext, ".")}
}

// String renders the download slot's file or directory name.
func (d DownloadSlot) String() string {
	prefix := hex.EncodeToString(d.ID[:4])
	if d.Ext == "" {
		return fmt.Sprintf("%s-%s-%s", d.Name, d.Version.String(), prefix)
	}
	return fmt.Sprintf("%s-%s-%s.%s", d.Name, d.Version.String(), prefix, d.Ext)
}

// downloadSlotIDLen is the fixed width of String's hex id prefix (the first
// four bytes of a uuid), used to separate it from an extension that may
// itself contain a dot (e.g. "tar.gz").
const downloadSlotIDLen = 8

// ParseDownloadSlot losslessly recovers a download slot's name and version
// from a staged download's file or directory name, so the downloads tier
// can be scanned without decoding a manifest out of what may still be an
// unextracted archive. The id prefix is only ever unique for the lifetime
// of one download, so only the first four id bytes it was built from are
// recoverable; that is enough to round-trip String's output.
func ParseDownloadSlot(s string) (DownloadSlot, error) {
	i := strings.LastIndexByte(s, '-')
	if i < 0 || i+1+downloadSlotIDLen > len(s) {
		return DownloadSlot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed download slot name")
	}
	idHex := s[i+1 : i+1+downloadSlotIDLen]
	rest := s[i+1+downloadSlotIDLen:]
	ext := ""
	if rest != "" {
		if rest[0] != '.' {
			return DownloadSlot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed download slot name")
		}
		ext = rest[1:]
	}

	head := s[:i]
	j := strings.LastIndexByte(head, '-')
	if j < 0 {
		return DownloadSlot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed download slot name")
	}
	name, versionStr := head[:j], head[j+1:]
	if name == "" {
		return DownloadSlot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed download slot name")
	}
	version, err := semver.ParseVersion(versionStr)
	if err != nil {
		return DownloadSlot{}, orberr.Wrap(orberr.ParseError, s, err).WithDetail("malformed download slot version")
	}
	idBytes, err := hex.DecodeString(idHex)
	if err != nil || len(idBytes) != 4 {
		return DownloadSlot{}, orberr.New(orberr.ParseError, s).WithDetail("malformed download slot id")
	}
	var id uuid.UUID
	copy(id[:4], idBytes)
	return DownloadSlot{Name: name, Version: version, ID: id, Ext: ext}, nil
}
