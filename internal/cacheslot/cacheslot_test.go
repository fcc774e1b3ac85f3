package cacheslot

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/semver"
)

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.ParseVersion(s)
	if err != nil {
		t.Fatalf("ParseVersion(%q): %v", s, err)
	}
	return v
}

func TestNewTruncatesChecksum(t *testing.T) {
	full := Checksum([]byte("entity gates is end entity;"))
	if len(full) != checksumLen {
		t.Fatalf("expected Checksum to already be truncated to %d, got %d", checksumLen, len(full))
	}
	slot := New("gates", mustVersion(t, "1.2.0"), full+"extrajunk")
	if slot.Checksum != full {
		t.Fatalf("expected checksum truncated to %q, got %q", full, slot.Checksum)
	}
}

func TestStringRendersNameVersionChecksum(t *testing.T) {
	slot := New("gates", mustVersion(t, "1.2.0"), "abcdef0123")
	if got, want := slot.String(), "gates-1.2.0-abcdef0123"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseRoundTrips(t *testing.T) {
	slot := New("gates", mustVersion(t, "1.2.0"), "abcdef0123")
	parsed, err := Parse(slot.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Name != slot.Name || parsed.Checksum != slot.Checksum || !parsed.Version.Equal(slot.Version) {
		t.Fatalf("got %+v, want %+v", parsed, slot)
	}
}

func TestParsePreservesHyphenatedName(t *testing.T) {
	slot := New("my-gate-lib", mustVersion(t, "0.1.0"), "0123456789")
	parsed, err := Parse(slot.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Name != "my-gate-lib" {
		t.Fatalf("expected hyphenated name preserved, got %q", parsed.Name)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "gates", "gates-1.2.0"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error", s)
		}
	}
}

func TestParseRejectsBadVersion(t *testing.T) {
	if _, err := Parse("gates-not-a-version-abcdef0123"); err == nil {
		t.Fatalf("expected error for unparseable version segment")
	}
}

func TestDownloadSlotStringHasNameVersionAndExt(t *testing.T) {
	d := NewDownloadSlot("gates", mustVersion(t, "1.2.0"), ".zip")
	s := d.String()
	wantPrefix := "gates-1.2.0-"
	if len(s) <= len(wantPrefix) || s[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("String() = %q, want prefix %q", s, wantPrefix)
	}
	if got, want := s[len(s)-4:], ".zip"; got != want {
		t.Fatalf("String() = %q, expected suffix %q", s, want)
	}
}

func TestDownloadSlotIDsAreUnique(t *testing.T) {
	v := mustVersion(t, "1.0.0")
	a := NewDownloadSlot("gates", v, "zip")
	b := NewDownloadSlot("gates", v, "zip")
	if a.String() == b.String() {
		t.Fatalf("expected distinct download slot names, both were %q", a.String())
	}
}

func TestParseDownloadSlotRoundTrips(t *testing.T) {
	d := NewDownloadSlot("gates", mustVersion(t, "1.2.0"), "tar.gz")
	parsed, err := ParseDownloadSlot(d.String())
	if err != nil {
		t.Fatalf("ParseDownloadSlot: %v", err)
	}
	if parsed.Name != "gates" || !parsed.Version.Equal(d.Version) || parsed.Ext != "tar.gz" {
		t.Fatalf("got %+v, want name=gates version=1.2.0 ext=tar.gz", parsed)
	}
}

func TestParseDownloadSlotRoundTripsWithHyphenatedNameAndNoExt(t *testing.T) {
	d := NewDownloadSlot("my-gate-lib", mustVersion(t, "0.1.0"), "")
	parsed, err := ParseDownloadSlot(d.String())
	if err != nil {
		t.Fatalf("ParseDownloadSlot: %v", err)
	}
	if parsed.Name != "my-gate-lib" || parsed.Ext != "" {
		t.Fatalf("got %+v, want name=my-gate-lib ext=\"\"", parsed)
	}
}

func TestParseDownloadSlotRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "gates", "gates-1.2.0-short"} {
		if _, err := ParseDownloadSlot(s); err == nil {
			t.Errorf("ParseDownloadSlot(%q) expected error", s)
		}
	}
}
