package semver

import "testing"

func TestParsePartialComponents(t *testing.T) {
	p, err := ParsePartial("1.2")
	if err != nil {
		t.Fatalf("ParsePartial: %v", err)
	}
	if p.Major != 1 || p.Minor == nil || *p.Minor != 2 || p.Patch != nil {
		t.Fatalf("got %+v", p)
	}
	if p.String() != "1.2" {
		t.Fatalf("String() = %q", p.String())
	}
}

func TestParsePartialRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "a.b", "1.2.3.4"} {
		if _, err := ParsePartial(s); err == nil {
			t.Errorf("ParsePartial(%q) expected error", s)
		}
	}
}

func TestCompatibleMatchesOnSharedPrefix(t *testing.T) {
	req, _ := ParsePartial("1.2")
	v, _ := ParseVersion("1.2.4")
	if !Compatible(req, v) {
		t.Fatalf("expected 1.2.4 to satisfy requirement 1.2")
	}
	v2, _ := ParseVersion("1.3.0")
	if Compatible(req, v2) {
		t.Fatalf("expected 1.3.0 to not satisfy requirement 1.2")
	}
}

func TestHighestMatchingPicksNewestCompatible(t *testing.T) {
	req, _ := ParseAnyVersion("1.2")
	var candidates []*Version
	for _, s := range []string{"1.1.0", "1.2.0", "1.2.4", "1.3.0"} {
		v, _ := ParseVersion(s)
		candidates = append(candidates, v)
	}
	got, ok := HighestMatching(req, candidates)
	if !ok || got.String() != "1.2.4" {
		t.Fatalf("got %v, ok=%v", got, ok)
	}
}

func TestHighestMatchingLatestIgnoresPartial(t *testing.T) {
	req, err := ParseAnyVersion("latest")
	if err != nil || !req.Latest {
		t.Fatalf("expected latest request, got %+v err=%v", req, err)
	}
	var candidates []*Version
	for _, s := range []string{"1.1.0", "2.0.0", "1.9.9"} {
		v, _ := ParseVersion(s)
		candidates = append(candidates, v)
	}
	got, ok := HighestMatching(req, candidates)
	if !ok || got.String() != "2.0.0" {
		t.Fatalf("got %v, ok=%v", got, ok)
	}
}

func TestConflictsWithAllowsOneRequirementToNarrowAnother(t *testing.T) {
	one, _ := ParseAnyVersion("1")
	oneZero, _ := ParseAnyVersion("1.0")
	if one.ConflictsWith(oneZero) {
		t.Fatalf("expected \"1\" and \"1.0\" not to conflict")
	}
}

func TestConflictsWithFlagsDisagreeingComponents(t *testing.T) {
	oneTwo, _ := ParseAnyVersion("1.2")
	oneThree, _ := ParseAnyVersion("1.3")
	if !oneTwo.ConflictsWith(oneThree) {
		t.Fatalf("expected \"1.2\" and \"1.3\" to conflict")
	}
}

func TestConflictsWithFlagsLatestAgainstAPartial(t *testing.T) {
	latest, _ := ParseAnyVersion("latest")
	one, _ := ParseAnyVersion("1")
	if !latest.ConflictsWith(one) {
		t.Fatalf("expected latest and a partial requirement to conflict")
	}
}
