package types

import "testing"

func mustVersion(t *testing.T, raw string) Version {
	t.Helper()
	v, err := ParseVersion(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return v
}

func TestParseVersionRequirementAny(t *testing.T) {
	req, err := ParseVersionRequirement("any")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Lower != nil || req.Upper != nil {
		t.Errorf("expected unbounded requirement, got %+v", req)
	}
	if !req.Contains(mustVersion(t, "0")) || !req.Contains(mustVersion(t, "999")) {
		t.Error("any requirement must contain every version")
	}
}

func TestParseVersionRequirementOperators(t *testing.T) {
	tests := []struct {
		raw     string
		inside  string
		outside string
	}{
		{">1.0", "1.1", "1.0"},
		{">=1.0", "1.0", "0.9"},
		{"<2.0", "1.9", "2.0"},
		{"<=2.0", "2.0", "2.1"},
		{"=1.5", "1.5", "1.6"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req, err := ParseVersionRequirement(tt.raw)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.raw, err)
			}
			if !req.Contains(mustVersion(t, tt.inside)) {
				t.Errorf("%q should contain %q", tt.raw, tt.inside)
			}
			if req.Contains(mustVersion(t, tt.outside)) {
				t.Errorf("%q should not contain %q", tt.raw, tt.outside)
			}
		})
	}
}

func TestParseVersionRequirementCommaCombine(t *testing.T) {
	req, err := ParseVersionRequirement(">=1.0,<2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Contains(mustVersion(t, "1.5")) {
		t.Error("expected 1.5 to satisfy >=1.0,<2.0")
	}
	if req.Contains(mustVersion(t, "2.0")) {
		t.Error("expected 2.0 to be excluded by >=1.0,<2.0")
	}
	if req.Contains(mustVersion(t, "0.9")) {
		t.Error("expected 0.9 to be excluded by >=1.0,<2.0")
	}
}

func TestCombineExclusiveWinsOnTie(t *testing.T) {
	a := VersionRequirement{Lower: &Bound{Version: mustVersion(t, "1.0"), Inclusive: true}}
	b := VersionRequirement{Lower: &Bound{Version: mustVersion(t, "1.0"), Inclusive: false}}
	combined, err := a.Combine(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combined.Lower.Inclusive {
		t.Error("expected exclusive bound to win the tie")
	}
}

func TestCombineEmptyIntervalConflicts(t *testing.T) {
	a := VersionRequirement{Upper: &Bound{Version: mustVersion(t, "1.0"), Inclusive: true}}
	b := VersionRequirement{Lower: &Bound{Version: mustVersion(t, "2.0"), Inclusive: true}}
	if _, err := a.Combine(b); err == nil {
		t.Error("expected a conflict for a disjoint interval")
	}
}

func TestParseVersionRequirementRejectsMalformed(t *testing.T) {
	if _, err := ParseVersionRequirement(""); err == nil {
		t.Error("expected error for empty requirement")
	}
	if _, err := ParseVersionRequirement(">=1.0,"); err == nil {
		t.Error("expected error for trailing comma")
	}
	if _, err := ParseVersionRequirement("~1.0"); err == nil {
		t.Error("expected error for unrecognized operator")
	}
}
