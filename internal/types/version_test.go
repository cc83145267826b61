package types

import "testing"

func TestVersionOrderingWorkedExamples(t *testing.T) {
	tests := []struct {
		name   string
		lesser string
		greater string
	}{
		{"tilde sorts below empty", "1.0~rc1", "1.0"},
		{"double tilde chain 1", "1.0~~", "1.0~~a"},
		{"double tilde chain 2", "1.0~~a", "1.0~"},
		{"double tilde chain 3", "1.0~", "1.0"},
		{"epoch dominates upstream", "999", "1:0"},
		{"revision subordinate to upstream 1", "1.0-1", "1.0-2"},
		{"revision subordinate to upstream 2", "1.0-2", "1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lesser, err := ParseVersion(tt.lesser)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.lesser, err)
			}
			greater, err := ParseVersion(tt.greater)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.greater, err)
			}
			if lesser.Compare(greater) >= 0 {
				t.Errorf("expected %q < %q, got Compare=%d", tt.lesser, tt.greater, lesser.Compare(greater))
			}
			if greater.Compare(lesser) <= 0 {
				t.Errorf("expected %q > %q, got Compare=%d", tt.greater, tt.lesser, greater.Compare(lesser))
			}
		})
	}
}

func TestVersionEqualRoundTrip(t *testing.T) {
	tests := []string{"1.0", "1:2.3-4", "0.9~beta1", "10.0.0-0ubuntu1"}
	for _, raw := range tests {
		v, err := ParseVersion(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", v.String(), err)
		}
		if !v.Equal(again) {
			t.Errorf("round trip mismatch: %q -> %q -> not equal", raw, v.String())
		}
	}
}

func TestParseVersionRejectsNonAlnumStart(t *testing.T) {
	if _, err := ParseVersion("~1.0"); err == nil {
		t.Error("expected error for upstream starting with a non-alphanumeric character")
	}
}

func TestParseVersionRejectsBadEpoch(t *testing.T) {
	if _, err := ParseVersion("a:1.0"); err == nil {
		t.Error("expected error for non-numeric epoch")
	}
}

func TestParseVersionRejectsEmptyInput(t *testing.T) {
	if _, err := ParseVersion(""); err == nil {
		t.Error("expected error for empty version string")
	}
}
