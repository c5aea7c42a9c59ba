package model

import (
	"reflect"
	"testing"
)

func TestListCodecRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		items   []string
		encoded string
	}{
		{"two items", []string{"A", "B"}, "A,B"},
		{"single item", []string{"Networking"}, "Networking"},
		{"empty list", []string{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := JoinList(tc.items)
			if got != tc.encoded {
				t.Fatalf("JoinList(%v) = %q, want %q", tc.items, got, tc.encoded)
			}
			back := SplitList(got)
			if !reflect.DeepEqual(back, tc.items) {
				t.Fatalf("SplitList(%q) = %v, want %v", got, back, tc.items)
			}
		})
	}
}

func TestSplitListEmptyIsNonNil(t *testing.T) {
	got := SplitList("")
	if got == nil {
		t.Fatal("SplitList(\"\") returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("SplitList(\"\") = %v, want empty", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	var e Event
	e.ApplyDefaults()

	if e.BrandLogo != DefaultBrandLogo {
		t.Errorf("BrandLogo = %q, want %q", e.BrandLogo, DefaultBrandLogo)
	}
	if e.BrandName != DefaultBrandName {
		t.Errorf("BrandName = %q, want %q", e.BrandName, DefaultBrandName)
	}
	if e.Features == nil || e.TargetAudience == nil {
		t.Error("list fields must be non-nil after ApplyDefaults")
	}
	if e.Price != 0 {
		t.Errorf("Price = %v, want 0", e.Price)
	}
}

func TestApplyDefaultsKeepsExistingBranding(t *testing.T) {
	e := Event{BrandLogo: "XY", BrandName: "Summit"}
	e.ApplyDefaults()

	if e.BrandLogo != "XY" || e.BrandName != "Summit" {
		t.Errorf("branding overwritten: got %q/%q", e.BrandLogo, e.BrandName)
	}
}
