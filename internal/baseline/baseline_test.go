package baseline

import (
	"testing"

	"github.com/aquaview/aquaview/internal/telemetry"
)

func TestDefault_Fleet(t *testing.T) {
	reg := Default()

	sites := reg.Sites()
	if len(sites) == 0 {
		t.Fatal("default fleet is empty")
	}
	for _, s := range sites {
		if !telemetry.ValidCategory(s.Category) {
			t.Errorf("site %q has invalid category %q", s.ID, s.Category)
		}
		b := reg.For(s.ID)
		if b == (Baseline{}) {
			t.Errorf("site %q has zero baseline", s.ID)
		}
	}

	if _, ok := reg.Site(DefaultSiteID); !ok {
		t.Fatalf("default site %q not in fleet", DefaultSiteID)
	}
}

// Unknown ids fall back to the default site's baseline rather than failing.
func TestFor_UnknownIDFallsBack(t *testing.T) {
	reg := Default()

	got := reg.For("no-such-site")
	want := reg.For(DefaultSiteID)
	if got != want {
		t.Errorf("For(unknown) = %+v, want default baseline %+v", got, want)
	}
}

func TestNew_Validation(t *testing.T) {
	good := telemetry.Site{ID: "pond-a", DisplayName: "Pond A", Category: telemetry.CategoryLake}
	b := map[string]Baseline{"pond-a": {PH: 7, Turbidity: 1, Temperature: 15, DissolvedOxygen: 8}}

	tests := []struct {
		name     string
		sites    []telemetry.Site
		bl       map[string]Baseline
		fallback string
		wantErr  bool
	}{
		{"valid", []telemetry.Site{good}, b, "pond-a", false},
		{"empty fleet", nil, b, "pond-a", true},
		{"missing baseline", []telemetry.Site{{ID: "x", Category: telemetry.CategoryRiver}}, b, "pond-a", true},
		{"bad category", []telemetry.Site{{ID: "pond-a", Category: "ocean"}}, b, "pond-a", true},
		{"duplicate id", []telemetry.Site{good, good}, b, "pond-a", true},
		{"fallback without baseline", []telemetry.Site{good}, b, "nowhere", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sites, tc.bl, tc.fallback)
			if (err != nil) != tc.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSites_ReturnsCopy(t *testing.T) {
	reg := Default()
	sites := reg.Sites()
	sites[0].ID = "mutated"
	if again := reg.Sites(); again[0].ID == "mutated" {
		t.Error("mutating the returned slice leaked into the registry")
	}
}
