package baseline

import (
	"fmt"
	"log/slog"

	"github.com/aquaview/aquaview/internal/telemetry"
)

// DefaultSiteID is the site whose baseline backs lookups for unknown ids in
// the built-in fleet.
const DefaultSiteID = "crystal-lake"

// Baseline is the central-tendency value per parameter for one site. The
// simulator uses these as the mean for synthetic noise generation.
type Baseline struct {
	PH              float64
	Turbidity       float64
	Temperature     float64
	DissolvedOxygen float64
}

// defaultSites is the built-in fleet used when the config file does not
// override the site list.
var defaultSites = []telemetry.Site{
	{ID: "crystal-lake", DisplayName: "Crystal Lake", Location: "North Basin", Category: telemetry.CategoryLake},
	{ID: "silver-lake", DisplayName: "Silver Lake", Location: "East Shore", Category: telemetry.CategoryLake},
	{ID: "willow-river", DisplayName: "Willow River", Location: "Gauge Station 4", Category: telemetry.CategoryRiver},
	{ID: "mill-creek", DisplayName: "Mill Creek", Location: "Below Falls", Category: telemetry.CategoryRiver},
	{ID: "eastbrook-reservoir", DisplayName: "Eastbrook Reservoir", Location: "Intake Tower", Category: telemetry.CategoryReservoir},
	{ID: "northfield-well", DisplayName: "Northfield Well 2", Location: "Monitoring Point B", Category: telemetry.CategoryGroundwater},
}

var defaultBaselines = map[string]Baseline{
	"crystal-lake":        {PH: 7.2, Turbidity: 0.8, Temperature: 18.5, DissolvedOxygen: 8.4},
	"silver-lake":         {PH: 7.0, Turbidity: 1.2, Temperature: 20.0, DissolvedOxygen: 7.8},
	"willow-river":        {PH: 6.9, Turbidity: 2.1, Temperature: 16.0, DissolvedOxygen: 9.2},
	"mill-creek":          {PH: 7.4, Turbidity: 1.6, Temperature: 14.5, DissolvedOxygen: 9.8},
	"eastbrook-reservoir": {PH: 7.1, Turbidity: 0.5, Temperature: 17.0, DissolvedOxygen: 8.0},
	"northfield-well":     {PH: 6.8, Turbidity: 0.3, Temperature: 12.0, DissolvedOxygen: 6.5},
}

// Registry maps site ids to their baselines and owns the ordered site list.
type Registry struct {
	sites     []telemetry.Site
	baselines map[string]Baseline
	fallback  Baseline
}

// Default returns the registry for the built-in fleet.
func Default() *Registry {
	r, err := New(defaultSites, defaultBaselines, DefaultSiteID)
	if err != nil {
		// The built-in tables are constants; this cannot happen.
		panic(err)
	}
	return r
}

// New builds a registry from an explicit fleet. Every site needs a baseline,
// and fallbackID selects the baseline used for unrecognized lookups.
func New(sites []telemetry.Site, baselines map[string]Baseline, fallbackID string) (*Registry, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("baseline: fleet must contain at least one site")
	}
	seen := make(map[string]bool, len(sites))
	for _, s := range sites {
		if s.ID == "" {
			return nil, fmt.Errorf("baseline: site with empty id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("baseline: duplicate site id %q", s.ID)
		}
		seen[s.ID] = true
		if !telemetry.ValidCategory(s.Category) {
			return nil, fmt.Errorf("baseline: site %q has unknown category %q", s.ID, s.Category)
		}
		if _, ok := baselines[s.ID]; !ok {
			return nil, fmt.Errorf("baseline: site %q has no baseline", s.ID)
		}
	}
	fb, ok := baselines[fallbackID]
	if !ok {
		return nil, fmt.Errorf("baseline: fallback site %q has no baseline", fallbackID)
	}

	bl := make(map[string]Baseline, len(baselines))
	for id, b := range baselines {
		bl[id] = b
	}
	return &Registry{
		sites:     append([]telemetry.Site(nil), sites...),
		baselines: bl,
		fallback:  fb,
	}, nil
}

// Sites returns the fleet in registration order.
func (r *Registry) Sites() []telemetry.Site {
	return append([]telemetry.Site(nil), r.sites...)
}

// Site returns the site for the given id and whether it is part of the fleet.
func (r *Registry) Site(id string) (telemetry.Site, bool) {
	for _, s := range r.sites {
		if s.ID == id {
			return s, true
		}
	}
	return telemetry.Site{}, false
}

// For returns the baseline for the given site id. Unrecognized ids get the
// registry's fallback baseline — a deliberate default, not error suppression.
func (r *Registry) For(id string) Baseline {
	if b, ok := r.baselines[id]; ok {
		return b
	}
	slog.Debug("baseline: unknown site id — using fallback baseline", "site", id)
	return r.fallback
}
