package telemetry

import "time"

// SiteCategory is the closed set of water-body kinds a Site can be.
type SiteCategory string

const (
	CategoryLake        SiteCategory = "lake"
	CategoryRiver       SiteCategory = "river"
	CategoryReservoir   SiteCategory = "reservoir"
	CategoryGroundwater SiteCategory = "groundwater"
)

// ValidCategory reports whether c is one of the known site categories.
func ValidCategory(c SiteCategory) bool {
	switch c {
	case CategoryLake, CategoryRiver, CategoryReservoir, CategoryGroundwater:
		return true
	}
	return false
}

// Site is one monitored water body. The site set is fixed at process start;
// sites are never created or deleted at runtime.
type Site struct {
	ID          string
	DisplayName string
	Location    string
	Category    SiteCategory
}

// Parameter is the closed set of measured water-quality parameters.
type Parameter string

const (
	ParamPH              Parameter = "ph"
	ParamTurbidity       Parameter = "turbidity"
	ParamTemperature     Parameter = "temperature"
	ParamDissolvedOxygen Parameter = "dissolved_oxygen"
)

// Parameters lists every parameter in canonical display order.
var Parameters = []Parameter{
	ParamPH,
	ParamTurbidity,
	ParamTemperature,
	ParamDissolvedOxygen,
}

// Reading is one set of four parameter measurements taken at a single instant.
// Readings are immutable once created.
type Reading struct {
	PH              float64
	Turbidity       float64 // NTU
	Temperature     float64 // °C
	DissolvedOxygen float64 // mg/L
	Timestamp       time.Time
}

// Value returns the measurement for the given parameter.
// Unknown parameters return 0.
func (r Reading) Value(p Parameter) float64 {
	switch p {
	case ParamPH:
		return r.PH
	case ParamTurbidity:
		return r.Turbidity
	case ParamTemperature:
		return r.Temperature
	case ParamDissolvedOxygen:
		return r.DissolvedOxygen
	default:
		return 0
	}
}

// ManualReading is an ad-hoc reading submitted through the manual-entry form
// rather than produced by the simulator. Location carries the fixed label the
// entry path stamps on every submission.
type ManualReading struct {
	ID       string
	Location string
	Reading
}

// Status is the closed tri-state classification of a measured value.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// statusRank orders statuses from least to most severe.
var statusRank = map[Status]int{
	StatusGood:    0,
	StatusWarning: 1,
	StatusDanger:  2,
}

// Worse returns the more severe of a and b.
func Worse(a, b Status) Status {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// AtLeast reports whether s is at least as severe as threshold.
func (s Status) AtLeast(threshold Status) bool {
	return statusRank[s] >= statusRank[threshold]
}
