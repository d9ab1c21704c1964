package classify

import (
	"github.com/aquaview/aquaview/internal/telemetry"
)

// Range is the acceptable interval and optimal sub-interval for one parameter.
type Range struct {
	Min         float64
	Max         float64
	OptimalLow  float64
	OptimalHigh float64
}

// Ranges holds the fixed classification thresholds per parameter.
var Ranges = map[telemetry.Parameter]Range{
	telemetry.ParamPH:              {Min: 6.0, Max: 8.5, OptimalLow: 6.5, OptimalHigh: 7.5},
	telemetry.ParamTurbidity:       {Min: 0, Max: 4, OptimalLow: 0, OptimalHigh: 1},
	telemetry.ParamTemperature:     {Min: 0, Max: 35, OptimalLow: 15, OptimalHigh: 25},
	telemetry.ParamDissolvedOxygen: {Min: 5, Max: 15, OptimalLow: 7, OptimalHigh: 12},
}

// Classify returns the status of value against r.
func Classify(value float64, r Range) telemetry.Status {
	if value < r.Min || value > r.Max {
		return telemetry.StatusDanger
	}
	if value >= r.OptimalLow && value <= r.OptimalHigh {
		return telemetry.StatusGood
	}
	return telemetry.StatusWarning
}

// Result is the per-parameter classification of one reading plus the worst
// status across all four parameters.
type Result struct {
	Statuses map[telemetry.Parameter]telemetry.Status
	Overall  telemetry.Status
}

// Evaluate classifies every parameter of rd against the fixed ranges.
func Evaluate(rd telemetry.Reading) Result {
	res := Result{
		Statuses: make(map[telemetry.Parameter]telemetry.Status, len(telemetry.Parameters)),
		Overall:  telemetry.StatusGood,
	}
	for _, p := range telemetry.Parameters {
		s := Classify(rd.Value(p), Ranges[p])
		res.Statuses[p] = s
		res.Overall = telemetry.Worse(res.Overall, s)
	}
	return res
}
