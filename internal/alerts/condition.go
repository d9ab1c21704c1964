package alerts

import (
	"strings"

	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/telemetry"
)

// evalCondition evaluates a rule condition string against the classification
// of one reading.
//
// Supported expressions (parameter operator status):
//
//	ph == danger
//	turbidity >= warning
//	temperature == warning
//	dissolved_oxygen >= warning
//
// "==" matches the exact status; ">=" matches the status or anything worse.
//
// Returns (fires, parameter, triggering value). Returns (false, "", 0) if
// the expression cannot be parsed or names an unknown parameter — config
// validation rejects those up front, so this is a belt-and-braces path.
func evalCondition(cond string, rd telemetry.Reading, res classify.Result) (bool, telemetry.Parameter, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, "", 0
	}
	param := telemetry.Parameter(parts[0])
	op, rhs := parts[1], telemetry.Status(parts[2])

	status, ok := res.Statuses[param]
	if !ok {
		return false, "", 0
	}

	var fires bool
	switch op {
	case "==":
		fires = status == rhs
	case ">=":
		fires = status.AtLeast(rhs)
	default:
		return false, "", 0
	}
	return fires, param, rd.Value(param)
}
