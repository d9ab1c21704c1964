// Package classify maps measured values to the tri-state water-quality
// status used everywhere in the dashboard.
//
// Classify(value, r) is a pure, total function: any finite value lands in
// exactly one of good, warning, or danger. A value outside the acceptable
// range [Min, Max] is danger; inside the range it is good when it also sits
// in the optimal sub-range [OptimalLow, OptimalHigh], warning otherwise.
//
// Per-parameter ranges are fixed constants (Ranges); they are not
// configurable at runtime.
package classify
