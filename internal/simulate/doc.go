// Package simulate produces the synthetic telemetry behind the dashboard.
//
// generator.go provides the Generator that derives one noisy Reading from a
// site's baseline: each field is the baseline plus uniform noise with a fixed
// per-field amplitude, with physical floors applied to turbidity and
// dissolved oxygen. Generation is total — it always succeeds.
//
// engine.go provides the Engine that drives the fleet: on every tick it
// generates a reading per site and appends it to the rolling history.
// Engine.Tick accepts an injectable time.Time so tests are deterministic.
package simulate
