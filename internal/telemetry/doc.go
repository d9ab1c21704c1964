// Package telemetry defines the shared Go types used across aquaview.
// These are the canonical in-memory representations of water-quality data,
// separate from the JSON shapes served by the API.
package telemetry
