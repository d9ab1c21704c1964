// Package api implements the HTTP REST API for aquaview-server.
//
// New(registry, store, alerts) returns an http.Handler that serves:
//
//	GET  /api/v1/health             — site count, per-status counts, overall status
//	GET  /api/v1/sites              — all sites with current reading + classification
//	GET  /api/v1/sites/{id}         — single site; 404 if unknown
//	GET  /api/v1/sites/{id}/history — rolling history for the charts
//	POST /api/v1/readings           — manual entry; 400 with per-field errors
//	GET  /api/v1/readings/last      — most recent manual reading; 404 when none
//	GET  /api/v1/alerts             — firing + recently resolved alerts
//	GET  /api/v1/snapshot           — full dashboard dump: sites, histories, alerts
//
// All endpoints respond with Content-Type: application/json and return 405
// for unsupported methods. The manual-entry request carries its four values
// as strings, mirroring the text inputs of the entry form; all four must be
// present, parseable, and finite or the whole submission is rejected.
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
