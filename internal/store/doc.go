// Package store holds the in-memory dashboard state: one bounded rolling
// history of readings per site, plus the manual readings submitted through
// the entry form.
//
// Histories are ordered oldest-first and capped at the configured length
// (20 by default); appending beyond the cap silently drops the oldest
// entries. Nothing is persisted — all state is lost on restart by design.
//
// Store is safe for concurrent use: the simulator appends on its tick while
// the REST API and the WebSocket hub read.
package store
