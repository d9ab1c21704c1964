package store

import (
	"sync"

	"github.com/aquaview/aquaview/internal/telemetry"
)

// DefaultHistoryLength is the rolling-window cap applied when the config
// does not override it.
const DefaultHistoryLength = 20

// Store is the thread-safe in-memory state behind the dashboard.
type Store struct {
	mu        sync.RWMutex
	limit     int
	histories map[string][]telemetry.Reading

	manual     []telemetry.ManualReading
	lastManual *telemetry.ManualReading
}

// New creates a Store whose per-site histories hold at most limit readings.
// A non-positive limit falls back to DefaultHistoryLength.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultHistoryLength
	}
	return &Store{
		limit:     limit,
		histories: make(map[string][]telemetry.Reading),
	}
}

// Limit returns the history cap.
func (s *Store) Limit() int {
	return s.limit
}

// Append adds r to the site's history, evicting the oldest entries once the
// history exceeds the cap.
func (s *Store) Append(siteID string, r telemetry.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.histories[siteID], r)
	if len(h) > s.limit {
		h = h[len(h)-s.limit:]
	}
	s.histories[siteID] = h
}

// SeedHistory replaces the site's history with rs (truncated to the cap,
// keeping the newest entries). Used once at startup to backfill the charts.
func (s *Store) SeedHistory(siteID string, rs []telemetry.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rs) > s.limit {
		rs = rs[len(rs)-s.limit:]
	}
	s.histories[siteID] = append([]telemetry.Reading(nil), rs...)
}

// History returns a copy of the site's history, oldest first.
func (s *Store) History(siteID string) []telemetry.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]telemetry.Reading(nil), s.histories[siteID]...)
}

// Latest returns the newest reading for the site, if any.
func (s *Store) Latest(siteID string) (telemetry.Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.histories[siteID]
	if len(h) == 0 {
		return telemetry.Reading{}, false
	}
	return h[len(h)-1], true
}

// Len returns the current history length for the site.
func (s *Store) Len(siteID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories[siteID])
}

// AddManual records a manual submission. The newest submission becomes the
// "last reading" shown by the form; the full list is retained in order.
func (s *Store) AddManual(m telemetry.ManualReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = append(s.manual, m)
	s.lastManual = &m
}

// LastManual returns the most recent manual submission, if any.
func (s *Store) LastManual() (telemetry.ManualReading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastManual == nil {
		return telemetry.ManualReading{}, false
	}
	return *s.lastManual, true
}

// ManualReadings returns a copy of every manual submission, oldest first.
func (s *Store) ManualReadings() []telemetry.ManualReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]telemetry.ManualReading(nil), s.manual...)
}
