package simulate

import (
	"context"
	"log/slog"
	"time"

	"github.com/aquaview/aquaview/internal/baseline"
	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/metrics"
	"github.com/aquaview/aquaview/internal/store"
	"github.com/aquaview/aquaview/internal/telemetry"
)

// DefaultTickInterval is the simulation cadence when the config does not
// override it.
const DefaultTickInterval = 3 * time.Second

// Engine drives the simulated fleet: one reading per site per tick, appended
// to the site's rolling history.
type Engine struct {
	reg      *baseline.Registry
	st       *store.Store
	gen      *Generator
	interval time.Duration

	// onReading, when set, is called after each generated reading is stored.
	// The server wires alert evaluation through it.
	onReading func(site telemetry.Site, r telemetry.Reading)
}

// NewEngine creates an Engine ticking every interval. A non-positive
// interval falls back to DefaultTickInterval.
func NewEngine(reg *baseline.Registry, st *store.Store, gen *Generator, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Engine{reg: reg, st: st, gen: gen, interval: interval}
}

// Interval returns the tick cadence.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// OnReading registers fn to run for every generated reading. Must be called
// before Run.
func (e *Engine) OnReading(fn func(site telemetry.Site, r telemetry.Reading)) {
	e.onReading = fn
}

// SeedHistories backfills every site's history with backdated readings so
// charts render immediately. Call once before Run.
func (e *Engine) SeedHistories(now time.Time, n int) {
	for _, site := range e.reg.Sites() {
		rs := e.gen.Seed(e.reg.For(site.ID), now, e.interval, n)
		e.st.SeedHistory(site.ID, rs)
	}
	slog.Info("simulate: histories seeded", "sites", len(e.reg.Sites()), "readings_per_site", n)
}

// Tick generates and stores one reading per site, stamped with now.
// now is passed explicitly so tests control the clock without sleeping.
func (e *Engine) Tick(now time.Time) {
	metrics.TicksTotal.Inc()
	for _, site := range e.reg.Sites() {
		r := e.gen.Generate(e.reg.For(site.ID), now)
		e.st.Append(site.ID, r)

		res := classify.Evaluate(r)
		metrics.ReadingsGenerated.Inc()
		metrics.ReadingsByStatus.WithLabelValues(string(res.Overall)).Inc()

		if e.onReading != nil {
			e.onReading(site, r)
		}
	}
}

// Run ticks until ctx is cancelled. Cancelling the context is the only
// teardown the simulation needs.
func (e *Engine) Run(ctx context.Context) {
	t := time.NewTicker(e.interval)
	defer t.Stop()

	slog.Info("simulate: tick loop started", "interval", e.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulate: tick loop stopped")
			return
		case now := <-t.C:
			e.Tick(now)
		}
	}
}
