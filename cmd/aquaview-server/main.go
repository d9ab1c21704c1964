package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aquaview/aquaview/internal/alerts"
	"github.com/aquaview/aquaview/internal/api"
	"github.com/aquaview/aquaview/internal/baseline"
	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/config"
	"github.com/aquaview/aquaview/internal/metrics"
	"github.com/aquaview/aquaview/internal/simulate"
	"github.com/aquaview/aquaview/internal/store"
	"github.com/aquaview/aquaview/internal/telemetry"
	"github.com/aquaview/aquaview/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard UI static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("aquaview-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found — using built-in defaults", "path", *configPath)
		cfg = config.Defaults()
	default:
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		slog.Error("failed to build site registry", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"tick_interval", cfg.Server.TickInterval,
		"history_length", cfg.Server.HistoryLength,
		"sites", len(reg.Sites()),
		"alert_rules", len(cfg.Server.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Alerts engine — evaluates rules on every generated reading.
	alertEngine := alerts.New(cfg.Server.Alerts)

	// Simulation: seed the charts, then tick until shutdown.
	st := store.New(cfg.Server.HistoryLength)
	engine := simulate.NewEngine(reg, st, simulate.NewGenerator(), cfg.Server.TickInterval)
	engine.OnReading(alertEngine.Evaluate)
	engine.SeedHistories(time.Now(), cfg.Server.SeedCount)
	go engine.Run(ctx)

	// Watch the config file: alert rules hot-reload; anything structural
	// needs a restart because the fleet is fixed at startup.
	go func() {
		prev := cfg
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			alertEngine.SetConfig(updated.Server.Alerts)
			if structuralChange(prev, updated) {
				slog.Warn("config: fleet or cadence changed — restart required to apply")
			}
			prev = updated
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	handler := api.New(reg, st, alertEngine)

	// WebSocket hub — pushes the snapshot to dashboard clients every tick.
	hub := ws.New(handler, engine.Interval())
	go hub.Run(ctx)

	// Periodic fleet digest in the log, on the configured cron schedule.
	digest := cron.New()
	if _, err := digest.AddFunc(cfg.Server.DigestSchedule, func() { logDigest(reg, st) }); err != nil {
		slog.Error("failed to schedule fleet digest", "schedule", cfg.Server.DigestSchedule, "err", err)
		os.Exit(1)
	}
	digest.Start()
	defer digest.Stop()

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", handler)
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", metrics.Handler())

	// Optional: serve the pre-built dashboard UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fileSrv := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fileSrv.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("aquaview-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// buildRegistry converts the configured fleet to a baseline registry, or
// falls back to the built-in fleet when the config names no sites.
func buildRegistry(cfg *config.Config) (*baseline.Registry, error) {
	if len(cfg.Server.Sites) == 0 {
		return baseline.Default(), nil
	}

	sites := make([]telemetry.Site, 0, len(cfg.Server.Sites))
	baselines := make(map[string]baseline.Baseline, len(cfg.Server.Sites))
	for _, sc := range cfg.Server.Sites {
		sites = append(sites, telemetry.Site{
			ID:          sc.ID,
			DisplayName: sc.DisplayName,
			Location:    sc.Location,
			Category:    telemetry.SiteCategory(sc.Category),
		})
		baselines[sc.ID] = baseline.Baseline{
			PH:              sc.Baseline.PH,
			Turbidity:       sc.Baseline.Turbidity,
			Temperature:     sc.Baseline.Temperature,
			DissolvedOxygen: sc.Baseline.DissolvedOxygen,
		}
	}
	// Unrecognized ids fall back to the first configured site's baseline.
	return baseline.New(sites, baselines, sites[0].ID)
}

// structuralChange reports whether updated differs from prev in anything
// other than the hot-reloadable alert configuration.
func structuralChange(prev, updated *config.Config) bool {
	a, b := prev.Server, updated.Server
	a.Alerts, b.Alerts = config.AlertsConfig{}, config.AlertsConfig{}
	return !reflect.DeepEqual(a, b)
}

// logDigest writes a one-line per-status summary of the fleet to the log.
func logDigest(reg *baseline.Registry, st *store.Store) {
	counts := map[telemetry.Status]int{}
	for _, site := range reg.Sites() {
		rd, ok := st.Latest(site.ID)
		if !ok {
			continue
		}
		counts[classify.Evaluate(rd).Overall]++
	}
	slog.Info("fleet digest",
		"good", counts[telemetry.StatusGood],
		"warning", counts[telemetry.StatusWarning],
		"danger", counts[telemetry.StatusDanger],
	)
}
