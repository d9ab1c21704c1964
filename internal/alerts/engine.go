package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/config"
	"github.com/aquaview/aquaview/internal/metrics"
	"github.com/aquaview/aquaview/internal/telemetry"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	SiteID     string     `json:"site_id"`
	Parameter  string     `json:"parameter"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against generated readings and delivers
// webhook notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	active   map[string]*Alert    // key: "ruleName:siteID"
	lastFire map[string]time.Time // last fire time per key (for cooldown)
	history  []*Alert             // recently resolved alerts
	client   *http.Client
	now      func() time.Time // injectable for deterministic tests
}

// New creates an Engine from the alert configuration.
// An Engine with empty rules is valid — Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetConfig swaps the rules and webhooks in place. Used by config hot-reload;
// firing state and cooldowns for rules that keep their names survive the swap.
func (e *Engine) SetConfig(cfg config.AlertsConfig) {
	e.mu.Lock()
	e.rules = cfg.Rules
	e.webhooks = cfg.Webhooks
	e.mu.Unlock()
	slog.Info("alerts: rules reloaded", "rules", len(cfg.Rules), "webhooks", len(cfg.Webhooks))
}

// Evaluate tests all configured rules against the reading for site.
// Alerts that fire are stored and webhook delivery is triggered
// asynchronously. Alerts that were firing but whose condition is now false
// are resolved.
func (e *Engine) Evaluate(site telemetry.Site, rd telemetry.Reading) {
	e.mu.Lock()
	rules := e.rules
	e.mu.Unlock()
	if len(rules) == 0 {
		return
	}

	res := classify.Evaluate(rd)
	now := e.now()

	for _, rule := range rules {
		if rule.SiteID != "" && rule.SiteID != site.ID {
			continue
		}
		key := rule.Name + ":" + site.ID
		fires, param, value := evalCondition(rule.Condition, rd, res)

		e.mu.Lock()

		if fires {
			cooldown := rule.Cooldown
			if cooldown <= 0 {
				cooldown = defaultCooldown
			}
			if _, firing := e.active[key]; firing || now.Sub(e.lastFire[key]) <= cooldown {
				e.mu.Unlock()
				continue
			}

			sev := rule.Severity
			if sev == "" {
				sev = "warning"
			}
			a := &Alert{
				ID:        uuid.NewString(),
				RuleName:  rule.Name,
				SiteID:    site.ID,
				Parameter: string(param),
				Severity:  sev,
				Value:     value,
				Message: fmt.Sprintf("[%s] %s fired on %s — %s = %.2f",
					sev, rule.Name, site.DisplayName, rule.Condition, value),
				FiredAt: now,
				State:   "firing",
			}
			e.active[key] = a
			e.lastFire[key] = now
			alertCopy := *a
			e.mu.Unlock()

			metrics.AlertsFired.WithLabelValues(sev).Inc()
			slog.Warn("alert fired",
				"rule", rule.Name,
				"site", site.ID,
				"parameter", param,
				"value", value,
				"severity", sev,
			)
			go e.deliver(&alertCopy)
		} else {
			a, firing := e.active[key]
			if !firing || a.State != "firing" {
				e.mu.Unlock()
				continue
			}
			resolved := now
			a.State = "resolved"
			a.ResolvedAt = &resolved
			delete(e.active, key)

			e.history = append(e.history, a)
			if len(e.history) > maxHistoryLen {
				e.history = e.history[len(e.history)-maxHistoryLen:]
			}
			alertCopy := *a
			e.mu.Unlock()

			slog.Info("alert resolved", "rule", rule.Name, "site", site.ID)
			go e.deliver(&alertCopy)
		}
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}
