package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aquaview/aquaview/internal/alerts"
	"github.com/aquaview/aquaview/internal/baseline"
	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/metrics"
	"github.com/aquaview/aquaview/internal/store"
	"github.com/aquaview/aquaview/internal/telemetry"
)

// ManualLocation is the fixed location label stamped on every manual
// submission.
const ManualLocation = "Manual Entry"

// Handler is the HTTP handler for all /api/v1/* endpoints. It reads
// dashboard state from the store and classification from classify.
type Handler struct {
	reg    *baseline.Registry
	store  *store.Store
	alerts *alerts.Engine
	mux    *http.ServeMux
	now    func() time.Time // injectable for deterministic tests
}

// New creates a Handler wired to the given state and registers all routes.
func New(reg *baseline.Registry, st *store.Store, al *alerts.Engine) *Handler {
	h := &Handler{reg: reg, store: st, alerts: al, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/sites", h.listSites)
	h.mux.HandleFunc("/api/v1/sites/", h.siteSubtree) // extracts {id} and {id}/history
	h.mux.HandleFunc("/api/v1/readings", h.manualReading)
	h.mux.HandleFunc("/api/v1/readings/last", h.lastManualReading)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — per-status site counts and the worst
// overall status across the fleet.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sites := h.reg.Sites()
	resp := HealthResponse{SiteCount: len(sites), Overall: "unknown"}

	overall := telemetry.StatusGood
	classified := false
	for _, site := range sites {
		rd, ok := h.store.Latest(site.ID)
		if !ok {
			continue
		}
		classified = true
		res := classify.Evaluate(rd)
		switch res.Overall {
		case telemetry.StatusGood:
			resp.GoodCount++
		case telemetry.StatusWarning:
			resp.WarningCount++
		case telemetry.StatusDanger:
			resp.DangerCount++
		}
		overall = telemetry.Worse(overall, res.Overall)
	}
	if classified {
		resp.Overall = string(overall)
	}
	jsonResp(w, http.StatusOK, resp)
}

// listSites returns GET /api/v1/sites — every site with its current reading.
func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.siteResponses())
}

// siteSubtree routes GET /api/v1/sites/{id} and GET /api/v1/sites/{id}/history.
func (h *Handler) siteSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sites/")
	if rest == "" {
		h.listSites(w, r)
		return
	}

	id, sub, _ := strings.Cut(rest, "/")
	site, ok := h.reg.Site(id)
	if !ok {
		// The read path is explicit about unknown ids; only reading
		// generation falls back to the default baseline.
		jsonErr(w, http.StatusNotFound, "site not found")
		return
	}

	switch sub {
	case "":
		jsonResp(w, http.StatusOK, h.toSiteResponse(site))
	case "history":
		rs := h.store.History(site.ID)
		out := make([]ReadingResponse, 0, len(rs))
		for _, rd := range rs {
			out = append(out, toReadingResponse(rd))
		}
		jsonResp(w, http.StatusOK, HistoryResponse{SiteID: site.ID, Readings: out})
	default:
		jsonErr(w, http.StatusNotFound, "not found")
	}
}

// manualReading handles POST /api/v1/readings — the manual-entry form.
// All four values must be present, parseable numbers; otherwise the request
// is rejected with a per-field error map, mirroring the form's disabled
// submit button.
func (h *Handler) manualReading(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ManualReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	values, fieldErrs := parseManualFields(req)
	if len(fieldErrs) > 0 {
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: fieldErrs,
		})
		return
	}

	m := telemetry.ManualReading{
		ID:       uuid.NewString(),
		Location: ManualLocation,
		Reading: telemetry.Reading{
			PH:              values["ph"],
			Turbidity:       values["turbidity"],
			Temperature:     values["temperature"],
			DissolvedOxygen: values["dissolved_oxygen"],
			Timestamp:       h.now(),
		},
	}
	h.store.AddManual(m)
	metrics.ManualReadings.Inc()

	jsonResp(w, http.StatusCreated, h.toManualResponse(m))
}

// lastManualReading returns GET /api/v1/readings/last — the most recent
// manual submission, re-classified for immediate re-display.
func (h *Handler) lastManualReading(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	m, ok := h.store.LastManual()
	if !ok {
		jsonErr(w, http.StatusNotFound, "no manual readings yet")
		return
	}
	jsonResp(w, http.StatusOK, h.toManualResponse(m))
}

// listAlerts returns GET /api/v1/alerts — firing plus recently resolved.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// snapshot returns GET /api/v1/snapshot — the full dashboard dump.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.BuildSnapshot())
}

// BuildSnapshot assembles the full dashboard state. The WebSocket hub calls
// this on every broadcast tick.
func (h *Handler) BuildSnapshot() SnapshotResponse {
	sites := h.siteResponses()
	histories := make(map[string][]ReadingResponse, len(sites))
	for _, s := range sites {
		rs := h.store.History(s.ID)
		out := make([]ReadingResponse, 0, len(rs))
		for _, rd := range rs {
			out = append(out, toReadingResponse(rd))
		}
		histories[s.ID] = out
	}
	return SnapshotResponse{
		Sites:       sites,
		Histories:   histories,
		Alerts:      h.alerts.Active(),
		GeneratedAt: h.now().UTC().Format(time.RFC3339),
	}
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) siteResponses() []SiteResponse {
	sites := h.reg.Sites()
	out := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		out = append(out, h.toSiteResponse(site))
	}
	return out
}

func (h *Handler) toSiteResponse(site telemetry.Site) SiteResponse {
	resp := SiteResponse{
		ID:          site.ID,
		DisplayName: site.DisplayName,
		Location:    site.Location,
		Category:    string(site.Category),
	}
	rd, ok := h.store.Latest(site.ID)
	if !ok {
		return resp
	}
	rr := toReadingResponse(rd)
	res := classify.Evaluate(rd)
	resp.Reading = &rr
	resp.Statuses = toStatusMap(res)
	resp.Overall = string(res.Overall)
	return resp
}

func (h *Handler) toManualResponse(m telemetry.ManualReading) ManualReadingResponse {
	res := classify.Evaluate(m.Reading)
	return ManualReadingResponse{
		ID:       m.ID,
		Location: m.Location,
		Reading:  toReadingResponse(m.Reading),
		Statuses: toStatusMap(res),
		Overall:  string(res.Overall),
	}
}

// parseManualFields validates the four form values. Every field must be a
// non-empty, parseable, finite number.
func parseManualFields(req ManualReadingRequest) (map[string]float64, map[string]string) {
	raw := map[string]string{
		"ph":               req.PH,
		"turbidity":        req.Turbidity,
		"temperature":      req.Temperature,
		"dissolved_oxygen": req.DissolvedOxygen,
	}
	values := make(map[string]float64, len(raw))
	errs := make(map[string]string)

	for field, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			errs[field] = "required"
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs[field] = "must be a number"
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs[field] = "must be finite"
			continue
		}
		values[field] = v
	}
	return values, errs
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
