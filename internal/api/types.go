package api

import (
	"time"

	"github.com/aquaview/aquaview/internal/alerts"
	"github.com/aquaview/aquaview/internal/classify"
	"github.com/aquaview/aquaview/internal/telemetry"
)

// ReadingResponse is the JSON shape of one reading.
type ReadingResponse struct {
	PH              float64 `json:"ph"`
	Turbidity       float64 `json:"turbidity"`
	Temperature     float64 `json:"temperature"`
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	Timestamp       string  `json:"timestamp"` // RFC3339
}

// SiteResponse is one site entry in GET /api/v1/sites and the snapshot.
type SiteResponse struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	Location    string            `json:"location"`
	Category    string            `json:"category"`
	Reading     *ReadingResponse  `json:"reading,omitempty"`
	Statuses    map[string]string `json:"statuses,omitempty"`
	Overall     string            `json:"overall,omitempty"`
}

// HistoryResponse is the payload for GET /api/v1/sites/{id}/history.
type HistoryResponse struct {
	SiteID   string            `json:"site_id"`
	Readings []ReadingResponse `json:"readings"` // oldest first
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	SiteCount    int    `json:"site_count"`
	GoodCount    int    `json:"good_count"`
	WarningCount int    `json:"warning_count"`
	DangerCount  int    `json:"danger_count"`
	Overall      string `json:"overall"` // worst status; "unknown" with no data
}

// ManualReadingRequest is the body of POST /api/v1/readings. Values arrive
// as strings because the entry form uses plain text inputs; empty and
// non-numeric values are rejected per field.
type ManualReadingRequest struct {
	PH              string `json:"ph"`
	Turbidity       string `json:"turbidity"`
	Temperature     string `json:"temperature"`
	DissolvedOxygen string `json:"dissolved_oxygen"`
}

// ManualReadingResponse echoes an accepted manual submission with its
// classification.
type ManualReadingResponse struct {
	ID       string            `json:"id"`
	Location string            `json:"location"`
	Reading  ReadingResponse   `json:"reading"`
	Statuses map[string]string `json:"statuses"`
	Overall  string            `json:"overall"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the WebSocket
// broadcast envelope's data field.
type SnapshotResponse struct {
	Sites       []SiteResponse               `json:"sites"`
	Histories   map[string][]ReadingResponse `json:"histories"`
	Alerts      []*alerts.Alert              `json:"alerts"`
	GeneratedAt string                       `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body. Fields carries per-field
// validation messages on manual-entry rejections.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func toReadingResponse(r telemetry.Reading) ReadingResponse {
	return ReadingResponse{
		PH:              r.PH,
		Turbidity:       r.Turbidity,
		Temperature:     r.Temperature,
		DissolvedOxygen: r.DissolvedOxygen,
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339),
	}
}

func toStatusMap(res classify.Result) map[string]string {
	out := make(map[string]string, len(res.Statuses))
	for p, s := range res.Statuses {
		out[string(p)] = string(s)
	}
	return out
}
