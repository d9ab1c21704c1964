package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aquaview/aquaview/internal/alerts"
	"github.com/aquaview/aquaview/internal/api"
	"github.com/aquaview/aquaview/internal/baseline"
	"github.com/aquaview/aquaview/internal/config"
	"github.com/aquaview/aquaview/internal/store"
	"github.com/aquaview/aquaview/internal/telemetry"
	wsHub "github.com/aquaview/aquaview/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func reading(ph float64) telemetry.Reading {
	return telemetry.Reading{PH: ph, Turbidity: 0.5, Temperature: 20, DissolvedOxygen: 8, Timestamp: time.Now()}
}

// startHub wires a handler over st and serves the hub from a test server.
// Returns the ws:// URL, the hub, and the backing store.
func startHub(t *testing.T) (wsURL string, hub *wsHub.Hub, st *store.Store) {
	t.Helper()

	st = store.New(20)
	h := api.New(baseline.Default(), st, alerts.New(config.AlertsConfig{}))
	hub = wsHub.New(h, testInterval)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, st
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

func unmarshalEnvelope(t *testing.T, msg []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateSnapshot(t *testing.T) {
	wsURL, _, st := startHub(t)
	st.Append("crystal-lake", reading(7.0))

	conn := dial(t, wsURL)
	m := unmarshalEnvelope(t, readMessage(t, conn))

	if m["event"] != "snapshot" {
		t.Errorf("event: got %v, want snapshot", m["event"])
	}
	data, ok := m["data"].(map[string]interface{})
	if !ok {
		t.Fatal("data: missing or wrong type")
	}
	if data["generated_at"] == nil || data["generated_at"] == "" {
		t.Error("generated_at: missing")
	}
	sites, ok := data["sites"].([]interface{})
	if !ok || len(sites) == 0 {
		t.Fatalf("sites: got %v, want the fleet", data["sites"])
	}
}

func TestHub_SnapshotCarriesHistories(t *testing.T) {
	wsURL, _, st := startHub(t)
	st.Append("mill-creek", reading(7.0))
	st.Append("mill-creek", reading(7.1))

	conn := dial(t, wsURL)
	m := unmarshalEnvelope(t, readMessage(t, conn))

	data := m["data"].(map[string]interface{})
	histories, ok := data["histories"].(map[string]interface{})
	if !ok {
		t.Fatal("histories: missing or wrong type")
	}
	creek, ok := histories["mill-creek"].([]interface{})
	if !ok || len(creek) != 2 {
		t.Errorf("mill-creek history: got %v, want 2 readings", histories["mill-creek"])
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub, _ := startHub(t)

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}

	// Give the hub a moment to register the clients.
	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}

func TestHub_CountDecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _ := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	if n := hub.Count(); n != 1 {
		t.Errorf("Count before disconnect: got %d, want 1", n)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close

	if n := hub.Count(); n != 0 {
		t.Errorf("Count after disconnect: got %d, want 0", n)
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	wsURL, _, st := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate snapshot

	// Append a reading after connect; the next tick should carry it.
	st.Append("silver-lake", reading(6.6))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m := unmarshalEnvelope(t, readMessage(t, conn))
		data := m["data"].(map[string]interface{})
		histories, _ := data["histories"].(map[string]interface{})
		if lake, ok := histories["silver-lake"].([]interface{}); ok && len(lake) == 1 {
			return
		}
	}
	t.Fatal("broadcast after tick never carried the appended reading")
}
