// Package ws implements the WebSocket feed for the dashboard's render
// collaborator (the charting UI).
//
// Hub manages a set of connected clients and pushes the full dashboard
// snapshot to all of them on every simulation tick (3s in production).
// A client receives the current snapshot immediately on connect so charts
// render without waiting for the next tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot",
//	  "data":  { /* same schema as GET /api/v1/snapshot */ }
//	}
//
// The upgrader accepts all origins; apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stream by the server.
package ws
