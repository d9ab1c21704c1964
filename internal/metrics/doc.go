// Package metrics exposes aquaview's own operational counters in Prometheus
// exposition format. The exposition is mounted at /metrics by the server.
package metrics
