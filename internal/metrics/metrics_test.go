package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// parseExposition decodes a Prometheus text exposition into metric families.
func parseExposition(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}

func scrape(t *testing.T) map[string]*dto.MetricFamily {
	t.Helper()
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scrape status = %d, want 200", resp.StatusCode)
	}

	mfs, err := parseExposition(resp.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return mfs
}

func TestExposition_CountersVisible(t *testing.T) {
	before := sumFamily(scrape(t)["aquaview_ticks_total"])

	TicksTotal.Inc()
	TicksTotal.Inc()
	ReadingsGenerated.Add(6)
	ReadingsByStatus.WithLabelValues("good").Inc()
	ReadingsByStatus.WithLabelValues("danger").Inc()

	mfs := scrape(t)

	if got := sumFamily(mfs["aquaview_ticks_total"]); got != before+2 {
		t.Errorf("aquaview_ticks_total = %.0f, want %.0f", got, before+2)
	}
	if mfs["aquaview_readings_generated_total"] == nil {
		t.Error("aquaview_readings_generated_total missing from exposition")
	}
	if got := sumFamily(mfs["aquaview_readings_by_status_total"]); got < 2 {
		t.Errorf("aquaview_readings_by_status_total sum = %.0f, want >= 2", got)
	}
}

func TestExposition_GaugeMovesBothWays(t *testing.T) {
	base := sumFamily(scrape(t)["aquaview_ws_clients"])

	WSClients.Inc()
	if got := sumFamily(scrape(t)["aquaview_ws_clients"]); got != base+1 {
		t.Errorf("aquaview_ws_clients after Inc = %.0f, want %.0f", got, base+1)
	}
	WSClients.Dec()
	if got := sumFamily(scrape(t)["aquaview_ws_clients"]); got != base {
		t.Errorf("aquaview_ws_clients after Dec = %.0f, want %.0f", got, base)
	}
}
