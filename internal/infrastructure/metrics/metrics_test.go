package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg)

	p.MessagesReceived.Inc()
	p.ParseMisses.Inc()
	p.Merges.Add(3)
	p.ResolutionFailures.WithLabelValues(ReasonNotFound).Inc()
	p.CommandFailures.WithLabelValues(ReasonUnsupported).Inc()

	if got := testutil.ToFloat64(p.MessagesReceived); got != 1 {
		t.Errorf("MessagesReceived = %v, want 1", got)
	}

	if got := testutil.ToFloat64(p.Merges); got != 3 {
		t.Errorf("Merges = %v, want 3", got)
	}

	if got := testutil.ToFloat64(p.ResolutionFailures.WithLabelValues(ReasonNotFound)); got != 1 {
		t.Errorf("ResolutionFailures[not_found] = %v, want 1", got)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(reg)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg)
	p.SnapshotWrites.Inc()

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "brume_ingest_snapshot_writes_total 1") {
		t.Errorf("metrics output missing snapshot counter, got:\n%s", body)
	}
}
