package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewHTTPCollector(reg)
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/simulations/{id}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	collector.Middleware(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/simulations/abc", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues("GET", "GET /api/simulations/{id}", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "http_request_duration_seconds", map[string]string{
		"method": "GET",
		"route":  "GET /api/simulations/{id}",
	}); count != 1 {
		t.Fatalf("http_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestMiddlewareRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewHTTPCollector(reg)
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/simulations", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad settings", http.StatusBadRequest)
	})

	rr := httptest.NewRecorder()
	collector.Middleware(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/simulations", nil))

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues("POST", "POST /api/simulations", "400")); got != 1 {
		t.Fatalf("http_requests_total error label = %v, want 1", got)
	}
}

func TestMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewHTTPCollector(reg)
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}

	rr := httptest.NewRecorder()
	collector.Middleware(http.NewServeMux()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(collector.Requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected unmatched route label, got %v", got)
	}
}

func TestSimulationCollectorRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	collector.SimulationStarted("greedy")
	collector.SimulationStarted("greedy")
	collector.ObserveSimulationDuration("greedy", 120*time.Millisecond)
	collector.ObserveStepDuration(2 * time.Millisecond)
	collector.ObserveDijkstraDuration(40 * time.Millisecond)
	collector.SetRegisteredSimulations(3)

	if got := testutil.ToFloat64(collector.SimulationsStarted.WithLabelValues("greedy")); got != 2 {
		t.Fatalf("simulations_started_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.RegisteredSims); got != 3 {
		t.Fatalf("simulations_registered = %v, want 3", got)
	}
	if count := histogramSampleCount(t, reg, "simulation_duration_seconds", map[string]string{
		"strategy": "greedy",
	}); count != 1 {
		t.Fatalf("simulation_duration_seconds sample_count = %d, want 1", count)
	}
	if count := histogramSampleCount(t, reg, "dijkstra_duration_seconds", nil); count != 1 {
		t.Fatalf("dijkstra_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestMetricsHandlerExposesSimulationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpCollector, err := NewHTTPCollector(reg)
	if err != nil {
		t.Fatalf("NewHTTPCollector: %v", err)
	}
	simCollector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	httpCollector.Requests.WithLabelValues("GET", "GET /api/graphs", "200").Inc()
	simCollector.SimulationStarted("priority")
	simCollector.SetRegisteredSimulations(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	httpCollector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"simulations_started_total",
		"simulations_registered",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
