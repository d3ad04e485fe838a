package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_UpstreamRequestsTotal(t *testing.T) {
	before := getCounterVecValue(UpstreamRequestsTotal, "imdb", "ok")
	UpstreamRequestsTotal.WithLabelValues("imdb", "ok").Inc()
	after := getCounterVecValue(UpstreamRequestsTotal, "imdb", "ok")

	if after != before+1 {
		t.Errorf("Expected imdb ok counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_EpisodesRejectedTotal(t *testing.T) {
	before := getCounterVecValue(EpisodesRejectedTotal, "zero_rating")
	EpisodesRejectedTotal.WithLabelValues("zero_rating").Add(2)
	after := getCounterVecValue(EpisodesRejectedTotal, "zero_rating")

	if after != before+2 {
		t.Errorf("Expected rejected counter to increment by 2, got diff %.0f", after-before)
	}
}

func TestMetrics_LookupsTotal(t *testing.T) {
	before := getCounterVecValue(LookupsTotal, "show", "hit")
	LookupsTotal.WithLabelValues("show", "hit").Inc()
	after := getCounterVecValue(LookupsTotal, "show", "hit")

	if after != before+1 {
		t.Errorf("Expected show hit counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1", 0)
	if srv.Addr != "127.0.0.1:9090" {
		t.Errorf("Expected default port 9090, got addr %q", srv.Addr)
	}

	LookupsTotal.WithLabelValues("movie", "miss").Inc()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "library_lookups_total") {
		t.Error("Expected /metrics output to contain library_lookups_total")
	}
}
