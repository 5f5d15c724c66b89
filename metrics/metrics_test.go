package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistered(t *testing.T) {
	MovesTotal.WithLabelValues("cookie", "ok").Add(0)
	GamesFinishedTotal.WithLabelValues("draw").Add(0)
	RequestsTotal.WithLabelValues("GET", "/health", "2xx").Add(0)
	RequestDuration.WithLabelValues("GET", "/health").Observe(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"cookiemilk_http_requests_total":           false,
		"cookiemilk_http_request_duration_seconds": false,
		"cookiemilk_moves_total":                   false,
		"cookiemilk_games_finished_total":          false,
		"cookiemilk_resets_total":                  false,
		"cookiemilk_random_boards_total":           false,
		"cookiemilk_sessions_active":               false,
		"cookiemilk_websocket_clients":             false,
		"cookiemilk_ratelimit_rejected_total":      false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

func TestMiddlewareRecordsRequest(t *testing.T) {
	counter := RequestsTotal.WithLabelValues("POST", "/12/place/{team}/{column}", "5xx")
	before := testutil.ToFloat64(counter)

	handler := Middleware(func(r *http.Request) string {
		return "/12/place/{team}/{column}"
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	req := httptest.NewRequest("POST", "/12/place/cookie/1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("expected counter %v, got %v", before+1, got)
	}
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	counter := RequestsTotal.WithLabelValues("GET", "unmatched", "2xx")
	before := testutil.ToFloat64(counter)

	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("expected counter %v, got %v", before+1, got)
	}
}
