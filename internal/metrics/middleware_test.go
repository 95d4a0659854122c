package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/searches/{searchID}/aggregations", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	for _, id := range []string{"s1", "s2"} {
		req := httptest.NewRequest(http.MethodGet, "/searches/"+id+"/aggregations", http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/searches/{searchID}/aggregations", "200"))
	if got < 2 {
		t.Errorf("expected both ids under one route label, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/conflict", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	r.Get("/implicit", func(w http.ResponseWriter, _ *http.Request) {})

	tests := []struct {
		path, status string
	}{
		{"/conflict", "409"},
		{"/implicit", "200"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)

		if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status)); v < 1 {
			t.Errorf("%s: expected a %s sample, got %f", tc.path, tc.status, v)
		}
	}
}

func TestRouteLabel_Unmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody)
	if got := routeLabel(req); got != "unmatched" {
		t.Errorf("routeLabel() = %q, want unmatched", got)
	}
}

func TestRegisterEditorMetrics_Idempotent(t *testing.T) {
	RegisterEditorMetrics()
	RegisterEditorMetrics()
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
}
