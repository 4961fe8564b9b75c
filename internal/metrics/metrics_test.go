package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecordRequestAndScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodPost, 409, 120*time.Millisecond)
	c.RecordRequest(http.MethodGet, 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `hourglass_http_requests_total{method="POST",status_code="409"} 1`) {
		t.Fatalf("counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, "hourglass_http_request_duration_seconds_count 2") {
		t.Fatalf("histogram missing from scrape:\n%s", body)
	}
}

func TestDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	NewCollector(reg)
}
