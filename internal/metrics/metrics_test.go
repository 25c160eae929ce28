package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutAndCallbackCounters(t *testing.T) {
	m := New("test")
	m.ObserveCheckout("cart", "cod", "success")
	m.ObserveCheckout("cart", "cod", "success")
	m.ObserveCheckout("guest", "vnpay", "insufficient_stock")
	m.ObserveCallback("invalid_signature")

	if got := testutil.ToFloat64(m.checkouts.WithLabelValues("cart", "cod", "success")); got != 2 {
		t.Fatalf("expected 2 successful cod checkouts, got %v", got)
	}
	if got := testutil.ToFloat64(m.callbacks.WithLabelValues("invalid_signature")); got != 1 {
		t.Fatalf("expected 1 invalid signature callback, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("")
	m.ObserveHTTP(http.MethodPost, "/api/v1/checkout/guest", http.StatusOK, 12*time.Millisecond)
	m.ObserveTransition("gateway", "paid")

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := recorder.Body.String()
	for _, want := range []string{
		"shopcore_http_requests_total",
		"shopcore_http_request_duration_ms_bucket",
		"shopcore_order_transitions_total",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %s", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCheckout("cart", "cod", "success")
	m.ObserveCallback("success")
	m.ObserveHTTP(http.MethodGet, "", http.StatusOK, time.Millisecond)
	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("nil metrics handler should still serve, got %d", recorder.Code)
	}
}
