package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncInFlight()
	m.ObserveRequest("GET", "/api/products", 200, 25*time.Millisecond)
	m.DecInFlight()

	if got := testutil.ToFloat64(m.total.WithLabelValues("GET", "/api/products", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Fatalf("expected 0 in flight, got %v", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.IncInFlight()
	m.DecInFlight()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("", "", 500, time.Millisecond)
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncOrder("success")
	m.IncOrder("success")
	m.IncOrder("insufficient_stock")
	m.IncShortfall()

	if got := testutil.ToFloat64(m.orders.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.shortfall); got != 1 {
		t.Fatalf("expected 1 shortfall, got %v", got)
	}

	var nilMetrics *CheckoutMetrics
	nilMetrics.IncOrder("success")
	nilMetrics.IncShortfall()
}
