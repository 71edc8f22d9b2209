package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics tracks order placement outcomes and stock contention.
type CheckoutMetrics struct {
	orders    *prometheus.CounterVec
	shortfall prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	shortfall := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_shortfalls_total",
		Help: "Checkouts rejected because stock ran out.",
	})
	reg.MustRegister(orders, shortfall)
	return &CheckoutMetrics{
		orders:    orders,
		shortfall: shortfall,
	}
}

// IncOrder records a checkout attempt with the given outcome label.
func (c *CheckoutMetrics) IncOrder(outcome string) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncShortfall records a checkout rejected for insufficient stock.
func (c *CheckoutMetrics) IncShortfall() {
	if c == nil || c.shortfall == nil {
		return
	}
	c.shortfall.Inc()
}
