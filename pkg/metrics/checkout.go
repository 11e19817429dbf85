package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout saga outcomes.
type CheckoutMetrics struct {
	duration             prometheus.Histogram
	started              prometheus.Counter
	succeeded            prometheus.Counter
	failed               *prometheus.CounterVec
	stockDecrementErrors prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of place-order calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_started_total",
		Help: "Checkout attempts that acquired the in-flight guard.",
	})
	succeeded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_succeeded_total",
		Help: "Checkouts that produced an order and cleared the cart.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Failed checkouts by step.",
	}, []string{"step"})
	stockErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_decrement_errors_total",
		Help: "Per-item stock decrements that failed after order creation.",
	})
	reg.MustRegister(duration, started, succeeded, failed, stockErrors)
	return &CheckoutMetrics{
		duration:             duration,
		started:              started,
		succeeded:            succeeded,
		failed:               failed,
		stockDecrementErrors: stockErrors,
	}
}

// ObserveDuration records how long a place-order call took.
func (m *CheckoutMetrics) ObserveDuration(duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
}

// IncStarted counts an attempt that passed the guard.
func (m *CheckoutMetrics) IncStarted() {
	if m == nil || m.started == nil {
		return
	}
	m.started.Inc()
}

// IncSucceeded counts a completed checkout.
func (m *CheckoutMetrics) IncSucceeded() {
	if m == nil || m.succeeded == nil {
		return
	}
	m.succeeded.Inc()
}

// IncFailed counts a failed checkout at the named step.
func (m *CheckoutMetrics) IncFailed(step string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(step).Inc()
}

// IncStockDecrementError counts a post-order stock decrement failure.
func (m *CheckoutMetrics) IncStockDecrementError() {
	if m == nil || m.stockDecrementErrors == nil {
		return
	}
	m.stockDecrementErrors.Inc()
}
