package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for cart operations.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// CartMetrics records cart operations and the non-fatal diagnostics around them.
type CartMetrics struct {
	duration     *prometheus.HistogramVec
	operations   *prometheus.CounterVec
	popupMissing prometheus.Counter
	corruptCarts prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by outcome.",
	}, []string{"op", "outcome"})
	popupMissing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_popup_missing_total",
		Help: "Add-to-cart confirmations whose popup panel was not registered.",
	})
	corruptCarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_corrupt_state_total",
		Help: "Persisted carts that failed to decode and were treated as empty.",
	})
	reg.MustRegister(duration, operations, popupMissing, corruptCarts)
	return &CartMetrics{
		duration:     duration,
		operations:   operations,
		popupMissing: popupMissing,
		corruptCarts: corruptCarts,
	}
}

// Observe records one finished operation.
func (c *CartMetrics) Observe(op, outcome string, took time.Duration) {
	if c == nil || c.operations == nil {
		return
	}
	op = normalizeLabel(op)
	c.operations.WithLabelValues(op, normalizeLabel(outcome)).Inc()
	c.duration.WithLabelValues(op).Observe(took.Seconds())
}

// IncPopupMissing counts a popup lookup that found no panel.
func (c *CartMetrics) IncPopupMissing() {
	if c == nil || c.popupMissing == nil {
		return
	}
	c.popupMissing.Inc()
}

// IncCorruptCart counts a persisted cart that could not be decoded.
func (c *CartMetrics) IncCorruptCart() {
	if c == nil || c.corruptCarts == nil {
		return
	}
	c.corruptCarts.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
