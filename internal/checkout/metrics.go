package checkout

import "github.com/prometheus/client_golang/prometheus"

const (
	variantRegular  = "regular"
	variantExternal = "external"

	outcomeInvalid          = "invalid"
	outcomeAdjustmentFailed = "stock_adjustment_failed"
	outcomeRecordingFailed  = "recording_failed"
)

type Metrics struct {
	Checkouts     *prometheus.CounterVec
	Adjustments   *prometheus.CounterVec
	Compensations *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "checkout",
			Name:      "checkouts_total",
			Help:      "Checkouts by sale variant and outcome.",
		}, []string{"variant", "outcome"}),
		Adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "checkout",
			Name:      "stock_adjustments_total",
			Help:      "Stock deductions issued during checkout by result.",
		}, []string{"result"}),
		Compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Subsystem: "checkout",
			Name:      "compensations_total",
			Help:      "Reversing stock adjustments by result.",
		}, []string{"result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos",
			Subsystem: "checkout",
			Name:      "duration_seconds",
			Help:      "Checkout latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
	}

	reg.MustRegister(m.Checkouts, m.Adjustments, m.Compensations, m.Duration)
	return m
}

func (m *Metrics) checkout(variant, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(variant, outcome).Inc()
	m.Duration.WithLabelValues(variant).Observe(seconds)
}

func (m *Metrics) adjustment(result string) {
	if m == nil {
		return
	}
	m.Adjustments.WithLabelValues(result).Inc()
}

func (m *Metrics) compensation(result string) {
	if m == nil {
		return
	}
	m.Compensations.WithLabelValues(result).Inc()
}
