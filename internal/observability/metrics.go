package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "signups_total",
		Help:      "Number of successful signups per activity.",
	}, []string{"activity"})

	unregisterCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "unregisters_total",
		Help:      "Number of successful unregisters per activity.",
	}, []string{"activity"})

	rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "rejected_total",
		Help:      "Number of rejected roster mutations grouped by reason.",
	}, []string{"reason"})

	rosterSizeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "participants",
		Help:      "Current roster size per activity.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(signupCounter, unregisterCounter, rejectedCounter, rosterSizeGauge)
}

// RecordSignup increments the signup counter and updates the roster gauge.
// Negative sizes mean the roster could not be re-read and skip the gauge.
func RecordSignup(activity string, rosterSize int) {
	signupCounter.WithLabelValues(activity).Inc()
	if rosterSize >= 0 {
		rosterSizeGauge.WithLabelValues(activity).Set(float64(rosterSize))
	}
}

// RecordUnregister increments the unregister counter and updates the roster gauge.
func RecordUnregister(activity string, rosterSize int) {
	unregisterCounter.WithLabelValues(activity).Inc()
	if rosterSize >= 0 {
		rosterSizeGauge.WithLabelValues(activity).Set(float64(rosterSize))
	}
}

// RecordRejected counts a refused mutation (duplicate signup, unknown activity).
func RecordRejected(reason string) {
	rejectedCounter.WithLabelValues(reason).Inc()
}
