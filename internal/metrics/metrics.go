package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels operations that completed normally.
	OutcomeSuccess = "success"
	// OutcomeError labels operations that failed.
	OutcomeError = "error"
	// OutcomeSkipped labels webhook channels that were not attempted.
	OutcomeSkipped = "skipped"
)

var (
	risQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgp_console",
			Name:      "ris_queries_total",
			Help:      "Total RIS Stat API queries, partitioned by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	risQuerySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bgp_console",
			Name:      "ris_query_seconds",
			Help:      "RIS Stat API query latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	webhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bgp_console",
			Name:      "webhook_deliveries_total",
			Help:      "Webhook delivery attempts, partitioned by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	hijackChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bgp_console",
			Name:      "hijack_checks_total",
			Help:      "Total prefix ownership checks performed.",
		},
	)

	hijacksDetectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bgp_console",
			Name:      "hijacks_detected_total",
			Help:      "Total ownership mismatches detected.",
		},
	)
)

// Register attaches all collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		risQueriesTotal,
		risQuerySeconds,
		webhookDeliveriesTotal,
		hijackChecksTotal,
		hijacksDetectedTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRISQuery records one RIS query with its latency and outcome.
func ObserveRISQuery(endpoint string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	risQueriesTotal.WithLabelValues(endpoint, outcome).Inc()
	risQuerySeconds.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveWebhookDelivery records a channel send attempt.
func ObserveWebhookDelivery(channel string, ok bool) {
	outcome := OutcomeError
	if ok {
		outcome = OutcomeSuccess
	}
	webhookDeliveriesTotal.WithLabelValues(channel, outcome).Inc()
}

// ObserveWebhookSkipped records a channel that was disabled or unconfigured.
func ObserveWebhookSkipped(channel string) {
	webhookDeliveriesTotal.WithLabelValues(channel, OutcomeSkipped).Inc()
}

// ObserveHijackCheck records one ownership check and whether it found a mismatch.
func ObserveHijackCheck(detected bool) {
	hijackChecksTotal.Inc()
	if detected {
		hijacksDetectedTotal.Inc()
	}
}
