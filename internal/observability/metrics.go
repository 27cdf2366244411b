package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the API and pipeline.
type Metrics struct {
	PredictionsTotal    *prometheus.CounterVec // label: source={inference-service,fallback-heuristic}
	PredictionFallbacks prometheus.Counter
	PredictionFailures  prometheus.Counter
	JournalDropped      prometheus.Counter

	OTPIssued      prometheus.Counter
	OTPVerified    prometheus.Counter
	OTPFailures    *prometheus.CounterVec // label: reason={not_found,expired,too_many_attempts,invalid_code}
	EventsDropped  prometheus.Counter
	Subscribers    prometheus.Gauge
	ReportsCreated prometheus.Counter
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "predictions_total",
			Help:      "Total risk assessments produced, by model source.",
		}, []string{"source"}),
		PredictionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "prediction_fallbacks_total",
			Help:      "Times the inference tier failed and the weather-direct tier was consulted.",
		}),
		PredictionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "prediction_failures_total",
			Help:      "Risk requests that exhausted every tier.",
		}),
		JournalDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "journal_dropped_total",
			Help:      "Prediction log entries dropped because the journal buffer was full.",
		}),
		OTPIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "otp_issued_total",
			Help:      "OTP codes issued.",
		}),
		OTPVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "otp_verified_total",
			Help:      "Successful OTP verifications.",
		}),
		OTPFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "otp_failures_total",
			Help:      "Failed OTP verifications, by reason.",
		}, []string{"reason"}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "events_dropped_total",
			Help:      "Real-time events dropped on slow subscribers.",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodsense",
			Name:      "realtime_subscribers",
			Help:      "Current real-time subscriptions across all topics.",
		}),
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsense",
			Name:      "reports_created_total",
			Help:      "Citizen reports accepted.",
		}),
	}

	reg.MustRegister(
		m.PredictionsTotal,
		m.PredictionFallbacks,
		m.PredictionFailures,
		m.JournalDropped,
		m.OTPIssued,
		m.OTPVerified,
		m.OTPFailures,
		m.EventsDropped,
		m.Subscribers,
		m.ReportsCreated,
	)

	return m
}
