package metrics

import (
	"github.com/Dhoini/checkout-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckoutMetrics интерфейс для метрик checkout-потока
type CheckoutMetrics interface {
	IncRiskAssessment(tier string, method string)
	IncIntentCreated(strategy string)
	IncConflict(state string)
	ObserveCheckoutDuration(seconds float64)
}

type checkoutMetrics struct {
	log              *logger.Logger
	riskAssessments  *prometheus.CounterVec
	intentsCreated   *prometheus.CounterVec
	conflicts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
}

// NewCheckoutMetrics создает новые метрики checkout-потока
func NewCheckoutMetrics(registry *prometheus.Registry, log *logger.Logger) CheckoutMetrics {
	riskAssessments := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_total",
			Help: "The total number of risk assessments by tier and validation method",
		},
		[]string{"tier", "method"},
	)

	intentsCreated := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_intents_created_total",
			Help: "The total number of created payment/setup intents by strategy",
		},
		[]string{"strategy"},
	)

	conflicts := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_conflicts_total",
			Help: "The total number of blocked subscription creations by existing state",
		},
		[]string{"state"},
	)

	checkoutDuration := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "End-to-end checkout request duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	return &checkoutMetrics{
		log:              log,
		riskAssessments:  riskAssessments,
		intentsCreated:   intentsCreated,
		conflicts:        conflicts,
		checkoutDuration: checkoutDuration,
	}
}

// IncRiskAssessment увеличивает счетчик оценок риска
func (m *checkoutMetrics) IncRiskAssessment(tier string, method string) {
	m.riskAssessments.WithLabelValues(tier, method).Inc()
}

// IncIntentCreated увеличивает счетчик созданных интентов
func (m *checkoutMetrics) IncIntentCreated(strategy string) {
	m.intentsCreated.WithLabelValues(strategy).Inc()
}

// IncConflict увеличивает счетчик конфликтов подписок
func (m *checkoutMetrics) IncConflict(state string) {
	m.conflicts.WithLabelValues(state).Inc()
}

// ObserveCheckoutDuration записывает длительность checkout-запроса
func (m *checkoutMetrics) ObserveCheckoutDuration(seconds float64) {
	m.checkoutDuration.Observe(seconds)
}
