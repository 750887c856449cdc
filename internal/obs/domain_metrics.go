package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrderBreakdownTotal counts priced order breakdown computations.
	OrderBreakdownTotal *prometheus.CounterVec
	// CouponPreviewTotal counts coupon discount previews by outcome.
	CouponPreviewTotal *prometheus.CounterVec
	// CalorieProjectionTotal counts calorie projections, split by whether the
	// biometric data was sufficient to compute one.
	CalorieProjectionTotal *prometheus.CounterVec
	// VariationMatrixSize records the number of variations generated per
	// variable-product matrix request.
	VariationMatrixSize prometheus.Histogram
	// LoginAttemptTotal counts admin login attempts by result.
	LoginAttemptTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrderBreakdownTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_breakdown_total",
			Help:      "Count of priced order breakdown computations by order kind.",
		}, []string{"kind"})
		CouponPreviewTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_preview_total",
			Help:      "Count of coupon discount previews by outcome.",
		}, []string{"result"})
		CalorieProjectionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calorie_projection_total",
			Help:      "Count of calorie projections by data sufficiency.",
		}, []string{"result"})
		VariationMatrixSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "variation_matrix_size",
			Help:      "Number of variations generated per matrix request.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		})
		LoginAttemptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempt_total",
			Help:      "Count of admin login attempts by result.",
		}, []string{"result"})

		registerCounterVec(reg, &OrderBreakdownTotal)
		registerCounterVec(reg, &CouponPreviewTotal)
		registerCounterVec(reg, &CalorieProjectionTotal)
		registerCounterVec(reg, &LoginAttemptTotal)
		if err := reg.Register(VariationMatrixSize); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
					VariationMatrixSize = existing
				}
			}
		}
	})
}
