package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts cart quote computations by outcome.
	QuoteTotal *prometheus.CounterVec
	// OfferPreviewTotal counts offer preview attempts by outcome.
	OfferPreviewTotal *prometheus.CounterVec
	// CheckoutTotal counts checkout submissions by kind and outcome.
	CheckoutTotal *prometheus.CounterVec
	// ForwardDeliveriesTotal tracks forward delivery outcomes.
	ForwardDeliveriesTotal *prometheus.CounterVec
	// ForwardAttemptLatency records forward attempt latency in milliseconds.
	ForwardAttemptLatency *prometheus.HistogramVec
	// ForwardAttempts counts forward attempts regardless of outcome.
	ForwardAttempts prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_quote_total",
			Help:      "Count of cart quote computations by outcome.",
		}, []string{"result"})
		OfferPreviewTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_preview_total",
			Help:      "Count of offer preview attempts by outcome.",
		}, []string{"result"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout submissions by kind and outcome.",
		}, []string{"kind", "result"})
		ForwardDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_deliveries_total",
			Help:      "Count of checkout forward delivery outcomes.",
		}, []string{"result"})
		ForwardAttemptLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forward_attempt_duration_ms",
			Help:      "Latency for checkout forward attempts in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})
		ForwardAttempts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_attempts_total",
			Help:      "Total number of checkout forward attempts.",
		})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, OfferPreviewTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OfferPreviewTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, ForwardDeliveriesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ForwardDeliveriesTotal = v
			}
		})
		mustRegisterCollector(reg, ForwardAttemptLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				ForwardAttemptLatency = v
			}
		})
		mustRegisterCollector(reg, ForwardAttempts, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ForwardAttempts = v
			}
		})
	})
}

// The Observe helpers no-op until MustRegisterDomainMetrics has run, so
// handlers stay testable without a metrics setup.

// ObserveQuote records the outcome of one cart quote computation.
func ObserveQuote(result string) {
	if QuoteTotal != nil {
		QuoteTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOfferPreview records the outcome of one offer preview.
func ObserveOfferPreview(result string) {
	if OfferPreviewTotal != nil {
		OfferPreviewTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCheckout records one checkout submission by kind and outcome.
func ObserveCheckout(kind, result string) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(kind, result).Inc()
	}
}

// ObserveForwardDelivery records a terminal forward outcome.
func ObserveForwardDelivery(result string) {
	if ForwardDeliveriesTotal != nil {
		ForwardDeliveriesTotal.WithLabelValues(result).Inc()
	}
}

// ObserveForwardAttempt records one forward attempt and its latency.
func ObserveForwardAttempt(result string, elapsed time.Duration) {
	if ForwardAttempts != nil {
		ForwardAttempts.Inc()
	}
	if ForwardAttemptLatency != nil {
		ForwardAttemptLatency.WithLabelValues(result).Observe(float64(elapsed.Milliseconds()))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
