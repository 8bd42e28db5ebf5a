package obs_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/backend-kelas/internal/obs"
)

func TestObserveHelpersBeforeRegistration(t *testing.T) {
	// Must not panic while the collectors are still nil.
	obs.ObserveQuote("ok")
	obs.ObserveOfferPreview("ok")
	obs.ObserveCheckout("item", "ok")
	obs.ObserveForwardDelivery("forwarded")
	obs.ObserveForwardAttempt("ok", time.Millisecond)
}

func TestObserveHelpersIncrement(t *testing.T) {
	obs.MustRegisterDomainMetrics("kelas", prometheus.NewRegistry())

	obs.ObserveQuote("ok")
	obs.ObserveQuote("ok")
	obs.ObserveQuote("error")
	obs.ObserveOfferPreview("not_found")
	obs.ObserveCheckout("item", "ok")
	obs.ObserveForwardDelivery("forwarded")
	obs.ObserveForwardAttempt("ok", 42*time.Millisecond)

	if got := testutil.ToFloat64(obs.QuoteTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("quote ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(obs.QuoteTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("quote error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.OfferPreviewTotal.WithLabelValues("not_found")); got != 1 {
		t.Fatalf("preview not_found = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.CheckoutTotal.WithLabelValues("item", "ok")); got != 1 {
		t.Fatalf("checkout item ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.ForwardDeliveriesTotal.WithLabelValues("forwarded")); got != 1 {
		t.Fatalf("deliveries forwarded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.ForwardAttempts); got != 1 {
		t.Fatalf("attempts = %v, want 1", got)
	}
	if samples := testutil.CollectAndCount(obs.ForwardAttemptLatency); samples == 0 {
		t.Fatal("expected attempt latency sample")
	}
}
