package payment

import "strings"

// Flow names the provider checkout flow the UI should mount. Provider
// credentials stay opaque to this service; only the provider name is read.
type Flow string

const (
	FlowStripe   Flow = "stripe"
	FlowRazorpay Flow = "razorpay"
	FlowPhonePe  Flow = "phonepe"
	// FlowNone is the free-checkout path: no provider involvement at all.
	FlowNone Flow = "none"
)

// knownFlows is ordered by preference when a tenant configures several.
var knownFlows = []Flow{FlowStripe, FlowRazorpay, FlowPhonePe}

// FlowFor picks the provider flow for a priced total given the provider names
// from the tenant's payment keys. A zero total always resolves to FlowNone,
// regardless of configuration.
func FlowFor(total float64, providers []string) Flow {
	if total == 0 {
		return FlowNone
	}
	for _, want := range knownFlows {
		for _, have := range providers {
			if strings.EqualFold(strings.TrimSpace(have), string(want)) {
				return want
			}
		}
	}
	return FlowNone
}
