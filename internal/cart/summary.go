package cart

import (
	"time"

	"github.com/noah-isme/backend-kelas/internal/billing"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/money"
	"github.com/noah-isme/backend-kelas/internal/offer"
)

// Input gathers everything the summary computation depends on. The calling
// layer re-invokes Summarize whenever any of these change; there is no cached
// state to go stale.
type Input struct {
	Item            catalog.Item
	Leg             offer.Leg
	Offer           *offer.Offer
	TaxPercent      float64
	CardFeesPercent float64
	BankFeesPercent float64
	ApplyCardFees   bool
	// Now anchors the next-billing-period calculation; the zero value means
	// time.Now(). Tests pin it for determinism.
	Now time.Time
}

// RecurringInfo describes what every bill after the first will look like.
type RecurringInfo struct {
	BillingLabel   string    `json:"billingLabel"`
	NextBillingAt  time.Time `json:"nextBillingAt"`
	ProcessingFees float64   `json:"processingFees"`
}

// Summary is the itemized total for display and submission. Subtotal is the
// pre-discount chargeable base, so TotalPrice always equals
// round2(Subtotal - ItemDiscount + TotalTax + CardFees + BankFees).
type Summary struct {
	TotalPrice   float64 `json:"totalPrice"`
	Subtotal     float64 `json:"subtotal"`
	ItemDiscount float64 `json:"itemDiscount"`
	TotalTax     float64 `json:"totalTax"`
	CardFees     float64 `json:"cardFees"`
	BankFees     float64 `json:"bankFees"`

	ShowTaxable  bool `json:"showTaxable"`
	ShowCardFees bool `json:"showCardFees"`
	ShowBankFees bool `json:"showBankFees"`

	// OfferApplied reports whether the provided offer survived re-validation.
	// When false the caller must clear its stored offer state; a stale
	// discount is never carried into the totals.
	OfferApplied bool `json:"offerApplied"`

	Recurring *RecurringInfo `json:"recurring,omitempty"`
}

// Free reports whether this summary represents a fully-discounted or
// zero-priced checkout. Downstream payment selection treats it as the
// no-payment-required path.
func (s Summary) Free() bool {
	return s.TotalPrice == 0
}

// Summarize computes the cart summary for a single item. The sequence is the
// authoritative computation: base amount, discount, tax on the discounted
// subtotal, card/bank fees on subtotal plus tax, then one final rounding.
// Intermediate values are never rounded. The only error condition is an item
// that violates its own invariants; business rejections (invalid offer, zero
// total) are not errors.
func Summarize(in Input) (Summary, error) {
	if err := in.Item.Validate(); err != nil {
		return Summary{}, err
	}

	var out Summary

	base := in.Item.BasePrice()
	if in.Item.IsRecurring() {
		pricing := billing.Resolve(in.Item)
		// First bill collects the registration fee and the first cycle together.
		base = pricing.Upfront + pricing.Recurring
	}
	out.Subtotal = base

	if in.Offer != nil {
		eval, err := offer.Evaluate(*in.Offer, in.Item, in.Leg)
		if err == nil && eval.Accepted {
			out.ItemDiscount = eval.DiscountAmount
			out.OfferApplied = true
		}
		// A rejected offer is dropped silently; the caller clears its state
		// based on OfferApplied.
	}

	taxable := money.Clamp(base - out.ItemDiscount)
	out.TotalTax = money.PercentOf(taxable, in.TaxPercent)
	out.ShowTaxable = in.TaxPercent > 0

	if in.ApplyCardFees {
		out.CardFees = money.PercentOf(taxable+out.TotalTax, in.CardFeesPercent)
		out.BankFees = money.PercentOf(taxable+out.TotalTax, in.BankFeesPercent)
		out.ShowCardFees = in.CardFeesPercent > 0
		out.ShowBankFees = in.BankFeesPercent > 0
	}

	out.TotalPrice = money.Round2(taxable + out.TotalTax + out.CardFees + out.BankFees)

	if in.Item.IsRecurring() {
		out.Recurring = recurringInfo(in)
	}
	return out, nil
}

// recurringInfo prices a later bill: the recurring amount alone, with the same
// tax and fee treatment the first bill received but no one-time discount.
func recurringInfo(in Input) *RecurringInfo {
	pricing := billing.Resolve(in.Item)
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	info := &RecurringInfo{
		BillingLabel:  pricing.Label,
		NextBillingAt: billing.NextPeriod(now, in.Item.BillingCycle),
	}
	tax := money.PercentOf(pricing.Recurring, in.TaxPercent)
	if in.ApplyCardFees {
		info.ProcessingFees = money.PercentOf(pricing.Recurring+tax, in.CardFeesPercent) +
			money.PercentOf(pricing.Recurring+tax, in.BankFeesPercent)
	}
	return info
}
