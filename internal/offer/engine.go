package offer

import (
	"errors"
	"strings"

	"github.com/noah-isme/backend-kelas/internal/billing"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/money"
)

var (
	// ErrNotEligible is returned when the offer cannot be applied to the item.
	ErrNotEligible = errors.New("offer not eligible")
	// ErrNothingToDiscount indicates the targeted price leg is absent or zero.
	ErrNothingToDiscount = errors.New("offer has nothing to discount")
	// ErrUnknownDiscountType is returned for discount types this engine does not recognize.
	ErrUnknownDiscountType = errors.New("unknown discount type")
)

// DiscountType enumerates how an offer reduces a price.
type DiscountType string

const (
	// DiscountAmount subtracts a flat amount.
	DiscountAmount DiscountType = "amount"
	// DiscountPercentage subtracts a percentage of the discounted price.
	DiscountPercentage DiscountType = "percentage"
)

// Leg names which price component of a recurring item an offer targets.
type Leg string

const (
	// LegSubscription targets the ongoing recurring charge.
	LegSubscription Leg = "subscription"
	// LegRegistration targets the one-time registration fee.
	LegRegistration Leg = "registration"
)

// Offer is a redeemable discount code as resolved by the lookup layer.
type Offer struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

// Evaluation is the outcome of applying an offer to an item. The engine is
// pure: on acceptance the caller persists DiscountAmount/PriceToDiscount (and
// the offer id) onto its own state, and clears them on rejection or reset.
type Evaluation struct {
	Accepted        bool
	DiscountAmount  float64
	PriceToDiscount float64
}

// Evaluate validates an offer against an item and produces the discount it
// yields. For one-time items the discounted price is price*quantity; for
// recurring items it is the amount of the leg the offer targets. Rejections
// come back as sentinel errors, never panics: an invalid offer is an expected
// business condition.
func Evaluate(o Offer, item catalog.Item, leg Leg) (Evaluation, error) {
	priceToDiscount, err := priceToDiscountFor(item, leg)
	if err != nil {
		return Evaluation{}, err
	}
	if priceToDiscount <= 0 {
		return Evaluation{}, ErrNothingToDiscount
	}

	var discount float64
	switch normalizeType(o.DiscountType) {
	case DiscountPercentage:
		discount = money.PercentOf(priceToDiscount, o.DiscountValue)
		if discount > priceToDiscount {
			discount = priceToDiscount
		}
	case DiscountAmount:
		discount = money.Clamp(o.DiscountValue)
		if discount > priceToDiscount {
			discount = priceToDiscount
		}
	default:
		return Evaluation{}, ErrUnknownDiscountType
	}

	// The cap above guarantees the chargeable amount never goes below zero.
	if discount <= 0 {
		return Evaluation{}, ErrNotEligible
	}
	return Evaluation{
		Accepted:        true,
		DiscountAmount:  discount,
		PriceToDiscount: priceToDiscount,
	}, nil
}

func priceToDiscountFor(item catalog.Item, leg Leg) (float64, error) {
	if !item.IsRecurring() {
		return item.BasePrice(), nil
	}
	pricing := billing.Resolve(item)
	switch leg {
	case LegSubscription:
		return pricing.Recurring, nil
	case LegRegistration:
		return pricing.Upfront, nil
	default:
		// A recurring item needs an explicit leg; anything else is not applicable.
		return 0, ErrNotEligible
	}
}

func normalizeType(t DiscountType) DiscountType {
	return DiscountType(strings.ToLower(strings.TrimSpace(string(t))))
}
