package catalog

import "errors"

// Kind identifies which purchasable product family an item belongs to. The
// checkout endpoint shape is selected by kind.
type Kind string

const (
	// KindCourse is a course or service membership purchase.
	KindCourse Kind = "course"
	// KindEvent is an event ticket purchase.
	KindEvent Kind = "event"
	// KindPlan is a subscription plan pricing row.
	KindPlan Kind = "plan"
)

// ErrUnknownKind is returned for kind values outside the known set.
var ErrUnknownKind = errors.New("unknown item kind")

// ParseKind normalizes a kind string from a route or payload.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindCourse, KindEvent, KindPlan:
		return Kind(value), nil
	default:
		return "", ErrUnknownKind
	}
}

// MembershipType distinguishes one-time purchases from recurring memberships.
type MembershipType string

const (
	MembershipOneTime   MembershipType = "one-time"
	MembershipRecurring MembershipType = "recurring"
)

// CycleUnit is the unit component of a billing cycle.
type CycleUnit string

const (
	CycleWeeks  CycleUnit = "weeks"
	CycleMonths CycleUnit = "months"
	CycleYears  CycleUnit = "years"
)

// BillingCycle describes the cadence at which a recurring charge repeats.
type BillingCycle struct {
	Frequency int       `json:"frequency"`
	Unit      CycleUnit `json:"unit"`
}

// Item is a priced catalog entry: a course membership, an event ticket, or a
// subscription plan pricing row. For recurring items SubscriptionAmount is the
// ongoing charge and RegistrationFee the one-time charge collected alongside
// the first billing.
type Item struct {
	ID           string  `json:"id"`
	TenantID     string  `json:"tenantId"`
	Kind         Kind    `json:"kind"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	IsOtherPrice bool    `json:"isOtherPrice"`
	Currency     string  `json:"currency"`

	MembershipType     MembershipType `json:"membershipType"`
	SubscriptionAmount float64        `json:"subscriptionAmount,omitempty"`
	RegistrationFee    float64        `json:"registrationFee,omitempty"`
	BillingCycle       BillingCycle   `json:"billingCycle"`

	// Product-identifying companions; which one is set depends on Kind.
	RegistrationFormID string `json:"registrationFormId,omitempty"`
	ScheduleID         string `json:"scheduleId,omitempty"`
	PricingID          string `json:"pricingId,omitempty"`
}

// ErrInvalidItem is returned when an item violates its own invariants and no
// price can be computed for it.
var ErrInvalidItem = errors.New("invalid item")

// ErrNotFound indicates the requested item does not exist for the tenant.
var ErrNotFound = errors.New("item not found")

// IsRecurring reports whether the item bills on a cycle.
func (i Item) IsRecurring() bool {
	return i.MembershipType == MembershipRecurring
}

// EffectiveQuantity returns the purchase quantity, never below one.
func (i Item) EffectiveQuantity() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// WithSelection applies the buyer's choices on top of the catalog row: a
// positive quantity overrides the listed one, and for pay-what-you-want items
// a chosen amount above the listed price replaces it for exactly one unit.
// Every pricing path must go through this so a quote and its later submission
// see the same item.
func (i Item) WithSelection(quantity int, otherAmount float64) Item {
	if quantity > 0 {
		i.Quantity = quantity
	}
	if i.IsOtherPrice && otherAmount > i.Price {
		i.Price = otherAmount
		i.Quantity = 1
	}
	return i
}

// BasePrice is the one-time chargeable amount before discounts and fees.
func (i Item) BasePrice() float64 {
	if i.Price < 0 {
		return 0
	}
	return i.Price * float64(i.EffectiveQuantity())
}

// Validate checks the call-contract invariants. A violation here is a caller
// bug, not a business rejection.
func (i Item) Validate() error {
	if i.ID == "" {
		return ErrInvalidItem
	}
	if i.Price < 0 {
		return ErrInvalidItem
	}
	if i.Quantity < 0 {
		return ErrInvalidItem
	}
	return nil
}
