package checkout

import (
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-kelas/internal/cart"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/common"
	"github.com/noah-isme/backend-kelas/internal/money"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Kind selects which of the three upstream checkout endpoints the payload is
// shaped for.
type Kind string

const (
	KindItem  Kind = "item"
	KindEvent Kind = "event"
	KindPlan  Kind = "plan"
)

// KindFor maps a catalog item kind onto its checkout payload shape.
func KindFor(k catalog.Kind) Kind {
	switch k {
	case catalog.KindEvent:
		return KindEvent
	case catalog.KindPlan:
		return KindPlan
	default:
		return KindItem
	}
}

// Address is the optional postal block of the contact form.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// CustomField carries a tenant-defined form answer through unchanged.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// User is the buyer contact form. Field-level validation belongs to the
// calling form; the builder only enforces the presence checks required to
// produce a submittable payload.
type User struct {
	FirstName    string        `json:"firstName" validate:"required"`
	LastName     string        `json:"lastName" validate:"required"`
	Email        string        `json:"email" validate:"required,email"`
	Phone        string        `json:"phone,omitempty"`
	Note         string        `json:"note,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// PaymentBlock is the payment section shared by all three payload shapes.
type PaymentBlock struct {
	Amount      string             `json:"amount"`
	Currency    string             `json:"currency"`
	Nonce       string             `json:"nonce,omitempty"`
	MethodID    string             `json:"methodId,omitempty"`
	MethodType  payment.MethodType `json:"methodType,omitempty"`
	PaymentType payment.Type       `json:"paymentType"`
	IsSaveCard  bool               `json:"isSaveCard"`
	IsPayLater  bool               `json:"isPayLater"`
}

// Payload is the finished request body for the upstream checkout endpoint.
// Which product-identifying fields are set depends on Kind; everything else
// is shared.
type Payload struct {
	Kind Kind `json:"-"`

	ItemID             string `json:"itemId,omitempty"`
	RegistrationFormID string `json:"registrationFormId,omitempty"`
	EventID            string `json:"eventId,omitempty"`
	ScheduleID         string `json:"scheduleId,omitempty"`
	PlanID             string `json:"planId,omitempty"`
	PricingID          string `json:"pricingId,omitempty"`

	Quantity     int     `json:"quantity"`
	OfferID      string  `json:"offerId,omitempty"`
	OfferCode    string  `json:"offerCode,omitempty"`
	ItemDiscount float64 `json:"itemDiscount"`

	User    User         `json:"user"`
	Payment PaymentBlock `json:"payment"`
}

// BuildPayload assembles the submission body from an already-priced summary.
// It is the last guard before the network call this service hands off: an
// incomplete contact form or an inconsistent payment token fails here, never
// upstream.
func BuildPayload(kind Kind, item catalog.Item, user User, summary cart.Summary, applied *offer.Offer, txn payment.TransactionInfo, cfg tenant.FeeConfig) (Payload, error) {
	if err := validate.Struct(user); err != nil {
		return Payload{}, common.NewAppError("VALIDATION", "incomplete contact information", http.StatusUnprocessableEntity, err)
	}
	if err := txn.Validate(summary.TotalPrice); err != nil {
		return Payload{}, common.NewAppError("PAYMENT_INVALID", err.Error(), http.StatusUnprocessableEntity, err)
	}

	currency := cfg.Currency
	if currency == "" {
		currency = item.Currency
	}

	p := Payload{
		Kind:         kind,
		Quantity:     item.EffectiveQuantity(),
		ItemDiscount: summary.ItemDiscount,
		User:         user,
		Payment: PaymentBlock{
			Amount:      money.FormatAmount(summary.TotalPrice),
			Currency:    currency,
			Nonce:       txn.Nonce,
			MethodID:    txn.MethodID,
			MethodType:  txn.MethodType,
			PaymentType: txn.PaymentType,
			IsSaveCard:  txn.SaveCard,
			IsPayLater:  txn.PayLater || txn.PaymentType == payment.TypePayLater,
		},
	}

	if summary.OfferApplied && applied != nil {
		p.OfferID = applied.ID
		p.OfferCode = applied.Code
	}

	switch kind {
	case KindEvent:
		p.EventID = item.ID
		p.ScheduleID = item.ScheduleID
	case KindPlan:
		p.PlanID = item.ID
		p.PricingID = item.PricingID
	default:
		p.ItemID = item.ID
		p.RegistrationFormID = item.RegistrationFormID
	}
	return p, nil
}
