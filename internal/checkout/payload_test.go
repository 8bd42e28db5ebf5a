package checkout

import (
	"errors"
	"testing"

	"github.com/noah-isme/backend-kelas/internal/cart"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/common"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

func validUser() User {
	return User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func cardTxn() payment.TransactionInfo {
	return payment.TransactionInfo{PaymentType: payment.TypeCard, Nonce: "tok_abc", MethodType: payment.MethodCard}
}

func TestBuildPayloadFormatsAmount(t *testing.T) {
	item := catalog.Item{ID: "i1", Kind: catalog.KindCourse, Price: 49.995, Quantity: 1}
	summary := cart.Summary{TotalPrice: 49.995, Subtotal: 49.995}
	p, err := BuildPayload(KindItem, item, validUser(), summary, nil, cardTxn(), tenant.FeeConfig{Currency: "USD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Payment.Amount != "50.00" {
		t.Fatalf("amount = %q, want \"50.00\"", p.Payment.Amount)
	}
	if p.Payment.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", p.Payment.Currency)
	}
}

func TestBuildPayloadMissingEmail(t *testing.T) {
	user := validUser()
	user.Email = ""
	_, err := BuildPayload(KindItem, catalog.Item{ID: "i1"}, user, cart.Summary{TotalPrice: 10}, nil, cardTxn(), tenant.FeeConfig{})
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "VALIDATION" {
		t.Fatalf("code = %q, want VALIDATION", appErr.Code)
	}
	if appErr.HTTPStatus != 422 {
		t.Fatalf("status = %d, want 422", appErr.HTTPStatus)
	}
}

func TestBuildPayloadInvalidEmail(t *testing.T) {
	user := validUser()
	user.Email = "not-an-email"
	if _, err := BuildPayload(KindItem, catalog.Item{ID: "i1"}, user, cart.Summary{TotalPrice: 10}, nil, cardTxn(), tenant.FeeConfig{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBuildPayloadInconsistentPayment(t *testing.T) {
	// Card payment against a free summary must fail the consistency check.
	txn := cardTxn()
	_, err := BuildPayload(KindItem, catalog.Item{ID: "i1"}, validUser(), cart.Summary{TotalPrice: 0}, nil, txn, tenant.FeeConfig{})
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "PAYMENT_INVALID" {
		t.Fatalf("code = %q, want PAYMENT_INVALID", appErr.Code)
	}
}

func TestBuildPayloadFreeCheckout(t *testing.T) {
	txn := payment.TransactionInfo{PaymentType: payment.TypeNone}
	p, err := BuildPayload(KindItem, catalog.Item{ID: "i1"}, validUser(), cart.Summary{TotalPrice: 0}, nil, txn, tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Payment.Amount != "0.00" {
		t.Fatalf("amount = %q, want \"0.00\"", p.Payment.Amount)
	}
	if p.Payment.PaymentType != payment.TypeNone {
		t.Fatalf("payment type = %q, want none", p.Payment.PaymentType)
	}
}

func TestBuildPayloadShapes(t *testing.T) {
	item := catalog.Item{
		ID:                 "x1",
		RegistrationFormID: "form-1",
		ScheduleID:         "sched-1",
		PricingID:          "price-1",
		Quantity:           2,
	}
	summary := cart.Summary{TotalPrice: 20}

	itemPayload, err := BuildPayload(KindItem, item, validUser(), summary, nil, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("item payload: %v", err)
	}
	if itemPayload.ItemID != "x1" || itemPayload.RegistrationFormID != "form-1" {
		t.Fatalf("item shape %+v", itemPayload)
	}
	if itemPayload.EventID != "" || itemPayload.PlanID != "" {
		t.Fatalf("item shape leaked other ids %+v", itemPayload)
	}
	if itemPayload.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", itemPayload.Quantity)
	}

	eventPayload, err := BuildPayload(KindEvent, item, validUser(), summary, nil, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("event payload: %v", err)
	}
	if eventPayload.EventID != "x1" || eventPayload.ScheduleID != "sched-1" {
		t.Fatalf("event shape %+v", eventPayload)
	}
	if eventPayload.ItemID != "" {
		t.Fatalf("event shape leaked item id %+v", eventPayload)
	}

	planPayload, err := BuildPayload(KindPlan, item, validUser(), summary, nil, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("plan payload: %v", err)
	}
	if planPayload.PlanID != "x1" || planPayload.PricingID != "price-1" {
		t.Fatalf("plan shape %+v", planPayload)
	}
}

func TestBuildPayloadOfferFields(t *testing.T) {
	item := catalog.Item{ID: "i1"}
	applied := &offer.Offer{ID: "o1", Code: "SAVE20"}

	withOffer, err := BuildPayload(KindItem, item, validUser(), cart.Summary{TotalPrice: 80, ItemDiscount: 20, OfferApplied: true}, applied, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withOffer.OfferID != "o1" || withOffer.OfferCode != "SAVE20" {
		t.Fatalf("offer fields missing %+v", withOffer)
	}
	if withOffer.ItemDiscount != 20 {
		t.Fatalf("discount = %v, want 20", withOffer.ItemDiscount)
	}

	// A stale offer (not applied in the summary) never reaches the payload.
	withoutOffer, err := BuildPayload(KindItem, item, validUser(), cart.Summary{TotalPrice: 100}, applied, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withoutOffer.OfferID != "" || withoutOffer.OfferCode != "" {
		t.Fatalf("stale offer leaked %+v", withoutOffer)
	}
}

func TestBuildPayloadCurrencyFallback(t *testing.T) {
	item := catalog.Item{ID: "i1", Currency: "EUR"}
	p, err := BuildPayload(KindItem, item, validUser(), cart.Summary{TotalPrice: 10}, nil, cardTxn(), tenant.FeeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Payment.Currency != "EUR" {
		t.Fatalf("currency = %q, want item fallback EUR", p.Payment.Currency)
	}
}

func TestKindFor(t *testing.T) {
	if KindFor(catalog.KindEvent) != KindEvent {
		t.Fatal("event kind")
	}
	if KindFor(catalog.KindPlan) != KindPlan {
		t.Fatal("plan kind")
	}
	if KindFor(catalog.KindCourse) != KindItem {
		t.Fatal("course maps to item")
	}
}
