package payment

import (
	"errors"
	"strings"
)

var (
	// ErrInconsistentPayment is returned when the payment type does not match
	// the amount being charged.
	ErrInconsistentPayment = errors.New("payment type inconsistent with amount")
	// ErrMissingToken indicates a card payment without a nonce or saved method.
	ErrMissingToken = errors.New("card payment requires a nonce or saved method id")
	// ErrUnknownPaymentType is returned for payment types outside the known set.
	ErrUnknownPaymentType = errors.New("unknown payment type")
)

// Type encodes how the buyer settles the checkout.
type Type string

const (
	// TypeCard is a provider-tokenized card (or equivalent online) payment.
	TypeCard Type = "card"
	// TypeCash is a pay-in-person settlement recorded at checkout time.
	TypeCash Type = "cash"
	// TypePayLater defers settlement entirely.
	TypePayLater Type = "pay_later"
	// TypeNone is the zero-amount flow: nothing to collect.
	TypeNone Type = "none"
)

// MethodType is the provider-side instrument classification carried through
// to the backend unchanged.
type MethodType string

const (
	MethodCard   MethodType = "card"
	MethodBank   MethodType = "bank"
	MethodWallet MethodType = "wallet"
	MethodNone   MethodType = "none"
)

// TransactionInfo is the token handed back by an external provider SDK flow
// (Stripe Elements, Razorpay checkout, PhonePe redirect). This package never
// talks to those SDKs; it only validates what the caller already obtained.
type TransactionInfo struct {
	Nonce       string     `json:"nonce,omitempty"`
	MethodID    string     `json:"methodId,omitempty"`
	MethodType  MethodType `json:"methodType,omitempty"`
	PaymentType Type       `json:"paymentType"`
	SaveCard    bool       `json:"isSaveCard"`
	PayLater    bool       `json:"isPayLater"`
}

// Validate enforces the consistency contract between the transaction token
// and the priced total: exactly one payment type, "none" only for free
// checkouts, cash and pay-later at any amount, card only with a token.
func (t TransactionInfo) Validate(total float64) error {
	switch t.PaymentType {
	case TypeNone:
		if total != 0 {
			return ErrInconsistentPayment
		}
		return nil
	case TypeCard:
		if total == 0 {
			return ErrInconsistentPayment
		}
		if strings.TrimSpace(t.Nonce) == "" && strings.TrimSpace(t.MethodID) == "" {
			return ErrMissingToken
		}
		return nil
	case TypeCash, TypePayLater:
		if total == 0 {
			return ErrInconsistentPayment
		}
		return nil
	default:
		return ErrUnknownPaymentType
	}
}

// CardCapable reports whether the payment type routes through a card-style
// provider and should therefore attract card processing fees.
func (t Type) CardCapable() bool {
	return t == TypeCard
}
