package offer

import (
	"context"
	"errors"
	"strings"

	"github.com/noah-isme/backend-kelas/internal/catalog"
)

// ErrCodeNotFound indicates no redeemable offer exists for the entered code.
var ErrCodeNotFound = errors.New("offer code not found")

// Row is the stored form of an offer as the repository returns it.
type Row struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	Active        bool    `json:"active"`
}

// Engine converts the stored row into the evaluator's offer shape.
func (r Row) Engine() Offer {
	return Offer{
		ID:            r.ID,
		Code:          r.Code,
		DiscountType:  DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
	}
}

// Querier captures the persistence methods the offer service needs.
type Querier interface {
	GetActiveByCode(ctx context.Context, code string) (Row, error)
}

// ItemLoader resolves the item an offer is being previewed against.
type ItemLoader interface {
	GetByID(ctx context.Context, id string) (catalog.Item, error)
}

// Service resolves user-entered codes and previews the discount they yield.
type Service struct {
	Q     Querier
	Items ItemLoader
}

// PreviewResult is the outcome of a successful dry-run redemption.
type PreviewResult struct {
	Offer           Offer   `json:"offer"`
	DiscountAmount  float64 `json:"discountAmount"`
	PriceToDiscount float64 `json:"priceToDiscount"`
}

// Preview resolves a code and evaluates it against the item without touching
// any state. Lookup misses and engine rejections both come back as sentinel
// errors for the handler to translate into user-facing messages.
func (s *Service) Preview(ctx context.Context, code, itemID string, leg Leg) (PreviewResult, error) {
	if s == nil || s.Q == nil || s.Items == nil {
		return PreviewResult{}, errors.New("offer service not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return PreviewResult{}, ErrCodeNotFound
	}
	row, err := s.Q.GetActiveByCode(ctx, trimmed)
	if err != nil {
		return PreviewResult{}, err
	}
	item, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return PreviewResult{}, err
	}
	o := row.Engine()
	eval, err := Evaluate(o, item, leg)
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{
		Offer:           o,
		DiscountAmount:  eval.DiscountAmount,
		PriceToDiscount: eval.PriceToDiscount,
	}, nil
}

// Resolve loads the engine shape for a code, used by the cart and checkout
// services when re-validating a previously applied offer.
func (s *Service) Resolve(ctx context.Context, code string) (Offer, error) {
	if s == nil || s.Q == nil {
		return Offer{}, errors.New("offer service not configured")
	}
	row, err := s.Q.GetActiveByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return Offer{}, err
	}
	return row.Engine(), nil
}
