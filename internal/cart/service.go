package cart

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// ItemLoader resolves catalog items for quoting.
type ItemLoader interface {
	Get(ctx context.Context, id string) (catalog.Item, error)
}

// FeeLoader resolves the tenant fee configuration.
type FeeLoader interface {
	FeeConfig(ctx context.Context) (tenant.FeeConfig, error)
}

// OfferResolver loads a redeemable offer by code.
type OfferResolver interface {
	Resolve(ctx context.Context, code string) (offer.Offer, error)
}

// Service prices a selected item for the storefront. Every quote is a full
// recomputation; nothing is held between calls.
type Service struct {
	Items  ItemLoader
	Fees   FeeLoader
	Offers OfferResolver
	Now    func() time.Time
}

// QuoteRequest is a single-item pricing request as the storefront sends it.
type QuoteRequest struct {
	ItemID        string  `json:"itemId"`
	Quantity      int     `json:"quantity,omitempty"`
	OtherAmount   float64 `json:"otherAmount,omitempty"`
	OfferCode     string  `json:"offerCode,omitempty"`
	RecurringLeg  string  `json:"recurringLeg,omitempty"`
	ApplyCardFees bool    `json:"applyCardFees"`
}

// Quote is the priced response: the summary plus what the UI needs to mount
// the right payment flow.
type Quote struct {
	ItemID   string       `json:"itemId"`
	Title    string       `json:"title"`
	Quantity int          `json:"quantity"`
	Currency string       `json:"currency"`
	Summary  Summary      `json:"summary"`
	Flow     payment.Flow `json:"flow"`
}

// Quote computes the cart summary for the request. An offer code that no
// longer resolves or no longer applies is dropped silently, mirroring the
// stale-offer rule: the summary reports OfferApplied=false and carries no
// discount.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if s == nil || s.Items == nil || s.Fees == nil {
		return Quote{}, errors.New("cart service not configured")
	}
	item, err := s.Items.Get(ctx, req.ItemID)
	if err != nil {
		return Quote{}, err
	}
	item = item.WithSelection(req.Quantity, req.OtherAmount)

	cfg, err := s.Fees.FeeConfig(ctx)
	if err != nil {
		return Quote{}, err
	}

	var applied *offer.Offer
	if req.OfferCode != "" && s.Offers != nil {
		if o, err := s.Offers.Resolve(ctx, req.OfferCode); err == nil {
			applied = &o
		}
	}

	summary, err := Summarize(Input{
		Item:            item,
		Leg:             offer.Leg(req.RecurringLeg),
		Offer:           applied,
		TaxPercent:      cfg.TaxPercent,
		CardFeesPercent: cfg.CardFeesPercent,
		BankFeesPercent: cfg.BankFeesPercent,
		ApplyCardFees:   req.ApplyCardFees,
		Now:             s.now(),
	})
	if err != nil {
		return Quote{}, err
	}

	currency := cfg.Currency
	if currency == "" {
		currency = item.Currency
	}
	return Quote{
		ItemID:   item.ID,
		Title:    item.Title,
		Quantity: item.EffectiveQuantity(),
		Currency: currency,
		Summary:  summary,
		Flow:     payment.FlowFor(summary.TotalPrice, cfg.Providers()),
	}, nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
