package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/backend-kelas/internal/cart"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/forward"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/repo"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// Quoter reprices the selection server-side. Client-submitted totals are
// never trusted.
type Quoter interface {
	Quote(ctx context.Context, req cart.QuoteRequest) (cart.Quote, error)
}

// ItemLoader resolves the full item for payload assembly.
type ItemLoader interface {
	Get(ctx context.Context, id string) (catalog.Item, error)
}

// OfferResolver loads the applied offer for payload assembly.
type OfferResolver interface {
	Resolve(ctx context.Context, code string) (offer.Offer, error)
}

// FeeLoader resolves the tenant fee configuration.
type FeeLoader interface {
	FeeConfig(ctx context.Context) (tenant.FeeConfig, error)
}

// OrderStore persists accepted submissions.
type OrderStore interface {
	Create(ctx context.Context, p repo.CreateOrderParams) (string, error)
}

// Enqueuer hands the finished payload to the forwarding queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job forward.Job) error
}

// Service accepts checkout submissions: it reprices, validates, builds the
// upstream payload, records the order, and queues the forward.
type Service struct {
	Quotes Quoter
	Items  ItemLoader
	Offers OfferResolver
	Fees   FeeLoader
	Orders OrderStore
	Queue  Enqueuer
}

// SubmitRequest is the storefront's final submission.
type SubmitRequest struct {
	ItemID        string                  `json:"itemId"`
	Quantity      int                     `json:"quantity,omitempty"`
	OtherAmount   float64                 `json:"otherAmount,omitempty"`
	OfferCode     string                  `json:"offerCode,omitempty"`
	RecurringLeg  string                  `json:"recurringLeg,omitempty"`
	ApplyCardFees bool                    `json:"applyCardFees"`
	User          User                    `json:"user"`
	Payment       payment.TransactionInfo `json:"payment"`
}

// SubmitResult echoes what was recorded and queued.
type SubmitResult struct {
	OrderID string       `json:"orderId"`
	Status  string       `json:"status"`
	Summary cart.Summary `json:"summary"`
	Payload Payload      `json:"payload"`
}

// Submit runs the full pipeline for one checkout. The payload builder is the
// last guard: nothing reaches the order store or the queue unless contact and
// payment validation passed against the server-side price.
func (s *Service) Submit(ctx context.Context, kind Kind, req SubmitRequest) (SubmitResult, error) {
	if s == nil || s.Quotes == nil || s.Items == nil || s.Fees == nil || s.Orders == nil {
		return SubmitResult{}, errors.New("checkout service not configured")
	}

	quote, err := s.Quotes.Quote(ctx, cart.QuoteRequest{
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		OtherAmount:   req.OtherAmount,
		OfferCode:     req.OfferCode,
		RecurringLeg:  req.RecurringLeg,
		ApplyCardFees: req.ApplyCardFees,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	item, err := s.Items.Get(ctx, req.ItemID)
	if err != nil {
		return SubmitResult{}, err
	}
	// The same selection rules the quote applied, so the payload cannot
	// disagree with the priced summary.
	item = item.WithSelection(req.Quantity, req.OtherAmount)

	cfg, err := s.Fees.FeeConfig(ctx)
	if err != nil {
		return SubmitResult{}, err
	}

	var applied *offer.Offer
	if quote.Summary.OfferApplied && req.OfferCode != "" && s.Offers != nil {
		if o, err := s.Offers.Resolve(ctx, req.OfferCode); err == nil {
			applied = &o
		}
	}

	payload, err := BuildPayload(kind, item, req.User, quote.Summary, applied, req.Payment, cfg)
	if err != nil {
		return SubmitResult{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encode payload: %w", err)
	}

	orderID, err := s.Orders.Create(ctx, repo.CreateOrderParams{
		ItemID:   item.ID,
		Kind:     string(kind),
		Email:    req.User.Email,
		Total:    quote.Summary.TotalPrice,
		Discount: quote.Summary.ItemDiscount,
		Currency: quote.Currency,
		Payload:  body,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if s.Queue != nil {
		slug, _ := tenant.From(ctx)
		if err := s.Queue.Enqueue(ctx, forward.Job{
			OrderID: orderID,
			Tenant:  slug,
			Kind:    string(kind),
			Payload: body,
		}); err != nil {
			// The order row survives in PENDING_FORWARD; a replay sweep can
			// pick it up. The buyer-facing submission still succeeded.
			return SubmitResult{
				OrderID: orderID,
				Status:  repo.OrderPendingForward,
				Summary: quote.Summary,
				Payload: payload,
			}, nil
		}
	}

	return SubmitResult{
		OrderID: orderID,
		Status:  repo.OrderPendingForward,
		Summary: quote.Summary,
		Payload: payload,
	}, nil
}
