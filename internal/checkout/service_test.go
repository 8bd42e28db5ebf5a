package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/noah-isme/backend-kelas/internal/cart"
	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/forward"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/repo"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

type stubQuoter struct {
	quote cart.Quote
	err   error
}

func (s stubQuoter) Quote(context.Context, cart.QuoteRequest) (cart.Quote, error) {
	return s.quote, s.err
}

type stubItems struct {
	item catalog.Item
	err  error
}

func (s stubItems) Get(context.Context, string) (catalog.Item, error) {
	return s.item, s.err
}

type stubOffers struct {
	offer offer.Offer
	err   error
}

func (s stubOffers) Resolve(context.Context, string) (offer.Offer, error) {
	return s.offer, s.err
}

type stubFees struct {
	cfg tenant.FeeConfig
	err error
}

func (s stubFees) FeeConfig(context.Context) (tenant.FeeConfig, error) {
	return s.cfg, s.err
}

type recordingOrders struct {
	params  repo.CreateOrderParams
	created bool
	err     error
}

func (r *recordingOrders) Create(_ context.Context, p repo.CreateOrderParams) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.params = p
	r.created = true
	return "ord-1", nil
}

type recordingQueue struct {
	job      forward.Job
	enqueued bool
	err      error
}

func (q *recordingQueue) Enqueue(_ context.Context, job forward.Job) error {
	if q.err != nil {
		return q.err
	}
	q.job = job
	q.enqueued = true
	return nil
}

func paidService(orders *recordingOrders, queue *recordingQueue) *Service {
	item := catalog.Item{ID: "i1", Kind: catalog.KindCourse, Price: 100, Quantity: 1}
	return &Service{
		Quotes: stubQuoter{quote: cart.Quote{
			ItemID:   "i1",
			Quantity: 1,
			Currency: "USD",
			Summary:  cart.Summary{Subtotal: 100, TotalPrice: 110, TotalTax: 10},
		}},
		Items:  stubItems{item: item},
		Fees:   stubFees{cfg: tenant.FeeConfig{Currency: "USD"}},
		Orders: orders,
		Queue:  queue,
	}
}

func TestSubmitSuccess(t *testing.T) {
	orders := &recordingOrders{}
	queue := &recordingQueue{}
	svc := paidService(orders, queue)

	ctx := tenant.With(context.Background(), "demo")
	res, err := svc.Submit(ctx, KindItem, SubmitRequest{
		ItemID:  "i1",
		User:    validUser(),
		Payment: cardTxn(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OrderID != "ord-1" {
		t.Fatalf("order id = %q", res.OrderID)
	}
	if res.Status != repo.OrderPendingForward {
		t.Fatalf("status = %q, want %q", res.Status, repo.OrderPendingForward)
	}
	if !queue.enqueued {
		t.Fatal("forward job was not enqueued")
	}
	if queue.job.OrderID != "ord-1" || queue.job.Tenant != "demo" || queue.job.Kind != "item" {
		t.Fatalf("job = %+v", queue.job)
	}
	if orders.params.Total != 110 || orders.params.Email != "ada@example.com" {
		t.Fatalf("order params = %+v", orders.params)
	}
}

func TestSubmitEnqueueFailureStillSucceeds(t *testing.T) {
	orders := &recordingOrders{}
	queue := &recordingQueue{err: errors.New("redis down")}
	svc := paidService(orders, queue)

	res, err := svc.Submit(context.Background(), KindItem, SubmitRequest{
		ItemID:  "i1",
		User:    validUser(),
		Payment: cardTxn(),
	})
	if err != nil {
		t.Fatalf("submission must survive a queue outage, got %v", err)
	}
	if !orders.created {
		t.Fatal("order should still be recorded")
	}
	if res.Status != repo.OrderPendingForward {
		t.Fatalf("status = %q", res.Status)
	}
}

func TestSubmitFreeCheckout(t *testing.T) {
	orders := &recordingOrders{}
	item := catalog.Item{ID: "i1", Kind: catalog.KindCourse, Price: 10, Quantity: 1}
	svc := &Service{
		Quotes: stubQuoter{quote: cart.Quote{
			ItemID:   "i1",
			Quantity: 1,
			Currency: "USD",
			Summary:  cart.Summary{Subtotal: 10, ItemDiscount: 10, OfferApplied: true, TotalPrice: 0},
		}},
		Items:  stubItems{item: item},
		Offers: stubOffers{offer: offer.Offer{ID: "o1", Code: "FREE"}},
		Fees:   stubFees{},
		Orders: orders,
	}

	res, err := svc.Submit(context.Background(), KindItem, SubmitRequest{
		ItemID:    "i1",
		OfferCode: "FREE",
		User:      validUser(),
		Payment:   payment.TransactionInfo{PaymentType: payment.TypeNone},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Payload.Payment.Amount != "0.00" {
		t.Fatalf("amount = %q", res.Payload.Payment.Amount)
	}
	if res.Payload.OfferID != "o1" {
		t.Fatalf("offer id missing from payload %+v", res.Payload)
	}
}

func TestSubmitPayWhatYouWantQuantity(t *testing.T) {
	orders := &recordingOrders{}
	item := catalog.Item{ID: "i1", Kind: catalog.KindCourse, Price: 10, Quantity: 1, IsOtherPrice: true}
	svc := &Service{
		Quotes: stubQuoter{quote: cart.Quote{
			ItemID:   "i1",
			Quantity: 1,
			Currency: "USD",
			Summary:  cart.Summary{Subtotal: 25, TotalPrice: 25},
		}},
		Items:  stubItems{item: item},
		Fees:   stubFees{},
		Orders: orders,
	}

	res, err := svc.Submit(context.Background(), KindItem, SubmitRequest{
		ItemID:      "i1",
		Quantity:    3,
		OtherAmount: 25,
		User:        validUser(),
		Payment:     cardTxn(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The chosen amount buys a single unit; the requested quantity must not
	// survive into the payload against a one-unit price.
	if res.Payload.Quantity != 1 {
		t.Fatalf("payload quantity = %d, want 1", res.Payload.Quantity)
	}
	if res.Payload.Payment.Amount != "25.00" {
		t.Fatalf("amount = %q, want \"25.00\"", res.Payload.Payment.Amount)
	}
}

func TestSubmitValidationBlocksOrder(t *testing.T) {
	orders := &recordingOrders{}
	svc := paidService(orders, &recordingQueue{})

	user := validUser()
	user.Email = ""
	_, err := svc.Submit(context.Background(), KindItem, SubmitRequest{
		ItemID:  "i1",
		User:    user,
		Payment: cardTxn(),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if orders.created {
		t.Fatal("order must not be recorded when validation fails")
	}
}

func TestSubmitOrderStoreError(t *testing.T) {
	orders := &recordingOrders{err: errors.New("insert failed")}
	svc := paidService(orders, &recordingQueue{})

	_, err := svc.Submit(context.Background(), KindItem, SubmitRequest{
		ItemID:  "i1",
		User:    validUser(),
		Payment: cardTxn(),
	})
	if err == nil {
		t.Fatal("expected error from order store")
	}
}

func TestSubmitQuoteError(t *testing.T) {
	svc := paidService(&recordingOrders{}, &recordingQueue{})
	svc.Quotes = stubQuoter{err: catalog.ErrNotFound}

	_, err := svc.Submit(context.Background(), KindItem, SubmitRequest{ItemID: "missing"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
}
