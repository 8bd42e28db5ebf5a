package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kelas/internal/catalog"
	"github.com/noah-isme/backend-kelas/internal/offer"
	"github.com/noah-isme/backend-kelas/internal/payment"
	"github.com/noah-isme/backend-kelas/internal/tenant"
)

type stubItems struct {
	item catalog.Item
	err  error
}

func (s stubItems) Get(context.Context, string) (catalog.Item, error) {
	return s.item, s.err
}

type stubFees struct {
	cfg tenant.FeeConfig
	err error
}

func (s stubFees) FeeConfig(context.Context) (tenant.FeeConfig, error) {
	return s.cfg, s.err
}

type stubOffers struct {
	offer offer.Offer
	err   error
}

func (s stubOffers) Resolve(context.Context, string) (offer.Offer, error) {
	return s.offer, s.err
}

func testService(item catalog.Item, cfg tenant.FeeConfig, offers OfferResolver) *Service {
	return &Service{
		Items:  stubItems{item: item},
		Fees:   stubFees{cfg: cfg},
		Offers: offers,
		Now:    func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestQuotePlain(t *testing.T) {
	item := catalog.Item{ID: "i1", Title: "Course", Price: 100, Quantity: 1, Currency: "EUR"}
	svc := testService(item, tenant.FeeConfig{TaxPercent: 10, Currency: "USD", PaymentKeys: []tenant.PaymentKey{{Provider: "stripe"}}}, nil)

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1"})
	require.NoError(t, err)
	require.Equal(t, 110.0, q.Summary.TotalPrice)
	require.Equal(t, "USD", q.Currency)
	require.Equal(t, payment.FlowStripe, q.Flow)
}

func TestQuoteQuantityOverride(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 25, Quantity: 1}
	svc := testService(item, tenant.FeeConfig{}, nil)

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 100.0, q.Summary.TotalPrice)
	require.Equal(t, 4, q.Quantity)
}

func TestQuotePayWhatYouWant(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 20, Quantity: 3, IsOtherPrice: true}
	svc := testService(item, tenant.FeeConfig{}, nil)

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", OtherAmount: 75})
	require.NoError(t, err)
	// The chosen amount replaces the listed price for a single unit.
	require.Equal(t, 75.0, q.Summary.TotalPrice)
	require.Equal(t, 1, q.Quantity)
}

func TestQuotePayWhatYouWantFloor(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 20, Quantity: 1, IsOtherPrice: true}
	svc := testService(item, tenant.FeeConfig{}, nil)

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", OtherAmount: 5})
	require.NoError(t, err)
	// Amounts below the listed price are ignored; the listed price is a floor.
	require.Equal(t, 20.0, q.Summary.TotalPrice)
}

func TestQuoteWithOffer(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 100, Quantity: 1}
	svc := testService(item, tenant.FeeConfig{}, stubOffers{offer: offer.Offer{ID: "o1", Code: "SAVE20", DiscountType: offer.DiscountPercentage, DiscountValue: 20}})

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", OfferCode: "SAVE20"})
	require.NoError(t, err)
	require.True(t, q.Summary.OfferApplied)
	require.Equal(t, 80.0, q.Summary.TotalPrice)
}

func TestQuoteUnresolvableOfferDropped(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 100, Quantity: 1}
	svc := testService(item, tenant.FeeConfig{}, stubOffers{err: offer.ErrCodeNotFound})

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", OfferCode: "GONE"})
	require.NoError(t, err)
	require.False(t, q.Summary.OfferApplied)
	require.Equal(t, 100.0, q.Summary.TotalPrice)
}

func TestQuoteItemNotFound(t *testing.T) {
	svc := &Service{
		Items: stubItems{err: catalog.ErrNotFound},
		Fees:  stubFees{},
	}
	_, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "missing"})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestQuoteZeroTotalFlow(t *testing.T) {
	item := catalog.Item{ID: "i1", Price: 10, Quantity: 1}
	svc := testService(item,
		tenant.FeeConfig{PaymentKeys: []tenant.PaymentKey{{Provider: "stripe"}}},
		stubOffers{offer: offer.Offer{DiscountType: offer.DiscountAmount, DiscountValue: 10}})

	q, err := svc.Quote(context.Background(), QuoteRequest{ItemID: "i1", OfferCode: "FREE"})
	require.NoError(t, err)
	require.True(t, q.Summary.Free())
	require.Equal(t, payment.FlowNone, q.Flow)
}
