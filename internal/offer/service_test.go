package offer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kelas/internal/catalog"
)

type stubQuerier struct {
	row Row
	err error
}

func (s stubQuerier) GetActiveByCode(context.Context, string) (Row, error) {
	return s.row, s.err
}

type stubItemLoader struct {
	item catalog.Item
	err  error
}

func (s stubItemLoader) GetByID(context.Context, string) (catalog.Item, error) {
	return s.item, s.err
}

func TestPreview(t *testing.T) {
	svc := &Service{
		Q:     stubQuerier{row: Row{ID: "o1", Code: "SAVE20", DiscountType: "percentage", DiscountValue: 20, Active: true}},
		Items: stubItemLoader{item: catalog.Item{ID: "i1", Price: 100, Quantity: 1}},
	}
	result, err := svc.Preview(context.Background(), "SAVE20", "i1", "")
	require.NoError(t, err)
	require.Equal(t, "o1", result.Offer.ID)
	require.Equal(t, 20.0, result.DiscountAmount)
	require.Equal(t, 100.0, result.PriceToDiscount)
}

func TestPreviewEmptyCode(t *testing.T) {
	svc := &Service{Q: stubQuerier{}, Items: stubItemLoader{}}
	_, err := svc.Preview(context.Background(), "   ", "i1", "")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestPreviewUnknownCode(t *testing.T) {
	svc := &Service{
		Q:     stubQuerier{err: ErrCodeNotFound},
		Items: stubItemLoader{item: catalog.Item{ID: "i1", Price: 100}},
	}
	_, err := svc.Preview(context.Background(), "NOPE", "i1", "")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestPreviewItemNotFound(t *testing.T) {
	svc := &Service{
		Q:     stubQuerier{row: Row{Code: "SAVE20", DiscountType: "amount", DiscountValue: 5}},
		Items: stubItemLoader{err: catalog.ErrNotFound},
	}
	_, err := svc.Preview(context.Background(), "SAVE20", "missing", "")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPreviewNotEligible(t *testing.T) {
	recurring := catalog.Item{
		ID:                 "p1",
		MembershipType:     catalog.MembershipRecurring,
		SubscriptionAmount: 29,
	}
	svc := &Service{
		Q:     stubQuerier{row: Row{Code: "SAVE20", DiscountType: "percentage", DiscountValue: 20}},
		Items: stubItemLoader{item: recurring},
	}
	_, err := svc.Preview(context.Background(), "SAVE20", "p1", "")
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestResolve(t *testing.T) {
	svc := &Service{Q: stubQuerier{row: Row{ID: "o1", Code: "SAVE20", DiscountType: "percentage", DiscountValue: 20}}}
	o, err := svc.Resolve(context.Background(), "save20")
	require.NoError(t, err)
	require.Equal(t, DiscountPercentage, o.DiscountType)
	require.Equal(t, 20.0, o.DiscountValue)
}
