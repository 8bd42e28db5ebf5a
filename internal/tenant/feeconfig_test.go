package tenant

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingQuerier struct {
	cfg   FeeConfig
	err   error
	calls int
}

func (q *countingQuerier) GetFeeConfigBySlug(context.Context, string) (FeeConfig, error) {
	q.calls++
	return q.cfg, q.err
}

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = raw
	return nil
}

func TestFeeConfigReadThrough(t *testing.T) {
	q := &countingQuerier{cfg: FeeConfig{Slug: "demo", TaxPercent: 18, Currency: "USD"}}
	svc := &Service{Q: q, Cache: &mapCache{}, CacheKey: func(slug string) string { return "fees:" + slug }}
	ctx := With(context.Background(), "demo")

	first, err := svc.FeeConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, 18.0, first.TaxPercent)
	require.Equal(t, 1, q.calls)

	second, err := svc.FeeConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, q.calls, "second lookup should hit the cache")
}

func TestFeeConfigNoTenant(t *testing.T) {
	svc := &Service{Q: &countingQuerier{}}
	_, err := svc.FeeConfig(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFeeConfigQuerierError(t *testing.T) {
	svc := &Service{Q: &countingQuerier{err: ErrNotFound}}
	_, err := svc.FeeConfig(With(context.Background(), "ghost"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProviders(t *testing.T) {
	cfg := FeeConfig{PaymentKeys: []PaymentKey{{Provider: "stripe"}, {Provider: "  "}, {Provider: "razorpay"}}}
	require.Equal(t, []string{"stripe", "razorpay"}, cfg.Providers())
}
