package tenant

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates the tenant slug has no configuration row.
var ErrNotFound = errors.New("tenant not found")

// PaymentKey carries one configured payment provider. Credentials are opaque
// to this service; only the provider name is read to pick a checkout flow.
type PaymentKey struct {
	Provider  string `json:"provider"`
	PublicKey string `json:"publicKey,omitempty"`
}

// FeeConfig is the per-tenant pricing configuration: tax and surcharge
// percentages plus the configured payment providers. It is fetched once per
// checkout session and treated as immutable for the session's duration.
// Missing percentages degrade to zero, never to an error.
type FeeConfig struct {
	TenantID        string       `json:"tenantId"`
	Slug            string       `json:"slug"`
	TaxPercent      float64      `json:"taxPercent"`
	CardFeesPercent float64      `json:"cardFeesPercent"`
	BankFeesPercent float64      `json:"bankFeesPercent"`
	Currency        string       `json:"currency"`
	PaymentKeys     []PaymentKey `json:"paymentKeys"`
}

// Providers lists the configured provider names.
func (c FeeConfig) Providers() []string {
	out := make([]string, 0, len(c.PaymentKeys))
	for _, k := range c.PaymentKeys {
		if name := strings.TrimSpace(k.Provider); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Querier captures the persistence methods the fee config service needs.
type Querier interface {
	GetFeeConfigBySlug(ctx context.Context, slug string) (FeeConfig, error)
}

type jsonCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

// Service loads tenant fee configuration with a read-through cache.
type Service struct {
	Q        Querier
	Cache    jsonCache
	CacheKey func(slug string) string
}

// FeeConfig resolves the configuration for the tenant in context.
func (s *Service) FeeConfig(ctx context.Context) (FeeConfig, error) {
	if s == nil || s.Q == nil {
		return FeeConfig{}, errors.New("tenant service not configured")
	}
	slug, ok := From(ctx)
	if !ok {
		return FeeConfig{}, ErrNotFound
	}
	key := ""
	if s.CacheKey != nil {
		key = s.CacheKey(slug)
	}
	if s.Cache != nil && key != "" {
		var cached FeeConfig
		if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	cfg, err := s.Q.GetFeeConfigBySlug(ctx, slug)
	if err != nil {
		return FeeConfig{}, err
	}
	if s.Cache != nil && key != "" {
		_ = s.Cache.SetJSON(ctx, key, cfg)
	}
	return cfg, nil
}
