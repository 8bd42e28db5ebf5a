package cache

import (
	"context"

	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// KeyItems returns a per-tenant cache key for catalog item lists.
func KeyItems(ctx context.Context, kind string) string {
	base := "items"
	if kind != "" {
		base = "items:" + kind
	}
	return prefixed(ctx, base)
}

// KeyItem returns a per-tenant key for a single catalog item.
func KeyItem(ctx context.Context, id string) string {
	return prefixed(ctx, "item:"+id)
}

// KeyFeeConfig returns the per-tenant key for the tenant fee configuration.
func KeyFeeConfig(slug string) string {
	return slug + ":feeconfig"
}

func prefixed(ctx context.Context, base string) string {
	id, ok := tenant.From(ctx)
	if !ok {
		return base
	}
	return id + ":" + base
}
