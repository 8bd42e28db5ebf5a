package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// Tenants reads tenant fee configuration.
type Tenants struct {
	DB DB
}

// GetFeeConfigBySlug loads a tenant's fee configuration including its
// configured payment providers.
func (r Tenants) GetFeeConfigBySlug(ctx context.Context, slug string) (tenant.FeeConfig, error) {
	const q = `
SELECT id, slug, currency,
       COALESCE(tax_percent, 0),
       COALESCE(card_fees_percent, 0),
       COALESCE(bank_fees_percent, 0)
FROM tenants
WHERE slug = $1`
	var cfg tenant.FeeConfig
	err := r.DB.QueryRow(ctx, q, slug).Scan(
		&cfg.TenantID, &cfg.Slug, &cfg.Currency,
		&cfg.TaxPercent, &cfg.CardFeesPercent, &cfg.BankFeesPercent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.FeeConfig{}, tenant.ErrNotFound
		}
		return tenant.FeeConfig{}, err
	}

	const keysQ = `
SELECT provider, COALESCE(public_key, '')
FROM tenant_payment_keys
WHERE tenant_id = $1
ORDER BY provider`
	rows, err := r.DB.Query(ctx, keysQ, cfg.TenantID)
	if err != nil {
		return tenant.FeeConfig{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var key tenant.PaymentKey
		if err := rows.Scan(&key.Provider, &key.PublicKey); err != nil {
			return tenant.FeeConfig{}, err
		}
		cfg.PaymentKeys = append(cfg.PaymentKeys, key)
	}
	return cfg, rows.Err()
}
