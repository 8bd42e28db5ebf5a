package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-kelas/internal/offer"
)

// Offers reads and manages tenant-scoped offer codes.
type Offers struct {
	DB DB
}

// GetActiveByCode looks up a redeemable offer by its code, case-insensitively.
func (r Offers) GetActiveByCode(ctx context.Context, code string) (offer.Row, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return offer.Row{}, err
	}
	const q = `
SELECT o.id, o.code, o.discount_type, o.discount_value, o.active
FROM offers o
JOIN tenants t ON t.id = o.tenant_id
WHERE t.slug = $1 AND lower(o.code) = lower($2) AND o.active`
	var row offer.Row
	err = r.DB.QueryRow(ctx, q, slug, strings.TrimSpace(code)).Scan(
		&row.ID, &row.Code, &row.DiscountType, &row.DiscountValue, &row.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offer.Row{}, offer.ErrCodeNotFound
		}
		return offer.Row{}, err
	}
	return row, nil
}

// List returns all of the tenant's offers for the admin surface.
func (r Offers) List(ctx context.Context) ([]offer.Row, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT o.id, o.code, o.discount_type, o.discount_value, o.active
FROM offers o
JOIN tenants t ON t.id = o.tenant_id
WHERE t.slug = $1
ORDER BY o.code`
	rows, err := r.DB.Query(ctx, q, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []offer.Row
	for rows.Next() {
		var row offer.Row
		if err := rows.Scan(&row.ID, &row.Code, &row.DiscountType, &row.DiscountValue, &row.Active); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Create inserts a new offer for the tenant. Duplicate codes surface the
// postgres unique-violation so handlers can answer 409.
func (r Offers) Create(ctx context.Context, row offer.Row) (offer.Row, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return offer.Row{}, err
	}
	const q = `
INSERT INTO offers (tenant_id, code, discount_type, discount_value, active)
SELECT t.id, $2, $3, $4, $5 FROM tenants t WHERE t.slug = $1
RETURNING id`
	err = r.DB.QueryRow(ctx, q, slug, strings.TrimSpace(row.Code), row.DiscountType, row.DiscountValue, row.Active).Scan(&row.ID)
	if err != nil {
		return offer.Row{}, err
	}
	return row, nil
}

// Update mutates an existing offer identified by code.
func (r Offers) Update(ctx context.Context, row offer.Row) (offer.Row, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return offer.Row{}, err
	}
	const q = `
UPDATE offers o SET discount_type = $3, discount_value = $4, active = $5
FROM tenants t
WHERE t.id = o.tenant_id AND t.slug = $1 AND lower(o.code) = lower($2)
RETURNING o.id`
	err = r.DB.QueryRow(ctx, q, slug, strings.TrimSpace(row.Code), row.DiscountType, row.DiscountValue, row.Active).Scan(&row.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offer.Row{}, offer.ErrCodeNotFound
		}
		return offer.Row{}, err
	}
	return row, nil
}

// Delete removes an offer by code.
func (r Offers) Delete(ctx context.Context, code string) error {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return err
	}
	const q = `
DELETE FROM offers o
USING tenants t
WHERE t.id = o.tenant_id AND t.slug = $1 AND lower(o.code) = lower($2)`
	tag, err := r.DB.Exec(ctx, q, slug, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return offer.ErrCodeNotFound
	}
	return nil
}
