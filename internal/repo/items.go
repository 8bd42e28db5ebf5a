package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-kelas/internal/catalog"
)

// Items reads tenant-scoped catalog items. The tenant slug always comes from
// the request context, never from caller arguments, so a handler cannot leak
// another tenant's pricing.
type Items struct {
	DB DB
}

const itemColumns = `
i.id, i.kind, i.title,
COALESCE(i.price, 0), COALESCE(i.quantity, 1), COALESCE(i.is_other_price, false),
COALESCE(i.currency, t.currency),
COALESCE(i.membership_type, 'one-time'),
COALESCE(i.subscription_amount, 0), COALESCE(i.registration_fee, 0),
COALESCE(i.billing_frequency, 0), COALESCE(i.billing_unit, ''),
COALESCE(i.registration_form_id, ''), COALESCE(i.schedule_id, ''), COALESCE(i.pricing_id, ''),
i.tenant_id::text`

// List returns the tenant's active items, optionally filtered by kind.
func (r Items) List(ctx context.Context, kind string) ([]catalog.Item, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return nil, err
	}
	q := `
SELECT ` + itemColumns + `
FROM items i
JOIN tenants t ON t.id = i.tenant_id
WHERE t.slug = $1 AND i.active
ORDER BY i.title`
	args := []any{slug}
	if kind != "" {
		q = `
SELECT ` + itemColumns + `
FROM items i
JOIN tenants t ON t.id = i.tenant_id
WHERE t.slug = $1 AND i.active AND i.kind = $2
ORDER BY i.title`
		args = append(args, kind)
	}
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetByID returns a single active item belonging to the tenant.
func (r Items) GetByID(ctx context.Context, id string) (catalog.Item, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return catalog.Item{}, err
	}
	q := `
SELECT ` + itemColumns + `
FROM items i
JOIN tenants t ON t.id = i.tenant_id
WHERE t.slug = $1 AND i.active AND i.id = $2`
	item, err := scanItem(r.DB.QueryRow(ctx, q, slug, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Item{}, catalog.ErrNotFound
		}
		return catalog.Item{}, err
	}
	return item, nil
}

func scanItem(row pgx.Row) (catalog.Item, error) {
	var (
		item catalog.Item
		freq int
		unit string
	)
	err := row.Scan(
		&item.ID, &item.Kind, &item.Title,
		&item.Price, &item.Quantity, &item.IsOtherPrice,
		&item.Currency,
		&item.MembershipType,
		&item.SubscriptionAmount, &item.RegistrationFee,
		&freq, &unit,
		&item.RegistrationFormID, &item.ScheduleID, &item.PricingID,
		&item.TenantID,
	)
	if err != nil {
		return catalog.Item{}, err
	}
	item.BillingCycle = catalog.BillingCycle{Frequency: freq, Unit: catalog.CycleUnit(unit)}
	return item, nil
}
