package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// Orders persists accepted checkouts awaiting forwarding to the upstream
// backend.
type Orders struct {
	DB DB
}

// OrderStatus values an order moves through.
const (
	OrderPendingForward = "PENDING_FORWARD"
	OrderForwarded      = "FORWARDED"
	OrderForwardFailed  = "FORWARD_FAILED"
)

// CreateOrderParams captures a priced, validated checkout submission.
type CreateOrderParams struct {
	ItemID   string
	Kind     string
	Email    string
	Total    float64
	Discount float64
	Currency string
	Payload  []byte
}

// Create inserts the order in PENDING_FORWARD and returns its id. The id is
// generated here so it can be queued even if the insert response is lost.
func (r Orders) Create(ctx context.Context, p CreateOrderParams) (string, error) {
	slug, err := tenantSlug(ctx)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	const q = `
INSERT INTO orders (id, tenant_id, item_id, kind, email, status, total, discount, currency, payload)
SELECT $2, t.id, $3, $4, $5, $6, $7, $8, $9, $10 FROM tenants t WHERE t.slug = $1`
	tag, err := r.DB.Exec(ctx, q, slug, id, p.ItemID, p.Kind, p.Email, OrderPendingForward, p.Total, p.Discount, p.Currency, p.Payload)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", tenant.ErrNotFound
	}
	return id, nil
}

// SetStatus records the outcome of a forward attempt. It is called from the
// worker, outside any tenant-scoped request, so it keys on the order id alone.
func (r Orders) SetStatus(ctx context.Context, orderID, status string) error {
	const q = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(ctx, q, orderID, status)
	return err
}
