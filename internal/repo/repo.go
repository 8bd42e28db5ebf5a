package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/backend-kelas/internal/tenant"
)

// ErrTenantMissing indicates the tenant slug was not found in context.
var ErrTenantMissing = errors.New("tenant missing")

// DB is the subset of pgxpool.Pool the repositories use. Tests substitute it
// with a stub.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func tenantSlug(ctx context.Context) (string, error) {
	slug, ok := tenant.From(ctx)
	if !ok {
		return "", ErrTenantMissing
	}
	return slug, nil
}
