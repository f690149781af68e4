package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

// TenantRepository persists tenants and their billing fields. The tenants table is the root of
// isolation: reads are keyed by the tenant id of a verified identity or of a signed billing event.
type TenantRepository interface {
	// Create stores a new tenant together with its first user, atomically.
	Create(ctx context.Context, tenant *domain.Tenant, owner *domain.User) error
	Get(ctx context.Context, tenantID string) (*domain.Tenant, error)
	// ApplySubscriptionChange records the provider event and moves the tenant in one step. It
	// fails with ErrDuplicate for an event key seen before and with ErrStatusChanged when the
	// tenant is no longer in the From status.
	ApplySubscriptionChange(ctx context.Context, change SubscriptionChange) error
}

// SubscriptionChange is one payment provider event applied to a tenant.
type SubscriptionChange struct {
	TenantID string
	EventKey string
	From     domain.SubscriptionStatus
	To       domain.SubscriptionStatus
	Anchor   time.Time
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository returns a Postgres-backed implementation.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant, owner *domain.User) error {
	const insertTenant = `
        INSERT INTO tenants (name, subscription_status, billing_cycle_anchor)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	const insertOwner = `
        INSERT INTO users (tenant_id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertTenant,
			tenant.Name,
			tenant.SubscriptionStatus,
			tenant.BillingCycleAnchor,
		).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return err
		}

		tenancy.ForNewTenant(tenant).Stamp(&owner.TenantID)
		return tx.QueryRow(ctx, insertOwner,
			owner.TenantID,
			owner.Name,
			owner.Email,
			owner.PasswordHash,
			owner.Role,
		).Scan(&owner.ID, &owner.CreatedAt, &owner.UpdatedAt)
	})
	return mapWriteError(err)
}

func (r *tenantRepository) Get(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	const query = `
        SELECT id, name, subscription_status, billing_cycle_anchor, created_at, updated_at
        FROM tenants WHERE id=$1`

	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.SubscriptionStatus,
		&tenant.BillingCycleAnchor,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) ApplySubscriptionChange(ctx context.Context, change SubscriptionChange) error {
	const record = `
        INSERT INTO processed_billing_events (event_key, tenant_id)
        VALUES ($1, $2)
        ON CONFLICT (event_key) DO NOTHING`
	const update = `
        UPDATE tenants SET subscription_status=$1, billing_cycle_anchor=$2, updated_at=NOW()
        WHERE id=$3 AND subscription_status=$4`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, record, change.EventKey, change.TenantID)
		if err != nil {
			return mapWriteError(err)
		}
		if cmd.RowsAffected() == 0 {
			return ErrDuplicate
		}

		cmd, err = tx.Exec(ctx, update, change.To, change.Anchor, change.TenantID, change.From)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrStatusChanged
		}
		return nil
	})
}
