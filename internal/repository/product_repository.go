package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

// ProductFilter narrows product listings inside a tenant.
type ProductFilter struct {
	Category *string
}

func (f ProductFilter) predicates() tenancy.Filter {
	var filter tenancy.Filter
	if f.Category != nil && *f.Category != "" {
		filter = append(filter, tenancy.Eq("category", *f.Category))
	}
	return filter
}

// ProductRepository encapsulates menu persistence.
type ProductRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, product *domain.Product) error
	Update(ctx context.Context, scope tenancy.Scope, product *domain.Product) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Product, error)
	List(ctx context.Context, scope tenancy.Scope, filter ProductFilter) ([]domain.Product, error)
}

const productColumns = `id, tenant_id, name, price_in_cents, category, created_at, updated_at`

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, scope tenancy.Scope, product *domain.Product) error {
	if err := scope.Require(); err != nil {
		return err
	}
	scope.Stamp(&product.TenantID)

	const query = `
        INSERT INTO products (tenant_id, name, price_in_cents, category)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.TenantID,
		product.Name,
		product.PriceInCents,
		product.Category,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, scope tenancy.Scope, product *domain.Product) error {
	where, args, err := scope.WhereFrom(tenancy.Filter{tenancy.Eq("id", product.ID)}, 4)
	if err != nil {
		return err
	}
	query := `UPDATE products SET name=$1, price_in_cents=$2, category=$3, updated_at=NOW()
        WHERE ` + where + ` RETURNING tenant_id, created_at, updated_at`

	params := append([]any{product.Name, product.PriceInCents, product.Category}, args...)
	return r.pool.QueryRow(ctx, query, params...).Scan(&product.TenantID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	where, args, err := scope.Where(tenancy.Filter{tenancy.Eq("id", id)})
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE `+where, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Product, error) {
	where, args, err := scope.Where(tenancy.Filter{tenancy.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, args...))
}

func (r *productRepository) List(ctx context.Context, scope tenancy.Scope, filter ProductFilter) ([]domain.Product, error) {
	where, args, err := scope.Where(filter.predicates())
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY category, name`, productColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.TenantID,
		&product.Name,
		&product.PriceInCents,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
