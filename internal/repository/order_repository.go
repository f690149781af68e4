package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

// OrderFilter narrows order listings inside a tenant.
type OrderFilter struct {
	Status      *domain.OrderStatus
	TableNumber *int
	Limit       int
	Offset      int
}

func (f OrderFilter) predicates() tenancy.Filter {
	var filter tenancy.Filter
	if f.Status != nil {
		filter = append(filter, tenancy.Eq("status", *f.Status))
	}
	if f.TableNumber != nil {
		filter = append(filter, tenancy.Eq("table_number", *f.TableNumber))
	}
	return filter
}

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, order *domain.Order) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Order, error)
	List(ctx context.Context, scope tenancy.Scope, filter OrderFilter) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another, failing with ErrStatusChanged when
	// the stored status is no longer from.
	UpdateStatus(ctx context.Context, scope tenancy.Scope, id string, from, to domain.OrderStatus) (*domain.Order, error)
}

const orderColumns = `id, tenant_id, table_number, status, total_in_cents, created_at, updated_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, scope tenancy.Scope, order *domain.Order) error {
	if err := scope.Require(); err != nil {
		return err
	}
	scope.Stamp(&order.TenantID)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertOrder = `
        INSERT INTO orders (tenant_id, table_number, status, total_in_cents)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertOrder,
		order.TenantID,
		order.TableNumber,
		order.Status,
		order.TotalInCents,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const insertItem = `
        INSERT INTO order_items (tenant_id, order_id, position, product_id, product_name, quantity, unit_price_in_cents)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx, insertItem,
			order.TenantID,
			item.OrderID,
			i,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.Order, error) {
	where, args, err := scope.Where(tenancy.Filter{tenancy.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, args...))
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, scope, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) List(ctx context.Context, scope tenancy.Scope, filter OrderFilter) ([]domain.Order, error) {
	where, args, err := scope.Where(filter.predicates())
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, scope, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, scope tenancy.Scope, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	where, args, err := scope.WhereFrom(tenancy.Filter{tenancy.Eq("id", id), tenancy.Eq("status", from)}, 2)
	if err != nil {
		return nil, err
	}
	query := `UPDATE orders SET status=$1, updated_at=NOW() WHERE ` + where + ` RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, append([]any{to}, args...)...))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, scope, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, scope, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// attachItems loads the items of orders in one query, still bounded by the tenant predicate.
func (r *orderRepository) attachItems(ctx context.Context, scope tenancy.Scope, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	where, args, err := scope.Where(nil)
	if err != nil {
		return err
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		index[order.ID] = i
	}
	args = append(args, ids)

	query := fmt.Sprintf(`
        SELECT id, order_id, product_id, product_name, quantity, unit_price_in_cents
        FROM order_items WHERE %s AND order_id = ANY($%d) ORDER BY order_id, position`, where, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(
		&order.ID,
		&order.TenantID,
		&order.TableNumber,
		&order.Status,
		&order.TotalInCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}
