package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

// UserRepository defines persistence access for tenant staff.
type UserRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, user *domain.User) error
	Update(ctx context.Context, scope tenancy.Scope, user *domain.User) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.User, error)
	List(ctx context.Context, scope tenancy.Scope) ([]domain.User, error)
	// FindForLogin resolves credentials before any identity exists. Emails are unique across
	// tenants, and the result only ever feeds password verification.
	FindForLogin(ctx context.Context, email string) (*domain.User, error)
}

const userColumns = `id, tenant_id, name, email, password_hash, role, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, scope tenancy.Scope, user *domain.User) error {
	if err := scope.Require(); err != nil {
		return err
	}
	scope.Stamp(&user.TenantID)

	const query = `
        INSERT INTO users (tenant_id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.TenantID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err)
}

func (r *userRepository) Update(ctx context.Context, scope tenancy.Scope, user *domain.User) error {
	where, args, err := scope.WhereFrom(tenancy.Filter{tenancy.Eq("id", user.ID)}, 5)
	if err != nil {
		return err
	}
	query := `UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, updated_at=NOW()
        WHERE ` + where + ` RETURNING updated_at`

	params := append([]any{user.Name, user.Email, user.PasswordHash, user.Role}, args...)
	if err := r.pool.QueryRow(ctx, query, params...).Scan(&user.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	where, args, err := scope.Where(tenancy.Filter{tenancy.Eq("id", id)})
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE `+where, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*domain.User, error) {
	where, args, err := scope.Where(tenancy.Filter{tenancy.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...))
}

func (r *userRepository) List(ctx context.Context, scope tenancy.Scope) ([]domain.User, error) {
	where, args, err := scope.Where(nil)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY name`, userColumns, where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) FindForLogin(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
