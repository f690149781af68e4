package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
)

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) || errors.Is(err, tenancy.ErrNotFound)
}
