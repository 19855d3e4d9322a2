package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta el código 23505 de Postgres (unique_violation),
// que aquí solo puede venir del índice único sobre el número de factura.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Algunos pools envuelven el error sin conservar el tipo pgconn.
	return strings.Contains(err.Error(), "23505")
}
