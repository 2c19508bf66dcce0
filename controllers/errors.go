package controllers

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isNoRows distinguishes an empty result from a failed query, so handlers can
// answer 404 only when the row genuinely does not exist.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
