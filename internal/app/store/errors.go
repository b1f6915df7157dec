package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrInsufficientCoins is returned by DebitCoins when the balance does not cover the amount.
var ErrInsufficientCoins = errors.New("store: insufficient coins")

// ErrWrongCollection is returned when a write addresses a document id that
// belongs to a different collection.
var ErrWrongCollection = errors.New("store: document belongs to another collection")

// IsUniqueViolation checks if the error is a PostgreSQL unique constraint violation (code 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// UniqueConstraint returns the name of the violated unique constraint, if any.
// It lets callers distinguish a taken email from a taken display ID.
func UniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
