package repository

import (
	"database/sql"
	"errors"
)

// optional maps sql.ErrNoRows to (nil, nil) for single row lookups.
func optional[T any](row *T, err error) (*T, error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return row, nil
	}
}
