package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrUnavailable means the backend could not be reached.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("unique constraint violation")
	// ErrMissingScope guards scoped calls made without an owner.
	ErrMissingScope = errors.New("missing owner scope")
	// ErrParentNotFound is returned when an order item targets an order outside the scope.
	ErrParentNotFound = errors.New("parent order not found")
	// ErrOpenIDRequired rejects a user upsert without the provider id.
	ErrOpenIDRequired = errors.New("user openId is required for upsert")
)

const pgUniqueViolation = "23505"

// classify maps driver errors onto the store's error set.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnavailable):
		return err
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
