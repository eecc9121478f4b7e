package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/pixix4/customer-manager/internal/store"
)

// wrapErr classifies a driver failure into a store.ServiceError. It is the only
// place repositories turn raw errors into the public failure type.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *store.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			return store.NewServiceError(store.CategorySqliteConstraint, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return store.NewServiceError(store.CategorySqliteBusy, err)
		case sqlite3.ErrIoErr, sqlite3.ErrCantOpen, sqlite3.ErrFull:
			return store.NewServiceError(store.CategoryIO, err)
		default:
			return store.NewServiceError(store.CategorySqlite, err)
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23 is integrity constraint violation.
		if strings.HasPrefix(pgErr.Code, "23") {
			return store.NewServiceError(store.CategoryPostgresConstraint, err)
		}
		return store.NewServiceError(store.CategoryPostgres, err)
	}

	switch {
	case errors.Is(err, store.ErrPoolClosed),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		strings.Contains(err.Error(), "sql: database is closed"):
		return store.NewServiceError(store.CategoryConnectionPool, err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return store.NewServiceError(store.CategoryIO, err)
	}

	var (
		numErr  *strconv.NumError
		timeErr *time.ParseError
		jsonErr *json.UnmarshalTypeError
	)
	if errors.As(err, &numErr) || errors.As(err, &timeErr) || errors.As(err, &jsonErr) {
		return store.NewServiceError(store.CategoryDataConversion, err)
	}

	// database/sql formats conversion failures with %v, so only the text identifies them.
	msg := err.Error()
	if strings.Contains(msg, "Scan error") || strings.Contains(msg, "converting") {
		return store.NewServiceError(store.CategoryDataConversion, err)
	}

	return store.NewServiceError(store.CategoryDatabase, err)
}
