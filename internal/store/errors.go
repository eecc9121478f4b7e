package store

import (
	"errors"
	"fmt"
)

// Categories label a ServiceError by where the failure came from.
const (
	CategoryIO                 = "IO error"
	CategoryConnectionPool     = "Connection pool error"
	CategoryDataConversion     = "Data conversion error"
	CategorySqlite             = "Sqlite error"
	CategorySqliteConstraint   = "Sqlite constraint error"
	CategorySqliteBusy         = "Sqlite busy error"
	CategoryPostgres           = "Postgres error"
	CategoryPostgresConstraint = "Postgres constraint error"
	CategoryDatabase           = "Database error"
)

var ErrPoolClosed = errors.New("connection pool is closed")

// ServiceError is the single failure kind returned by every repository.
type ServiceError struct {
	Category string
	Detail   string
	Err      error
}

func NewServiceError(category string, err error) *ServiceError {
	return &ServiceError{Category: category, Detail: err.Error(), Err: err}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("Internal Server Error: '%s'\n%s", e.Category, e.Detail)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
