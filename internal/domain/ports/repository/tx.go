package repository

import "context"

// Tx is an opaque handle to a database transaction (or nil for the
// pool). Repositories accept it so callers can scope several writes to
// one transaction without the domain layer importing a driver.
type Tx = any

// TransactionManager begins a transaction, runs fn with its handle, and
// commits or rolls back depending on fn's error.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
