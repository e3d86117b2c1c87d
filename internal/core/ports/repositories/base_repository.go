package repositories

import "context"

// TransactionManager runs units of work atomically.
type TransactionManager interface {
	// WithinTransaction runs fn inside a single database transaction. Repository
	// calls made with the ctx handed to fn join that transaction. If fn returns an
	// error every write made through that ctx is rolled back. Nested calls join
	// the outer transaction instead of opening a new one.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
