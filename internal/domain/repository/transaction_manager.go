package repository

import "context"

// TxManager runs a unit of work inside one database transaction.
// Repositories called with the ctx handed to fn join that transaction.
// Nested calls reuse the outer transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
