package database

import "context"

// TxRunner runs a function inside one database transaction. Services take
// this instead of the pool so approval side effects commit or roll back as
// a unit.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
