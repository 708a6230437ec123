package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

var txKey = ctxKey{}

type serialKeyCtx struct{}

var serialKey = serialKeyCtx{}

// WithTx stores a SQL transaction in context so postgres stores invoked
// inside a service transaction write through it instead of the pool.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// WithKey tags ctx with the serialization key for the enclosing
// transaction: the employee for creates, the request for decisions.
// Transaction runners serialize on it (shard mutex in memory, advisory
// lock in postgres).
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, serialKey, key)
}

// KeyFrom extracts the serialization key from context if present.
func KeyFrom(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(serialKey).(string)
	return key, ok && key != ""
}

// LockID maps a serialization key onto the signed 64-bit space postgres
// advisory locks use. FNV-1a.
func LockID(key string) int64 {
	const (
		fnvOffset = 14695981039346656037
		fnvPrime  = 1099511628211
	)
	h := uint64(fnvOffset)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= fnvPrime
	}
	return int64(h)
}
