package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "hrgate/pkg/domain-errors"
	txcontext "hrgate/pkg/platform/tx"
)

const defaultPostgresTxTimeout = 5 * time.Second

// PostgresTx runs engine mutations inside a database transaction. The
// *sql.Tx travels in the context; the postgres stores pick it up and route
// their statements through it.
//
// When the context carries a serialization key, the transaction takes a
// transaction-scoped advisory lock on it before running. Transactions sharing a key
// therefore run one at a time: a create has no row to lock FOR UPDATE yet,
// so its overlap check depends on this to observe a concurrent insert for
// the same employee instead of racing it.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultPostgresTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if key, ok := txcontext.KeyFrom(ctx); ok {
		// Released automatically on commit or rollback.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, txcontext.LockID(key)); err != nil {
			return fmt.Errorf("acquire transaction lock: %w", err)
		}
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
