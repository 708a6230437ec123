package service

import (
	"context"
	"sync"
	"time"

	dErrors "hrgate/pkg/domain-errors"
	txcontext "hrgate/pkg/platform/tx"
)

// StoreTx provides a transactional boundary for request mutations. The
// postgres implementation takes an advisory lock on the serialization key
// inside a database transaction; the in-memory one serializes the key via
// sharded locks. Either way the overlap check and the insert it guards
// observe the same world.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numTxShards spreads per-employee serialization across independent locks
// so unrelated employees never contend.
const numTxShards = 128

// defaultTxTimeout is the maximum duration for an engine transaction.
const defaultTxTimeout = 5 * time.Second

// withTxKey tags ctx with the serialization key (the employee id for
// creates, the request id otherwise) so the transaction runner can
// serialize on it.
func withTxKey(ctx context.Context, key string) context.Context {
	return txcontext.WithKey(ctx, key)
}

// ShardedTx is the in-memory StoreTx used in tests and dev mode.
type ShardedTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

func NewShardedTx() *ShardedTx {
	return &ShardedTx{}
}

func (t *ShardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

func (t *ShardedTx) selectShard(ctx context.Context) int {
	if key, ok := txcontext.KeyFrom(ctx); ok {
		return int(hashString(key) % numTxShards)
	}
	return 0
}

// hashString uses FNV-1a for even shard distribution.
func hashString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
