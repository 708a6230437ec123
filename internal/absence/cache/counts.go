// Package cache caches per-tenant pending counts in Redis. The counts feed
// approval dashboards and are recomputed on every mutation, so a short TTL
// plus explicit invalidation keeps them honest without hammering the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
)

const countsTTL = 30 * time.Second

// Counts is the Redis-backed pending-counts cache. A nil *Counts is a valid
// no-op cache so callers need no nil checks when Redis is not configured.
type Counts struct {
	client *redis.Client
	logger *slog.Logger
}

func NewCounts(client *redis.Client, logger *slog.Logger) *Counts {
	if client == nil {
		return nil
	}
	return &Counts{client: client, logger: logger}
}

func countsKey(tenantID id.TenantID) string {
	return fmt.Sprintf("hrgate:pending_counts:%s", tenantID)
}

// Get returns the cached counts and whether the cache held them. Cache
// errors degrade to a miss; the caller recomputes from the store.
func (c *Counts) Get(ctx context.Context, tenantID id.TenantID) (map[models.Stage]int, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, countsKey(tenantID)).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.WarnContext(ctx, "pending counts cache read failed", "error", err)
		}
		return nil, false
	}
	var byName map[string]int
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, false
	}
	counts := make(map[models.Stage]int, len(byName))
	for name, n := range byName {
		stage, err := models.ParseStage(name)
		if err != nil {
			return nil, false
		}
		counts[stage] = n
	}
	return counts, true
}

// Set stores the counts with a short TTL. Failures are logged and ignored.
func (c *Counts) Set(ctx context.Context, tenantID id.TenantID, counts map[models.Stage]int) {
	if c == nil {
		return
	}
	byName := make(map[string]int, len(counts))
	for stage, n := range counts {
		byName[stage.String()] = n
	}
	raw, err := json.Marshal(byName)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, countsKey(tenantID), raw, countsTTL).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "pending counts cache write failed", "error", err)
	}
}

// Invalidate drops the tenant's cached counts after a mutation.
func (c *Counts) Invalidate(ctx context.Context, tenantID id.TenantID) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, countsKey(tenantID)).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "pending counts cache invalidation failed", "error", err)
	}
}
