// internal/records/cache.go
package records

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const cachePrefix = "intro:supply:"

// SupplyCache keeps loaded supply pools in Redis, keyed by segment and
// search query.
type SupplyCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSupplyCache(client redis.Cmdable, ttl time.Duration) *SupplyCache {
	return &SupplyCache{client: client, ttl: ttl}
}

// CacheKey returns the Redis key for a supply pool.
func CacheKey(segment, query string) string {
	key := cachePrefix + segment
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		key += ":" + q
	}
	return key
}

// Get returns the cached pool and whether it was present.
func (c *SupplyCache) Get(ctx context.Context, key string) ([]models.SupplyRecord, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewSupplyCacheFailedError(err)
	}

	var pool []models.SupplyRecord
	if err := json.Unmarshal(val, &pool); err != nil {
		return nil, false, errors.NewSupplyCacheFailedError(err)
	}
	return pool, true, nil
}

func (c *SupplyCache) Set(ctx context.Context, key string, pool []models.SupplyRecord) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return errors.NewSupplyCacheFailedError(err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.NewSupplyCacheFailedError(err)
	}
	return nil
}

func (c *SupplyCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.NewSupplyCacheFailedError(err)
	}
	return nil
}
