package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-organization-api/internal/adapters/persistence/models"
)

// LoanTypesKey holds the serialized loan type catalog.
const LoanTypesKey = "credit:loan_types:all"

// LoanTypeCache keeps the loan type catalog in Redis as JSON
type LoanTypeCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewLoanTypeCache creates a Redis-backed loan type cache
func NewLoanTypeCache(rdb redis.Cmdable, ttl time.Duration) *LoanTypeCache {
	return &LoanTypeCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached catalog; ok is false on a miss
func (c *LoanTypeCache) Get(ctx context.Context) ([]*models.LoanTypeResponse, bool, error) {
	var items []*models.LoanTypeResponse
	ok, err := getJSON(ctx, c.rdb, LoanTypesKey, &items)
	if err != nil || !ok {
		return nil, false, err
	}
	return items, true, nil
}

// Set stores the catalog until the TTL expires
func (c *LoanTypeCache) Set(ctx context.Context, items []*models.LoanTypeResponse) error {
	return setJSON(ctx, c.rdb, LoanTypesKey, items, c.ttl)
}

// Invalidate drops the cached catalog
func (c *LoanTypeCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, LoanTypesKey).Err()
}

func getJSON(ctx context.Context, rdb redis.Cmdable, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(val, dest)
}

func setJSON(ctx context.Context, rdb redis.Cmdable, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}
