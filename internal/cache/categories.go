// Package cache provides a read-through Redis cache in front of the
// work-category directory. Resolution of default WBS codes sits on the
// append hot path; the cache keeps repeated department lookups off Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crewledger-systems/crewledger/internal/metrics"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// CategoryCache decorates a repository.Directory. With no Redis client it is
// a transparent pass-through.
type CategoryCache struct {
	next   repository.Directory
	client *redis.Client
	ttl    time.Duration
}

func NewCategoryCache(next repository.Directory, client *redis.Client, ttl time.Duration) *CategoryCache {
	return &CategoryCache{next: next, client: client, ttl: ttl}
}

func (c *CategoryCache) enabled() bool {
	return c.client != nil
}

func categoryKey(code string) string {
	return "crewledger:category:" + code
}

func defaultKey(departmentID string) string {
	return "crewledger:category:default:" + departmentID
}

// GetEmployee is not cached; employee records change too often to be worth
// staleness on the ownership checks.
func (c *CategoryCache) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return c.next.GetEmployee(ctx, id)
}

func (c *CategoryCache) GetWorkCategory(ctx context.Context, code string) (*models.WorkCategory, error) {
	return c.lookup(ctx, categoryKey(code), func(ctx context.Context) (*models.WorkCategory, error) {
		return c.next.GetWorkCategory(ctx, code)
	})
}

func (c *CategoryCache) DefaultWorkCategory(ctx context.Context, departmentID string) (*models.WorkCategory, error) {
	return c.lookup(ctx, defaultKey(departmentID), func(ctx context.Context) (*models.WorkCategory, error) {
		return c.next.DefaultWorkCategory(ctx, departmentID)
	})
}

func (c *CategoryCache) lookup(ctx context.Context, key string, fetch func(context.Context) (*models.WorkCategory, error)) (*models.WorkCategory, error) {
	if !c.enabled() {
		return fetch(ctx)
	}

	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cat models.WorkCategory
		if jsonErr := json.Unmarshal([]byte(data), &cat); jsonErr == nil {
			metrics.CategoryCacheHits.Inc()
			return &cat, nil
		}
		// Unreadable entry: fall through and refresh it.
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take the append path with it.
		return fetch(ctx)
	}

	metrics.CategoryCacheMisses.Inc()
	cat, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(cat); jsonErr == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return cat, nil
}

// Invalidate removes the cached entries for a category code and its
// department default. Called after category writes.
func (c *CategoryCache) Invalidate(ctx context.Context, code, departmentID string) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Del(ctx, categoryKey(code), defaultKey(departmentID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate category cache: %w", err)
	}
	return nil
}
