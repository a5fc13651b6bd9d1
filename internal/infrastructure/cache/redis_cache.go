// Package cache keeps fetched ledger entry sets in redis between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/tradebook-api/internal/domain/enum"
	"github.com/sangkips/tradebook-api/internal/domain/ledger"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
)

const namespace = "ledger:entries"

// RedisCache stores each fetched entry set under a key derived from the
// tenant and filter, and tracks the keys of a ledger in a set so a payment
// can drop all of them at once.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache wraps an existing client
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient connects to a single redis node and checks it answers
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

var _ domainRepo.LedgerCache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, tenantID uuid.UUID, filter domainRepo.EntryFilter) ([]ledger.Entry, bool, error) {
	raw, err := c.client.Get(ctx, entriesKey(tenantID, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []ledger.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// a stale layout is a miss, not a failure
		return nil, false, nil
	}
	return entries, true, nil
}

func (c *RedisCache) Set(ctx context.Context, tenantID uuid.UUID, filter domainRepo.EntryFilter, entries []ledger.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	key := entriesKey(tenantID, filter)
	index := indexKey(tenantID, filter.LedgerType)

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)
		pipe.SAdd(ctx, index, key)
		pipe.Expire(ctx, index, c.ttl)
		return nil
	})
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, tenantID uuid.UUID, ledgerType enum.LedgerType) error {
	index := indexKey(tenantID, ledgerType)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	keys = append(keys, index)
	return c.client.Del(ctx, keys...).Err()
}

func entriesKey(tenantID uuid.UUID, filter domainRepo.EntryFilter) string {
	entity := filter.EntityID
	if entity == "" {
		entity = "all"
	}
	key := fmt.Sprintf("%s:%s:%s:%s:%d", namespace, tenantID, filter.LedgerType, entity, filter.Limit)
	if filter.ReferenceID != "" {
		key += ":ref:" + filter.ReferenceID
	}
	return key
}

func indexKey(tenantID uuid.UUID, ledgerType enum.LedgerType) string {
	return fmt.Sprintf("%s:%s:%s:index", namespace, tenantID, ledgerType)
}

// Noop is used when no redis address is configured
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, domainRepo.EntryFilter) ([]ledger.Entry, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, uuid.UUID, domainRepo.EntryFilter, []ledger.Entry) error {
	return nil
}

func (Noop) Invalidate(context.Context, uuid.UUID, enum.LedgerType) error {
	return nil
}
