package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/models"
)

// ExpenseCacheRepository caches per-user expense lists in Redis.
type ExpenseCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration of a cached list
}

// NewExpenseCacheRepository creates a new cache with the given TTL.
func NewExpenseCacheRepository(client *redis.Client, expiration time.Duration) *ExpenseCacheRepository {
	return &ExpenseCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func expenseListKey(userID int64) string {
	return fmt.Sprintf("expenses:user:%d", userID)
}

// expenseVersionKey counts invalidations of a user's list.
func expenseVersionKey(userID int64) string {
	return fmt.Sprintf("expenses:user:%d:version", userID)
}

// Get returns the cached list for userID. ok is false on a cache miss.
func (r *ExpenseCacheRepository) Get(ctx context.Context, userID int64) (expenses []models.Expense, ok bool, err error) {
	key := expenseListKey(userID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.Log.Debugw("cache miss", "key", key)
			return nil, false, nil
		}
		logger.Log.Infow("key", key, "error", err)
		return nil, false, err
	}

	if err := json.Unmarshal(val, &expenses); err != nil {
		logger.Log.Infow("key", key, "value", string(val), "error", err)
		return nil, false, err
	}

	logger.Log.Debugw("cache hit", "key", key, "count", len(expenses))
	return expenses, true, nil
}

// Version returns the invalidation counter for userID. Pass it to Set
// after loading the list from the database.
func (r *ExpenseCacheRepository) Version(ctx context.Context, userID int64) (int64, error) {
	version, err := r.client.Get(ctx, expenseVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// Set stores the list for userID with the configured expiration, unless
// the list was invalidated after version was read.
func (r *ExpenseCacheRepository) Set(ctx context.Context, userID int64, version int64, expenses []models.Expense) error {
	key := expenseListKey(userID)
	versionKey := expenseVersionKey(userID)

	data, err := json.Marshal(expenses)
	if err != nil {
		return err
	}

	stale := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			stale = true
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.exp)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		stale, err = true, nil
	}

	logger.Log.Infow(
		"key", key,
		"count", len(expenses),
		"stale", stale,
		"error", err,
	)
	return err
}

// Invalidate drops the cached list for userID.
func (r *ExpenseCacheRepository) Invalidate(ctx context.Context, userID int64) error {
	key := expenseListKey(userID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, expenseVersionKey(userID))
		pipe.Del(ctx, key)
		return nil
	})
	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)
	return err
}
