package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/expense-tracker/internal/models"
)

func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())

	return client, func() {
		client.Close()
		container.Terminate(context.Background())
	}
}

func TestExpenseCacheRepository(t *testing.T) {
	client, teardown := setupRedis(t)
	defer teardown()

	ctx := context.Background()
	cache := NewExpenseCacheRepository(client, time.Minute)

	_, ok, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	d, _ := models.ParseDate("2024-01-01")
	c, _ := models.ParseClockTime("09:00")
	list := []models.Expense{{ID: 1, UserID: 7, Date: d, Time: c, ItemName: "coffee", Amount: 4.5, Currency: "USD"}}
	version, err := cache.Version(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, 7, version, list))

	got, ok, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "coffee", got[0].ItemName)
	assert.Equal(t, "2024-01-01", got[0].Date.String())

	ttl, err := client.TTL(ctx, expenseListKey(7)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx, 7))
	_, ok, err = cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpenseCacheRepository_SetAfterInvalidateIsDropped(t *testing.T) {
	client, teardown := setupRedis(t)
	defer teardown()

	ctx := context.Background()
	cache := NewExpenseCacheRepository(client, time.Minute)
	list := []models.Expense{{ID: 1, UserID: 9, ItemName: "tea"}}

	version, err := cache.Version(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// a write commits and invalidates while the old list is being loaded
	require.NoError(t, cache.Invalidate(ctx, 9))

	require.NoError(t, cache.Set(ctx, 9, version, list))
	_, ok, err := cache.Get(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok, "list read before the invalidation must not be cached")

	version, err = cache.Version(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, cache.Set(ctx, 9, version, list))
	got, ok, err := cache.Get(ctx, 9)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tea", got[0].ItemName)
}

func TestExpenseCacheRepository_ConnectionError(t *testing.T) {
	// nothing listens on port 1
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	cache := NewExpenseCacheRepository(client, time.Minute)
	_, ok, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestExpenseListKey(t *testing.T) {
	assert.Equal(t, "expenses:user:42", expenseListKey(42))
	assert.Equal(t, "expenses:user:42:version", expenseVersionKey(42))
}
