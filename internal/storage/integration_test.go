package storage

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/persistence"
)

func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis storage test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	exerciseStore(t, NewRedis(client, "storefront-test"))
}

func TestPostgres_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping postgres storage test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))

	exerciseStore(t, NewPostgres(pool, "storefront-test"))
}
