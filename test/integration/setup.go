package integration

import (
	"context"
	"testing"
	"time"

	"retro-hunt/internal/config"
	"retro-hunt/internal/database"
	"retro-hunt/internal/feed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a disposable feed mirror database.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Config    config.DatabaseConfig
}

// SetupTestDB starts PostgreSQL in a container and creates the feed mirror table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("retrohunt"),
		postgres.WithUsername("retrohunt"),
		postgres.WithPassword("retrohunt"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "retrohunt",
		Password:        "retrohunt",
		Name:            "retrohunt",
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	require.NoError(t, err, "failed to create connection pool")
	t.Cleanup(pool.Close)

	require.NoError(t, database.EnsureFeedTable(ctx, pool, feed.DefaultTable))

	return &TestDB{
		Container: container,
		Pool:      pool,
		Config:    dbConfig,
	}
}

// seedRows mirrors a small curation sheet. Row 3 is not approved, row 2 has a
// formatted price and row 5 has neither a price nor a link.
var seedRows = []feed.Row{
	{
		feed.ColStatus: "Approve", feed.ColID: "1", feed.ColProductName: "Canon AE-1 Program",
		feed.ColPriceYen: "25000", feed.ColCategory: "Camera", feed.ColIsFeatured: "TRUE",
		feed.ColSourceURL: "https://page.auctions.yahoo.co.jp/jp/auction/x987654321",
	},
	{
		feed.ColStatus: "Approve", feed.ColID: "2", feed.ColProductName: "Nintendo Game Boy Color",
		feed.ColPriceYen: "12,000円", feed.ColCategory: "Game", feed.ColIsFeatured: "true",
		feed.ColSourceURL: "https://auctions.yahoo.co.jp/search/search/gameboy/0/",
	},
	{
		feed.ColStatus: "Pending", feed.ColID: "3", feed.ColProductName: "Seiko 5 Sports",
		feed.ColPriceYen: "45000", feed.ColCategory: "Watch", feed.ColIsFeatured: "TRUE",
	},
	{
		feed.ColStatus: "Approve", feed.ColID: "4", feed.ColProductName: "Contax T2",
		feed.ColPriceYen: "150000", feed.ColCategory: "Camera", feed.ColIsFeatured: "FALSE",
		feed.ColSourceURL: "https://ebay.com/itm/example-contax",
	},
	{
		feed.ColStatus: "Approve", feed.ColID: "5", feed.ColProductName: "Casio G-Shock DW-5600C",
		feed.ColPriceYen: "abc", feed.ColCategory: "Watch",
	},
}

// SeedFeed replaces the mirror table contents with seedRows.
func SeedFeed(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	n, err := database.ReplaceFeedRows(context.Background(), pool, feed.DefaultTable, seedRows)
	require.NoError(t, err, "failed to seed feed rows")
	require.EqualValues(t, len(seedRows), n)
}

// CleanupDB empties the mirror table.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := database.ReplaceFeedRows(context.Background(), pool, feed.DefaultTable, nil)
	require.NoError(t, err, "failed to clean feed table")
}
