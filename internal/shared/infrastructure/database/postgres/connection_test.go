package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	t.Run("requires a URL", func(t *testing.T) {
		_, err := poolConfig(database.Config{})
		assert.ErrorContains(t, err, "database URL is required")
	})

	t.Run("rejects a malformed URL", func(t *testing.T) {
		_, err := poolConfig(database.Config{URL: "postgres://user@host:notaport/db"})
		assert.ErrorContains(t, err, "failed to parse database URL")
	})

	t.Run("applies max conns and application name", func(t *testing.T) {
		pc, err := poolConfig(database.Config{URL: "postgres://user:pw@localhost:5432/catalog", MaxConns: 7})
		require.NoError(t, err)
		assert.Equal(t, int32(7), pc.MaxConns)
		assert.Equal(t, ApplicationName, pc.ConnConfig.RuntimeParams["application_name"])
	})

	t.Run("keeps an application name from the URL", func(t *testing.T) {
		pc, err := poolConfig(database.Config{URL: "postgres://localhost/catalog?application_name=catalog-worker"})
		require.NoError(t, err)
		assert.Equal(t, "catalog-worker", pc.ConnConfig.RuntimeParams["application_name"])
	})
}

func TestNewConnection_RequiresURL(t *testing.T) {
	_, err := database.Open(context.Background(), database.Config{Driver: database.DriverPostgres})
	assert.Error(t, err)
}

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	conn, err := NewConnection(context.Background(), database.Config{URL: dbURL})
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestConnection_UnitOfWork(t *testing.T) {
	conn := openTestConnection(t)
	ctx := context.Background()
	assert.Equal(t, database.DriverPostgres, conn.Driver())
	require.NoError(t, conn.Ping(ctx))

	// Pooled connections do not share temp tables, so use a real one.
	table := "uow_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err := conn.Exec(ctx, `CREATE TABLE `+table+` (n INTEGER)`)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = conn.Exec(context.Background(), `DROP TABLE `+table) })

	uow := database.NewUnitOfWork(conn)
	count := func() int {
		var n int
		require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n))
		return n
	}

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	res, err := database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO `+table+` (n) VALUES ($1), ($2)`, 1, 2)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	require.NoError(t, uow.Rollback(txCtx))
	assert.Equal(t, 0, count())

	var seen int
	txCtx, err = uow.Begin(ctx)
	require.NoError(t, err)
	_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO `+table+` (n) VALUES ($1)`, 3)
	require.NoError(t, err)
	database.AfterCommit(txCtx, func(context.Context) { seen = count() })
	require.NoError(t, uow.Commit(txCtx))
	assert.Equal(t, 1, seen, "hooks observe committed rows")

	rows, err := conn.Query(ctx, `SELECT n FROM `+table)
	require.NoError(t, err)
	defer rows.Close()
	var values []int
	for rows.Next() {
		var n int
		require.NoError(t, rows.Scan(&n))
		values = append(values, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{3}, values)
}
