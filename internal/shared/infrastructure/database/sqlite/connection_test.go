package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "nested", "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewConnection(t *testing.T) {
	conn := openTestConnection(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestOpen_UsesRegisteredDriver(t *testing.T) {
	conn, err := database.Open(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		dsn("a.db"))
	assert.Contains(t, dsn("a.db?mode=ro"), "a.db?mode=ro&_pragma=")
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	_, err := conn.Exec(ctx, `CREATE TABLE titles (id TEXT PRIMARY KEY, title TEXT NOT NULL)`)
	require.NoError(t, err)

	result, err := conn.Exec(ctx, `INSERT INTO titles (id, title) VALUES (?, ?), (?, ?)`, "1", "Widget", "2", "Gadget")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var title string
	require.NoError(t, conn.QueryRow(ctx, `SELECT title FROM titles WHERE id = ?`, "1").Scan(&title))
	assert.Equal(t, "Widget", title)

	rows, err := conn.Query(ctx, `SELECT title FROM titles ORDER BY title`)
	require.NoError(t, err)
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t2 string
		require.NoError(t, rows.Scan(&t2))
		titles = append(titles, t2)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Gadget", "Widget"}, titles)
}

func TestConnection_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	_, err := conn.Exec(ctx, `CREATE TABLE titles (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO titles (id) VALUES (?)`, "1")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM titles`).Scan(&count))
	assert.Equal(t, 0, count)
}
