package database

import (
	"context"
	"database/sql"
	"sync"
)

// Row is a single result row. pgx.Row and *sql.Row satisfy it as is.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor. *sql.Rows satisfies it directly; pgx rows are
// adapted by the postgres package.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of an Exec. sql.Result satisfies it directly.
// Generated keys are read with RETURNING, never with LastInsertId.
type Result interface {
	RowsAffected() (int64, error)
}

var (
	_ Rows   = (*sql.Rows)(nil)
	_ Result = sql.Result(nil)
)

// Executor runs queries. Repositories never hold one: they resolve it per
// call with ExecutorFromContext so they join the caller's unit of work.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be finished.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled database handle. Placeholder syntax is driver
// specific: "?" for SQLite, "$n" for PostgreSQL.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

type txKey struct{}

// txState is what a unit of work stores in the context. Joined units share
// the hooks of the unit that owns the transaction.
type txState struct {
	tx    Transaction
	owned bool
	hooks *commitHooks
}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

func (h *commitHooks) add(fn func(ctx context.Context)) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

// drain returns the registered hooks and forgets them.
func (h *commitHooks) drain() []func(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

func txFromContext(ctx context.Context) (txState, bool) {
	state, ok := ctx.Value(txKey{}).(txState)
	if !ok || state.tx == nil {
		return txState{}, false
	}
	return state, true
}

// withoutTx hides the transaction of ctx. After-commit hooks run with it so
// they never touch a finished transaction.
func withoutTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, txState{})
}

// ExecutorFromContext returns the transaction carried by ctx, otherwise conn.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if state, ok := txFromContext(ctx); ok {
		return state.tx
	}
	return conn
}

// InTransaction reports whether ctx carries an open unit of work.
func InTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

// AfterCommit schedules fn to run once the transaction in ctx has committed.
// It is dropped on rollback. Without a transaction nothing is scheduled and
// AfterCommit returns false, so the caller can run fn itself.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) bool {
	state, ok := txFromContext(ctx)
	if !ok || state.hooks == nil {
		return false
	}
	state.hooks.add(fn)
	return true
}
