package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned by Commit and Rollback outside a unit of work.
var ErrNoTransaction = errors.New("no transaction in context")

// UnitOfWork implements application.UnitOfWork for any registered driver.
// Nested Begin calls join the outer transaction.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a UnitOfWork over conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin starts a transaction and stores it in the context.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if state, ok := txFromContext(ctx); ok {
		return context.WithValue(ctx, txKey{}, txState{tx: state.tx, hooks: state.hooks}), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey{}, txState{tx: tx, owned: true, hooks: &commitHooks{}}), nil
}

// Commit commits the transaction if this unit owns it, then runs the hooks
// registered with AfterCommit in registration order.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	state, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !state.owned {
		return nil
	}
	if err := state.tx.Commit(ctx); err != nil {
		state.hooks.drain()
		return err
	}

	hookCtx := withoutTx(ctx)
	for _, fn := range state.hooks.drain() {
		fn(hookCtx)
	}
	return nil
}

// Rollback rolls back the transaction if this unit owns it and discards the
// after-commit hooks.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	state, ok := txFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !state.owned {
		return nil
	}
	state.hooks.drain()
	return state.tx.Rollback(ctx)
}
