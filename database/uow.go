package database

import (
	"context"
	"database/sql"
	"errors"
)

// Executor is the statement surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// UnitOfWork groups writes that must commit or roll back together. Every write
// method on the datasource takes one explicitly.
//
// Rollback after Commit is a no-op, so callers may always defer Rollback.
type UnitOfWork interface {
	Executor() Executor
	Commit() error
	Rollback() error
}

type txUnitOfWork struct {
	tx     *sql.Tx
	cancel context.CancelFunc
}

// Begin opens a unit of work bounded by the datasource timeout.
func (d Datasource) Begin(ctx context.Context) (UnitOfWork, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	return &txUnitOfWork{tx: tx, cancel: cancel}, nil
}

func (u *txUnitOfWork) Executor() Executor {
	return u.tx
}

func (u *txUnitOfWork) Commit() error {
	defer u.cancel()
	return u.tx.Commit()
}

func (u *txUnitOfWork) Rollback() error {
	defer u.cancel()
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// exec returns the unit of work's executor, or the pool when uow is nil.
func (d Datasource) exec(uow UnitOfWork) Executor {
	if uow == nil {
		return d.Conn
	}
	return uow.Executor()
}
