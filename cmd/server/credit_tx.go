package main

import (
	"context"
	"database/sql"
	"time"

	creditservice "credito/internal/credit/service"
	creditstore "credito/internal/credit/store"
	dErrors "credito/pkg/domain-errors"
)

const defaultCreditTxTimeout = 5 * time.Second

// creditPostgresTx runs service callbacks inside one database transaction.
type creditPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newCreditPostgresTx(db *sql.DB) *creditPostgresTx {
	return &creditPostgresTx{db: db}
}

func (t *creditPostgresTx) RunInTx(ctx context.Context, fn func(store creditservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultCreditTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(creditstore.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit transaction")
	}
	return nil
}

